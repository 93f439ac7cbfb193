package storage

import "sync"

// Handle identifies one stored row: the page it lives on and its slot
// within that page.
type Handle struct {
	Page PageID
	Slot SlotID
}

// TableHeap is the in-memory page collection for one table. Scans take a
// read lock; inserts, updates, and deletes take a write lock.
type TableHeap struct {
	mu     sync.RWMutex
	pages  []*Page
	nextID PageID
}

// NewTableHeap returns an empty heap.
func NewTableHeap() *TableHeap {
	return &TableHeap{nextID: 1}
}

// Insert finds or allocates a page with enough free space for payload and
// returns a stable handle to the new row.
func (h *TableHeap) Insert(payload []byte) (Handle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, p := range h.pages {
		if slotID, err := p.Insert(payload); err == nil {
			return Handle{Page: p.ID(), Slot: slotID}, nil
		} else if err != ErrNoSpace {
			return Handle{}, err
		}
	}

	p := NewPage(h.nextID)
	h.nextID++
	h.pages = append(h.pages, p)
	slotID, err := p.Insert(payload)
	if err != nil {
		return Handle{}, err
	}
	return Handle{Page: p.ID(), Slot: slotID}, nil
}

// Read returns the payload at handle, or ok=false if the row has been
// deleted.
func (h *TableHeap) Read(handle Handle) ([]byte, bool, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	p := h.findPage(handle.Page)
	if p == nil {
		return nil, false, ErrInvalidSlot
	}
	return p.Read(handle.Slot)
}

// Update overwrites a row's payload in place.
func (h *TableHeap) Update(handle Handle, payload []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	p := h.findPage(handle.Page)
	if p == nil {
		return ErrInvalidSlot
	}
	return p.Update(handle.Slot, payload)
}

// Delete marks a row not-live.
func (h *TableHeap) Delete(handle Handle) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	p := h.findPage(handle.Page)
	if p == nil {
		return ErrInvalidSlot
	}
	return p.Delete(handle.Slot)
}

// FullScan yields every live (handle, payload) pair in insertion order.
func (h *TableHeap) FullScan() ([]Handle, [][]byte, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var handles []Handle
	var rows [][]byte
	for _, p := range h.pages {
		for s := uint16(0); s < p.SlotCount(); s++ {
			payload, live, err := p.Read(SlotID(s))
			if err != nil {
				return nil, nil, err
			}
			if !live {
				continue
			}
			handles = append(handles, Handle{Page: p.ID(), Slot: SlotID(s)})
			rows = append(rows, payload)
		}
	}
	return handles, rows, nil
}

func (h *TableHeap) findPage(id PageID) *Page {
	for _, p := range h.pages {
		if p.ID() == id {
			return p
		}
	}
	return nil
}
