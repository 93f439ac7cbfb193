package storage

import "testing"

func TestTableHeapInsertReadUpdateDelete(t *testing.T) {
	h := NewTableHeap()
	handle, err := h.Insert([]byte("row1"))
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	got, live, err := h.Read(handle)
	if err != nil || !live || string(got) != "row1" {
		t.Fatalf("Read = (%q, %v, %v), want (row1, true, nil)", got, live, err)
	}

	if err := h.Update(handle, []byte("row!")); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	got, _, _ = h.Read(handle)
	if string(got) != "row!" {
		t.Fatalf("got %q after update, want row!", got)
	}

	if err := h.Delete(handle); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, live, _ := h.Read(handle); live {
		t.Fatalf("expected row to be deleted")
	}
}

func TestTableHeapFullScanPreservesInsertionOrder(t *testing.T) {
	h := NewTableHeap()
	want := []string{"a", "b", "c"}
	for _, s := range want {
		if _, err := h.Insert([]byte(s)); err != nil {
			t.Fatalf("Insert returned error: %v", err)
		}
	}
	_, rows, err := h.FullScan()
	if err != nil {
		t.Fatalf("FullScan returned error: %v", err)
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i, w := range want {
		if string(rows[i]) != w {
			t.Fatalf("rows[%d] = %q, want %q", i, rows[i], w)
		}
	}
}

func TestTableHeapFullScanSkipsDeletedRows(t *testing.T) {
	h := NewTableHeap()
	h1, _ := h.Insert([]byte("keep"))
	h2, _ := h.Insert([]byte("drop"))
	if err := h.Delete(h2); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	handles, rows, err := h.FullScan()
	if err != nil {
		t.Fatalf("FullScan returned error: %v", err)
	}
	if len(rows) != 1 || string(rows[0]) != "keep" || handles[0] != h1 {
		t.Fatalf("expected only the surviving row, got %v %v", handles, rows)
	}
}

func TestTableHeapAllocatesNewPageWhenFull(t *testing.T) {
	h := NewTableHeap()
	payload := make([]byte, 512)
	for i := 0; i < PageSize; i++ {
		if _, err := h.Insert(payload); err != nil {
			break
		}
	}
	// The heap should have allocated a second page rather than failing.
	if _, err := h.Insert([]byte("fits on a new page")); err != nil {
		t.Fatalf("expected insert to succeed on a freshly allocated page, got %v", err)
	}
	if len(h.pages) < 2 {
		t.Fatalf("expected at least 2 pages, got %d", len(h.pages))
	}
}
