package storage

import "encoding/binary"

// EncodePage serializes a page into a fixed PageSize buffer: an 8-byte
// little-endian page id, three 2-byte header counters, 2 bytes of padding,
// then the slot directory (offset/length/live, little-endian, 2 bytes of
// padding each), and finally the raw data region untouched.
func EncodePage(p *Page) [PageSize]byte {
	var out [PageSize]byte
	out = p.data

	binary.LittleEndian.PutUint64(out[0:8], uint64(p.header.pageID))
	binary.LittleEndian.PutUint16(out[8:10], p.header.slotCount)
	binary.LittleEndian.PutUint16(out[10:12], p.header.freeStart)
	binary.LittleEndian.PutUint16(out[12:14], p.header.freeEnd)
	binary.LittleEndian.PutUint16(out[14:16], 0)

	for i := 0; i < int(p.header.slotCount) && i < maxSlots; i++ {
		s := p.slots[i]
		base := headerSize + i*slotSize
		binary.LittleEndian.PutUint16(out[base:base+2], s.offset)
		binary.LittleEndian.PutUint16(out[base+2:base+4], s.length)
		live := uint16(0)
		if s.live {
			live = 1
		}
		binary.LittleEndian.PutUint16(out[base+4:base+6], live)
		binary.LittleEndian.PutUint16(out[base+6:base+8], 0)
	}

	return out
}

// DecodePage parses a PageSize buffer back into a Page. The decoded slot
// count is clamped to maxSlots.
func DecodePage(buf [PageSize]byte) *Page {
	p := &Page{data: buf}
	p.header.pageID = PageID(binary.LittleEndian.Uint64(buf[0:8]))
	p.header.slotCount = binary.LittleEndian.Uint16(buf[8:10])
	p.header.freeStart = binary.LittleEndian.Uint16(buf[10:12])
	p.header.freeEnd = binary.LittleEndian.Uint16(buf[12:14])

	count := int(p.header.slotCount)
	if count > maxSlots {
		count = maxSlots
		p.header.slotCount = uint16(count)
	}
	for i := 0; i < count; i++ {
		base := headerSize + i*slotSize
		offset := binary.LittleEndian.Uint16(buf[base : base+2])
		length := binary.LittleEndian.Uint16(buf[base+2 : base+4])
		live := binary.LittleEndian.Uint16(buf[base+4:base+6]) != 0
		p.slots[i] = slot{offset: offset, length: length, live: live}
	}

	return p
}
