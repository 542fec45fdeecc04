package protocol

// Reader is a forward-only cursor over one frame.
type Reader struct {
	data   []byte
	offset int
}

// NewReader wraps b for decoding. b is never modified.
func NewReader(b []byte) *Reader {
	return &Reader{data: b}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.offset
}

// Offset returns the current read position.
func (r *Reader) Offset() int {
	return r.offset
}

// Next consumes n bytes and returns them without copying.
func (r *Reader) Next(n int) ([]byte, error) {
	if n < 0 || r.offset+n > len(r.data) {
		return nil, ErrTruncatedFrame
	}
	b := r.data[r.offset : r.offset+n]
	r.offset += n
	return b, nil
}

// Decode reads parts in order from r under one schema name.
func Decode(r *Reader, schema string, parts ...Fielder) error {
	c := &Coder{mode: modeDecode, schema: schema, r: r}
	for _, p := range parts {
		p.Fields(c)
		if c.err != nil {
			return c.err
		}
	}
	return nil
}

// Unmarshal decodes a single headerless structure from b.
func Unmarshal(b []byte, body Body) error {
	return Decode(NewReader(b), body.Name(), body)
}
