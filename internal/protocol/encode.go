package protocol

// Writer is an append-only byte buffer for encoding.
type Writer struct {
	data []byte
}

// NewWriter returns a Writer pre-allocated with the given capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{data: make([]byte, 0, capacity)}
}

// Bytes returns the accumulated encoded bytes.
func (w *Writer) Bytes() []byte {
	return w.data
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.data)
}

// Next extends the buffer by n zero bytes and returns them for writing.
func (w *Writer) Next(n int) []byte {
	off := len(w.data)
	for i := 0; i < n; i++ {
		w.data = append(w.data, 0)
	}
	return w.data[off : off+n]
}

// Encode writes parts in order to w under one schema name.
func Encode(w *Writer, schema string, parts ...Fielder) error {
	c := &Coder{mode: modeEncode, schema: schema, w: w}
	for _, p := range parts {
		p.Fields(c)
		if c.err != nil {
			return c.err
		}
	}
	return nil
}

// Marshal encodes a single headerless structure.
func Marshal(body Body) ([]byte, error) {
	w := NewWriter(32)
	if err := Encode(w, body.Name(), body); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}
