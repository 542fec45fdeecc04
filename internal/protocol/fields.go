package protocol

import (
	"encoding/binary"
	"fmt"
)

type mode uint8

const (
	modeDecode mode = iota
	modeEncode
	modeDescribe
	modeInspect
)

// Coder runs one field walk in decode, encode, describe or inspect mode.
// The first error stops the walk; later field calls are no-ops.
type Coder struct {
	mode   mode
	schema string
	r      *Reader
	w      *Writer
	offset int
	fields []Descriptor
	values []Value
	err    error
}

func (c *Coder) truncated(field string, need int) error {
	return TruncatedFrameError{Schema: c.schema, Field: field, Need: need, Have: c.r.Remaining()}
}

func (c *Coder) encodeErr(field, format string, args ...any) error {
	return FieldEncodingError{Schema: c.schema, Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (c *Coder) fixed(d Descriptor, dec func(b []byte) error, enc func(b []byte) error, val func() any) {
	if c.err != nil {
		return
	}
	d.Offset = c.offset
	c.offset += d.Width
	switch c.mode {
	case modeDecode:
		b, err := c.r.Next(d.Width)
		if err != nil {
			c.err = c.truncated(d.Name, d.Width)
			return
		}
		if err := dec(b); err != nil {
			c.err = err
		}
	case modeEncode:
		if err := enc(c.w.Next(d.Width)); err != nil {
			c.err = err
		}
	case modeDescribe:
		c.fields = append(c.fields, d)
	case modeInspect:
		c.values = append(c.values, Value{Name: d.Name, Kind: d.Kind, Value: val()})
	}
}

// U8 codes an unsigned byte. Enumerations over uint8 pass through typed.
func U8[T ~uint8](c *Coder, name string, p *T) {
	c.fixed(Descriptor{Name: name, Kind: KindUint, Width: 1},
		func(b []byte) error { *p = T(b[0]); return nil },
		func(b []byte) error { b[0] = uint8(*p); return nil },
		func() any { return *p })
}

// U16 codes a little-endian 16-bit unsigned integer.
func U16[T ~uint16](c *Coder, name string, p *T) {
	c.fixed(Descriptor{Name: name, Kind: KindUint, Width: 2},
		func(b []byte) error { *p = T(binary.LittleEndian.Uint16(b)); return nil },
		func(b []byte) error { binary.LittleEndian.PutUint16(b, uint16(*p)); return nil },
		func() any { return *p })
}

// U32 codes a little-endian 32-bit unsigned integer.
func U32[T ~uint32](c *Coder, name string, p *T) {
	c.fixed(Descriptor{Name: name, Kind: KindUint, Width: 4},
		func(b []byte) error { *p = T(binary.LittleEndian.Uint32(b)); return nil },
		func(b []byte) error { binary.LittleEndian.PutUint32(b, uint32(*p)); return nil },
		func() any { return *p })
}

// S8 codes a two's-complement signed byte, e.g. an RSSI reading.
func S8[T ~int8](c *Coder, name string, p *T) {
	c.fixed(Descriptor{Name: name, Kind: KindInt, Width: 1},
		func(b []byte) error { *p = T(int8(b[0])); return nil },
		func(b []byte) error { b[0] = byte(int8(*p)); return nil },
		func() any { return *p })
}

// Flag codes a one-byte boolean. Any non-zero byte decodes as true.
func (c *Coder) Flag(name string, p *bool) {
	c.fixed(Descriptor{Name: name, Kind: KindBool, Width: 1},
		func(b []byte) error { *p = b[0] != 0; return nil },
		func(b []byte) error {
			if *p {
				b[0] = 1
			}
			return nil
		},
		func() any { return *p })
}

// Bytes codes a fixed-length byte sequence copied verbatim.
func (c *Coder) Bytes(name string, width int, p *[]byte) {
	c.fixed(Descriptor{Name: name, Kind: KindBytes, Width: width},
		func(b []byte) error {
			*p = append([]byte(nil), b...)
			return nil
		},
		func(b []byte) error {
			if len(*p) != width {
				return c.encodeErr(name, "length %d, want %d", len(*p), width)
			}
			copy(b, *p)
			return nil
		},
		func() any { return *p })
}

// Text codes fixed-width text. Bytes are copied verbatim, including any
// embedded terminator and the padding after it.
func (c *Coder) Text(name string, width int, p *string) {
	c.fixed(Descriptor{Name: name, Kind: KindText, Width: width},
		func(b []byte) error {
			*p = string(b)
			return nil
		},
		func(b []byte) error {
			if len(*p) != width {
				return c.encodeErr(name, "length %d, want %d", len(*p), width)
			}
			copy(b, *p)
			return nil
		},
		func() any { return *p })
}

// Addr codes a 6-byte hardware address.
func (c *Coder) Addr(name string, p *HardwareAddr) {
	c.fixed(Descriptor{Name: name, Kind: KindAddr, Width: AddrLen},
		func(b []byte) error { copy(p[:], b); return nil },
		func(b []byte) error { copy(b, p[:]); return nil },
		func() any { return *p })
}

// Magic codes a constant synchronization byte.
func (c *Coder) Magic(name string, want byte) {
	off := c.offset
	c.fixed(Descriptor{Name: name, Kind: KindMagic, Width: 1},
		func(b []byte) error {
			if b[0] != want {
				return FramingError{Offset: off, Got: b[0], Want: want}
			}
			return nil
		},
		func(b []byte) error { b[0] = want; return nil },
		func() any { return want })
}

// OptionalU16 codes a trailing 16-bit field that is decoded only when at
// least two bytes remain. A short tail decodes as absent, never as an error.
func (c *Coder) OptionalU16(name string, p *Optional16) {
	if c.err != nil {
		return
	}
	d := Descriptor{Name: name, Kind: KindUint, Width: 2, Offset: c.offset, Optional: true}
	switch c.mode {
	case modeDecode:
		if c.r.Remaining() < d.Width {
			*p = Optional16{}
			return
		}
		b, _ := c.r.Next(d.Width)
		*p = Some(binary.LittleEndian.Uint16(b))
		c.offset += d.Width
	case modeEncode:
		if !p.Present {
			return
		}
		binary.LittleEndian.PutUint16(c.w.Next(d.Width), p.Value)
		c.offset += d.Width
	case modeDescribe:
		c.fields = append(c.fields, d)
	case modeInspect:
		c.values = append(c.values, Value{Name: name, Kind: d.Kind, Value: *p})
	}
}

// Tail codes every remaining byte of the frame.
func (c *Coder) Tail(name string, p *[]byte) {
	if c.err != nil {
		return
	}
	switch c.mode {
	case modeDecode:
		b, _ := c.r.Next(c.r.Remaining())
		*p = append([]byte(nil), b...)
		c.offset += len(b)
	case modeEncode:
		copy(c.w.Next(len(*p)), *p)
		c.offset += len(*p)
	case modeDescribe:
		c.fields = append(c.fields, Descriptor{Name: name, Kind: KindTail, Offset: c.offset})
	case modeInspect:
		c.values = append(c.values, Value{Name: name, Kind: KindTail, Value: *p})
	}
}

// BitGroup packs sub-byte fields into one byte, most significant field first.
type BitGroup struct {
	c      *Coder
	name   string
	offset int
	b      byte
	used   int
}

// Group codes one byte of bit fields declared by fn. The declared widths
// must cover all 8 bits.
func (c *Coder) Group(name string, fn func(g *BitGroup)) {
	if c.err != nil {
		return
	}
	g := &BitGroup{c: c, name: name, offset: c.offset}
	if c.mode == modeDecode {
		b, err := c.r.Next(1)
		if err != nil {
			c.err = c.truncated(name, 1)
			return
		}
		g.b = b[0]
	}
	fn(g)
	if c.err != nil {
		return
	}
	if g.used != 8 {
		panic(fmt.Sprintf("protocol: bit group %s.%s declares %d of 8 bits", c.schema, name, g.used))
	}
	if c.mode == modeEncode {
		c.w.Next(1)[0] = g.b
	}
	c.offset++
}

func (g *BitGroup) field(name string, width int, dec func(v uint8), enc func() uint8, val func() any) {
	c := g.c
	if c.err != nil {
		return
	}
	if width < 1 || g.used+width > 8 {
		panic(fmt.Sprintf("protocol: bit field %s.%s width %d overflows group %s", c.schema, name, width, g.name))
	}
	shift := 8 - g.used - width
	mask := uint8(1<<width - 1)
	g.used += width
	switch c.mode {
	case modeDecode:
		dec((g.b >> shift) & mask)
	case modeEncode:
		v := enc()
		if v > mask {
			c.err = c.encodeErr(name, "value %d exceeds %d-bit field", v, width)
			return
		}
		g.b |= v << shift
	case modeDescribe:
		c.fields = append(c.fields, Descriptor{
			Name:   name,
			Kind:   KindBits,
			Offset: g.offset,
			Shift:  shift,
			Bits:   width,
			Group:  g.name,
		})
	case modeInspect:
		c.values = append(c.values, Value{Name: name, Kind: KindBits, Value: val()})
	}
}

// Bit codes a width-bit field of g. Enumerations over uint8 pass through typed.
func Bit[T ~uint8](g *BitGroup, name string, width int, p *T) {
	g.field(name, width,
		func(v uint8) { *p = T(v) },
		func() uint8 { return uint8(*p) },
		func() any { return *p })
}

// BitFlag codes a single-bit boolean of g.
func BitFlag(g *BitGroup, name string, p *bool) {
	g.field(name, 1,
		func(v uint8) { *p = v != 0 },
		func() uint8 {
			if *p {
				return 1
			}
			return 0
		},
		func() any { return *p })
}
