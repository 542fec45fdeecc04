package protocol

import (
	"bytes"
	"errors"
	"testing"
)

type sample struct {
	Kind    uint8
	Count   uint16
	Stamp   uint32
	RSSI    int8
	Enabled bool
	Addr    HardwareAddr
	UUID    []byte
	Label   string
}

func (s *sample) Name() string { return "Sample" }

func (s *sample) Fields(c *Coder) {
	U8(c, "kind", &s.Kind)
	U16(c, "count", &s.Count)
	U32(c, "stamp", &s.Stamp)
	S8(c, "rssi", &s.RSSI)
	c.Flag("enabled", &s.Enabled)
	c.Addr("addr", &s.Addr)
	c.Bytes("uuid", 2, &s.UUID)
	c.Text("label", 4, &s.Label)
}

type packed struct {
	Reserved uint8
	Group    uint8
	Opcode   uint8
}

func (p *packed) Name() string { return "Packed" }

func (p *packed) Fields(c *Coder) {
	c.Magic("magic", 0xC0)
	c.Group("hdr", func(g *BitGroup) {
		Bit(g, "reserved", 1, &p.Reserved)
		Bit(g, "group", 3, &p.Group)
		Bit(g, "opcode", 4, &p.Opcode)
	})
}

type trailer struct {
	Code Optional16
}

func (t *trailer) Name() string { return "Trailer" }

func (t *trailer) Fields(c *Coder) {
	c.OptionalU16("errorCode", &t.Code)
}

func TestRoundTripFixedFields(t *testing.T) {
	in := &sample{
		Kind:    7,
		Count:   0x1234,
		Stamp:   0xDEADBEEF,
		RSSI:    -60,
		Enabled: true,
		Addr:    HardwareAddr{1, 2, 3, 4, 5, 6},
		UUID:    []byte{0xFB, 0x00},
		Label:   "ab\x00\x00",
	}
	b, err := Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := []byte{
		0x07,
		0x34, 0x12,
		0xEF, 0xBE, 0xAD, 0xDE,
		0xC4,
		0x01,
		1, 2, 3, 4, 5, 6,
		0xFB, 0x00,
		'a', 'b', 0, 0,
	}
	if !bytes.Equal(b, want) {
		t.Fatalf("expected % X, got % X", want, b)
	}

	var out sample
	if err := Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	again, err := Marshal(&out)
	if err != nil {
		t.Fatalf("re-marshal: %v", err)
	}
	if !bytes.Equal(again, b) {
		t.Fatalf("round-trip mismatch: % X vs % X", again, b)
	}
	if out.RSSI != -60 || out.Label != "ab\x00\x00" {
		t.Fatalf("unexpected decode: %+v", out)
	}
}

func TestBitGroupPacksMostSignificantFirst(t *testing.T) {
	b, err := Marshal(&packed{Group: 4, Opcode: 10})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(b, []byte{0xC0, 0x4A}) {
		t.Fatalf("expected C0 4A, got % X", b)
	}
}

func TestBitGroupRoundTripAllValues(t *testing.T) {
	for group := uint8(0); group < 8; group++ {
		for opcode := uint8(0); opcode < 16; opcode++ {
			in := &packed{Group: group, Opcode: opcode}
			b, err := Marshal(in)
			if err != nil {
				t.Fatalf("marshal group=%d opcode=%d: %v", group, opcode, err)
			}
			var out packed
			if err := Unmarshal(b, &out); err != nil {
				t.Fatalf("unmarshal group=%d opcode=%d: %v", group, opcode, err)
			}
			if out != *in {
				t.Fatalf("expected %+v, got %+v", *in, out)
			}
		}
	}
}

func TestBitFieldOverflow(t *testing.T) {
	_, err := Marshal(&packed{Group: 8})
	var fe FieldEncodingError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldEncodingError, got %v", err)
	}
	if fe.Field != "group" {
		t.Fatalf("expected field group, got %q", fe.Field)
	}
	if !errors.Is(err, ErrFieldEncoding) {
		t.Fatalf("expected ErrFieldEncoding, got %v", err)
	}
}

func TestMagicMismatch(t *testing.T) {
	var out packed
	err := Unmarshal([]byte{0x00, 0x4A}, &out)
	var fe FramingError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FramingError, got %v", err)
	}
	if fe.Got != 0x00 || fe.Want != 0xC0 || fe.Offset != 0 {
		t.Fatalf("unexpected framing error: %+v", fe)
	}
}

func TestFixedWidthLengthMismatch(t *testing.T) {
	in := &sample{UUID: []byte{1, 2, 3}, Label: "abcd"}
	_, err := Marshal(in)
	if !errors.Is(err, ErrFieldEncoding) {
		t.Fatalf("expected ErrFieldEncoding, got %v", err)
	}
}

func TestTruncatedMandatoryField(t *testing.T) {
	var out sample
	err := Unmarshal([]byte{0x07, 0x34}, &out)
	var te TruncatedFrameError
	if !errors.As(err, &te) {
		t.Fatalf("expected TruncatedFrameError, got %v", err)
	}
	if te.Field != "count" || te.Need != 2 || te.Have != 1 {
		t.Fatalf("unexpected truncation: %+v", te)
	}
}

func TestOptionalTrailingField(t *testing.T) {
	var present trailer
	if err := Unmarshal([]byte{0x05, 0x00}, &present); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !present.Code.Present || present.Code.Value != 5 {
		t.Fatalf("expected present 5, got %v", present.Code)
	}

	for _, b := range [][]byte{nil, {0x05}} {
		var absent trailer
		if err := Unmarshal(b, &absent); err != nil {
			t.Fatalf("unmarshal % X: %v", b, err)
		}
		if absent.Code.Present {
			t.Fatalf("expected absent for % X, got %v", b, absent.Code)
		}
	}

	b, err := Marshal(&trailer{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if len(b) != 0 {
		t.Fatalf("expected absent field to encode nothing, got % X", b)
	}
}

func TestRawTailKeepsPayload(t *testing.T) {
	var r Raw
	if err := Unmarshal([]byte{9, 8, 7}, &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !bytes.Equal(r.Payload, []byte{9, 8, 7}) {
		t.Fatalf("expected payload 09 08 07, got % X", r.Payload)
	}
}

func TestDescribeSampleSchema(t *testing.T) {
	s := Describe("Sample", &sample{})
	if !s.Fixed || s.Size != 21 {
		t.Fatalf("expected fixed size 21, got fixed=%v size=%d", s.Fixed, s.Size)
	}
	addr, ok := s.Field("addr")
	if !ok || addr.Offset != 9 || addr.Width != 6 || addr.Kind != KindAddr {
		t.Fatalf("unexpected addr descriptor: %+v", addr)
	}

	p := Describe("Packed", &packed{})
	group, ok := p.Field("group")
	if !ok || group.Offset != 1 || group.Shift != 4 || group.Bits != 3 {
		t.Fatalf("unexpected group descriptor: %+v", group)
	}

	tr := Describe("Trailer", &trailer{})
	if tr.Fixed || tr.Size != 0 {
		t.Fatalf("expected variable schema of minimum size 0, got %+v", tr)
	}
}

func TestSizedTail(t *testing.T) {
	s := Describe("Raw", &Raw{}).Sized(5)
	tail, _ := s.Field("payload")
	if s.Size != 5 || tail.Width != 5 {
		t.Fatalf("expected tail width 5, got size=%d width=%d", s.Size, tail.Width)
	}
}

func TestInspectValues(t *testing.T) {
	vals := Inspect(&packed{Group: 2, Opcode: 3})
	if len(vals) != 4 {
		t.Fatalf("expected 4 values, got %d", len(vals))
	}
	if vals[2].Name != "group" || vals[2].Text() != "2" {
		t.Fatalf("unexpected group value: %+v", vals[2])
	}
	n := Nested("hdr", vals[1:])
	if got := n.Text(); got != "{reserved=0, group=2, opcode=3}" {
		t.Fatalf("unexpected nested text %q", got)
	}
}

func TestHardwareAddrText(t *testing.T) {
	a := HardwareAddr{0xAA, 0xBB, 0xCC, 0x01, 0x02, 0x03}
	if a.String() != "aa:bb:cc:01:02:03" {
		t.Fatalf("unexpected address text %q", a.String())
	}
	parsed, err := ParseHardwareAddr("aa:bb:cc:01:02:03")
	if err != nil || parsed != a {
		t.Fatalf("expected %v, got %v err=%v", a, parsed, err)
	}
	if _, err := ParseHardwareAddr("aa:bb"); err == nil {
		t.Fatalf("expected error for short address")
	}
}
