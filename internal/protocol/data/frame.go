package data

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/trackerlink/internal/protocol"
)

// Message is one decoded radio frame.
type Message struct {
	Header   Header
	Opcode   Opcode
	Schema   protocol.Schema
	Body     protocol.Body
	Fallback bool
}

// Fields lists the header and body values in wire order with the header
// nested under "hdr".
func (m *Message) Fields() []protocol.Value {
	hdr := protocol.Nested("hdr", []protocol.Value{
		{Name: "magic", Kind: protocol.KindMagic, Value: Magic},
		{Name: "rsvd", Kind: protocol.KindBits, Value: m.Header.Reserved},
		{Name: "group", Kind: protocol.KindBits, Value: m.Header.Group},
		{Name: "opcode", Kind: protocol.KindBits, Value: m.Opcode},
	})
	return append([]protocol.Value{hdr}, protocol.Inspect(m.Body)...)
}

func readHeader(b []byte) (Header, Opcode, error) {
	var h Header
	if len(b) == 0 {
		return h, nil, protocol.TruncatedFrameError{Schema: "Header", Field: "magic", Need: 1, Have: 0}
	}
	if err := protocol.Decode(protocol.NewReader(b), "Header", &h); err != nil {
		return h, nil, err
	}
	op, err := OpcodeFor(h.Group, h.Opcode)
	if err != nil {
		return h, nil, err
	}
	return h, op, nil
}

func decodeBody(b []byte, schema string, body protocol.Body) error {
	r := protocol.NewReader(b)
	if _, err := r.Next(HeaderSize); err != nil {
		return err
	}
	return protocol.Decode(r, schema, body)
}

// DecodeFrame decodes an inbound radio frame. Frames are decoded as raw
// schema bytes; the outbound 32-byte container is not expected here.
func DecodeFrame(b []byte) (*Message, error) {
	h, op, err := readHeader(b)
	if err != nil {
		return nil, fmt.Errorf("data: decode frame: %w", err)
	}
	e, registered := lookup(op)
	schema := e.schema
	if !registered {
		schema = schema.Sized(len(b))
		log.Debug().Str("opcode", op.String()).Int("length", len(b)).Msg("data: no registered shape, decoding raw payload")
	}
	m := &Message{Header: h, Opcode: op, Schema: schema, Body: e.newBody(), Fallback: !registered}
	if err := decodeBody(b, schema.Name, m.Body); err != nil {
		return nil, fmt.Errorf("data: decode %s: %w", op, err)
	}
	return m, nil
}

// DecodeAs decodes b with an explicit body shape, bypassing the registry.
// It serves legacy layouts and shapes that share or lack an opcode.
func DecodeAs(b []byte, body protocol.Body) (*Message, error) {
	h, op, err := readHeader(b)
	if err != nil {
		return nil, fmt.Errorf("data: decode frame: %w", err)
	}
	m := &Message{
		Header: h,
		Opcode: op,
		Schema: protocol.Describe(body.Name(), &Header{}, body),
		Body:   body,
	}
	if err := decodeBody(b, body.Name(), body); err != nil {
		return nil, fmt.Errorf("data: decode %s as %s: %w", op, body.Name(), err)
	}
	return m, nil
}

// EncodeFrame encodes body under op without the outbound container.
func EncodeFrame(op Opcode, body protocol.Body) ([]byte, error) {
	if op == nil || body == nil {
		return nil, protocol.FieldEncodingError{Schema: "Header", Reason: "opcode and body are required"}
	}
	if _, err := OpcodeFor(op.Group(), op.Code()); err != nil {
		return nil, err
	}
	e, _ := lookup(op)
	if !e.accepts(body) && !explicitFor(op, body) {
		return nil, protocol.FieldEncodingError{
			Schema: body.Name(),
			Reason: fmt.Sprintf("shape does not match opcode %s", op),
		}
	}
	w := protocol.NewWriter(MaxPacketSize)
	h := Header{Group: op.Group(), Opcode: op.Code()}
	if err := protocol.Encode(w, body.Name(), &h, body); err != nil {
		return nil, err
	}
	if w.Len() > MaxPacketSize {
		return nil, protocol.FieldEncodingError{
			Schema: body.Name(),
			Reason: fmt.Sprintf("frame of %d bytes exceeds %d", w.Len(), MaxPacketSize),
		}
	}
	return w.Bytes(), nil
}

// explicitFor allows the legacy and shared-opcode shapes to be encoded
// under the opcode they travel with.
func explicitFor(op Opcode, body protocol.Body) bool {
	switch body.(type) {
	case *ReadFirstHostBlockLegacy:
		return op == ReadFirstHostBlockOp
	case *UpdateTrackerBlockLegacy:
		return op == UpdateTrackerBlockOp
	case *ReadFastAirlinkBlock:
		return op == ReadAirlinkBlockOp
	case *Xfr2TrackerAirlinkInfo:
		return op == Xfr2TrackerSingleBlockOp
	}
	return false
}

// EncodePadded encodes body under op inside the 32-byte outbound container.
func EncodePadded(op Opcode, body protocol.Body) ([]byte, error) {
	frame, err := EncodeFrame(op, body)
	if err != nil {
		return nil, err
	}
	return Pad(frame)
}

// Pad places frame at the start of a zeroed 32-byte container whose last
// byte holds the frame length.
func Pad(frame []byte) ([]byte, error) {
	if len(frame) > MaxPacketSize {
		return nil, protocol.FieldEncodingError{
			Schema: "Container",
			Reason: fmt.Sprintf("frame of %d bytes exceeds %d", len(frame), MaxPacketSize),
		}
	}
	out := make([]byte, ContainerSize)
	copy(out, frame)
	out[ContainerSize-1] = byte(len(frame))
	return out, nil
}

// Unpad returns the frame carried by an outbound container.
func Unpad(container []byte) ([]byte, error) {
	if len(container) != ContainerSize {
		return nil, protocol.TruncatedFrameError{Schema: "Container", Field: "length", Need: ContainerSize, Have: len(container)}
	}
	n := int(container[ContainerSize-1])
	if n > MaxPacketSize {
		return nil, fmt.Errorf("data: container declares %d bytes: %w", n, protocol.ErrFraming)
	}
	return container[:n], nil
}
