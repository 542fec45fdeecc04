package control

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/trackerlink/internal/protocol"
)

// Message is one decoded control report.
type Message struct {
	Direction Direction
	Header    Header
	Opcode    Opcode
	Schema    protocol.Schema
	Body      protocol.Body
	// Fallback is set when the opcode has no registered shape and Body is
	// a *protocol.Raw.
	Fallback bool
}

// Fields lists the header and body values in wire order. The header is
// nested one level under "hdr".
func (m *Message) Fields() []protocol.Value {
	hdr := protocol.Nested("hdr", []protocol.Value{
		{Name: "length", Kind: protocol.KindUint, Value: m.Header.Length},
		{Name: "opcode", Kind: protocol.KindUint, Value: m.Opcode},
	})
	return append([]protocol.Value{hdr}, protocol.Inspect(m.Body)...)
}

// DecodeFrame decodes one control report.
//
// Device-to-host reports are cut to the length declared in their first
// byte; anything past it is padding. Host-to-device reports are decoded as
// given and bytes past a fixed-size shape are ignored. A numeric opcode
// outside the direction's enumeration fails with protocol.ErrUnknownOpcode;
// a valid opcode without a registered shape decodes to a raw payload.
func DecodeFrame(dir Direction, b []byte) (*Message, error) {
	if len(b) < HeaderSize {
		return nil, protocol.TruncatedFrameError{Schema: "Header", Field: "opcode", Need: HeaderSize, Have: len(b)}
	}
	if dir == DeviceToHost {
		declared := int(b[0])
		if declared < HeaderSize || declared > len(b) {
			return nil, fmt.Errorf("control: declared length %d of %d-byte report: %w", declared, len(b),
				protocol.TruncatedFrameError{Schema: "Header", Field: "length", Need: declared, Have: len(b)})
		}
		b = b[:declared]
	}

	op, err := OpcodeFor(dir, b[1])
	if err != nil {
		return nil, fmt.Errorf("control: decode %s report: %w", dir, err)
	}
	e, registered := lookup(op, len(b))
	body := e.newBody()
	schema := e.schema
	if !registered {
		schema = schema.Sized(len(b))
		log.Debug().Str("opcode", op.String()).Int("length", len(b)).Msg("control: no registered shape, decoding raw payload")
	} else if op == InVersionResponse {
		log.Debug().Str("variant", schema.Name).Int("length", len(b)).Msg("control: version response variant selected")
	}

	m := &Message{Direction: dir, Opcode: op, Schema: schema, Body: body, Fallback: !registered}
	if err := protocol.Decode(protocol.NewReader(b), schema.Name, &m.Header, body); err != nil {
		return nil, fmt.Errorf("control: decode %s: %w", op, err)
	}
	return m, nil
}

// EncodeFrame encodes body under op. The direction follows the opcode type.
// The length byte is set to the encoded size; no padding is added.
func EncodeFrame(op Opcode, body protocol.Body) ([]byte, error) {
	if op == nil || body == nil {
		return nil, protocol.FieldEncodingError{Schema: "Header", Reason: "opcode and body are required"}
	}
	if _, err := OpcodeFor(op.Direction(), op.Code()); err != nil {
		return nil, err
	}
	if !accepts(op, body) {
		return nil, protocol.FieldEncodingError{
			Schema: body.Name(),
			Reason: fmt.Sprintf("shape does not match opcode %s", op),
		}
	}
	w := protocol.NewWriter(ReportSize)
	hdr := Header{Opcode: op.Code()}
	if err := protocol.Encode(w, body.Name(), &hdr, body); err != nil {
		return nil, err
	}
	out := w.Bytes()
	if len(out) > ReportSize {
		return nil, protocol.FieldEncodingError{
			Schema: body.Name(),
			Reason: fmt.Sprintf("frame of %d bytes exceeds %d-byte report", len(out), ReportSize),
		}
	}
	out[0] = byte(len(out))
	return out, nil
}

// Report returns frame padded with zeros to the physical report size.
func Report(frame []byte) []byte {
	out := make([]byte, ReportSize)
	copy(out, frame)
	return out
}
