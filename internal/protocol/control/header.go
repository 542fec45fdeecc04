package control

import "github.com/danmuck/trackerlink/internal/protocol"

// HeaderSize is the size of the report header shared by both directions.
const HeaderSize = 2

// Header opens every control report. Length is the logical frame length in
// bytes, header included.
type Header struct {
	Length uint8
	Opcode uint8
}

func (h *Header) Fields(c *protocol.Coder) {
	protocol.U8(c, "length", &h.Length)
	protocol.U8(c, "opcode", &h.Opcode)
}
