package data

import "github.com/danmuck/trackerlink/internal/protocol"

// Header is the radio frame header. Group and Opcode share the byte after
// the magic: reserved:1 | group:3 | opcode:4, most significant first.
type Header struct {
	Reserved uint8
	Group    Group
	Opcode   uint8
}

func (h *Header) Fields(c *protocol.Coder) {
	c.Magic("magic", Magic)
	c.Group("hdr", func(g *protocol.BitGroup) {
		protocol.Bit(g, "rsvd", 1, &h.Reserved)
		protocol.Bit(g, "group", 3, &h.Group)
		protocol.Bit(g, "opcode", 4, &h.Opcode)
	})
}
