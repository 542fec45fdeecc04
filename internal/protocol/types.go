package protocol

import (
	"fmt"
	"net"
	"strconv"
)

// Kind classifies how a field is laid out on the wire.
type Kind uint8

const (
	KindUint Kind = iota + 1
	KindInt
	KindBool
	KindBits
	KindBytes
	KindText
	KindAddr
	KindMagic
	KindTail
)

var kindNames = map[Kind]string{
	KindUint:  "uint",
	KindInt:   "int",
	KindBool:  "bool",
	KindBits:  "bits",
	KindBytes: "bytes",
	KindText:  "text",
	KindAddr:  "addr",
	KindMagic: "magic",
	KindTail:  "tail",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Descriptor describes one field of a schema.
//
// Offset is the byte offset from the start of the frame. Bit fields share
// the Offset of their containing byte and carry Shift/Bits within it.
type Descriptor struct {
	Name     string
	Kind     Kind
	Offset   int
	Width    int
	Shift    int
	Bits     int
	Group    string
	Optional bool
}

// Fielder walks the fields of one wire structure in declared order.
type Fielder interface {
	Fields(c *Coder)
}

// Body is one statically typed packet shape.
type Body interface {
	Fielder
	Name() string
}

// AddrLen is the width of a hardware address field.
const AddrLen = 6

// HardwareAddr is a 6-byte device address copied verbatim from the wire.
type HardwareAddr [AddrLen]byte

// String prints the address as colon separated hex octets in wire order.
func (a HardwareAddr) String() string {
	return net.HardwareAddr(a[:]).String()
}

// MarshalText implements encoding.TextMarshaler.
func (a HardwareAddr) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// ParseHardwareAddr parses colon or dash separated hex octets.
func ParseHardwareAddr(s string) (HardwareAddr, error) {
	var a HardwareAddr
	mac, err := net.ParseMAC(s)
	if err != nil {
		return a, fmt.Errorf("protocol: parse hardware address %q: %w", s, err)
	}
	if len(mac) != AddrLen {
		return a, fmt.Errorf("protocol: hardware address %q has %d octets, want %d", s, len(mac), AddrLen)
	}
	copy(a[:], mac)
	return a, nil
}

// Optional16 is a trailing 16-bit field that may be absent from a frame.
type Optional16 struct {
	Value   uint16
	Present bool
}

// Some returns a present optional value.
func Some(v uint16) Optional16 {
	return Optional16{Value: v, Present: true}
}

func (o Optional16) String() string {
	if !o.Present {
		return "absent"
	}
	return strconv.Itoa(int(o.Value))
}

// Raw is the fallback body for opcodes without a registered shape. Its
// payload spans the rest of the frame.
type Raw struct {
	Payload []byte
}

func (r *Raw) Name() string { return "Raw" }

func (r *Raw) Fields(c *Coder) {
	c.Tail("payload", &r.Payload)
}
