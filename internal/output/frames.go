package output

import (
	"encoding/hex"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/danmuck/trackerlink/internal/protocol"
)

// FieldRow is one flattened field of a decoded frame. Nested structures
// are flattened with dotted names, e.g. "hdr.opcode".
type FieldRow struct {
	Field string `json:"field" yaml:"field"`
	Kind  string `json:"kind" yaml:"kind"`
	Value string `json:"value" yaml:"value"`
}

// Flatten turns inspected values into rows in declared order.
func Flatten(values []protocol.Value) []FieldRow {
	var rows []FieldRow
	var walk func(prefix string, vs []protocol.Value)
	walk = func(prefix string, vs []protocol.Value) {
		for _, v := range vs {
			name := prefix + v.Name
			if v.Fields != nil {
				walk(name+".", v.Fields)
				continue
			}
			rows = append(rows, FieldRow{Field: name, Kind: v.Kind.String(), Value: v.Text()})
		}
	}
	walk("", values)
	return rows
}

// Frame is the printable form of one decoded frame.
type Frame struct {
	Channel   string     `json:"channel" yaml:"channel"`
	Direction string     `json:"direction,omitempty" yaml:"direction,omitempty"`
	Opcode    string     `json:"opcode" yaml:"opcode"`
	Schema    string     `json:"schema" yaml:"schema"`
	Fallback  bool       `json:"fallback" yaml:"fallback"`
	Bytes     string     `json:"bytes" yaml:"bytes"`
	Fields    []FieldRow `json:"fields" yaml:"fields"`
}

// Hex renders frame bytes the way host logs print them: upper-case with no
// separators.
func Hex(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

var (
	outStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	inStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Marker is the arrow printed before a scanned frame: "==>" for host to
// device and "<==" for device to host.
func Marker(direction string) string {
	switch direction {
	case "OUT":
		return outStyle.Render("==>")
	case "IN":
		return inStyle.Render("<==")
	default:
		return "   "
	}
}

// Failure styles a decode error line.
func Failure(msg string) string {
	return errorStyle.Render(msg)
}
