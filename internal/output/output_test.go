package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/danmuck/trackerlink/internal/logscan"
	"github.com/danmuck/trackerlink/internal/protocol"
	"github.com/danmuck/trackerlink/internal/testutil/testlog"
)

type row struct {
	Name   string            `json:"name"`
	Count  int               `json:"count"`
	Labels map[string]string `json:"labels"`
	hidden string
}

func TestNewFormatter(t *testing.T) {
	testlog.Start(t)
	for _, f := range []string{"", "table", "JSON", "yaml"} {
		if _, err := NewFormatter(f); err != nil {
			t.Fatalf("format %q: %v", f, err)
		}
	}
	if _, err := NewFormatter("xml"); err == nil {
		t.Fatalf("expected error for xml")
	}
}

func TestTableFormatsSlices(t *testing.T) {
	testlog.Start(t)
	out := (&TableFormatter{}).Format([]row{
		{Name: "a", Count: 1, Labels: map[string]string{"z": "1", "b": "2"}},
		{Name: "bb", Count: 22},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %q", out)
	}
	if strings.Fields(lines[0])[0] != "NAME" || strings.Contains(lines[0], "HIDDEN") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "b=2,z=1") {
		t.Fatalf("expected sorted labels, got %q", lines[1])
	}
	if got := (&TableFormatter{}).Format([]row{}); got != "No results.\n" {
		t.Fatalf("unexpected empty output %q", got)
	}
}

func TestTableFormatsStruct(t *testing.T) {
	testlog.Start(t)
	out := (&TableFormatter{}).Format(&row{Name: "x", Count: 3})
	if !strings.Contains(out, "name:") || !strings.Contains(out, "count:") {
		t.Fatalf("unexpected struct output %q", out)
	}
}

func TestJSONAndYAML(t *testing.T) {
	testlog.Start(t)
	f := Frame{Channel: "data", Opcode: "RF_PKT_MISC_CMD_ACK", Schema: "CmdAck", Bytes: "c002"}
	if out := (&JSONFormatter{}).Format(f); !strings.Contains(out, `"schema": "CmdAck"`) {
		t.Fatalf("unexpected json %q", out)
	}
	out := (&YAMLFormatter{}).Format(f)
	if !strings.Contains(out, "schema: CmdAck") || strings.Contains(out, "direction:") {
		t.Fatalf("unexpected yaml %q", out)
	}
}

func TestFlattenNestsWithDots(t *testing.T) {
	testlog.Start(t)
	values := []protocol.Value{
		protocol.Nested("hdr", []protocol.Value{
			{Name: "length", Kind: protocol.KindUint, Value: uint8(3)},
		}),
		{Name: "payload", Kind: protocol.KindBytes, Value: []byte{0xAB}},
	}
	rows := Flatten(values)
	want := []FieldRow{
		{Field: "hdr.length", Kind: "uint", Value: "3"},
		{Field: "payload", Kind: "bytes", Value: "ab"},
	}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %+v", len(want), rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("row %d: expected %+v, got %+v", i, want[i], rows[i])
		}
	}
}

func TestMarker(t *testing.T) {
	testlog.Start(t)
	if !strings.Contains(Marker("OUT"), "==>") || !strings.Contains(Marker("IN"), "<==") {
		t.Fatalf("unexpected markers %q %q", Marker("OUT"), Marker("IN"))
	}
	if Marker("") != "   " {
		t.Fatalf("expected blank marker")
	}
}

func TestHexMatchesLogLines(t *testing.T) {
	testlog.Start(t)
	frame := []byte{0x03, 0x02, 0x00, 0xAB, 0xcd}
	got := Hex(frame)
	if got != "030200ABCD" {
		t.Fatalf("expected 030200ABCD, got %s", got)
	}
	e, ok, err := logscan.Match("DEBUG CONTROL IN bytes: " + got)
	if err != nil || !ok {
		t.Fatalf("expected log line to match: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(e.Frame, frame) {
		t.Fatalf("expected %x, got %x", frame, e.Frame)
	}
}
