// Package logscan extracts control reports from host tool logs.
//
// The host logs every report it exchanges with the dongle as
//
//	... CONTROL IN bytes: 0502010203
//
// with the report in upper case hex. Any other text on the line is ignored.
package logscan

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/danmuck/trackerlink/internal/observability"
	"github.com/danmuck/trackerlink/internal/protocol/control"
)

var linePattern = regexp.MustCompile(`CONTROL (?P<direction>IN|OUT) bytes: (?P<data>[A-F0-9]+)`)

var (
	directionIndex = linePattern.SubexpIndex("direction")
	dataIndex      = linePattern.SubexpIndex("data")
)

const maxLine = 1 << 20

// Entry is one report found in a log.
type Entry struct {
	Line      int
	Direction control.Direction
	Frame     []byte
}

// Match parses a single log line. ok is false when the line carries no report.
func Match(line string) (Entry, bool, error) {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return Entry{}, false, nil
	}
	dir, err := control.ParseDirection(m[directionIndex])
	if err != nil {
		return Entry{}, false, err
	}
	frame, err := hex.DecodeString(m[dataIndex])
	if err != nil {
		return Entry{}, false, fmt.Errorf("report bytes: %w", err)
	}
	return Entry{Direction: dir, Frame: frame}, true, nil
}

// Scan calls fn for each report in r, in log order. A malformed report or an
// error from fn stops the scan.
func Scan(r io.Reader, fn func(Entry) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	line := 0
	for sc.Scan() {
		line++
		e, ok, err := Match(sc.Text())
		if err != nil {
			return fmt.Errorf("logscan: line %d: %w", line, err)
		}
		if !ok {
			continue
		}
		e.Line = line
		if err := fn(e); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("logscan: read: %w", err)
	}
	return nil
}

// Result is a scanned report with its decode outcome. Err holds the decode
// error, if any; the scan itself continues past undecodable reports.
type Result struct {
	Entry
	Message *control.Message
	Err     error
}

// Decoder decodes scanned reports. When Recorder is set every decode is
// counted.
type Decoder struct {
	Recorder *observability.Recorder
}

func (d Decoder) Decode(e Entry) Result {
	start := time.Now()
	m, err := control.DecodeFrame(e.Direction, e.Frame)
	if d.Recorder != nil {
		opcode, fallback := "", false
		if m != nil {
			opcode, fallback = m.Opcode.String(), m.Fallback
		}
		d.Recorder.RecordDecode("control", e.Direction.String(), opcode, fallback, err, time.Since(start))
	}
	return Result{Entry: e, Message: m, Err: err}
}

// DecodeAll scans r and hands every decoded report to fn.
func (d Decoder) DecodeAll(r io.Reader, fn func(Result) error) error {
	return Scan(r, func(e Entry) error {
		return fn(d.Decode(e))
	})
}
