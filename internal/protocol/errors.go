package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrFraming        = errors.New("protocol: framing error")
	ErrUnknownOpcode  = errors.New("protocol: unknown opcode")
	ErrFieldEncoding  = errors.New("protocol: field encoding error")
	ErrTruncatedFrame = errors.New("protocol: truncated frame")
)

// FramingError indicates a buffer that does not start on a frame boundary.
type FramingError struct {
	Offset int
	Got    byte
	Want   byte
}

func (e FramingError) Error() string {
	return fmt.Sprintf("protocol: framing error: byte %d is 0x%02X, want 0x%02X", e.Offset, e.Got, e.Want)
}

func (e FramingError) Unwrap() error { return ErrFraming }

// UnknownOpcodeError reports a numeric opcode outside its enumeration.
type UnknownOpcodeError struct {
	Space string
	Code  uint8
}

func (e UnknownOpcodeError) Error() string {
	return fmt.Sprintf("protocol: unknown opcode 0x%02X in %s", e.Code, e.Space)
}

func (e UnknownOpcodeError) Unwrap() error { return ErrUnknownOpcode }

// FieldEncodingError reports a value that does not fit its field.
type FieldEncodingError struct {
	Schema string
	Field  string
	Reason string
}

func (e FieldEncodingError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("protocol: encode %s: %s", e.Schema, e.Reason)
	}
	return fmt.Sprintf("protocol: encode %s field=%s: %s", e.Schema, e.Field, e.Reason)
}

func (e FieldEncodingError) Unwrap() error { return ErrFieldEncoding }

// TruncatedFrameError reports a mandatory field running past the frame end.
type TruncatedFrameError struct {
	Schema string
	Field  string
	Need   int
	Have   int
}

func (e TruncatedFrameError) Error() string {
	return fmt.Sprintf("protocol: truncated frame: %s field=%s needs %d bytes, %d remain", e.Schema, e.Field, e.Need, e.Have)
}

func (e TruncatedFrameError) Unwrap() error { return ErrTruncatedFrame }
