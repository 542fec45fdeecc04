package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danmuck/trackerlink/internal/output"
	"github.com/danmuck/trackerlink/internal/protocol/control"
	"github.com/danmuck/trackerlink/internal/protocol/data"
)

// parseHex accepts hex with optional spaces, colons or a 0x prefix.
func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	s = strings.NewReplacer(" ", "", ":", "", "-", "").Replace(s)
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return b, nil
}

func controlFrame(m *control.Message, raw []byte) output.Frame {
	return output.Frame{
		Channel:   "control",
		Direction: m.Direction.String(),
		Opcode:    m.Opcode.String(),
		Schema:    m.Schema.Name,
		Fallback:  m.Fallback,
		Bytes:     output.Hex(raw),
		Fields:    output.Flatten(m.Fields()),
	}
}

func dataFrame(m *data.Message, raw []byte) output.Frame {
	return output.Frame{
		Channel:  "data",
		Opcode:   m.Opcode.String(),
		Schema:   m.Schema.Name,
		Fallback: m.Fallback,
		Bytes:    output.Hex(raw),
		Fields:   output.Flatten(m.Fields()),
	}
}

func decodeControl(dir control.Direction, raw []byte) (output.Frame, error) {
	m, err := control.DecodeFrame(dir, raw)
	if err != nil {
		return output.Frame{}, err
	}
	return controlFrame(m, raw), nil
}

func decodeData(raw []byte) (output.Frame, error) {
	m, err := data.DecodeFrame(raw)
	if err != nil {
		return output.Frame{}, err
	}
	return dataFrame(m, raw), nil
}

func (a *app) printFrame(cmd *cobra.Command, f output.Frame) {
	if !a.tableOutput() {
		fmt.Fprint(cmd.OutOrStdout(), a.formatter.Format(f))
		return
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s %s  %s (%s)\n", output.Marker(f.Direction), f.Bytes, f.Opcode, f.Schema)
	if f.Fallback {
		fmt.Fprintln(w, "no registered shape; payload kept raw")
	}
	fmt.Fprint(w, a.formatter.Format(f.Fields))
}

func newDecodeCmd(a *app) *cobra.Command {
	decode := &cobra.Command{
		Use:   "decode",
		Short: "Decode a single frame given as hex",
	}

	var dir string
	controlCmd := &cobra.Command{
		Use:   "control <hex>",
		Short: "Decode a control report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := control.ParseDirection(dir)
			if err != nil {
				return err
			}
			raw, err := parseHex(args[0])
			if err != nil {
				return err
			}
			f, err := decodeControl(d, raw)
			if err != nil {
				return err
			}
			a.printFrame(cmd, f)
			return nil
		},
	}
	controlCmd.Flags().StringVar(&dir, "dir", "in", "report direction: in (device to host) or out (host to device)")

	var padded bool
	dataCmd := &cobra.Command{
		Use:   "data <hex>",
		Short: "Decode a radio frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := parseHex(args[0])
			if err != nil {
				return err
			}
			if padded {
				if raw, err = data.Unpad(raw); err != nil {
					return err
				}
			}
			f, err := decodeData(raw)
			if err != nil {
				return err
			}
			a.printFrame(cmd, f)
			return nil
		},
	}
	dataCmd.Flags().BoolVar(&padded, "padded", false, "input is a 32-byte outbound container")

	decode.AddCommand(controlCmd, dataCmd)
	return decode
}
