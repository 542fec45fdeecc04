package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danmuck/trackerlink/internal/protocol"
	"github.com/danmuck/trackerlink/internal/protocol/control"
	"github.com/danmuck/trackerlink/internal/protocol/data"
)

type schemaRow struct {
	Channel   string `json:"channel" yaml:"channel"`
	Direction string `json:"direction,omitempty" yaml:"direction,omitempty"`
	Opcode    string `json:"opcode" yaml:"opcode"`
	Code      uint8  `json:"code" yaml:"code"`
	Schema    string `json:"schema" yaml:"schema"`
	Size      int    `json:"size" yaml:"size"`
	Fixed     bool   `json:"fixed" yaml:"fixed"`
	Fallback  bool   `json:"fallback" yaml:"fallback"`
}

type fieldRow struct {
	Field    string `json:"field" yaml:"field"`
	Kind     string `json:"kind" yaml:"kind"`
	Offset   int    `json:"offset" yaml:"offset"`
	Width    int    `json:"width" yaml:"width"`
	Bits     string `json:"bits,omitempty" yaml:"bits,omitempty"`
	Optional bool   `json:"optional" yaml:"optional"`
}

func schemaRows(channel string) ([]schemaRow, error) {
	var rows []schemaRow
	switch channel {
	case "", "control", "data":
	default:
		return nil, fmt.Errorf("unknown channel %q", channel)
	}
	if channel != "data" {
		for _, dir := range []control.Direction{control.HostToDevice, control.DeviceToHost} {
			for _, e := range control.Schemas(dir) {
				rows = append(rows, schemaRow{
					Channel:   "control",
					Direction: dir.String(),
					Opcode:    e.Opcode.String(),
					Code:      e.Opcode.Code(),
					Schema:    e.Schema.Name,
					Size:      e.Schema.Size,
					Fixed:     e.Schema.Fixed,
					Fallback:  e.Fallback,
				})
			}
		}
	}
	if channel != "control" {
		for _, e := range data.Schemas() {
			rows = append(rows, schemaRow{
				Channel:  "data",
				Opcode:   e.Opcode.String(),
				Code:     e.Opcode.Code(),
				Schema:   e.Schema.Name,
				Size:     e.Schema.Size,
				Fixed:    e.Schema.Fixed,
				Fallback: e.Fallback,
			})
		}
	}
	return rows, nil
}

// findSchema looks a schema up by name across both registries, the data
// shapes decoded only on request and the auxiliary structures.
func findSchema(name string) (protocol.Schema, bool) {
	var all []protocol.Schema
	for _, dir := range []control.Direction{control.HostToDevice, control.DeviceToHost} {
		for _, e := range control.Schemas(dir) {
			all = append(all, e.Schema)
		}
	}
	for _, e := range data.Schemas() {
		all = append(all, e.Schema)
	}
	for _, b := range data.Explicit() {
		all = append(all, protocol.Describe(b.Name(), &data.Header{}, b))
	}
	for _, b := range data.Structs() {
		all = append(all, protocol.Describe(b.Name(), b))
	}
	for _, s := range all {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return protocol.Schema{}, false
}

func fieldRows(s protocol.Schema) []fieldRow {
	rows := make([]fieldRow, 0, len(s.Fields))
	for _, d := range s.Fields {
		row := fieldRow{Field: d.Name, Kind: d.Kind.String(), Offset: d.Offset, Width: d.Width, Optional: d.Optional}
		if d.Kind == protocol.KindBits {
			row.Field = d.Group + "." + d.Name
			row.Width = 1
			row.Bits = fmt.Sprintf("%d:%d", d.Shift+d.Bits-1, d.Shift)
		}
		rows = append(rows, row)
	}
	return rows
}

func newSchemaCmd(a *app) *cobra.Command {
	var channel string
	cmd := &cobra.Command{
		Use:   "schema [name]",
		Short: "List registered packet shapes, or the fields of one shape",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				s, ok := findSchema(args[0])
				if !ok {
					return fmt.Errorf("unknown schema %q", args[0])
				}
				fmt.Fprint(cmd.OutOrStdout(), a.formatter.Format(fieldRows(s)))
				return nil
			}
			rows, err := schemaRows(channel)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), a.formatter.Format(rows))
			return nil
		},
	}
	cmd.Flags().StringVar(&channel, "channel", "", "limit the listing to control or data")
	return cmd
}
