package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danmuck/trackerlink/internal/commands"
	"github.com/danmuck/trackerlink/internal/output"
	"github.com/danmuck/trackerlink/internal/protocol/control"
)

type catalogRow struct {
	Name    string `json:"name" yaml:"name"`
	Channel string `json:"channel" yaml:"channel"`
	Args    string `json:"args" yaml:"args"`
	Summary string `json:"summary" yaml:"summary"`
}

type builtRow struct {
	Command string `json:"command" yaml:"command"`
	Channel string `json:"channel" yaml:"channel"`
	Bytes   string `json:"bytes" yaml:"bytes"`
}

func newBuildCmd(a *app) *cobra.Command {
	var report bool
	cmd := &cobra.Command{
		Use:   "build [command] [args...]",
		Short: "Print the bytes of a host command; lists commands when none is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				var rows []catalogRow
				for _, s := range commands.Catalog() {
					rows = append(rows, catalogRow{Name: s.Name, Channel: string(s.Channel), Args: s.Args, Summary: s.Summary})
				}
				fmt.Fprint(cmd.OutOrStdout(), a.formatter.Format(rows))
				return nil
			}
			spec, frame, err := commands.New(a.cfg).Build(args[0], args[1:])
			if err != nil {
				return err
			}
			if report && spec.Channel == commands.ChannelControl {
				frame = control.Report(frame)
			}
			if a.tableOutput() {
				fmt.Fprintln(cmd.OutOrStdout(), output.Hex(frame))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), a.formatter.Format(builtRow{Command: spec.Name, Channel: string(spec.Channel), Bytes: output.Hex(frame)}))
			return nil
		},
	}
	cmd.Flags().BoolVar(&report, "report", false, "pad control commands to a full 32-byte report")
	return cmd
}
