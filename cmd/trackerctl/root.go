package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danmuck/trackerlink/internal/config"
	"github.com/danmuck/trackerlink/internal/logging"
	"github.com/danmuck/trackerlink/internal/output"
)

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	cfgFile      string
	outputFormat string
	logLevel     string

	cfg       config.HostConfig
	formatter output.Formatter
}

func (a *app) tableOutput() bool {
	_, ok := a.formatter.(*output.TableFormatter)
	return ok
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "trackerctl",
		Short: "Decode, build and inspect tracker dongle frames",
		Long: `trackerctl works with the two channels of the tracker dongle: 32-byte
control reports exchanged with the dongle itself and radio frames relayed
to the tracker. It decodes captured frames, builds host commands and keeps
a local store of captured frames for replay.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.ConfigureRuntime()
			if a.logLevel != "" && !logging.SetLevel(a.logLevel) {
				return fmt.Errorf("unknown log level %q", a.logLevel)
			}
			var err error
			if a.formatter, err = output.NewFormatter(a.outputFormat); err != nil {
				return err
			}
			// config init writes the file the other commands read.
			if cmd.Annotations["skipConfig"] == "true" {
				a.cfg = config.Default()
				return nil
			}
			a.cfg, err = config.LoadOrDefault(a.cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "host config file (defaults apply when empty)")
	root.PersistentFlags().StringVarP(&a.outputFormat, "output", "o", "table", "output format: table, json, yaml")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	root.AddCommand(
		newDecodeCmd(a),
		newScanCmd(a),
		newCapturesCmd(a),
		newBuildCmd(a),
		newSchemaCmd(a),
		newConfigCmd(a),
	)
	return root
}
