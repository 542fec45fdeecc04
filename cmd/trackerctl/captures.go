package main

import (
	"fmt"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"

	"github.com/danmuck/trackerlink/internal/capture"
	"github.com/danmuck/trackerlink/internal/output"
	"github.com/danmuck/trackerlink/internal/protocol/control"
)

type captureRow struct {
	ID        string `json:"id" yaml:"id"`
	Time      string `json:"time" yaml:"time"`
	Channel   string `json:"channel" yaml:"channel"`
	Direction string `json:"direction" yaml:"direction"`
	Source    string `json:"source" yaml:"source"`
	Line      int    `json:"line" yaml:"line"`
	Bytes     string `json:"bytes" yaml:"bytes"`
}

func (a *app) openCaptures() (*capture.Store, error) {
	return capture.Open(a.cfg.Capture.Dir)
}

// replay decodes a stored record through the decoder of its channel.
func replay(rec capture.Record) (output.Frame, error) {
	if rec.Channel == capture.ChannelData {
		return decodeData(rec.Frame)
	}
	dir, err := control.ParseDirection(rec.Direction)
	if err != nil {
		return output.Frame{}, err
	}
	return decodeControl(dir, rec.Frame)
}

func newCapturesCmd(a *app) *cobra.Command {
	captures := &cobra.Command{
		Use:   "captures",
		Short: "Manage the local capture store",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored frames in capture order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openCaptures()
			if err != nil {
				return err
			}
			defer st.Close()
			rows := []captureRow{}
			err = st.List(func(r capture.Record) error {
				rows = append(rows, captureRow{
					ID:        r.ID.String(),
					Time:      r.Time().UTC().Format(time.RFC3339),
					Channel:   r.Channel,
					Direction: r.Direction,
					Source:    r.Source,
					Line:      r.Line,
					Bytes:     output.Hex(r.Frame),
				})
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), a.formatter.Format(rows))
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Replay a stored frame through the decoder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ksuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid capture id: %w", err)
			}
			st, err := a.openCaptures()
			if err != nil {
				return err
			}
			defer st.Close()
			rec, err := st.Get(id)
			if err != nil {
				return err
			}
			f, err := replay(rec)
			if err != nil {
				return err
			}
			a.printFrame(cmd, f)
			return nil
		},
	}

	var channel, dir string
	add := &cobra.Command{
		Use:   "add <hex>",
		Short: "Store a frame by hand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := parseHex(args[0])
			if err != nil {
				return err
			}
			rec := capture.Record{Channel: channel, Source: "manual", Frame: raw}
			if channel == capture.ChannelControl {
				d, err := control.ParseDirection(dir)
				if err != nil {
					return err
				}
				rec.Direction = d.String()
			}
			st, err := a.openCaptures()
			if err != nil {
				return err
			}
			defer st.Close()
			id, err := st.Put(rec)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id.String())
			return nil
		},
	}
	add.Flags().StringVar(&channel, "channel", capture.ChannelControl, "frame channel: control or data")
	add.Flags().StringVar(&dir, "dir", "in", "control report direction: in or out")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a stored frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ksuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid capture id: %w", err)
			}
			st, err := a.openCaptures()
			if err != nil {
				return err
			}
			defer st.Close()
			return st.Delete(id)
		},
	}

	captures.AddCommand(list, show, add, del)
	return captures
}
