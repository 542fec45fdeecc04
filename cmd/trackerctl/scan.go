package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/danmuck/trackerlink/internal/capture"
	"github.com/danmuck/trackerlink/internal/logscan"
	"github.com/danmuck/trackerlink/internal/observability"
	"github.com/danmuck/trackerlink/internal/output"
)

type scanRow struct {
	Line      int               `json:"line" yaml:"line"`
	Direction string            `json:"direction" yaml:"direction"`
	Bytes     string            `json:"bytes" yaml:"bytes"`
	Opcode    string            `json:"opcode,omitempty" yaml:"opcode,omitempty"`
	Schema    string            `json:"schema,omitempty" yaml:"schema,omitempty"`
	Error     string            `json:"error,omitempty" yaml:"error,omitempty"`
	Fields    []output.FieldRow `json:"fields,omitempty" yaml:"fields,omitempty"`
}

func newScanRow(r logscan.Result) scanRow {
	row := scanRow{Line: r.Line, Direction: r.Direction.String(), Bytes: output.Hex(r.Frame)}
	if r.Err != nil {
		row.Error = r.Err.Error()
		return row
	}
	f := controlFrame(r.Message, r.Frame)
	row.Opcode, row.Schema, row.Fields = f.Opcode, f.Schema, f.Fields
	return row
}

func writeScanRow(w io.Writer, row scanRow) {
	fmt.Fprintf(w, "%s %s\n", output.Marker(row.Direction), row.Bytes)
	if row.Error != "" {
		fmt.Fprintf(w, "    %s\n", output.Failure(row.Error))
		return
	}
	parts := make([]string, 0, len(row.Fields))
	for _, f := range row.Fields {
		parts = append(parts, f.Field+"="+f.Value)
	}
	fmt.Fprintf(w, "    %s %s\n", row.Schema, strings.Join(parts, " "))
}

// serveMetrics exposes rec on addr until ctx is cancelled.
func serveMetrics(ctx context.Context, addr string, rec *observability.Recorder) error {
	srv := &http.Server{Addr: addr, Handler: observability.Router(rec, log.Logger)}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	log.Info().Str("addr", addr).Msg("serving decode metrics")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newScanCmd(a *app) *cobra.Command {
	var store, stats bool
	var serve string
	cmd := &cobra.Command{
		Use:   "scan <logfile>",
		Short: "Decode every control report logged by the host tool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			var rec *observability.Recorder
			if stats || serve != "" {
				rec = observability.NewRecorder()
			}
			var st *capture.Store
			if store {
				if err := os.MkdirAll(a.cfg.Capture.Dir, 0o755); err != nil {
					return err
				}
				if st, err = capture.Open(a.cfg.Capture.Dir); err != nil {
					return err
				}
				defer st.Close()
			}

			source := filepath.Base(args[0])
			stored := 0
			var rows []scanRow
			err = logscan.Decoder{Recorder: rec}.DecodeAll(f, func(r logscan.Result) error {
				if st != nil {
					if _, err := st.Put(capture.Record{
						Channel:   capture.ChannelControl,
						Direction: r.Direction.String(),
						Source:    source,
						Line:      r.Line,
						Frame:     r.Frame,
					}); err != nil {
						return err
					}
					stored++
				}
				row := newScanRow(r)
				if a.tableOutput() {
					writeScanRow(cmd.OutOrStdout(), row)
					return nil
				}
				rows = append(rows, row)
				return nil
			})
			if err != nil {
				return err
			}
			if st != nil {
				log.Info().Int("frames", stored).Str("dir", a.cfg.Capture.Dir).Msg("stored captured frames")
			}
			if !a.tableOutput() {
				if rows == nil {
					rows = []scanRow{}
				}
				fmt.Fprint(cmd.OutOrStdout(), a.formatter.Format(rows))
			}
			if stats {
				s, err := rec.Stats()
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), a.formatter.Format(s))
			}
			if serve != "" {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
				defer stop()
				return serveMetrics(ctx, serve, rec)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&store, "store", false, "save every report to the capture store")
	cmd.Flags().BoolVar(&stats, "stats", false, "print decode counters after the scan")
	cmd.Flags().StringVar(&serve, "serve", "", "after the scan, serve decode metrics on this address until interrupted")
	return cmd
}
