package observability

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"

	"github.com/danmuck/trackerlink/internal/protocol"
)

// Decode outcomes used as the "outcome" label.
const (
	OutcomeDecoded       = "decoded"
	OutcomeFallback      = "fallback"
	OutcomeFraming       = "framing_error"
	OutcomeUnknownOpcode = "unknown_opcode"
	OutcomeTruncated     = "truncated"
	OutcomeEncoding      = "encoding_error"
	OutcomeInvalid       = "invalid"
)

// Recorder counts decode outcomes on its own registry so a single run of
// a tool can report them without touching the default registry.
type Recorder struct {
	registry *prometheus.Registry
	frames   *prometheus.CounterVec
	opcodes  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		frames: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trackerlink",
				Subsystem: "codec",
				Name:      "frames_total",
				Help:      "Frames passed to the decoder by channel, direction and outcome.",
			},
			[]string{"channel", "direction", "outcome"},
		),
		opcodes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trackerlink",
				Subsystem: "codec",
				Name:      "opcodes_total",
				Help:      "Decoded frames by opcode.",
			},
			[]string{"channel", "opcode"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "trackerlink",
				Subsystem: "codec",
				Name:      "decode_duration_seconds",
				Help:      "Frame decode duration in seconds.",
				Buckets:   []float64{1e-7, 1e-6, 1e-5, 1e-4, 1e-3},
			},
			[]string{"channel"},
		),
	}
	r.registry.MustRegister(r.frames, r.opcodes, r.duration)
	return r
}

// Registry exposes the recorder's registry, e.g. for a push or scrape.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the recorder's metrics in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Outcome classifies a decode result.
func Outcome(err error, fallback bool) string {
	switch {
	case err == nil && fallback:
		return OutcomeFallback
	case err == nil:
		return OutcomeDecoded
	case errors.Is(err, protocol.ErrFraming):
		return OutcomeFraming
	case errors.Is(err, protocol.ErrUnknownOpcode):
		return OutcomeUnknownOpcode
	case errors.Is(err, protocol.ErrTruncatedFrame):
		return OutcomeTruncated
	case errors.Is(err, protocol.ErrFieldEncoding):
		return OutcomeEncoding
	default:
		return OutcomeInvalid
	}
}

// RecordDecode counts one decode attempt. opcode is empty when decoding
// failed before the opcode was known.
func (r *Recorder) RecordDecode(channel, direction, opcode string, fallback bool, err error, duration time.Duration) {
	r.frames.WithLabelValues(channel, direction, Outcome(err, fallback)).Inc()
	if err == nil && opcode != "" {
		r.opcodes.WithLabelValues(channel, opcode).Inc()
	}
	r.duration.WithLabelValues(channel).Observe(duration.Seconds())
}

// Stat is one counter sample.
type Stat struct {
	Metric string            `json:"metric" yaml:"metric"`
	Labels map[string]string `json:"labels" yaml:"labels"`
	Value  float64           `json:"value" yaml:"value"`
}

// Stats gathers every counter sample, ordered by metric and labels.
func (r *Recorder) Stats() ([]Stat, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return nil, err
	}
	var out []Stat
	for _, mf := range families {
		if mf.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := make(map[string]string, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			out = append(out, Stat{Metric: mf.GetName(), Labels: labels, Value: m.GetCounter().GetValue()})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Metric != out[j].Metric {
			return out[i].Metric < out[j].Metric
		}
		return out[i].Value > out[j].Value
	})
	return out, nil
}
