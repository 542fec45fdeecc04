package config

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/danmuck/trackerlink/internal/protocol/control"
)

// HostConfig parameterizes the prebuilt host commands and local tooling.
type HostConfig struct {
	Discovery DiscoveryConfig `toml:"discovery"`
	Link      LinkConfig      `toml:"link"`
	Airlink   AirlinkConfig   `toml:"airlink"`
	Radio     RadioConfig     `toml:"radio"`
	Capture   CaptureConfig   `toml:"capture"`
}

type DiscoveryConfig struct {
	BaseUUID       string `toml:"base_uuid"`
	ServiceUUID    uint16 `toml:"service_uuid"`
	TxPortUUID     uint16 `toml:"tx_port_uuid"`
	RxPortUUID     uint16 `toml:"rx_port_uuid"`
	ScanDurationMS uint16 `toml:"scan_duration_ms"`
}

type LinkConfig struct {
	AddrType        uint8  `toml:"addr_type"`
	MinConnInterval uint16 `toml:"min_conn_interval"`
	MaxConnInterval uint16 `toml:"max_conn_interval"`
	SlaveLatency    uint16 `toml:"slave_latency"`
	ConnTimeout     uint16 `toml:"conn_timeout"`
}

type AirlinkConfig struct {
	MajorHostVersion uint8 `toml:"major_host_version"`
	MinorHostVersion uint8 `toml:"minor_host_version"`
}

type RadioConfig struct {
	TransmitterPower string `toml:"transmitter_power"`
	TraceLevel       string `toml:"trace_level"`
}

type CaptureConfig struct {
	Dir string `toml:"dir"`
}

// DefaultBaseUUID is the tracker service base UUID in wire order.
const DefaultBaseUUID = "ba5689a6fabfa2bd01467d6e0000abad"

func Default() HostConfig {
	return HostConfig{
		Discovery: DiscoveryConfig{
			BaseUUID:       DefaultBaseUUID,
			ServiceUUID:    0xFB00,
			TxPortUUID:     0xFB01,
			RxPortUUID:     0xFB02,
			ScanDurationMS: 5000,
		},
		Link: LinkConfig{
			AddrType:        1,
			MinConnInterval: 6,
			MaxConnInterval: 6,
			SlaveLatency:    0,
			ConnTimeout:     200,
		},
		Airlink: AirlinkConfig{
			MajorHostVersion: 10,
			MinorHostVersion: 4,
		},
		Radio: RadioConfig{
			TransmitterPower: "MAXIMUM",
			TraceLevel:       "OFF",
		},
		Capture: CaptureConfig{
			Dir: ".trackerlink/captures",
		},
	}
}

// Load reads path over the defaults. Keys the file does not set keep their
// default; unknown keys are rejected.
func Load(path string) (HostConfig, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return HostConfig{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return HostConfig{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("discovery", "base_uuid") {
		cfg.Discovery.BaseUUID = normalizeHex(cfg.Discovery.BaseUUID)
	}
	if err := Validate(cfg); err != nil {
		return HostConfig{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path, or returns the defaults when path is empty.
func LoadOrDefault(path string) (HostConfig, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return Load(path)
}

// Encode renders cfg as TOML that Load reads back unchanged.
func Encode(cfg HostConfig) ([]byte, error) {
	out, err := gotoml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config encode failed: %w", err)
	}
	return out, nil
}

func normalizeHex(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	return strings.NewReplacer("-", "", ":", "", " ", "", "0x", "").Replace(s)
}

func Validate(cfg HostConfig) error {
	if _, err := cfg.Discovery.BaseUUIDBytes(); err != nil {
		return err
	}
	if cfg.Discovery.ScanDurationMS == 0 {
		return fmt.Errorf("discovery.scan_duration_ms must be positive")
	}
	if cfg.Link.MinConnInterval > cfg.Link.MaxConnInterval {
		return fmt.Errorf("link.min_conn_interval %d exceeds max_conn_interval %d",
			cfg.Link.MinConnInterval, cfg.Link.MaxConnInterval)
	}
	if _, err := cfg.Radio.Power(); err != nil {
		return fmt.Errorf("radio.transmitter_power: %w", err)
	}
	if _, err := cfg.Radio.Trace(); err != nil {
		return fmt.Errorf("radio.trace_level: %w", err)
	}
	if strings.TrimSpace(cfg.Capture.Dir) == "" {
		return fmt.Errorf("capture.dir is required")
	}
	return nil
}

// BaseUUIDBytes decodes the base UUID into its 16 wire bytes.
func (d DiscoveryConfig) BaseUUIDBytes() ([]byte, error) {
	b, err := hex.DecodeString(normalizeHex(d.BaseUUID))
	if err != nil {
		return nil, fmt.Errorf("discovery.base_uuid: %w", err)
	}
	if len(b) != control.BaseUUIDSize {
		return nil, fmt.Errorf("discovery.base_uuid has %d bytes, want %d", len(b), control.BaseUUIDSize)
	}
	return b, nil
}

func (r RadioConfig) Power() (control.TransmitterPower, error) {
	return control.ParseTransmitterPower(r.TransmitterPower)
}

func (r RadioConfig) Trace() (control.TraceLevel, error) {
	return control.ParseTraceLevel(r.TraceLevel)
}
