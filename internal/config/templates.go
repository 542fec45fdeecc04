package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "host":
		return hostTemplate, nil
	case "minimal":
		return minimalTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const hostTemplate = `[discovery]
base_uuid = "ba5689a6fabfa2bd01467d6e0000abad"
service_uuid = 64256
tx_port_uuid = 64257
rx_port_uuid = 64258
scan_duration_ms = 5000

[link]
addr_type = 1
min_conn_interval = 6
max_conn_interval = 6
slave_latency = 0
conn_timeout = 200

[airlink]
major_host_version = 10
minor_host_version = 4

[radio]
transmitter_power = "MAXIMUM"
trace_level = "OFF"

[capture]
dir = ".trackerlink/captures"
`

const minimalTemplate = `[capture]
dir = ".trackerlink/captures"
`
