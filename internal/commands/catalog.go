package commands

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/danmuck/trackerlink/internal/protocol"
	"github.com/danmuck/trackerlink/internal/protocol/data"
)

// Channel names the interface a command is written to.
type Channel string

const (
	ChannelControl Channel = "control"
	ChannelData    Channel = "data"
)

// Spec describes one named command for tooling.
type Spec struct {
	Name    string
	Channel Channel
	Args    string
	Summary string
	build   func(b *Builder, args []string) ([]byte, error)
}

func noArgs(fn func(*Builder) ([]byte, error)) func(*Builder, []string) ([]byte, error) {
	return func(b *Builder, args []string) ([]byte, error) {
		if len(args) != 0 {
			return nil, fmt.Errorf("takes no arguments, got %d", len(args))
		}
		return fn(b)
	}
}

var catalog = []Spec{
	{Name: "probe-version", Channel: ChannelControl, Summary: "control interface probe",
		build: noArgs(func(*Builder) ([]byte, error) { return append([]byte(nil), ProbeVersion...), nil })},
	{Name: "query-version", Channel: ChannelControl, Summary: "ask the dongle for its version",
		build: noArgs((*Builder).QueryVersion)},
	{Name: "start-discovery", Channel: ChannelControl, Summary: "scan for trackers",
		build: noArgs((*Builder).StartDiscovery)},
	{Name: "cancel-discovery", Channel: ChannelControl, Summary: "stop scanning",
		build: noArgs((*Builder).CancelDiscovery)},
	{Name: "establish-link", Channel: ChannelControl, Args: "<addr>", Summary: "connect to a tracker",
		build: func(b *Builder, args []string) ([]byte, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("expects a hardware address")
			}
			addr, err := protocol.ParseHardwareAddr(args[0])
			if err != nil {
				return nil, err
			}
			return b.EstablishLinkEx(addr)
		}},
	{Name: "terminate-link", Channel: ChannelControl, Summary: "drop the tracker link",
		build: noArgs((*Builder).TerminateLink)},
	{Name: "enable-tx", Channel: ChannelControl, Summary: "open the data pipe",
		build: noArgs(func(b *Builder) ([]byte, error) { return b.SetTxPipe(true) })},
	{Name: "disable-tx", Channel: ChannelControl, Summary: "close the data pipe",
		build: noArgs(func(b *Builder) ([]byte, error) { return b.SetTxPipe(false) })},
	{Name: "set-power", Channel: ChannelControl, Summary: "apply radio.transmitter_power",
		build: noArgs((*Builder).SetTransmitterPower)},
	{Name: "set-trace", Channel: ChannelControl, Summary: "apply radio.trace_level",
		build: noArgs((*Builder).SetTraceLevel)},
	{Name: "force-disconnect", Channel: ChannelControl, Summary: "reset the dongle link state",
		build: noArgs((*Builder).ForceDisconnect)},
	{Name: "enable-firmware", Channel: ChannelControl, Summary: "mark the firmware image valid",
		build: noArgs((*Builder).EnableFirmware)},
	{Name: "destroy-image", Channel: ChannelControl, Summary: "invalidate the firmware image",
		build: noArgs((*Builder).DestroyImage)},
	{Name: "init-airlink", Channel: ChannelData, Summary: "open the tracker airlink",
		build: noArgs((*Builder).InitAirlink)},
	{Name: "read-block", Channel: ChannelData, Args: "[block]", Summary: "request a tracker block (default MEGA_DUMP)",
		build: func(b *Builder, args []string) ([]byte, error) {
			block := data.BlockMegaDump
			if len(args) > 1 {
				return nil, fmt.Errorf("expects at most one block name")
			}
			if len(args) == 1 {
				var err error
				if block, err = data.ParseTrackerBlock(args[0]); err != nil {
					return nil, err
				}
			}
			return b.ReadTrackerBlock(block)
		}},
	{Name: "read-memory", Channel: ChannelData, Args: "<start> <size>", Summary: "read tracker memory",
		build: func(b *Builder, args []string) ([]byte, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("expects start address and size")
			}
			start, err := strconv.ParseUint(args[0], 0, 32)
			if err != nil {
				return nil, fmt.Errorf("start: %w", err)
			}
			size, err := strconv.ParseUint(args[1], 0, 32)
			if err != nil {
				return nil, fmt.Errorf("size: %w", err)
			}
			return b.ReadTrackerMemory(uint32(start), uint32(size))
		}},
	{Name: "set-time", Channel: ChannelData, Args: "[unix-seconds]", Summary: "set the tracker clock (default now)",
		build: func(b *Builder, args []string) ([]byte, error) {
			t := time.Now()
			if len(args) > 1 {
				return nil, fmt.Errorf("expects at most one timestamp")
			}
			if len(args) == 1 {
				secs, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return nil, fmt.Errorf("timestamp: %w", err)
				}
				t = time.Unix(secs, 0)
			}
			return b.SetTrackerTime(t)
		}},
	{Name: "echo", Channel: ChannelData, Args: "<text>", Summary: "tracker echo, up to 16 bytes",
		build: func(b *Builder, args []string) ([]byte, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("expects one payload argument")
			}
			return b.TrackerEcho([]byte(args[0]))
		}},
}

// Catalog lists the named commands ordered by name.
func Catalog() []Spec {
	out := append([]Spec(nil), catalog...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Build builds the named command.
func (b *Builder) Build(name string, args []string) (Spec, []byte, error) {
	for _, s := range catalog {
		if s.Name != name {
			continue
		}
		frame, err := s.build(b, args)
		if err != nil {
			return s, nil, fmt.Errorf("build %s: %w", name, err)
		}
		return s, frame, nil
	}
	return Spec{}, nil, fmt.Errorf("unknown command %q", name)
}
