// Package commands builds the host's ready-to-send frames: control reports
// for the dongle and padded radio containers for the tracker.
package commands

import (
	"fmt"
	"math"
	"time"

	"github.com/danmuck/trackerlink/internal/config"
	"github.com/danmuck/trackerlink/internal/protocol"
	"github.com/danmuck/trackerlink/internal/protocol/control"
	"github.com/danmuck/trackerlink/internal/protocol/data"
)

// USB identity of the dongle. It exposes a control and a data interface.
const (
	VendorID  = 0x2687
	ProductID = 0xFB01
)

// ProbeVersion is written to each dongle interface to find the control
// interface: only that one answers with a version report.
var ProbeVersion = []byte{2, byte(control.OutQueryVersion)}

// Builder builds commands from a host configuration.
type Builder struct {
	cfg config.HostConfig
}

func New(cfg config.HostConfig) *Builder {
	return &Builder{cfg: cfg}
}

func (b *Builder) StartDiscovery() ([]byte, error) {
	d := b.cfg.Discovery
	uuid, err := d.BaseUUIDBytes()
	if err != nil {
		return nil, err
	}
	return control.EncodeFrame(control.OutStartDiscovery, &control.StartDiscovery{
		BaseUUID:     uuid,
		ServiceUUID:  d.ServiceUUID,
		TxPortUUID:   d.TxPortUUID,
		RxPortUUID:   d.RxPortUUID,
		ScanDuration: d.ScanDurationMS,
	})
}

func (b *Builder) CancelDiscovery() ([]byte, error) {
	return control.EncodeFrame(control.OutCancelDiscovery, &control.CancelDiscovery{})
}

func (b *Builder) EstablishLinkEx(addr protocol.HardwareAddr) ([]byte, error) {
	l := b.cfg.Link
	return control.EncodeFrame(control.OutEstablishLinkEx, &control.EstablishLinkEx{
		Addr:            addr,
		AddrType:        l.AddrType,
		MinConnInterval: l.MinConnInterval,
		MaxConnInterval: l.MaxConnInterval,
		SlaveLatency:    l.SlaveLatency,
		ConnTimeout:     l.ConnTimeout,
	})
}

func (b *Builder) TerminateLink() ([]byte, error) {
	return control.EncodeFrame(control.OutTerminateLink, &control.TerminateLink{})
}

func (b *Builder) SetTxPipe(enable bool) ([]byte, error) {
	return control.EncodeFrame(control.OutEnableTxPipe, &control.EnableTxPipe{Enable: enable})
}

// SetTransmitterPower uses the configured power level.
func (b *Builder) SetTransmitterPower() ([]byte, error) {
	p, err := b.cfg.Radio.Power()
	if err != nil {
		return nil, err
	}
	return control.EncodeFrame(control.OutSetTransmitterPower, &control.SetTransmitterPower{Power: p})
}

// SetTraceLevel uses the configured dongle trace level.
func (b *Builder) SetTraceLevel() ([]byte, error) {
	l, err := b.cfg.Radio.Trace()
	if err != nil {
		return nil, err
	}
	return control.EncodeFrame(control.OutSetTraceLevel, &control.SetTraceLevel{Level: l})
}

func (b *Builder) ForceDisconnect() ([]byte, error) {
	return control.EncodeFrame(control.OutForceDisconnect, &control.ForceDisconnect{})
}

func (b *Builder) QueryVersion() ([]byte, error) {
	return control.EncodeFrame(control.OutQueryVersion, &control.QueryVersion{})
}

func (b *Builder) EnableFirmware() ([]byte, error) {
	return control.EncodeFrame(control.OutEnableFirmware, &control.EnableFirmware{
		InvertedSecurityCode: ^control.EnableImageSecurityCode,
		SecurityCode:         control.EnableImageSecurityCode,
	})
}

func (b *Builder) DestroyImage() ([]byte, error) {
	return control.EncodeFrame(control.OutDestroyImage, &control.DestroyImage{
		SecurityCode:         control.DestroyImageSecurityCode,
		InvertedSecurityCode: ^control.DestroyImageSecurityCode,
	})
}

// InitAirlink opens the tracker airlink with the configured host version
// and connection parameters.
func (b *Builder) InitAirlink() ([]byte, error) {
	a, l := b.cfg.Airlink, b.cfg.Link
	return data.EncodePadded(data.MiscInitAirlink, &data.InitAirlink{
		MajorHostVersion: a.MajorHostVersion,
		MinorHostVersion: a.MinorHostVersion,
		MinConnInterval:  l.MinConnInterval,
		MaxConnInterval:  l.MaxConnInterval,
		SlaveLatency:     l.SlaveLatency,
		ConnTimeout:      l.ConnTimeout,
	})
}

func (b *Builder) ReadTrackerBlock(block data.TrackerBlock) ([]byte, error) {
	return data.EncodePadded(data.ReadTrackerBlockOp, &data.ReadTrackerBlock{BlockType: block})
}

func (b *Builder) ReadTrackerMemory(start, size uint32) ([]byte, error) {
	return data.EncodePadded(data.ReadTrackerMemoryOp, &data.ReadTrackerMemory{
		StartAddr:      start,
		NumBytesToRead: size,
	})
}

// SetTrackerTime sets the tracker clock in whole seconds since the Unix
// epoch. Times outside the 32-bit clock range are rejected.
func (b *Builder) SetTrackerTime(t time.Time) ([]byte, error) {
	secs := t.Unix()
	if secs < 0 || secs > math.MaxUint32 {
		return nil, protocol.FieldEncodingError{
			Schema: "SetDeviceClock",
			Field:  "gmtTime",
			Reason: fmt.Sprintf("unix time %d outside 0..%d", secs, uint32(math.MaxUint32)),
		}
	}
	return data.EncodePadded(data.MiscSetDeviceClock, &data.SetDeviceClock{GMTTime: uint32(secs)})
}

// TrackerEcho zero-pads payload to the echo width.
func (b *Builder) TrackerEcho(payload []byte) ([]byte, error) {
	if len(payload) > data.EchoPayloadSize {
		return nil, protocol.FieldEncodingError{
			Schema: "Echo",
			Field:  "payloadBytes",
			Reason: fmt.Sprintf("payload of %d bytes exceeds %d", len(payload), data.EchoPayloadSize),
		}
	}
	buf := make([]byte, data.EchoPayloadSize)
	copy(buf, payload)
	return data.EncodePadded(data.MiscEchoPacket, &data.Echo{Payload: buf})
}
