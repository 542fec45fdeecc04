package commands

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/trackerlink/internal/config"
	"github.com/danmuck/trackerlink/internal/protocol"
	"github.com/danmuck/trackerlink/internal/protocol/control"
	"github.com/danmuck/trackerlink/internal/protocol/data"
	"github.com/danmuck/trackerlink/internal/testutil/testlog"
)

func unhex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

func TestStartDiscoveryUsesConfiguredUUIDs(t *testing.T) {
	testlog.Start(t)
	frame, err := New(config.Default()).StartDiscovery()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := unhex(t, "1a04"+config.DefaultBaseUUID+"00fb01fb02fb8813")
	if !bytes.Equal(frame, want) {
		t.Fatalf("expected %x, got %x", want, frame)
	}
}

func TestEstablishLinkExUsesLinkParameters(t *testing.T) {
	testlog.Start(t)
	addr := protocol.HardwareAddr{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	frame, err := New(config.Default()).EstablishLinkEx(addr)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := unhex(t, "1112"+"010203040506"+"01"+"0600"+"0600"+"0000"+"c800")
	if !bytes.Equal(frame, want) {
		t.Fatalf("expected %x, got %x", want, frame)
	}
}

func TestSimpleControlCommands(t *testing.T) {
	testlog.Start(t)
	b := New(config.Default())
	cases := []struct {
		name  string
		build func() ([]byte, error)
		want  []byte
	}{
		{"query version", b.QueryVersion, []byte{2, 1}},
		{"force disconnect", b.ForceDisconnect, []byte{2, 2}},
		{"tx on", func() ([]byte, error) { return b.SetTxPipe(true) }, []byte{3, 8, 1}},
		{"tx off", func() ([]byte, error) { return b.SetTxPipe(false) }, []byte{3, 8, 0}},
		{"power", b.SetTransmitterPower, []byte{3, 13, 5}},
		{"trace", b.SetTraceLevel, []byte{3, 3, 0}},
	}
	for _, tc := range cases {
		got, err := tc.build()
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if !bytes.Equal(got, tc.want) {
			t.Fatalf("%s: expected %x, got %x", tc.name, tc.want, got)
		}
	}
}

func TestProbeVersionMatchesQueryVersion(t *testing.T) {
	testlog.Start(t)
	frame, err := New(config.Default()).QueryVersion()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !bytes.Equal(frame, ProbeVersion) {
		t.Fatalf("expected probe %x, got %x", ProbeVersion, frame)
	}
}

func TestFirmwareCommandsCarryInvertedCodes(t *testing.T) {
	testlog.Start(t)
	b := New(config.Default())

	frame, err := b.EnableFirmware()
	if err != nil {
		t.Fatalf("enable: %v", err)
	}
	m, err := control.DecodeFrame(control.HostToDevice, frame)
	if err != nil {
		t.Fatalf("decode enable: %v", err)
	}
	enable := m.Body.(*control.EnableFirmware)
	if enable.SecurityCode != control.EnableImageSecurityCode || enable.InvertedSecurityCode != ^control.EnableImageSecurityCode {
		t.Fatalf("unexpected enable codes %+v", enable)
	}

	frame, err = b.DestroyImage()
	if err != nil {
		t.Fatalf("destroy: %v", err)
	}
	m, err = control.DecodeFrame(control.HostToDevice, frame)
	if err != nil {
		t.Fatalf("decode destroy: %v", err)
	}
	destroy := m.Body.(*control.DestroyImage)
	if destroy.SecurityCode^destroy.InvertedSecurityCode != 0xFFFFFFFF {
		t.Fatalf("codes are not complements: %+v", destroy)
	}
}

func TestInitAirlinkContainer(t *testing.T) {
	testlog.Start(t)
	container, err := New(config.Default()).InitAirlink()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(container) != data.ContainerSize {
		t.Fatalf("expected %d byte container, got %d", data.ContainerSize, len(container))
	}
	want := unhex(t, "c00a"+"0a04"+"0600"+"0600"+"0000"+"c800")
	if !bytes.Equal(container[:len(want)], want) {
		t.Fatalf("expected frame %x, got %x", want, container[:len(want)])
	}
	if container[data.ContainerSize-1] != byte(len(want)) {
		t.Fatalf("expected trailing length %d, got %d", len(want), container[data.ContainerSize-1])
	}
}

func TestDataCommandsDecode(t *testing.T) {
	testlog.Start(t)
	b := New(config.Default())
	when := time.Unix(1700000000, 0)

	cases := []struct {
		name  string
		build func() ([]byte, error)
		check func(t *testing.T, body protocol.Body)
	}{
		{"block", func() ([]byte, error) { return b.ReadTrackerBlock(data.BlockMegaDump) }, func(t *testing.T, body protocol.Body) {
			if got := body.(*data.ReadTrackerBlock).BlockType; got != data.BlockMegaDump {
				t.Fatalf("expected MEGA_DUMP, got %v", got)
			}
		}},
		{"memory", func() ([]byte, error) { return b.ReadTrackerMemory(0x1000, 64) }, func(t *testing.T, body protocol.Body) {
			p := body.(*data.ReadTrackerMemory)
			if p.StartAddr != 0x1000 || p.NumBytesToRead != 64 {
				t.Fatalf("unexpected memory request %+v", p)
			}
		}},
		{"clock", func() ([]byte, error) { return b.SetTrackerTime(when) }, func(t *testing.T, body protocol.Body) {
			if got := body.(*data.SetDeviceClock).GMTTime; got != 1700000000 {
				t.Fatalf("expected 1700000000, got %d", got)
			}
		}},
		{"echo", func() ([]byte, error) { return b.TrackerEcho([]byte("hi")) }, func(t *testing.T, body protocol.Body) {
			want := append([]byte("hi"), make([]byte, data.EchoPayloadSize-2)...)
			if got := body.(*data.Echo).Payload; !bytes.Equal(got, want) {
				t.Fatalf("expected %x, got %x", want, got)
			}
		}},
	}
	for _, tc := range cases {
		container, err := tc.build()
		if err != nil {
			t.Fatalf("%s: build: %v", tc.name, err)
		}
		frame, err := data.Unpad(container)
		if err != nil {
			t.Fatalf("%s: unpad: %v", tc.name, err)
		}
		m, err := data.DecodeFrame(frame)
		if err != nil {
			t.Fatalf("%s: decode: %v", tc.name, err)
		}
		tc.check(t, m.Body)
	}
}

func TestTrackerEchoRejectsLongPayload(t *testing.T) {
	testlog.Start(t)
	_, err := New(config.Default()).TrackerEcho(make([]byte, data.EchoPayloadSize+1))
	var fe protocol.FieldEncodingError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldEncodingError, got %v", err)
	}
	if !errors.Is(err, protocol.ErrFieldEncoding) {
		t.Fatalf("expected ErrFieldEncoding, got %v", err)
	}
}

func TestSetTrackerTimeRejectsOutOfRange(t *testing.T) {
	testlog.Start(t)
	b := New(config.Default())
	for _, when := range []time.Time{time.Unix(-1, 0), time.Unix(1<<32, 0)} {
		_, err := b.SetTrackerTime(when)
		var fe protocol.FieldEncodingError
		if !errors.As(err, &fe) || fe.Field != "gmtTime" {
			t.Fatalf("%d: expected gmtTime FieldEncodingError, got %v", when.Unix(), err)
		}
	}
	if _, err := b.SetTrackerTime(time.Unix(1<<32-1, 0)); err != nil {
		t.Fatalf("expected last 32-bit second to encode, got %v", err)
	}
	if _, _, err := b.Build("set-time", []string{"-1"}); !errors.Is(err, protocol.ErrFieldEncoding) {
		t.Fatalf("expected set-time -1 to fail encoding, got %v", err)
	}
}

func TestBadRadioConfigSurfaces(t *testing.T) {
	testlog.Start(t)
	cfg := config.Default()
	cfg.Radio.TransmitterPower = "LOUD"
	if _, err := New(cfg).SetTransmitterPower(); err == nil {
		t.Fatalf("expected error for unknown power level")
	}
}

func TestCatalogBuild(t *testing.T) {
	testlog.Start(t)
	b := New(config.Default())

	spec, frame, err := b.Build("establish-link", []string{"01:02:03:04:05:06"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if spec.Channel != ChannelControl || frame[1] != byte(control.OutEstablishLinkEx) {
		t.Fatalf("unexpected %s frame %x", spec.Channel, frame)
	}

	spec, frame, err = b.Build("read-block", nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if spec.Channel != ChannelData || len(frame) != data.ContainerSize {
		t.Fatalf("unexpected %s frame %x", spec.Channel, frame)
	}

	if _, _, err := b.Build("read-memory", []string{"0x10"}); err == nil {
		t.Fatalf("expected argument count error")
	}
	if _, _, err := b.Build("query-version", []string{"x"}); err == nil {
		t.Fatalf("expected no-args error")
	}
	if _, _, err := b.Build("launch", nil); err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestCatalogSortedAndBuildable(t *testing.T) {
	testlog.Start(t)
	specs := Catalog()
	for i := 1; i < len(specs); i++ {
		if specs[i-1].Name >= specs[i].Name {
			t.Fatalf("catalog not sorted at %s", specs[i].Name)
		}
	}
	b := New(config.Default())
	for _, s := range specs {
		if s.Args != "" && !strings.HasPrefix(s.Args, "[") {
			continue
		}
		if _, _, err := b.Build(s.Name, nil); err != nil {
			t.Fatalf("%s: %v", s.Name, err)
		}
	}
}
