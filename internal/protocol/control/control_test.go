package control

import (
	"bytes"
	"errors"
	"testing"

	"github.com/danmuck/trackerlink/internal/protocol"
	"github.com/danmuck/trackerlink/internal/testutil/testlog"
)

// frameFor fills a frame of the schema's size with varied but canonical
// field bytes: flags are 0 or 1 so re-encoding is byte exact.
func frameFor(s protocol.Schema, code uint8, seed byte) []byte {
	b := make([]byte, s.Size)
	for i := range b {
		b[i] = seed + byte(i*7)
	}
	b[0] = byte(s.Size)
	b[1] = code
	for _, d := range s.Fields {
		if d.Kind == protocol.KindBool {
			b[d.Offset] = 1
		}
	}
	return b
}

func TestRoundTripEveryFixedSchema(t *testing.T) {
	testlog.Start(t)
	for _, dir := range []Direction{HostToDevice, DeviceToHost} {
		for _, row := range Schemas(dir) {
			if !row.Schema.Fixed {
				continue
			}
			frame := frameFor(row.Schema, row.Opcode.Code(), 0x11)
			m, err := DecodeFrame(dir, frame)
			if err != nil {
				t.Fatalf("%s %s: decode: %v", dir, row.Schema.Name, err)
			}
			if m.Schema.Name != row.Schema.Name {
				t.Fatalf("%s: expected schema %s, got %s", row.Opcode, row.Schema.Name, m.Schema.Name)
			}
			out, err := EncodeFrame(m.Opcode, m.Body)
			if err != nil {
				t.Fatalf("%s %s: encode: %v", dir, row.Schema.Name, err)
			}
			if !bytes.Equal(out, frame) {
				t.Fatalf("%s %s: round-trip mismatch\nwant % X\ngot  % X", dir, row.Schema.Name, frame, out)
			}
		}
	}
}

func TestEncodeSetsLengthByte(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		op   Opcode
		body protocol.Body
		want int
	}{
		{OutQueryVersion, &QueryVersion{}, 2},
		{OutEnableTxPipe, &EnableTxPipe{Enable: true}, 3},
		{OutEstablishLinkEx, &EstablishLinkEx{AddrType: 1, MinConnInterval: 6, MaxConnInterval: 6, ConnTimeout: 200}, 17},
		{OutStartDiscovery, &StartDiscovery{BaseUUID: make([]byte, BaseUUIDSize), ServiceUUID: 0xFB00}, 26},
		{OutWriteFlashData, &WriteFlashMemory{Data: make([]byte, FlashDataSize)}, 32},
		{InNakResponse, &NakResponse{}, 2},
		{InNakResponse, &NakResponse{ErrorCode: protocol.Some(18)}, 4},
	}
	for _, tc := range cases {
		out, err := EncodeFrame(tc.op, tc.body)
		if err != nil {
			t.Fatalf("%s: encode: %v", tc.op, err)
		}
		if len(out) != tc.want || int(out[0]) != tc.want {
			t.Fatalf("%s: expected length %d, got len=%d byte=%d", tc.op, tc.want, len(out), out[0])
		}
		if out[1] != tc.op.Code() {
			t.Fatalf("%s: expected opcode byte %d, got %d", tc.op, tc.op.Code(), out[1])
		}
	}
}

func TestEstablishLinkAliases(t *testing.T) {
	testlog.Start(t)
	body := &EstablishLinkEx{Addr: protocol.HardwareAddr{1, 2, 3, 4, 5, 6}, AddrType: 1}
	a, err := EncodeFrame(OutEstablishLinkEx, body)
	if err != nil {
		t.Fatalf("encode ex: %v", err)
	}
	b, err := EncodeFrame(OutEstablishLinkEx2, body)
	if err != nil {
		t.Fatalf("encode ex2: %v", err)
	}
	if !bytes.Equal(a[2:], b[2:]) || a[1] == b[1] {
		t.Fatalf("expected same payload under different opcodes: % X vs % X", a, b)
	}
	m, err := DecodeFrame(HostToDevice, b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Opcode != OutEstablishLinkEx2 || m.Schema.Name != "EstablishLinkEx" {
		t.Fatalf("unexpected decode: %s %s", m.Opcode, m.Schema.Name)
	}
}

func TestVersionResponseVariants(t *testing.T) {
	testlog.Start(t)
	legacy := make([]byte, ReportSize)
	legacy[0] = 21
	legacy[1] = byte(InVersionResponse)
	legacy[2], legacy[3] = 1, 2
	legacy[20] = byte(MicroCC2540F256)
	legacy[21] = 0x7F

	m, err := DecodeFrame(DeviceToHost, legacy)
	if err != nil {
		t.Fatalf("decode legacy: %v", err)
	}
	v, ok := m.Body.(*VersionResponse)
	if !ok {
		t.Fatalf("expected *VersionResponse, got %T", m.Body)
	}
	if v.MajorVersion != 1 || v.MinorVersion != 2 || v.Microcontroller != MicroCC2540F256 {
		t.Fatalf("unexpected legacy fields: %+v", v)
	}

	ext := append([]byte(nil), legacy...)
	ext[0] = 22
	m, err = DecodeFrame(DeviceToHost, ext)
	if err != nil {
		t.Fatalf("decode extended: %v", err)
	}
	vx, ok := m.Body.(*VersionResponseEx)
	if !ok {
		t.Fatalf("expected *VersionResponseEx, got %T", m.Body)
	}
	if vx.HardwareRevision != 0x7F || vx.Microcontroller != MicroCC2540F256 {
		t.Fatalf("unexpected extended fields: %+v", vx)
	}
	if m.Schema.Size != 22 {
		t.Fatalf("expected extended schema size 22, got %d", m.Schema.Size)
	}
}

func TestBootloaderVersionUsesLegacyLayout(t *testing.T) {
	testlog.Start(t)
	frame := make([]byte, 22)
	frame[0] = 22
	frame[1] = byte(InBootloaderVersionResponse)
	frame[2] = 3
	m, err := DecodeFrame(DeviceToHost, frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	v, ok := m.Body.(*BootloaderVersionResponse)
	if !ok || v.MajorVersion != 3 {
		t.Fatalf("expected bootloader version 3, got %T %+v", m.Body, m.Body)
	}
}

func TestNakOptionalErrorCode(t *testing.T) {
	testlog.Start(t)
	m, err := DecodeFrame(DeviceToHost, []byte{0x04, 0xFF, 0x00, 0x00})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Opcode != InNakResponse {
		t.Fatalf("expected NAK, got %s", m.Opcode)
	}
	code, ok := m.Body.(*NakResponse).Code()
	if !ok || code != 0 {
		t.Fatalf("expected present error code 0, got %v %v", code, ok)
	}

	m, err = DecodeFrame(DeviceToHost, []byte{0x02, 0xFF})
	if err != nil {
		t.Fatalf("decode short: %v", err)
	}
	if _, ok := m.Body.(*NakResponse).Code(); ok {
		t.Fatalf("expected absent error code")
	}

	padded := Report([]byte{0x04, 0xFF, 0x3B, 0x00})
	m, err = DecodeFrame(DeviceToHost, padded)
	if err != nil {
		t.Fatalf("decode padded: %v", err)
	}
	if code, _ := m.Body.(*NakResponse).Code(); code != 59 {
		t.Fatalf("expected error code 59, got %d", code)
	}
}

func TestFallbackTotality(t *testing.T) {
	testlog.Start(t)
	for op := range outFallback {
		frame := Report([]byte{2, byte(op)})
		m, err := DecodeFrame(HostToDevice, frame)
		if err != nil {
			t.Fatalf("%s: decode: %v", op, err)
		}
		raw, ok := m.Body.(*protocol.Raw)
		if !ok || !m.Fallback {
			t.Fatalf("%s: expected raw fallback, got %T", op, m.Body)
		}
		if len(raw.Payload) != ReportSize-HeaderSize {
			t.Fatalf("%s: expected %d payload bytes, got %d", op, ReportSize-HeaderSize, len(raw.Payload))
		}
	}
	for op := range inFallback {
		frame := Report([]byte{5, byte(op), 0xAA, 0xBB, 0xCC})
		m, err := DecodeFrame(DeviceToHost, frame)
		if err != nil {
			t.Fatalf("%s: decode: %v", op, err)
		}
		raw := m.Body.(*protocol.Raw)
		if !bytes.Equal(raw.Payload, []byte{0xAA, 0xBB, 0xCC}) {
			t.Fatalf("%s: expected payload AA BB CC, got % X", op, raw.Payload)
		}
		if m.Schema.Name != inFallbackName || m.Schema.Size != 5 {
			t.Fatalf("%s: unexpected fallback schema %+v", op, m.Schema)
		}
	}
}

func TestUnknownOpcode(t *testing.T) {
	testlog.Start(t)
	_, err := DecodeFrame(HostToDevice, []byte{2, 26})
	var ue protocol.UnknownOpcodeError
	if !errors.As(err, &ue) || ue.Code != 26 {
		t.Fatalf("expected UnknownOpcodeError for 26, got %v", err)
	}
	_, err = DecodeFrame(DeviceToHost, []byte{2, 19})
	if !errors.Is(err, protocol.ErrUnknownOpcode) {
		t.Fatalf("expected ErrUnknownOpcode, got %v", err)
	}
	_, err = EncodeFrame(OutOpcode(100), &protocol.Raw{})
	if !errors.Is(err, protocol.ErrUnknownOpcode) {
		t.Fatalf("expected ErrUnknownOpcode on encode, got %v", err)
	}
}

func TestDeclaredLengthBounds(t *testing.T) {
	testlog.Start(t)
	for _, frame := range [][]byte{{}, {0x01}, {0x01, 0x00}, {0x09, 0x00, 0x00}} {
		_, err := DecodeFrame(DeviceToHost, frame)
		if !errors.Is(err, protocol.ErrTruncatedFrame) {
			t.Fatalf("% X: expected ErrTruncatedFrame, got %v", frame, err)
		}
	}
}

func TestTruncatedMandatoryField(t *testing.T) {
	testlog.Start(t)
	_, err := DecodeFrame(DeviceToHost, []byte{0x05, byte(InLinkParameterUpdate), 0x01, 0x00, 0x02})
	var te protocol.TruncatedFrameError
	if !errors.As(err, &te) {
		t.Fatalf("expected TruncatedFrameError, got %v", err)
	}
	if te.Field != "connLatency" {
		t.Fatalf("expected connLatency to be truncated, got %q", te.Field)
	}
}

func TestInboundPaddingIgnored(t *testing.T) {
	testlog.Start(t)
	frame := Report([]byte{3, byte(InRSSIData), 0xC4})
	for i := 3; i < len(frame); i++ {
		frame[i] = 0xEE
	}
	m, err := DecodeFrame(DeviceToHost, frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := m.Body.(*RSSIData).RSSI; got != -60 {
		t.Fatalf("expected rssi -60, got %d", got)
	}
}

func TestEncodeRejectsMismatchedShape(t *testing.T) {
	testlog.Start(t)
	_, err := EncodeFrame(OutQueryVersion, &EnableTxPipe{})
	if !errors.Is(err, protocol.ErrFieldEncoding) {
		t.Fatalf("expected ErrFieldEncoding, got %v", err)
	}
	_, err = EncodeFrame(OutEchoRequest, &EchoRequest{Payload: []byte{1, 2}})
	var fe protocol.FieldEncodingError
	if !errors.As(err, &fe) || fe.Field != "payload" {
		t.Fatalf("expected payload encoding error, got %v", err)
	}
	if _, err := EncodeFrame(OutReboot, &protocol.Raw{}); err != nil {
		t.Fatalf("expected raw body for fallback opcode, got %v", err)
	}
}

func TestTraceMessageText(t *testing.T) {
	testlog.Start(t)
	frame := Report(append([]byte{32, byte(InTraceMsg)}, "link up\x00"...))
	m, err := DecodeFrame(DeviceToHost, frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	tm := m.Body.(*TraceMsg)
	if tm.Text() != "link up" || len(tm.Message) != ReportSize-HeaderSize {
		t.Fatalf("unexpected trace message %q", tm.Message)
	}
}

func TestMessageFieldsNestHeader(t *testing.T) {
	testlog.Start(t)
	m, err := DecodeFrame(DeviceToHost, []byte{3, byte(InDiscoveryComplete), 2})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	f := m.Fields()
	if len(f) != 2 || f[0].Name != "hdr" || f[1].Name != "numTrackers" {
		t.Fatalf("unexpected fields %+v", f)
	}
	if got := f[0].Text(); got != "{length=3, opcode=HID_CTRL_IN_DISCOVERY_COMPLETE}" {
		t.Fatalf("unexpected header text %q", got)
	}
}

func TestRegistryCoversEnumerations(t *testing.T) {
	testlog.Start(t)
	if got, want := len(Schemas(HostToDevice)), len(outNames); got != want {
		t.Fatalf("expected %d OUT rows, got %d", want, got)
	}
	if got, want := len(Schemas(DeviceToHost)), len(inNames)+1; got != want {
		t.Fatalf("expected %d IN rows, got %d", want, got)
	}
}

func TestParseHelpers(t *testing.T) {
	testlog.Start(t)
	p, err := ParseTransmitterPower("maximum")
	if err != nil || p != PowerMaximum {
		t.Fatalf("expected MAXIMUM, got %v %v", p, err)
	}
	if _, err := ParseTraceLevel("loud"); err == nil {
		t.Fatalf("expected unknown trace level error")
	}
	op, err := ParseOpcode(HostToDevice, "HID_CTRL_OUT_REBOOT")
	if err != nil || op != OutReboot {
		t.Fatalf("expected REBOOT, got %v %v", op, err)
	}
	if s := ErrorCode(18).String(); s != "18 (Invalid HCI Command Parameters)" {
		t.Fatalf("unexpected error code text %q", s)
	}
}

func TestTrackerDeviceInfoServiceData(t *testing.T) {
	testlog.Start(t)
	frame := []byte{
		19, byte(InTrackerDeviceInfo),
		0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF,
		0x01,
		0xC4,
		0x02,
		0x05, 0x55, 0x00, 0x00, 0x00, 0x00,
		0x00, 0xFB,
	}
	m, err := DecodeFrame(DeviceToHost, frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	info := m.Body.(*TrackerDeviceInfo)
	if info.Addr.String() != "aa:bb:cc:dd:ee:ff" || info.RSSI != -60 || info.ServiceUUID != 0xFB00 {
		t.Fatalf("unexpected device info %+v", info)
	}
	sd, err := info.ServiceInfo()
	if err != nil {
		t.Fatalf("service info: %v", err)
	}
	if sd.ProductID != 5 || sd.ColorCode != 10 || !sd.SpecialMode {
		t.Fatalf("unexpected service data %+v", sd)
	}
}
