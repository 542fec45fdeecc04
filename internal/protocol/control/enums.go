package control

import (
	"fmt"
	"strings"
)

// Security codes guarding the destructive firmware commands. Each is sent
// alongside its bitwise inverse.
const (
	DestroyImageSecurityCode uint32 = 4050327354
	EnableImageSecurityCode  uint32 = 3393963805
)

// FlashWordsPerRecord is the number of 32-bit flash words carried by one
// flash read or write report.
const FlashWordsPerRecord = 6

// MaxServiceDataBytes bounds the advertised service data in a discovery event.
const MaxServiceDataBytes = 6

// RFMaxPacketSize bounds characteristic values relayed over the control channel.
const RFMaxPacketSize = 20

func enumName[T ~uint8](names map[T]string, v T, space string) string {
	if s, ok := names[v]; ok {
		return s
	}
	return fmt.Sprintf("%s(%d)", space, uint8(v))
}

// parseEnum accepts the full symbolic name or the name without its prefix,
// case-insensitively.
func parseEnum[T ~uint8](names map[T]string, prefix, s string) (T, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for v, name := range names {
		if name == want || name == prefix+want {
			return v, nil
		}
	}
	return 0, fmt.Errorf("control: unknown %s %q", strings.TrimSuffix(prefix, "_"), s)
}

type TraceLevel uint8

const (
	TraceOff TraceLevel = iota
	TraceError
	TraceNormal
	TraceVerbose
)

var traceLevelNames = map[TraceLevel]string{
	TraceOff:     "DONGLE_TRACE_LEVEL_OFF",
	TraceError:   "DONGLE_TRACE_LEVEL_ERROR",
	TraceNormal:  "DONGLE_TRACE_LEVEL_NORMAL",
	TraceVerbose: "DONGLE_TRACE_LEVEL_VERBOSE",
}

func (v TraceLevel) String() string { return enumName(traceLevelNames, v, "DONGLE_TRACE_LEVEL") }

// ParseTraceLevel resolves names such as "VERBOSE" or "DONGLE_TRACE_LEVEL_OFF".
func ParseTraceLevel(s string) (TraceLevel, error) {
	return parseEnum(traceLevelNames, "DONGLE_TRACE_LEVEL_", s)
}

// DTMPayload selects the direct test mode transmit pattern.
type DTMPayload uint8

const (
	DTMPayloadPRBS9     DTMPayload = 0
	DTMPayload0x0F      DTMPayload = 1
	DTMPayload0x55      DTMPayload = 2
	DTMPayloadPRBS15    DTMPayload = 3
	DTMPayload0xFF      DTMPayload = 4
	DTMPayload0x00      DTMPayload = 5
	DTMPayload0xF0      DTMPayload = 6
	DTMPayload0xAA      DTMPayload = 7
	DTMPayloadMaximum   DTMPayload = 8
	DTMPayloadUndefined DTMPayload = 255
)

var dtmPayloadNames = map[DTMPayload]string{
	DTMPayloadPRBS9:     "DTM_TRANSMIT_PAYLOAD_PRBS9",
	DTMPayload0x0F:      "DTM_TRANSMIT_PAYLOAD_0x0F",
	DTMPayload0x55:      "DTM_TRANSMIT_PAYLOAD_0x55",
	DTMPayloadPRBS15:    "DTM_TRANSMIT_PAYLOAD_PRBS15",
	DTMPayload0xFF:      "DTM_TRANSMIT_PAYLOAD_0xFF",
	DTMPayload0x00:      "DTM_TRANSMIT_PAYLOAD_0x00",
	DTMPayload0xF0:      "DTM_TRANSMIT_PAYLOAD_0xF0",
	DTMPayload0xAA:      "DTM_TRANSMIT_PAYLOAD_0xAA",
	DTMPayloadMaximum:   "DTM_TRANSMIT_PAYLOAD_MAXIMUM",
	DTMPayloadUndefined: "DTM_TRANSMIT_PAYLOAD_UNDEFINED",
}

func (v DTMPayload) String() string { return enumName(dtmPayloadNames, v, "DTM_TRANSMIT_PAYLOAD") }

type TestTransmitType uint8

const (
	TestTransmitLETransmitterTest TestTransmitType = iota
	TestTransmitModemHopTest
	TestTransmitModemTxModulated
	TestTransmitModemTxUnmodulated
	TestTransmitMaximum
)

var testTransmitNames = map[TestTransmitType]string{
	TestTransmitLETransmitterTest:  "TEST_TRANSMIT_TYPE_HCI_LE_TRANSMITTER_TEST",
	TestTransmitModemHopTest:       "TEST_TRANSMIT_TYPE_HCI_EXT_MODEM_HOP_TEST",
	TestTransmitModemTxModulated:   "TEST_TRANSMIT_TYPE_HCI_EXT_MODEM_TEST_TX_CMD_MODULATED",
	TestTransmitModemTxUnmodulated: "TEST_TRANSMIT_TYPE_HCI_EXT_MODEM_TEST_TX_CMD_UNMODULATED",
	TestTransmitMaximum:            "TEST_TRANSMIT_TYPE_MAXIMUM",
}

func (v TestTransmitType) String() string {
	return enumName(testTransmitNames, v, "TEST_TRANSMIT_TYPE")
}

type TransmitterPower uint8

const (
	PowerMinus23dBm TransmitterPower = iota
	PowerMinus6dBm
	Power0dBm
	Power4dBm
	Power2dBm
	PowerMaximum
)

var transmitterPowerNames = map[TransmitterPower]string{
	PowerMinus23dBm: "TRANSMITTER_POWER_MINUS_23_DBM",
	PowerMinus6dBm:  "TRANSMITTER_POWER_MINUS_6_DBM",
	Power0dBm:       "TRANSMITTER_POWER_0_DBM",
	Power4dBm:       "TRANSMITTER_POWER_4_DBM",
	Power2dBm:       "TRANSMITTER_POWER_2_DBM",
	PowerMaximum:    "TRANSMITTER_POWER_MAXIMUM",
}

func (v TransmitterPower) String() string {
	return enumName(transmitterPowerNames, v, "TRANSMITTER_POWER")
}

// ParseTransmitterPower resolves names such as "MAXIMUM" or "TRANSMITTER_POWER_0_DBM".
func ParseTransmitterPower(s string) (TransmitterPower, error) {
	return parseEnum(transmitterPowerNames, "TRANSMITTER_POWER_", s)
}

type ReceiverGain uint8

const (
	GainStandard ReceiverGain = iota
	GainHigh
	GainMaximum
)

var receiverGainNames = map[ReceiverGain]string{
	GainStandard: "RECEIVER_GAIN_STANDARD",
	GainHigh:     "RECEIVER_GAIN_HIGH",
	GainMaximum:  "RECEIVER_GAIN_MAXIMUM",
}

func (v ReceiverGain) String() string { return enumName(receiverGainNames, v, "RECEIVER_GAIN") }

type TestReceiveType uint8

const (
	TestReceiveLEReceiverTest TestReceiveType = iota
	TestReceiveModemTest
	TestReceiveMaximum
)

var testReceiveNames = map[TestReceiveType]string{
	TestReceiveLEReceiverTest: "TEST_RECEIVE_TYPE_HCI_LE_RECEIVER_TEST",
	TestReceiveModemTest:      "TEST_RECEIVE_TYPE_HCI_EXT_MODEM_TEST",
	TestReceiveMaximum:        "TEST_RECEIVE_TYPE_MAXIMUM",
}

func (v TestReceiveType) String() string {
	return enumName(testReceiveNames, v, "TEST_RECEIVE_TYPE")
}

type TestEndType uint8

const (
	TestEndDTM TestEndType = iota
	TestEndModem
	TestEndMaximum
)

var testEndNames = map[TestEndType]string{
	TestEndDTM:     "TEST_END_TYPE_HCI_DTM_TEST",
	TestEndModem:   "TEST_END_TYPE_HCI_EXT_MODEM_TEST",
	TestEndMaximum: "TEST_END_TYPE_MAXIMUM",
}

func (v TestEndType) String() string { return enumName(testEndNames, v, "TEST_END_TYPE") }

// Microcontroller identifies the dongle's radio chip.
type Microcontroller uint8

const (
	MicroUnknown Microcontroller = iota
	MicroCC2540F256
	MicroCC2540F128
	MicroTotal
)

var microcontrollerNames = map[Microcontroller]string{
	MicroUnknown:    "MICROCONTROLLER_UNKNOWN",
	MicroCC2540F256: "MICROCONTROLLER_CC2540F256",
	MicroCC2540F128: "MICROCONTROLLER_CC2540F128",
	MicroTotal:      "MICROCONTROLLER_TOTAL",
}

func (v Microcontroller) String() string {
	return enumName(microcontrollerNames, v, "MICROCONTROLLER")
}

// FeatureBits is the dongle feature mask. Only bit 0 is assigned.
type FeatureBits uint16

const (
	FeatureDataOutStatus FeatureBits = 1 << 0
	FeatureAll           FeatureBits = 0xFFFF
)

func (f FeatureBits) Has(bit FeatureBits) bool { return f&bit == bit }

func (f FeatureBits) String() string {
	if f == 0 {
		return "none"
	}
	parts := make([]string, 0, 2)
	if f.Has(FeatureDataOutStatus) {
		parts = append(parts, "DATA_OUT_STATUS")
	}
	if rest := f &^ FeatureDataOutStatus; rest != 0 {
		parts = append(parts, fmt.Sprintf("RESERVED(0x%04X)", uint16(rest)))
	}
	return strings.Join(parts, "|")
}
