// Package control implements the dongle's fixed-size HID report channel:
// opcode enumerations, packet shapes, the opcode registries and the
// declared-length envelope.
package control

import (
	"fmt"

	"github.com/danmuck/trackerlink/internal/protocol"
)

// ReportSize is the physical size of every control-channel report.
const ReportSize = 32

// Direction selects the opcode space of a control frame.
type Direction uint8

const (
	// HostToDevice frames are commands written to the dongle ("OUT").
	HostToDevice Direction = iota
	// DeviceToHost frames are responses and events read back ("IN").
	DeviceToHost
)

func (d Direction) String() string {
	switch d {
	case HostToDevice:
		return "OUT"
	case DeviceToHost:
		return "IN"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// ParseDirection accepts the log notation IN/OUT.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "OUT", "out":
		return HostToDevice, nil
	case "IN", "in":
		return DeviceToHost, nil
	default:
		return 0, fmt.Errorf("control: unknown direction %q", s)
	}
}

// Opcode is a control opcode of either direction.
type Opcode interface {
	Direction() Direction
	Code() uint8
	String() string
}

// OutOpcode selects a host-to-device command.
type OutOpcode uint8

const (
	OutEchoRequest            OutOpcode = 0
	OutQueryVersion           OutOpcode = 1
	OutForceDisconnect        OutOpcode = 2
	OutSetTraceLevel          OutOpcode = 3
	OutStartDiscovery         OutOpcode = 4
	OutCancelDiscovery        OutOpcode = 5
	OutEstablishLink          OutOpcode = 6
	OutTerminateLink          OutOpcode = 7
	OutEnableTxPipe           OutOpcode = 8
	OutDestroyImage           OutOpcode = 9
	OutTestTransmitter        OutOpcode = 10
	OutTestReceiver           OutOpcode = 11
	OutTestEnd                OutOpcode = 12
	OutSetTransmitterPower    OutOpcode = 13
	OutStartSamplingRSSI      OutOpcode = 14
	OutStopSamplingRSSI       OutOpcode = 15
	OutReadRSSI               OutOpcode = 16
	OutQueryState             OutOpcode = 17
	OutEstablishLinkEx        OutOpcode = 18
	OutEstablishLinkEx2       OutOpcode = 19
	OutDiscoverChars          OutOpcode = 20
	OutWriteChar              OutOpcode = 21
	OutSetReceiverGain        OutOpcode = 22
	OutQueryFeatureBits       OutOpcode = 23
	OutSetFeatureBits         OutOpcode = 24
	OutClearFeatureBits       OutOpcode = 25
	OutReadFlashData          OutOpcode = 248
	OutWriteFlashData         OutOpcode = 249
	OutEraseFlashData         OutOpcode = 250
	OutEnableFirmware         OutOpcode = 251
	OutReboot                 OutOpcode = 252
	OutQueryBootloaderVersion OutOpcode = 253
)

var outNames = map[OutOpcode]string{
	OutEchoRequest:            "HID_CTRL_OUT_ECHO_REQUEST",
	OutQueryVersion:           "HID_CTRL_OUT_QUERY_VERSION",
	OutForceDisconnect:        "HID_CTRL_OUT_FORCE_DISCONNECT",
	OutSetTraceLevel:          "HID_CTRL_OUT_SET_TRACE_LEVEL",
	OutStartDiscovery:         "HID_CTRL_OUT_START_DISCOVERY",
	OutCancelDiscovery:        "HID_CTRL_OUT_CANCEL_DISCOVERY",
	OutEstablishLink:          "HID_CTRL_OUT_ESTABLISH_LINK",
	OutTerminateLink:          "HID_CTRL_OUT_TERMINATE_LINK",
	OutEnableTxPipe:           "HID_CTRL_OUT_ENABLE_TX_PIPE",
	OutDestroyImage:           "HID_CTRL_OUT_DESTROY_IMAGE",
	OutTestTransmitter:        "HID_CTRL_OUT_TEST_TRANSMITTER",
	OutTestReceiver:           "HID_CTRL_OUT_TEST_RECEIVER",
	OutTestEnd:                "HID_CTRL_OUT_TEST_END",
	OutSetTransmitterPower:    "HID_CTRL_OUT_SET_TRANSMITTER_POWER",
	OutStartSamplingRSSI:      "HID_CTRL_OUT_START_SAMPLING_RSSI",
	OutStopSamplingRSSI:       "HID_CTRL_OUT_STOP_SAMPLING_RSSI",
	OutReadRSSI:               "HID_CTRL_OUT_READ_RSSI",
	OutQueryState:             "HID_CTRL_OUT_QUERY_STATE",
	OutEstablishLinkEx:        "HID_CTRL_OUT_ESTABLISH_LINK_EX",
	OutEstablishLinkEx2:       "HID_CTRL_OUT_ESTABLISH_LINK_EX2",
	OutDiscoverChars:          "HID_CTRL_OUT_DISCOVER_CHARS",
	OutWriteChar:              "HID_CTRL_OUT_WRITE_CHAR",
	OutSetReceiverGain:        "HID_CTRL_OUT_SET_RECEIVER_GAIN",
	OutQueryFeatureBits:       "HID_CTRL_OUT_QUERY_FEATURE_BITS",
	OutSetFeatureBits:         "HID_CTRL_OUT_SET_FEATURE_BITS",
	OutClearFeatureBits:       "HID_CTRL_OUT_CLEAR_FEATURE_BITS",
	OutReadFlashData:          "HID_CTRL_OUT_READ_FLASH_DATA",
	OutWriteFlashData:         "HID_CTRL_OUT_WRITE_FLASH_DATA",
	OutEraseFlashData:         "HID_CTRL_OUT_ERASE_FLASH_DATA",
	OutEnableFirmware:         "HID_CTRL_OUT_ENABLE_FIRMWARE",
	OutReboot:                 "HID_CTRL_OUT_REBOOT",
	OutQueryBootloaderVersion: "HID_CTRL_OUT_QUERY_BOOTLOADER_VERSION",
}

func (o OutOpcode) Direction() Direction { return HostToDevice }
func (o OutOpcode) Code() uint8          { return uint8(o) }

func (o OutOpcode) String() string {
	if s, ok := outNames[o]; ok {
		return s
	}
	return fmt.Sprintf("HID_CTRL_OUT_0x%02X", uint8(o))
}

// Valid reports whether o is a declared member of the OUT enumeration.
func (o OutOpcode) Valid() bool {
	_, ok := outNames[o]
	return ok
}

// InOpcode selects a device-to-host response or event.
type InOpcode uint8

const (
	InEchoResponse              InOpcode = 0
	InTraceMsg                  InOpcode = 1
	InDiscoveryComplete         InOpcode = 2
	InTrackerDeviceInfo         InOpcode = 3
	InLinkEstablished           InOpcode = 4
	InLinkTerminated            InOpcode = 5
	InLinkParameterUpdate       InOpcode = 6
	InServicesDetected          InOpcode = 7
	InVersionResponse           InOpcode = 8
	InRSSIData                  InOpcode = 9
	InAlreadyConnected          InOpcode = 10
	InDiscoveredSvc128          InOpcode = 11
	InDiscoveredSvc16           InOpcode = 12
	InDiscoveredChr128          InOpcode = 13
	InDiscoveredChr16           InOpcode = 14
	InChrDiscoveryComplete      InOpcode = 15
	InNotifyChar                InOpcode = 16
	InFeatureBits               InOpcode = 17
	InDataOutStatus             InOpcode = 18
	InReadFlashData             InOpcode = 252
	InBootloaderVersionResponse InOpcode = 253
	InAckResponse               InOpcode = 254
	InNakResponse               InOpcode = 255
)

var inNames = map[InOpcode]string{
	InEchoResponse:              "HID_CTRL_IN_ECHO_RESPONSE",
	InTraceMsg:                  "HID_CTRL_IN_TRACE_MSG",
	InDiscoveryComplete:         "HID_CTRL_IN_DISCOVERY_COMPLETE",
	InTrackerDeviceInfo:         "HID_CTRL_IN_TRACKER_DEVICE_INFO",
	InLinkEstablished:           "HID_CTRL_IN_LINK_ESTABLISHED",
	InLinkTerminated:            "HID_CTRL_IN_LINK_TERMINATED",
	InLinkParameterUpdate:       "HID_CTRL_IN_LINK_PARAMETER_UPDATE",
	InServicesDetected:          "HID_CTRL_IN_SERVICES_DETECTED",
	InVersionResponse:           "HID_CTRL_IN_VERSION_RESPONSE",
	InRSSIData:                  "HID_CTRL_IN_RSSI_DATA",
	InAlreadyConnected:          "HID_CTRL_IN_ALREADY_CONNECTED",
	InDiscoveredSvc128:          "HID_CTRL_IN_DISCOVERED_SVC_128",
	InDiscoveredSvc16:           "HID_CTRL_IN_DISCOVERED_SVC_16",
	InDiscoveredChr128:          "HID_CTRL_IN_DISCOVERED_CHR_128",
	InDiscoveredChr16:           "HID_CTRL_IN_DISCOVERED_CHR_16",
	InChrDiscoveryComplete:      "HID_CTRL_IN_CHR_DISCOVERY_COMPLETE",
	InNotifyChar:                "HID_CTRL_IN_NOTIFY_CHAR",
	InFeatureBits:               "HID_CTRL_IN_FEATURE_BITS",
	InDataOutStatus:             "HID_CTRL_IN_DATA_OUT_STATUS",
	InReadFlashData:             "HID_CTRL_IN_READ_FLASH_DATA",
	InBootloaderVersionResponse: "HID_CTRL_IN_BOOTLOADER_VERSION_RESPONSE",
	InAckResponse:               "HID_CTRL_IN_ACK_RESPONSE",
	InNakResponse:               "HID_CTRL_IN_NAK_RESPONSE",
}

func (o InOpcode) Direction() Direction { return DeviceToHost }
func (o InOpcode) Code() uint8          { return uint8(o) }

func (o InOpcode) String() string {
	if s, ok := inNames[o]; ok {
		return s
	}
	return fmt.Sprintf("HID_CTRL_IN_0x%02X", uint8(o))
}

// Valid reports whether o is a declared member of the IN enumeration.
func (o InOpcode) Valid() bool {
	_, ok := inNames[o]
	return ok
}

// OpcodeFor translates a numeric code into the direction's enumeration.
func OpcodeFor(dir Direction, code uint8) (Opcode, error) {
	switch dir {
	case HostToDevice:
		if op := OutOpcode(code); op.Valid() {
			return op, nil
		}
		return nil, protocol.UnknownOpcodeError{Space: "HID_CTRL_OUT_OPCODE", Code: code}
	case DeviceToHost:
		if op := InOpcode(code); op.Valid() {
			return op, nil
		}
		return nil, protocol.UnknownOpcodeError{Space: "HID_CTRL_IN_OPCODE", Code: code}
	default:
		return nil, fmt.Errorf("control: invalid direction %d", uint8(dir))
	}
}

// ParseOpcode resolves a symbolic opcode name in the direction's space.
func ParseOpcode(dir Direction, name string) (Opcode, error) {
	switch dir {
	case HostToDevice:
		for op, s := range outNames {
			if s == name {
				return op, nil
			}
		}
	case DeviceToHost:
		for op, s := range inNames {
			if s == name {
				return op, nil
			}
		}
	}
	return nil, fmt.Errorf("control: unknown %s opcode name %q", dir, name)
}
