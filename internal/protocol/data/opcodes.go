// Package data implements the tracker radio-link frames: a 0xC0 magic byte,
// a bit-packed group/opcode header and a payload of at most 20 bytes.
package data

import (
	"fmt"

	"github.com/danmuck/trackerlink/internal/protocol"
)

const (
	// Magic starts every radio frame.
	Magic byte = 0xC0

	// Escape bytes reserved for stuffing frame content that collides with
	// Magic. No transform is applied; frames are coded verbatim.
	Escape  byte = 0xDB
	Escape1 byte = 0xDC
	Escape2 byte = 0xDD

	// HeaderSize is the magic byte plus the group/opcode byte.
	HeaderSize = 2
	// MaxPacketSize bounds the encoded frame, header included.
	MaxPacketSize = 20
	// ContainerSize is the outbound transport container.
	ContainerSize = 32
)

// Group is the 3-bit opcode group of a radio frame.
type Group uint8

const (
	GroupMisc        Group = 0
	GroupRead        Group = 1
	GroupUpdate      Group = 2
	GroupReserved1   Group = 3
	GroupXfr2Host    Group = 4
	GroupXfr2Tracker Group = 5
	GroupReserved2   Group = 6
	GroupReserved3   Group = 7
)

var groupNames = map[Group]string{
	GroupMisc:        "RF_PKT_GRP_MISC",
	GroupRead:        "RF_PKT_GRP_READ",
	GroupUpdate:      "RF_PKT_GRP_UPDATE",
	GroupReserved1:   "RF_PKT_GRP_RESERVED_1",
	GroupXfr2Host:    "RF_PKT_GRP_XFR2HOST",
	GroupXfr2Tracker: "RF_PKT_GRP_XFR2TRACKER",
	GroupReserved2:   "RF_PKT_GRP_RESERVED_2",
	GroupReserved3:   "RF_PKT_GRP_RESERVED_3",
}

func (g Group) String() string {
	if s, ok := groupNames[g]; ok {
		return s
	}
	return fmt.Sprintf("RF_PKT_GRP(%d)", uint8(g))
}

// Reserved reports whether g has no opcode enumeration.
func (g Group) Reserved() bool {
	return g == GroupReserved1 || g == GroupReserved2 || g == GroupReserved3
}

// Opcode is a radio opcode qualified by its group.
type Opcode interface {
	Group() Group
	Code() uint8
	String() string
}

type MiscOpcode uint8

const (
	MiscPollHost       MiscOpcode = 0
	MiscResetLink      MiscOpcode = 1
	MiscCmdAck         MiscOpcode = 2
	MiscCmdNak         MiscOpcode = 3
	MiscSetDeviceClock MiscOpcode = 4
	MiscReserved5      MiscOpcode = 5
	MiscAlertUser      MiscOpcode = 6
	MiscReserved7      MiscOpcode = 7
	MiscUserActivity   MiscOpcode = 8
	MiscEchoPacket     MiscOpcode = 9
	MiscInitAirlink    MiscOpcode = 10
	MiscBthRxAck       MiscOpcode = 11
)

var miscNames = map[MiscOpcode]string{
	MiscPollHost:       "RF_PKT_MISC_POLL_HOST",
	MiscResetLink:      "RF_PKT_MISC_RESET_LINK",
	MiscCmdAck:         "RF_PKT_MISC_CMD_ACK",
	MiscCmdNak:         "RF_PKT_MISC_CMD_NAK",
	MiscSetDeviceClock: "RF_PKT_MISC_SET_DEVICE_CLOCK",
	MiscReserved5:      "RF_PKT_MISC_RESERVED_5",
	MiscAlertUser:      "RF_PKT_MISC_ALERT_USER",
	MiscReserved7:      "RF_PKT_MISC_RESERVED_7",
	MiscUserActivity:   "RF_PKT_MISC_USER_ACTIVITY",
	MiscEchoPacket:     "RF_PKT_MISC_ECHO_PACKET",
	MiscInitAirlink:    "RF_PKT_MISC_INIT_AIRLINK",
	MiscBthRxAck:       "RF_PKT_MISC_BTH_RX_ACK",
}

func (o MiscOpcode) Group() Group   { return GroupMisc }
func (o MiscOpcode) Code() uint8    { return uint8(o) }
func (o MiscOpcode) String() string { return opName(miscNames, o, "RF_PKT_MISC") }

type ReadOpcode uint8

const (
	ReadTrackerBlockOp   ReadOpcode = 0
	ReadTrackerMemoryOp  ReadOpcode = 1
	ReadFirstHostBlockOp ReadOpcode = 2
	ReadNextHostBlockOp  ReadOpcode = 3
	ReadAirlinkBlockOp   ReadOpcode = 4
)

var readNames = map[ReadOpcode]string{
	ReadTrackerBlockOp:   "RF_PKT_READ_TRACKER_BLOCK",
	ReadTrackerMemoryOp:  "RF_PKT_READ_TRACKER_MEMORY",
	ReadFirstHostBlockOp: "RF_PKT_READ_FIRST_HOST_BLOCK",
	ReadNextHostBlockOp:  "RF_PKT_READ_NEXT_HOST_BLOCK",
	ReadAirlinkBlockOp:   "RF_PKT_READ_AIRLINK_BLOCK",
}

func (o ReadOpcode) Group() Group   { return GroupRead }
func (o ReadOpcode) Code() uint8    { return uint8(o) }
func (o ReadOpcode) String() string { return opName(readNames, o, "RF_PKT_READ") }

type UpdateOpcode uint8

const (
	UpdateReserved1      UpdateOpcode = 0
	UpdateReserved2      UpdateOpcode = 1
	UpdateBeaconParamsOp UpdateOpcode = 2
	UpdateSecretOp       UpdateOpcode = 3
	UpdateTrackerBlockOp UpdateOpcode = 4
)

var updateNames = map[UpdateOpcode]string{
	UpdateReserved1:      "RF_PKT_UPDATE_RESERVED_1",
	UpdateReserved2:      "RF_PKT_UPDATE_RESERVED_2",
	UpdateBeaconParamsOp: "RF_PKT_UPDATE_BEACON_PARAMS",
	UpdateSecretOp:       "RF_PKT_UPDATE_SECRET",
	UpdateTrackerBlockOp: "RF_PKT_UPDATE_TRACKER_BLOCK",
}

func (o UpdateOpcode) Group() Group   { return GroupUpdate }
func (o UpdateOpcode) Code() uint8    { return uint8(o) }
func (o UpdateOpcode) String() string { return opName(updateNames, o, "RF_PKT_UPDATE") }

type Xfr2HostOpcode uint8

const (
	Xfr2HostSingleBlockOp    Xfr2HostOpcode = 0
	Xfr2HostStreamStartingOp Xfr2HostOpcode = 1
	Xfr2HostStreamFinishedOp Xfr2HostOpcode = 2
)

var xfr2HostNames = map[Xfr2HostOpcode]string{
	Xfr2HostSingleBlockOp:    "RF_PKT_XFR2HOST_SINGLE_BLOCK",
	Xfr2HostStreamStartingOp: "RF_PKT_XFR2HOST_STREAM_STARTING",
	Xfr2HostStreamFinishedOp: "RF_PKT_XFR2HOST_STREAM_FINISHED",
}

func (o Xfr2HostOpcode) Group() Group   { return GroupXfr2Host }
func (o Xfr2HostOpcode) Code() uint8    { return uint8(o) }
func (o Xfr2HostOpcode) String() string { return opName(xfr2HostNames, o, "RF_PKT_XFR2HOST") }

type Xfr2TrackerOpcode uint8

const (
	Xfr2TrackerSingleBlockOp    Xfr2TrackerOpcode = 0
	Xfr2TrackerStreamStartingOp Xfr2TrackerOpcode = 1
	Xfr2TrackerStreamFinishedOp Xfr2TrackerOpcode = 2
)

var xfr2TrackerNames = map[Xfr2TrackerOpcode]string{
	Xfr2TrackerSingleBlockOp:    "RF_PKT_XFR2TRACKER_SINGLE_BLOCK",
	Xfr2TrackerStreamStartingOp: "RF_PKT_XFR2TRACKER_STREAM_STARTING",
	Xfr2TrackerStreamFinishedOp: "RF_PKT_XFR2TRACKER_STREAM_FINISHED",
}

func (o Xfr2TrackerOpcode) Group() Group { return GroupXfr2Tracker }
func (o Xfr2TrackerOpcode) Code() uint8  { return uint8(o) }
func (o Xfr2TrackerOpcode) String() string {
	return opName(xfr2TrackerNames, o, "RF_PKT_XFR2TRACKER")
}

// RawOpcode is the bare 4-bit opcode of a reserved group.
type RawOpcode struct {
	Grp Group
	Num uint8
}

func (o RawOpcode) Group() Group { return o.Grp }
func (o RawOpcode) Code() uint8  { return o.Num }
func (o RawOpcode) String() string {
	return fmt.Sprintf("%s/%d", o.Grp, o.Num)
}

func opName[T ~uint8](names map[T]string, v T, space string) string {
	if s, ok := names[v]; ok {
		return s
	}
	return fmt.Sprintf("%s(%d)", space, uint8(v))
}

func known[T ~uint8](names map[T]string, code uint8, space string) (Opcode, error) {
	if _, ok := names[T(code)]; !ok {
		return nil, protocol.UnknownOpcodeError{Space: space, Code: code}
	}
	return any(T(code)).(Opcode), nil
}

// OpcodeFor resolves a group and 4-bit code. Codes outside a group's
// enumeration fail with protocol.ErrUnknownOpcode; reserved groups accept
// any code as a RawOpcode.
func OpcodeFor(g Group, code uint8) (Opcode, error) {
	if code > 0x0F {
		return nil, protocol.UnknownOpcodeError{Space: g.String(), Code: code}
	}
	switch g {
	case GroupMisc:
		return known(miscNames, code, "RF_PKT_MISC")
	case GroupRead:
		return known(readNames, code, "RF_PKT_READ")
	case GroupUpdate:
		return known(updateNames, code, "RF_PKT_UPDATE")
	case GroupXfr2Host:
		return known(xfr2HostNames, code, "RF_PKT_XFR2HOST")
	case GroupXfr2Tracker:
		return known(xfr2TrackerNames, code, "RF_PKT_XFR2TRACKER")
	case GroupReserved1, GroupReserved2, GroupReserved3:
		return RawOpcode{Grp: g, Num: code}, nil
	}
	return nil, protocol.UnknownOpcodeError{Space: "RF_PKT_GRP", Code: uint8(g)}
}

// Opcodes lists every enumerated opcode of the non-reserved groups.
func Opcodes() []Opcode {
	var out []Opcode
	for g := GroupMisc; g <= GroupReserved3; g++ {
		if g.Reserved() {
			continue
		}
		for code := uint8(0); code <= 0x0F; code++ {
			if op, err := OpcodeFor(g, code); err == nil {
				out = append(out, op)
			}
		}
	}
	return out
}

// ParseOpcode resolves a symbolic opcode name such as RF_PKT_MISC_CMD_ACK.
func ParseOpcode(name string) (Opcode, error) {
	for _, op := range Opcodes() {
		if op.String() == name {
			return op, nil
		}
	}
	return nil, fmt.Errorf("data: unknown opcode name %q", name)
}
