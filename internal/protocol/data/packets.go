package data

import "github.com/danmuck/trackerlink/internal/protocol"

// block codes the byte shared by block transfer frames: a 4-bit prefix
// (reserved or sequence number) and a 4-bit block type.
func block(c *protocol.Coder, prefix string, p *uint8, b *TrackerBlock) {
	c.Group("block", func(g *protocol.BitGroup) {
		protocol.Bit(g, prefix, 4, p)
		protocol.Bit(g, "blockType", 4, b)
	})
}

// Empty is the body of header-only frames.
type Empty struct{}

func (p *Empty) Name() string             { return "Empty" }
func (p *Empty) Fields(c *protocol.Coder) {}

type CmdAck struct{ Empty }

func (p *CmdAck) Name() string { return "CmdAck" }

type AlertUser struct{ Empty }

func (p *AlertUser) Name() string { return "AlertUser" }

type CmdNak struct {
	ErrorCode uint16
}

func (p *CmdNak) Name() string { return "CmdNak" }
func (p *CmdNak) Fields(c *protocol.Coder) {
	protocol.U16(c, "errorCode", &p.ErrorCode)
}

// SetDeviceClock sets the tracker clock to GMTTime, in Unix seconds.
type SetDeviceClock struct {
	GMTTime uint32
}

func (p *SetDeviceClock) Name() string { return "SetDeviceClock" }
func (p *SetDeviceClock) Fields(c *protocol.Coder) {
	protocol.U32(c, "gmtTime", &p.GMTTime)
}

// EchoPayloadSize is the payload width of an echo frame.
const EchoPayloadSize = 16

type Echo struct {
	Payload []byte
}

func (p *Echo) Name() string { return "Echo" }
func (p *Echo) Fields(c *protocol.Coder) {
	c.Bytes("payloadBytes", EchoPayloadSize, &p.Payload)
}

type InitAirlink struct {
	MajorHostVersion uint8
	MinorHostVersion uint8
	MinConnInterval  uint16
	MaxConnInterval  uint16
	SlaveLatency     uint16
	ConnTimeout      uint16
}

func (p *InitAirlink) Name() string { return "InitAirlink" }
func (p *InitAirlink) Fields(c *protocol.Coder) {
	protocol.U8(c, "majorHostVersion", &p.MajorHostVersion)
	protocol.U8(c, "minorHostVersion", &p.MinorHostVersion)
	protocol.U16(c, "minConnInterval", &p.MinConnInterval)
	protocol.U16(c, "maxConnInterval", &p.MaxConnInterval)
	protocol.U16(c, "slaveLatency", &p.SlaveLatency)
	protocol.U16(c, "connTimeout", &p.ConnTimeout)
}

type ReadTrackerBlock struct {
	Reserved  uint8
	BlockType TrackerBlock
}

func (p *ReadTrackerBlock) Name() string { return "ReadTrackerBlock" }
func (p *ReadTrackerBlock) Fields(c *protocol.Coder) {
	block(c, "rsvd", &p.Reserved, &p.BlockType)
}

type ReadTrackerMemory struct {
	StartAddr      uint32
	NumBytesToRead uint32
}

func (p *ReadTrackerMemory) Name() string { return "ReadTrackerMemory" }
func (p *ReadTrackerMemory) Fields(c *protocol.Coder) {
	protocol.U32(c, "startAddr", &p.StartAddr)
	protocol.U32(c, "numBytesToRead", &p.NumBytesToRead)
}

// ReadFirstHostBlockLegacy predates the window size field. It is only
// decoded on request through DecodeAs.
type ReadFirstHostBlockLegacy struct {
	SeqNum         uint8
	BlockType      TrackerBlock
	NumBytesToRead uint16
}

func (p *ReadFirstHostBlockLegacy) Name() string { return "ReadFirstHostBlockLegacy" }
func (p *ReadFirstHostBlockLegacy) Fields(c *protocol.Coder) {
	block(c, "seqNum", &p.SeqNum, &p.BlockType)
	protocol.U16(c, "numBytesToRead", &p.NumBytesToRead)
}

type ReadFirstHostBlock struct {
	ReadFirstHostBlockLegacy
	WindowSize uint8
}

func (p *ReadFirstHostBlock) Name() string { return "ReadFirstHostBlock" }
func (p *ReadFirstHostBlock) Fields(c *protocol.Coder) {
	p.ReadFirstHostBlockLegacy.Fields(c)
	protocol.U8(c, "windowSize", &p.WindowSize)
}

type ReadNextHostBlock struct {
	SeqNum         uint8
	BlockType      TrackerBlock
	NumBytesToRead uint16
}

func (p *ReadNextHostBlock) Name() string { return "ReadNextHostBlock" }
func (p *ReadNextHostBlock) Fields(c *protocol.Coder) {
	block(c, "seqNum", &p.SeqNum, &p.BlockType)
	protocol.U16(c, "numBytesToRead", &p.NumBytesToRead)
}

type ReadAirlinkBlock struct {
	Reserved            uint8
	BlockType           TrackerBlock
	MajorAirlinkVersion uint8
	MinorAirlinkVersion uint8
	BootMode            BootMode
	DeviceAddress       protocol.HardwareAddr
}

func (p *ReadAirlinkBlock) Name() string { return "ReadAirlinkBlock" }
func (p *ReadAirlinkBlock) Fields(c *protocol.Coder) {
	block(c, "rsvd", &p.Reserved, &p.BlockType)
	protocol.U8(c, "majorAirlinkVersion", &p.MajorAirlinkVersion)
	protocol.U8(c, "minorAirlinkVersion", &p.MinorAirlinkVersion)
	protocol.U8(c, "bootMode", &p.BootMode)
	c.Addr("deviceAddress", &p.DeviceAddress)
}

// ReadFastAirlinkBlock extends ReadAirlinkBlock with the link MTU. It
// shares READ_AIRLINK_BLOCK and is only decoded through DecodeAs.
type ReadFastAirlinkBlock struct {
	ReadAirlinkBlock
	MTUSize uint16
}

func (p *ReadFastAirlinkBlock) Name() string { return "ReadFastAirlinkBlock" }
func (p *ReadFastAirlinkBlock) Fields(c *protocol.Coder) {
	p.ReadAirlinkBlock.Fields(c)
	protocol.U16(c, "mtuSize", &p.MTUSize)
}

type UpdateBeaconParams struct {
	ActiveDuration   uint8
	ActiveWait       uint8
	InactiveDuration uint8
	InactiveWait     uint8
	SessionTimeout   uint8
}

func (p *UpdateBeaconParams) Name() string { return "UpdateBeaconParams" }
func (p *UpdateBeaconParams) Fields(c *protocol.Coder) {
	protocol.U8(c, "activeDuration", &p.ActiveDuration)
	protocol.U8(c, "activeWait", &p.ActiveWait)
	protocol.U8(c, "inactiveDuration", &p.InactiveDuration)
	protocol.U8(c, "inactiveWait", &p.InactiveWait)
	protocol.U8(c, "sessionTimeout", &p.SessionTimeout)
}

type UpdateSecret struct {
	Secret uint32
}

func (p *UpdateSecret) Name() string { return "UpdateSecret" }
func (p *UpdateSecret) Fields(c *protocol.Coder) {
	protocol.U32(c, "secret", &p.Secret)
}

// UpdateTrackerBlockLegacy predates the window size field.
type UpdateTrackerBlockLegacy struct {
	Reserved     uint8
	BlockType    TrackerBlock
	NumDataBytes uint32
	CRC          uint16
}

func (p *UpdateTrackerBlockLegacy) Name() string { return "UpdateTrackerBlockLegacy" }
func (p *UpdateTrackerBlockLegacy) Fields(c *protocol.Coder) {
	block(c, "rsvd", &p.Reserved, &p.BlockType)
	protocol.U32(c, "numDataBytes", &p.NumDataBytes)
	protocol.U16(c, "crc", &p.CRC)
}

type UpdateTrackerBlock struct {
	UpdateTrackerBlockLegacy
	WindowSize uint8
}

func (p *UpdateTrackerBlock) Name() string { return "UpdateTrackerBlock" }
func (p *UpdateTrackerBlock) Fields(c *protocol.Coder) {
	p.UpdateTrackerBlockLegacy.Fields(c)
	protocol.U8(c, "windowSize", &p.WindowSize)
}

// DeleteTrackerBlock has no opcode of its own; decode it with DecodeAs.
type DeleteTrackerBlock struct {
	Reserved  uint8
	BlockType TrackerBlock
	GMTTime   uint32
}

func (p *DeleteTrackerBlock) Name() string { return "DeleteTrackerBlock" }
func (p *DeleteTrackerBlock) Fields(c *protocol.Coder) {
	block(c, "rsvd", &p.Reserved, &p.BlockType)
	protocol.U32(c, "gmtTime", &p.GMTTime)
}

// SingleBlockPayloadSize fills a frame after the header and block byte.
const SingleBlockPayloadSize = MaxPacketSize - HeaderSize - 1

type Xfr2HostSingleBlock struct {
	Reserved  uint8
	BlockType TrackerBlock
	Payload   []byte
}

func (p *Xfr2HostSingleBlock) Name() string { return "Xfr2HostSingleBlock" }
func (p *Xfr2HostSingleBlock) Fields(c *protocol.Coder) {
	block(c, "rsvd", &p.Reserved, &p.BlockType)
	c.Bytes("payload", SingleBlockPayloadSize, &p.Payload)
}

type Xfr2HostStreamStarting struct {
	Reserved        uint8
	BlockType       TrackerBlock
	NumPayloadBytes uint32
}

func (p *Xfr2HostStreamStarting) Name() string { return "Xfr2HostStreamStarting" }
func (p *Xfr2HostStreamStarting) Fields(c *protocol.Coder) {
	block(c, "rsvd", &p.Reserved, &p.BlockType)
	protocol.U32(c, "numPayloadBytes", &p.NumPayloadBytes)
}

type Xfr2HostStreamFinished struct {
	Reserved        uint8
	BlockType       TrackerBlock
	CRC             uint16
	NumPayloadBytes uint32
}

func (p *Xfr2HostStreamFinished) Name() string { return "Xfr2HostStreamFinished" }
func (p *Xfr2HostStreamFinished) Fields(c *protocol.Coder) {
	block(c, "rsvd", &p.Reserved, &p.BlockType)
	protocol.U16(c, "crc", &p.CRC)
	protocol.U32(c, "numPayloadBytes", &p.NumPayloadBytes)
}

type Xfr2TrackerSingleBlock struct {
	Reserved  uint8
	BlockType TrackerBlock
	Payload   []byte
}

func (p *Xfr2TrackerSingleBlock) Name() string { return "Xfr2TrackerSingleBlock" }
func (p *Xfr2TrackerSingleBlock) Fields(c *protocol.Coder) {
	block(c, "rsvd", &p.Reserved, &p.BlockType)
	c.Bytes("payload", SingleBlockPayloadSize, &p.Payload)
}

// DataPipeAddrSize is the width of the airlink data pipe address.
const DataPipeAddrSize = 5

// Xfr2TrackerAirlinkInfo is a single block carrying airlink parameters.
// It is decoded through DecodeAs.
type Xfr2TrackerAirlinkInfo struct {
	Reserved         uint8
	BlockType        TrackerBlock
	MajorHostVersion uint8
	MinorHostVersion uint8
	DataPipeAddr     []byte
}

func (p *Xfr2TrackerAirlinkInfo) Name() string { return "Xfr2TrackerAirlinkInfo" }
func (p *Xfr2TrackerAirlinkInfo) Fields(c *protocol.Coder) {
	block(c, "rsvd", &p.Reserved, &p.BlockType)
	protocol.U8(c, "majorHostVersion", &p.MajorHostVersion)
	protocol.U8(c, "minorHostVersion", &p.MinorHostVersion)
	c.Bytes("dataPipeAddr", DataPipeAddrSize, &p.DataPipeAddr)
}

type Xfr2TrackerStreamStarting struct {
	Reserved  uint8
	BlockType TrackerBlock
}

func (p *Xfr2TrackerStreamStarting) Name() string { return "Xfr2TrackerStreamStarting" }
func (p *Xfr2TrackerStreamStarting) Fields(c *protocol.Coder) {
	block(c, "rsvd", &p.Reserved, &p.BlockType)
}

type Xfr2TrackerStreamFinished struct {
	Reserved        uint8
	BlockType       TrackerBlock
	CRC             uint16
	NumPayloadBytes uint32
}

func (p *Xfr2TrackerStreamFinished) Name() string { return "Xfr2TrackerStreamFinished" }
func (p *Xfr2TrackerStreamFinished) Fields(c *protocol.Coder) {
	block(c, "rsvd", &p.Reserved, &p.BlockType)
	protocol.U16(c, "crc", &p.CRC)
	protocol.U32(c, "numPayloadBytes", &p.NumPayloadBytes)
}
