package control

import "github.com/danmuck/trackerlink/internal/protocol"

// EchoPayloadSize fills a report after its header.
const EchoPayloadSize = ReportSize - HeaderSize

type EchoRequest struct {
	Payload []byte
}

func (p *EchoRequest) Name() string { return "EchoRequest" }
func (p *EchoRequest) Fields(c *protocol.Coder) {
	c.Bytes("payload", EchoPayloadSize, &p.Payload)
}

// Empty is the body of header-only commands and events.
type Empty struct{}

func (p *Empty) Name() string             { return "Empty" }
func (p *Empty) Fields(c *protocol.Coder) {}

type QueryVersion struct{ Empty }

func (p *QueryVersion) Name() string { return "QueryVersion" }

type ForceDisconnect struct{ Empty }

func (p *ForceDisconnect) Name() string { return "ForceDisconnect" }

type CancelDiscovery struct{ Empty }

func (p *CancelDiscovery) Name() string { return "CancelDiscovery" }

type TerminateLink struct{ Empty }

func (p *TerminateLink) Name() string { return "TerminateLink" }

type SetTraceLevel struct {
	Level TraceLevel
}

func (p *SetTraceLevel) Name() string { return "SetTraceLevel" }
func (p *SetTraceLevel) Fields(c *protocol.Coder) {
	protocol.U8(c, "dongleTraceLevel", &p.Level)
}

// BaseUUIDSize is the width of a 128-bit service base UUID.
const BaseUUIDSize = 16

// StartDiscovery scans for trackers advertising ServiceUUID under BaseUUID.
// ScanDuration is in milliseconds.
type StartDiscovery struct {
	BaseUUID     []byte
	ServiceUUID  uint16
	TxPortUUID   uint16
	RxPortUUID   uint16
	ScanDuration uint16
}

func (p *StartDiscovery) Name() string { return "StartDiscovery" }
func (p *StartDiscovery) Fields(c *protocol.Coder) {
	c.Bytes("baseUUID", BaseUUIDSize, &p.BaseUUID)
	protocol.U16(c, "serviceUUID", &p.ServiceUUID)
	protocol.U16(c, "txPortUUID", &p.TxPortUUID)
	protocol.U16(c, "rxPortUUID", &p.RxPortUUID)
	protocol.U16(c, "scanDuration", &p.ScanDuration)
}

type EstablishLink struct {
	Addr        protocol.HardwareAddr
	AddrType    uint8
	ServiceUUID uint16
}

func (p *EstablishLink) Name() string { return "EstablishLink" }
func (p *EstablishLink) Fields(c *protocol.Coder) {
	c.Addr("addr", &p.Addr)
	protocol.U8(c, "addrType", &p.AddrType)
	protocol.U16(c, "serviceUUID", &p.ServiceUUID)
}

// EstablishLinkEx is shared by ESTABLISH_LINK_EX and ESTABLISH_LINK_EX2.
type EstablishLinkEx struct {
	Addr            protocol.HardwareAddr
	AddrType        uint8
	MinConnInterval uint16
	MaxConnInterval uint16
	SlaveLatency    uint16
	ConnTimeout     uint16
}

func (p *EstablishLinkEx) Name() string { return "EstablishLinkEx" }
func (p *EstablishLinkEx) Fields(c *protocol.Coder) {
	c.Addr("addr", &p.Addr)
	protocol.U8(c, "addrType", &p.AddrType)
	protocol.U16(c, "minConnInterval", &p.MinConnInterval)
	protocol.U16(c, "maxConnInterval", &p.MaxConnInterval)
	protocol.U16(c, "slaveLatency", &p.SlaveLatency)
	protocol.U16(c, "connTimeout", &p.ConnTimeout)
}

type EnableTxPipe struct {
	Enable bool
}

func (p *EnableTxPipe) Name() string { return "EnableTxPipe" }
func (p *EnableTxPipe) Fields(c *protocol.Coder) {
	c.Flag("enable", &p.Enable)
}

type DestroyImage struct {
	SecurityCode         uint32
	InvertedSecurityCode uint32
}

func (p *DestroyImage) Name() string { return "DestroyImage" }
func (p *DestroyImage) Fields(c *protocol.Coder) {
	protocol.U32(c, "securityCode", &p.SecurityCode)
	protocol.U32(c, "invertedSecurityCode", &p.InvertedSecurityCode)
}

type TestTransmitter struct {
	Type        TestTransmitType
	TxFrequency uint8
	DataLength  uint8
	Payload     DTMPayload
}

func (p *TestTransmitter) Name() string { return "TestTransmitter" }
func (p *TestTransmitter) Fields(c *protocol.Coder) {
	protocol.U8(c, "testTransmitType", &p.Type)
	protocol.U8(c, "txFrequency", &p.TxFrequency)
	protocol.U8(c, "dataLength", &p.DataLength)
	protocol.U8(c, "payload", &p.Payload)
}

type TestReceiver struct {
	Type        TestReceiveType
	RxFrequency uint8
}

func (p *TestReceiver) Name() string { return "TestReceiver" }
func (p *TestReceiver) Fields(c *protocol.Coder) {
	protocol.U8(c, "testReceiveType", &p.Type)
	protocol.U8(c, "rxFrequency", &p.RxFrequency)
}

type TestEnd struct {
	Type TestEndType
}

func (p *TestEnd) Name() string { return "TestEnd" }
func (p *TestEnd) Fields(c *protocol.Coder) {
	protocol.U8(c, "testEndType", &p.Type)
}

type SetTransmitterPower struct {
	Power TransmitterPower
}

func (p *SetTransmitterPower) Name() string { return "SetTransmitterPower" }
func (p *SetTransmitterPower) Fields(c *protocol.Coder) {
	protocol.U8(c, "transmitterPower", &p.Power)
}

type StartSamplingRSSI struct {
	SampleRate uint16
}

func (p *StartSamplingRSSI) Name() string { return "StartSamplingRSSI" }
func (p *StartSamplingRSSI) Fields(c *protocol.Coder) {
	protocol.U16(c, "rxSampleRateRSSI", &p.SampleRate)
}

type DiscoverChars struct {
	StartHandle uint16
	EndHandle   uint16
}

func (p *DiscoverChars) Name() string { return "DiscoverChars" }
func (p *DiscoverChars) Fields(c *protocol.Coder) {
	protocol.U16(c, "startHandle", &p.StartHandle)
	protocol.U16(c, "endHandle", &p.EndHandle)
}

// WriteChar writes Value[:Length] to a characteristic. Value always spans
// RFMaxPacketSize bytes on the wire.
type WriteChar struct {
	ChrHandle uint16
	Length    uint8
	Value     []byte
}

func (p *WriteChar) Name() string { return "WriteChar" }
func (p *WriteChar) Fields(c *protocol.Coder) {
	protocol.U16(c, "chrHandle", &p.ChrHandle)
	protocol.U8(c, "length", &p.Length)
	c.Bytes("value", RFMaxPacketSize, &p.Value)
}

type SetReceiverGain struct {
	Gain ReceiverGain
}

func (p *SetReceiverGain) Name() string { return "SetReceiverGain" }
func (p *SetReceiverGain) Fields(c *protocol.Coder) {
	protocol.U8(c, "receiverGain", &p.Gain)
}

type SetFeatureBits struct {
	Bits FeatureBits
}

func (p *SetFeatureBits) Name() string { return "SetFeatureBits" }
func (p *SetFeatureBits) Fields(c *protocol.Coder) {
	protocol.U16(c, "featureBits", &p.Bits)
}

type ReadFlashMemory struct {
	Words   uint16
	Address uint32
}

func (p *ReadFlashMemory) Name() string { return "ReadFlashMemory" }
func (p *ReadFlashMemory) Fields(c *protocol.Coder) {
	protocol.U16(c, "numberOf32BitWords", &p.Words)
	protocol.U32(c, "flashAddress", &p.Address)
}

// FlashDataSize is the flash payload width of one report.
const FlashDataSize = 4 * FlashWordsPerRecord

type WriteFlashMemory struct {
	Words   uint16
	Address uint32
	Data    []byte
}

func (p *WriteFlashMemory) Name() string { return "WriteFlashMemory" }
func (p *WriteFlashMemory) Fields(c *protocol.Coder) {
	protocol.U16(c, "numberOf32BitWords", &p.Words)
	protocol.U32(c, "flashAddress", &p.Address)
	c.Bytes("flashData", FlashDataSize, &p.Data)
}

// EnableFirmware carries the inverted code first, unlike DestroyImage.
type EnableFirmware struct {
	InvertedSecurityCode uint32
	SecurityCode         uint32
}

func (p *EnableFirmware) Name() string { return "EnableFirmware" }
func (p *EnableFirmware) Fields(c *protocol.Coder) {
	protocol.U32(c, "invertedSecurityCode", &p.InvertedSecurityCode)
	protocol.U32(c, "securityCode", &p.SecurityCode)
}
