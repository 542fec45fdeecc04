package control

import (
	"strings"

	"github.com/danmuck/trackerlink/internal/protocol"
	"github.com/danmuck/trackerlink/internal/protocol/data"
)

type EchoResponse struct {
	Payload []byte
}

func (p *EchoResponse) Name() string { return "EchoResponse" }
func (p *EchoResponse) Fields(c *protocol.Coder) {
	c.Bytes("payload", EchoPayloadSize, &p.Payload)
}

// TraceMsg is firmware trace output. Message keeps the raw report text,
// terminator and padding included.
type TraceMsg struct {
	Message string
}

func (p *TraceMsg) Name() string { return "TraceMsg" }
func (p *TraceMsg) Fields(c *protocol.Coder) {
	c.Text("message", ReportSize-HeaderSize, &p.Message)
}

// Text returns the message up to its first NUL.
func (p *TraceMsg) Text() string {
	if i := strings.IndexByte(p.Message, 0); i >= 0 {
		return p.Message[:i]
	}
	return p.Message
}

type DiscoveryComplete struct {
	NumTrackers uint8
}

func (p *DiscoveryComplete) Name() string { return "DiscoveryComplete" }
func (p *DiscoveryComplete) Fields(c *protocol.Coder) {
	protocol.U8(c, "numTrackers", &p.NumTrackers)
}

// TrackerDeviceInfo reports one tracker found during discovery.
type TrackerDeviceInfo struct {
	Addr           protocol.HardwareAddr
	AddrType       uint8
	RSSI           int8
	ServiceDataLen uint8
	ServiceData    []byte
	ServiceUUID    uint16
}

func (p *TrackerDeviceInfo) Name() string { return "TrackerDeviceInfo" }
func (p *TrackerDeviceInfo) Fields(c *protocol.Coder) {
	c.Addr("addr", &p.Addr)
	protocol.U8(c, "addrType", &p.AddrType)
	protocol.S8(c, "rssi", &p.RSSI)
	protocol.U8(c, "serviceDataLen", &p.ServiceDataLen)
	c.Bytes("serviceData", MaxServiceDataBytes, &p.ServiceData)
	protocol.U16(c, "serviceUUID", &p.ServiceUUID)
}

// ServiceInfo decodes the advertised service data.
func (p *TrackerDeviceInfo) ServiceInfo() (data.ServiceData, error) {
	var sd data.ServiceData
	n := int(p.ServiceDataLen)
	if n > len(p.ServiceData) {
		n = len(p.ServiceData)
	}
	err := protocol.Unmarshal(p.ServiceData[:n], &sd)
	return sd, err
}

type LinkEstablished struct {
	Status uint8
}

func (p *LinkEstablished) Name() string { return "LinkEstablished" }
func (p *LinkEstablished) Fields(c *protocol.Coder) {
	protocol.U8(c, "linkStatus", &p.Status)
}

type LinkTerminated struct {
	Reason uint8
}

func (p *LinkTerminated) Name() string { return "LinkTerminated" }
func (p *LinkTerminated) Fields(c *protocol.Coder) {
	protocol.U8(c, "reason", &p.Reason)
}

type LinkParameterUpdate struct {
	ConnInterval uint16
	ConnLatency  uint16
	ConnTimeout  uint16
}

func (p *LinkParameterUpdate) Name() string { return "LinkParameterUpdate" }
func (p *LinkParameterUpdate) Fields(c *protocol.Coder) {
	protocol.U16(c, "connInterval", &p.ConnInterval)
	protocol.U16(c, "connLatency", &p.ConnLatency)
	protocol.U16(c, "connTimeout", &p.ConnTimeout)
}

type ServicesDetected struct{ Empty }

func (p *ServicesDetected) Name() string { return "ServicesDetected" }

// VersionResponseLegacySize is the largest frame decoded as VersionResponse.
// Longer VERSION_RESPONSE frames carry a hardware revision.
const VersionResponseLegacySize = 21

type VersionResponse struct {
	MajorVersion         uint8
	MinorVersion         uint8
	DeviceAddr           protocol.HardwareAddr
	FlashEraseTime       uint16
	FirmwareStartAddress uint32
	FirmwareEndAddress   uint32
	Microcontroller      Microcontroller
}

func (p *VersionResponse) Name() string { return "VersionResponse" }
func (p *VersionResponse) Fields(c *protocol.Coder) {
	protocol.U8(c, "majorVersion", &p.MajorVersion)
	protocol.U8(c, "minorVersion", &p.MinorVersion)
	c.Addr("deviceAddr", &p.DeviceAddr)
	protocol.U16(c, "flashEraseTime", &p.FlashEraseTime)
	protocol.U32(c, "firmwareStartAddress", &p.FirmwareStartAddress)
	protocol.U32(c, "firmwareEndAddress", &p.FirmwareEndAddress)
	protocol.U8(c, "ccIC", &p.Microcontroller)
}

type VersionResponseEx struct {
	VersionResponse
	HardwareRevision uint8
}

func (p *VersionResponseEx) Name() string { return "VersionResponseEx" }
func (p *VersionResponseEx) Fields(c *protocol.Coder) {
	p.VersionResponse.Fields(c)
	protocol.U8(c, "hardwareRevision", &p.HardwareRevision)
}

// BootloaderVersionResponse shares the legacy version layout.
type BootloaderVersionResponse struct {
	VersionResponse
}

func (p *BootloaderVersionResponse) Name() string { return "BootloaderVersionResponse" }

type RSSIData struct {
	RSSI int8
}

func (p *RSSIData) Name() string { return "RSSIData" }
func (p *RSSIData) Fields(c *protocol.Coder) {
	protocol.S8(c, "rssi", &p.RSSI)
}

type DiscoveredSvc128 struct {
	ServiceUUID []byte
	StartHandle uint16
	EndHandle   uint16
}

func (p *DiscoveredSvc128) Name() string { return "DiscoveredSvc128" }
func (p *DiscoveredSvc128) Fields(c *protocol.Coder) {
	c.Bytes("serviceUUID", BaseUUIDSize, &p.ServiceUUID)
	protocol.U16(c, "startHandle", &p.StartHandle)
	protocol.U16(c, "endHandle", &p.EndHandle)
}

type DiscoveredSvc16 struct {
	ServiceUUID uint16
	StartHandle uint16
	EndHandle   uint16
}

func (p *DiscoveredSvc16) Name() string { return "DiscoveredSvc16" }
func (p *DiscoveredSvc16) Fields(c *protocol.Coder) {
	protocol.U16(c, "serviceUUID", &p.ServiceUUID)
	protocol.U16(c, "startHandle", &p.StartHandle)
	protocol.U16(c, "endHandle", &p.EndHandle)
}

type DiscoveredChr128 struct {
	ChrUUID   []byte
	ChrHandle uint16
}

func (p *DiscoveredChr128) Name() string { return "DiscoveredChr128" }
func (p *DiscoveredChr128) Fields(c *protocol.Coder) {
	c.Bytes("chrUUID", BaseUUIDSize, &p.ChrUUID)
	protocol.U16(c, "chrHandle", &p.ChrHandle)
}

type DiscoveredChr16 struct {
	ChrUUID   uint16
	ChrHandle uint16
}

func (p *DiscoveredChr16) Name() string { return "DiscoveredChr16" }
func (p *DiscoveredChr16) Fields(c *protocol.Coder) {
	protocol.U16(c, "chrUUID", &p.ChrUUID)
	protocol.U16(c, "chrHandle", &p.ChrHandle)
}

// NotifyChar relays a characteristic notification. Value[:Length] is valid.
type NotifyChar struct {
	ChrHandle uint16
	Length    uint8
	Value     []byte
}

func (p *NotifyChar) Name() string { return "NotifyChar" }
func (p *NotifyChar) Fields(c *protocol.Coder) {
	protocol.U16(c, "chrHandle", &p.ChrHandle)
	protocol.U8(c, "length", &p.Length)
	c.Bytes("value", RFMaxPacketSize, &p.Value)
}

// Payload returns the valid prefix of Value.
func (p *NotifyChar) Payload() []byte {
	n := int(p.Length)
	if n > len(p.Value) {
		n = len(p.Value)
	}
	return p.Value[:n]
}

type FeatureBitsReport struct {
	Bits FeatureBits
}

func (p *FeatureBitsReport) Name() string { return "FeatureBits" }
func (p *FeatureBitsReport) Fields(c *protocol.Coder) {
	protocol.U16(c, "featureBits", &p.Bits)
}

type DataOutStatus struct {
	Status uint8
}

func (p *DataOutStatus) Name() string { return "DataOutStatus" }
func (p *DataOutStatus) Fields(c *protocol.Coder) {
	protocol.U8(c, "status", &p.Status)
}

type ReadFlashMemoryResponse struct {
	Words   uint16
	Address uint32
	Data    []byte
}

func (p *ReadFlashMemoryResponse) Name() string { return "ReadFlashMemoryResponse" }
func (p *ReadFlashMemoryResponse) Fields(c *protocol.Coder) {
	protocol.U16(c, "numberOf32BitWords", &p.Words)
	protocol.U32(c, "flashAddress", &p.Address)
	c.Bytes("flashData", FlashDataSize, &p.Data)
}

// NakResponse rejects a command. Older firmware omits the error code.
type NakResponse struct {
	ErrorCode protocol.Optional16
}

func (p *NakResponse) Name() string { return "NakResponse" }
func (p *NakResponse) Fields(c *protocol.Coder) {
	c.OptionalU16("errorCode", &p.ErrorCode)
}

// Code returns the error code when present.
func (p *NakResponse) Code() (ErrorCode, bool) {
	return ErrorCode(p.ErrorCode.Value), p.ErrorCode.Present
}
