package data

import (
	"fmt"

	"github.com/danmuck/trackerlink/internal/protocol"
)

// TrackerBlock selects a block type in block transfer requests. It is a
// 4-bit field on the wire.
type TrackerBlock uint8

const (
	BlockReserved1         TrackerBlock = 0
	BlockMicroDumpResp2    TrackerBlock = 1
	BlockBondData          TrackerBlock = 2
	BlockMicroDump         TrackerBlock = 3
	BlockMegaDumpResponse  TrackerBlock = 4
	BlockReserved4         TrackerBlock = 5
	BlockReserved5         TrackerBlock = 6
	BlockReserved6         TrackerBlock = 7
	BlockMicroDumpResponse TrackerBlock = 8
	BlockMemory            TrackerBlock = 9
	BlockReservedA         TrackerBlock = 10
	BlockReservedB         TrackerBlock = 11
	BlockAirlinkInfo       TrackerBlock = 12
	BlockMegaDump          TrackerBlock = 13
)

var trackerBlockNames = map[TrackerBlock]string{
	BlockReserved1:         "RF_TRACKERBLOCK_RESERVED_1",
	BlockMicroDumpResp2:    "RF_TRACKERBLOCK_MICRO_DUMP_RESP_2",
	BlockBondData:          "RF_TRACKERBLOCK_BOND_DATA",
	BlockMicroDump:         "RF_TRACKERBLOCK_MICRO_DUMP",
	BlockMegaDumpResponse:  "RF_TRACKERBLOCK_MEGA_DUMP_RESPONSE",
	BlockReserved4:         "RF_TRACKERBLOCK_RESERVED_4",
	BlockReserved5:         "RF_TRACKERBLOCK_RESERVED_5",
	BlockReserved6:         "RF_TRACKERBLOCK_RESERVED_6",
	BlockMicroDumpResponse: "RF_TRACKERBLOCK_MICRO_DUMP_RESPONSE",
	BlockMemory:            "RF_TRACKERBLOCK_MEMORY",
	BlockReservedA:         "RF_TRACKERBLOCK_RESERVED_A",
	BlockReservedB:         "RF_TRACKERBLOCK_RESERVED_B",
	BlockAirlinkInfo:       "RF_TRACKERBLOCK_AIRLINK_INFO",
	BlockMegaDump:          "RF_TRACKERBLOCK_MEGA_DUMP",
}

func (b TrackerBlock) String() string { return opName(trackerBlockNames, b, "RF_TRACKERBLOCK") }

// ParseTrackerBlock resolves names such as "MEGA_DUMP" or "RF_TRACKERBLOCK_MEMORY".
func ParseTrackerBlock(s string) (TrackerBlock, error) {
	for b, name := range trackerBlockNames {
		if name == s || name == "RF_TRACKERBLOCK_"+s {
			return b, nil
		}
	}
	return 0, fmt.Errorf("data: unknown tracker block %q", s)
}

type BootMode uint8

const (
	BootModeApp BootMode = 0
	BootModeBSL BootMode = 1
)

func (m BootMode) String() string {
	switch m {
	case BootModeApp:
		return "RF_BOOTMODE_APP"
	case BootModeBSL:
		return "RF_BOOTMODE_BSL"
	}
	return fmt.Sprintf("RF_BOOTMODE(%d)", uint8(m))
}

// Site protocol identifiers carried in a ProtocolHeader.
const (
	SiteProtocolMegaDump  uint32 = 500
	SiteProtocolReserved1 uint32 = 501
	SiteProtocolBSLBlob   uint32 = 502
	SiteProtocolAppBlob   uint32 = 503
	SiteProtocolMicroDump uint32 = 510
)

// Site commands carried in a SiteCommand.
const (
	SiteCmdReserved              uint8 = 0
	SiteCmdDeleteMinuteSummaries uint8 = 1
	SiteCmdDeleteAnnotations     uint8 = 2
	SiteCmdDeleteUsageRecords    uint8 = 3
	SiteCmdDeleteDailySummaries  uint8 = 4
	SiteCmdSetTrackerClock       uint8 = 5
	SiteCmdSetSyncDelayMinutes   uint8 = 6
	SiteCmdDeleteAltitudeRecords uint8 = 7
)

// Memory section data types.
const (
	MemSectionNoOp        uint8 = 0
	MemSectionBSLImage    uint8 = 1
	MemSectionAppImage    uint8 = 2
	MemSectionRebootToBSL uint8 = 3
	MemSectionRebootToApp uint8 = 4
)

// ServiceData is the advertised tracker state found in discovery results.
type ServiceData struct {
	ProductID        uint8
	Reserved         uint8
	ColorCode        uint8
	CanDisplayNumber bool
	SynchedRecently  bool
	SpecialMode      bool
}

func (s *ServiceData) Name() string { return "ServiceData" }
func (s *ServiceData) Fields(c *protocol.Coder) {
	protocol.U8(c, "productId", &s.ProductID)
	c.Group("flags", func(g *protocol.BitGroup) {
		protocol.Bit(g, "reserved", 1, &s.Reserved)
		protocol.Bit(g, "colorCode", 4, &s.ColorCode)
		protocol.BitFlag(g, "canDisplayNumber", &s.CanDisplayNumber)
		protocol.BitFlag(g, "synchedRecently", &s.SynchedRecently)
		protocol.BitFlag(g, "specialMode", &s.SpecialMode)
	})
}

type ProtocolHeader struct {
	SiteProtocol   uint32
	EncryptionInfo uint16
	Nonce          uint32
}

func (h *ProtocolHeader) Name() string { return "ProtocolHeader" }
func (h *ProtocolHeader) Fields(c *protocol.Coder) {
	protocol.U32(c, "siteProtocol", &h.SiteProtocol)
	protocol.U16(c, "encryptionInfo", &h.EncryptionInfo)
	protocol.U32(c, "nonce", &h.Nonce)
}

// SignatureTrailer closes a dump with a 64-bit signature and 24-bit length.
type SignatureTrailer struct {
	SignatureLo uint32
	SignatureHi uint32
	LengthLo    uint16
	LengthHi    uint8
}

func (t *SignatureTrailer) Name() string { return "SignatureTrailer" }
func (t *SignatureTrailer) Fields(c *protocol.Coder) {
	protocol.U32(c, "signature64Lo", &t.SignatureLo)
	protocol.U32(c, "signature64Hi", &t.SignatureHi)
	protocol.U16(c, "length24Lo", &t.LengthLo)
	protocol.U8(c, "length24Hi", &t.LengthHi)
}

func (t *SignatureTrailer) Signature() uint64 {
	return uint64(t.SignatureHi)<<32 | uint64(t.SignatureLo)
}

func (t *SignatureTrailer) Length() uint32 {
	return uint32(t.LengthHi)<<16 | uint32(t.LengthLo)
}

type SiteCommand struct {
	Command uint8
	GMTTime uint32
}

func (s *SiteCommand) Name() string { return "SiteCommand" }
func (s *SiteCommand) Fields(c *protocol.Coder) {
	protocol.U8(c, "siteCommand", &s.Command)
	protocol.U32(c, "gmtTime", &s.GMTTime)
}

type MemorySectionHeader struct {
	ProductID      uint8
	DataType       uint8
	BaseAddress    uint32
	OriginalLength uint32
	EncodedLength  uint32
	CRC16          uint16
	Reserved       uint32
}

func (h *MemorySectionHeader) Name() string { return "MemorySectionHeader" }
func (h *MemorySectionHeader) Fields(c *protocol.Coder) {
	protocol.U8(c, "productId", &h.ProductID)
	protocol.U8(c, "dataType", &h.DataType)
	protocol.U32(c, "baseAddress", &h.BaseAddress)
	protocol.U32(c, "originalLength", &h.OriginalLength)
	protocol.U32(c, "encodedLength", &h.EncodedLength)
	protocol.U16(c, "crc16", &h.CRC16)
	protocol.U32(c, "reserved", &h.Reserved)
}

type BondedStatus struct {
	IsTrackerBonded       uint8
	IsBondedToCurrentPeer uint8
	IsANCSReady           uint8
	ServiceData           ServiceData
}

func (s *BondedStatus) Name() string { return "BondedStatus" }
func (s *BondedStatus) Fields(c *protocol.Coder) {
	protocol.U8(c, "isTrackerBonded", &s.IsTrackerBonded)
	protocol.U8(c, "isBondedToCurrentPeer", &s.IsBondedToCurrentPeer)
	protocol.U8(c, "isANCSReady", &s.IsANCSReady)
	s.ServiceData.Fields(c)
}

// Structs lists the headerless structures found inside block payloads.
func Structs() []protocol.Body {
	return []protocol.Body{
		&ServiceData{},
		&ProtocolHeader{},
		&SignatureTrailer{},
		&SiteCommand{},
		&MemorySectionHeader{},
		&BondedStatus{},
	}
}
