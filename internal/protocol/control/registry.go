package control

import (
	"fmt"
	"sort"

	"github.com/danmuck/trackerlink/internal/protocol"
)

// entry binds an opcode to one packet shape.
type entry struct {
	newBody func() protocol.Body
	accepts func(protocol.Body) bool
	schema  protocol.Schema
}

func shape[T any, PT interface {
	*T
	protocol.Body
}]() entry {
	return entry{
		newBody: func() protocol.Body { return PT(new(T)) },
		accepts: func(b protocol.Body) bool {
			_, ok := b.(PT)
			return ok
		},
	}
}

const (
	outFallbackName = "CtrlOutDefault"
	inFallbackName  = "CtrlInDefault"
)

var outRegistry = map[OutOpcode]entry{
	OutEchoRequest:         shape[EchoRequest](),
	OutQueryVersion:        shape[QueryVersion](),
	OutForceDisconnect:     shape[ForceDisconnect](),
	OutSetTraceLevel:       shape[SetTraceLevel](),
	OutStartDiscovery:      shape[StartDiscovery](),
	OutCancelDiscovery:     shape[CancelDiscovery](),
	OutEstablishLink:       shape[EstablishLink](),
	OutTerminateLink:       shape[TerminateLink](),
	OutEnableTxPipe:        shape[EnableTxPipe](),
	OutDestroyImage:        shape[DestroyImage](),
	OutTestTransmitter:     shape[TestTransmitter](),
	OutTestReceiver:        shape[TestReceiver](),
	OutTestEnd:             shape[TestEnd](),
	OutSetTransmitterPower: shape[SetTransmitterPower](),
	OutStartSamplingRSSI:   shape[StartSamplingRSSI](),
	OutEstablishLinkEx:     shape[EstablishLinkEx](),
	OutEstablishLinkEx2:    shape[EstablishLinkEx](),
	OutDiscoverChars:       shape[DiscoverChars](),
	OutWriteChar:           shape[WriteChar](),
	OutSetReceiverGain:     shape[SetReceiverGain](),
	OutSetFeatureBits:      shape[SetFeatureBits](),
	OutReadFlashData:       shape[ReadFlashMemory](),
	OutWriteFlashData:      shape[WriteFlashMemory](),
	OutEnableFirmware:      shape[EnableFirmware](),
}

// Opcodes decoded through the raw fallback on purpose.
var outFallback = map[OutOpcode]bool{
	OutStopSamplingRSSI:       true,
	OutReadRSSI:               true,
	OutQueryState:             true,
	OutQueryFeatureBits:       true,
	OutClearFeatureBits:       true,
	OutEraseFlashData:         true,
	OutReboot:                 true,
	OutQueryBootloaderVersion: true,
}

var inRegistry = map[InOpcode]entry{
	InEchoResponse:              shape[EchoResponse](),
	InTraceMsg:                  shape[TraceMsg](),
	InDiscoveryComplete:         shape[DiscoveryComplete](),
	InTrackerDeviceInfo:         shape[TrackerDeviceInfo](),
	InLinkEstablished:           shape[LinkEstablished](),
	InLinkTerminated:            shape[LinkTerminated](),
	InLinkParameterUpdate:       shape[LinkParameterUpdate](),
	InServicesDetected:          shape[ServicesDetected](),
	InVersionResponse:           shape[VersionResponse](),
	InRSSIData:                  shape[RSSIData](),
	InDiscoveredSvc128:          shape[DiscoveredSvc128](),
	InDiscoveredSvc16:           shape[DiscoveredSvc16](),
	InDiscoveredChr128:          shape[DiscoveredChr128](),
	InDiscoveredChr16:           shape[DiscoveredChr16](),
	InNotifyChar:                shape[NotifyChar](),
	InFeatureBits:               shape[FeatureBitsReport](),
	InDataOutStatus:             shape[DataOutStatus](),
	InReadFlashData:             shape[ReadFlashMemoryResponse](),
	InBootloaderVersionResponse: shape[BootloaderVersionResponse](),
	InNakResponse:               shape[NakResponse](),
}

var inFallback = map[InOpcode]bool{
	InAlreadyConnected:     true,
	InChrDiscoveryComplete: true,
	InAckResponse:          true,
}

// versionResponseEx replaces the registered VERSION_RESPONSE shape for
// frames longer than VersionResponseLegacySize.
var versionResponseEx = shape[VersionResponseEx]()

var (
	outDefault = shape[protocol.Raw]()
	inDefault  = shape[protocol.Raw]()
)

func describe(name string, e *entry) {
	e.schema = protocol.Describe(name, &Header{}, e.newBody())
}

func init() {
	for op := range outNames {
		e, ok := outRegistry[op]
		if ok == outFallback[op] {
			panic(fmt.Sprintf("control: %s must be either registered or fallback-routed", op))
		}
		if ok {
			describe(e.newBody().Name(), &e)
			outRegistry[op] = e
		}
	}
	for op := range inNames {
		e, ok := inRegistry[op]
		if ok == inFallback[op] {
			panic(fmt.Sprintf("control: %s must be either registered or fallback-routed", op))
		}
		if ok {
			describe(e.newBody().Name(), &e)
			inRegistry[op] = e
		}
	}
	describe("VersionResponseEx", &versionResponseEx)
	describe(outFallbackName, &outDefault)
	describe(inFallbackName, &inDefault)
}

// lookup resolves the shape for op given the logical frame length. The
// bool result is false when the raw fallback was chosen.
func lookup(op Opcode, length int) (entry, bool) {
	switch op := op.(type) {
	case OutOpcode:
		if e, ok := outRegistry[op]; ok {
			return e, true
		}
		return outDefault, false
	case InOpcode:
		if op == InVersionResponse && length > VersionResponseLegacySize {
			return versionResponseEx, true
		}
		if e, ok := inRegistry[op]; ok {
			return e, true
		}
		return inDefault, false
	}
	panic(fmt.Sprintf("control: unsupported opcode type %T", op))
}

// accepts reports whether body is a shape op may carry.
func accepts(op Opcode, body protocol.Body) bool {
	switch op := op.(type) {
	case OutOpcode:
		if e, ok := outRegistry[op]; ok {
			return e.accepts(body)
		}
		return outDefault.accepts(body)
	case InOpcode:
		if op == InVersionResponse && versionResponseEx.accepts(body) {
			return true
		}
		if e, ok := inRegistry[op]; ok {
			return e.accepts(body)
		}
		return inDefault.accepts(body)
	}
	return false
}

// NewBody returns an empty body of the shape registered for op, or a raw
// body for fallback-routed opcodes.
func NewBody(op Opcode) protocol.Body {
	e, _ := lookup(op, ReportSize)
	if op == InVersionResponse {
		e = inRegistry[InVersionResponse]
	}
	return e.newBody()
}

// SchemaEntry is one row of a registry listing.
type SchemaEntry struct {
	Opcode   Opcode
	Schema   protocol.Schema
	Fallback bool
}

// Schemas lists every opcode of dir with the schema it decodes through,
// ordered by opcode. VERSION_RESPONSE is listed once per variant.
func Schemas(dir Direction) []SchemaEntry {
	var out []SchemaEntry
	switch dir {
	case HostToDevice:
		for op := range outNames {
			e, ok := outRegistry[op]
			if !ok {
				e = outDefault
			}
			out = append(out, SchemaEntry{Opcode: op, Schema: e.schema, Fallback: !ok})
		}
	case DeviceToHost:
		for op := range inNames {
			e, ok := inRegistry[op]
			if !ok {
				e = inDefault
			}
			out = append(out, SchemaEntry{Opcode: op, Schema: e.schema, Fallback: !ok})
			if op == InVersionResponse {
				out = append(out, SchemaEntry{Opcode: op, Schema: versionResponseEx.schema})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Opcode.Code() != out[j].Opcode.Code() {
			return out[i].Opcode.Code() < out[j].Opcode.Code()
		}
		return out[i].Schema.Size < out[j].Schema.Size
	})
	return out
}
