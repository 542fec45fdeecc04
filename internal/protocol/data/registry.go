package data

import (
	"fmt"
	"sort"

	"github.com/danmuck/trackerlink/internal/protocol"
)

type key struct {
	group Group
	code  uint8
}

func keyOf(op Opcode) key { return key{op.Group(), op.Code()} }

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

const fallbackName = "DataDefault"

var registry = map[key]entry{
	keyOf(MiscCmdAck):         shape[CmdAck](),
	keyOf(MiscCmdNak):         shape[CmdNak](),
	keyOf(MiscSetDeviceClock): shape[SetDeviceClock](),
	keyOf(MiscAlertUser):      shape[AlertUser](),
	keyOf(MiscEchoPacket):     shape[Echo](),
	keyOf(MiscInitAirlink):    shape[InitAirlink](),

	keyOf(ReadTrackerBlockOp):   shape[ReadTrackerBlock](),
	keyOf(ReadTrackerMemoryOp):  shape[ReadTrackerMemory](),
	keyOf(ReadFirstHostBlockOp): shape[ReadFirstHostBlock](),
	keyOf(ReadNextHostBlockOp):  shape[ReadNextHostBlock](),
	keyOf(ReadAirlinkBlockOp):   shape[ReadAirlinkBlock](),

	keyOf(UpdateBeaconParamsOp): shape[UpdateBeaconParams](),
	keyOf(UpdateSecretOp):       shape[UpdateSecret](),
	keyOf(UpdateTrackerBlockOp): shape[UpdateTrackerBlock](),

	keyOf(Xfr2HostSingleBlockOp):    shape[Xfr2HostSingleBlock](),
	keyOf(Xfr2HostStreamStartingOp): shape[Xfr2HostStreamStarting](),
	keyOf(Xfr2HostStreamFinishedOp): shape[Xfr2HostStreamFinished](),

	keyOf(Xfr2TrackerSingleBlockOp):    shape[Xfr2TrackerSingleBlock](),
	keyOf(Xfr2TrackerStreamStartingOp): shape[Xfr2TrackerStreamStarting](),
	keyOf(Xfr2TrackerStreamFinishedOp): shape[Xfr2TrackerStreamFinished](),
}

// Enumerated opcodes decoded through the raw fallback on purpose. Reserved
// groups always fall back.
var fallback = map[key]bool{
	keyOf(MiscPollHost):     true,
	keyOf(MiscResetLink):    true,
	keyOf(MiscReserved5):    true,
	keyOf(MiscReserved7):    true,
	keyOf(MiscUserActivity): true,
	keyOf(MiscBthRxAck):     true,
	keyOf(UpdateReserved1):  true,
	keyOf(UpdateReserved2):  true,
}

var rawDefault = shape[protocol.Raw]()

func init() {
	for _, op := range Opcodes() {
		k := keyOf(op)
		e, ok := registry[k]
		if ok == fallback[k] {
			panic(fmt.Sprintf("data: %s must be either registered or fallback-routed", op))
		}
		if ok {
			e.schema = protocol.Describe(e.newBody().Name(), &Header{}, e.newBody())
			if e.schema.Size > MaxPacketSize {
				panic(fmt.Sprintf("data: %s exceeds %d bytes", e.schema.Name, MaxPacketSize))
			}
			registry[k] = e
		}
	}
	rawDefault.schema = protocol.Describe(fallbackName, &Header{}, &protocol.Raw{})
}

func lookup(op Opcode) (entry, bool) {
	if e, ok := registry[keyOf(op)]; ok {
		return e, true
	}
	return rawDefault, false
}

// NewBody returns an empty body of the shape registered for op, or a raw
// body for fallback-routed opcodes.
func NewBody(op Opcode) protocol.Body {
	e, _ := lookup(op)
	return e.newBody()
}

// SchemaEntry is one row of a registry listing.
type SchemaEntry struct {
	Opcode   Opcode
	Schema   protocol.Schema
	Fallback bool
}

// Schemas lists every enumerated opcode with the schema it decodes
// through, ordered by group and opcode.
func Schemas() []SchemaEntry {
	var out []SchemaEntry
	for _, op := range Opcodes() {
		e, ok := lookup(op)
		out = append(out, SchemaEntry{Opcode: op, Schema: e.schema, Fallback: !ok})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Opcode, out[j].Opcode
		if a.Group() != b.Group() {
			return a.Group() < b.Group()
		}
		return a.Code() < b.Code()
	})
	return out
}

// Explicit lists the shapes that share an opcode with a registered shape
// or have none, and are decoded only through DecodeAs.
func Explicit() []protocol.Body {
	return []protocol.Body{
		&ReadFirstHostBlockLegacy{},
		&UpdateTrackerBlockLegacy{},
		&ReadFastAirlinkBlock{},
		&DeleteTrackerBlock{},
		&Xfr2TrackerAirlinkInfo{},
	}
}
