package converter

type EventSizeType uint32

type EventMagicType uint32

const EVENT_MAGIC_NUMBER EventMagicType = 0xDECAFBAD

/* ---------- Unique version identifier ---------- */
const EVENT_MAJOR_VERSION_NUMBER = 1
const EVENT_MINOR_VERSION_NUMBER = 2
const EVENT_CURRENT_VERSION = ((EVENT_MAJOR_VERSION_NUMBER << 16) & 0xffff0000) | (EVENT_MINOR_VERSION_NUMBER & 0x0000ffff)

type EventVersionType uint32

/* ---------- Event type ---------- */
type EventTypeType uint32

const (
	START_OF_RUN EventTypeType = iota + 1
	END_OF_RUN
	PHYSICS_EVENT
	CALIBRATION_EVENT
)

type EventRunNbType int32

/*
---------- Timestamps ----------

	The timestamp is split into seconds and microseconds.
*/
type EventTimestampSecType uint32

/* Microseconds: range [0..999999] */
type EventTimestampUsecType uint32

/* ---------- The event header structure ---------- */

// All fields are 32 bit so the in-memory layout has no padding and
// matches the on-disk layout byte for byte.
type EventHeaderStruct struct {
	EventMagic         EventMagicType
	EventSize          EventSizeType
	EventVersion       EventVersionType
	EventType          EventTypeType
	EventRunNb         EventRunNbType
	EventNb            uint32
	EventTimestampSec  EventTimestampSecType
	EventTimestampUsec EventTimestampUsecType
	NumBlocks          uint32
}

/* ---------- The block header structure ---------- */
type BlockHeaderStruct struct {
	BlockSize uint32
	FrameId   uint32
}
