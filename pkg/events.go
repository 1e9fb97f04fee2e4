package converter

/* ---------- Sensor contract ---------- */

// Values shared with the downstream reconstruction tooling. They must
// match the consumer bit-for-bit.
const SENSOR_NUM_COLS = 40
const SENSOR_NUM_ROWS = 32
const BINARY_SIGNAL = 1
const DEFAULT_SENSOR_ID = 71
const SPARSE_PIXEL_TYPE = 2

/* ---------- Trigger/ToT labels ---------- */

// Trigger tags are carried through unchanged, never interpreted.
const TRIGGER_TAG_TLU = 0x1
const TRIGGER_TAG_GENERIC = 0xBA

// TOT_LABEL marks a ToT-derived entry inside a trigger-shaped stream.
const TOT_LABEL = 0x2

// STREAM_ID tags trigger and ToT records regardless of window size.
const STREAM_ID = 1

/* ---------- Output collections ---------- */

const PIXEL_COLLECTION_NAME = "pixel-data"
const TRIGGER_COLLECTION_NAME = "triggers"
const TOT_COLLECTION_NAME = "tots"

// Events whose trailing frame id is at or below this threshold ship an
// empty plane carrying the same id.
const PLANE_TRIGGER_THRESHOLD = 100

/* ---------- Decoded frame content ---------- */

type Hit struct {
	Row          uint16
	Col          uint16
	TimestampRaw uint8
}

type Trigger struct {
	Timestamp uint64
	Tag       uint16
}

type TimeOverThreshold struct {
	Timestamp uint64
	Length    uint8
}

type DecodedFrame struct {
	Hits           []Hit
	Triggers       []Trigger
	Tots           []TimeOverThreshold
	FrameTimestamp uint64
}

/* ---------- Raw event ---------- */

// RawEvent is one readout cycle as delivered by the event builder: the
// raw frame payloads plus the per-block trigger/TLU identifiers. Blocks
// are read-only for the duration of one conversion call.
type RawEvent struct {
	RunNumber   int32
	EventNumber uint32
	Type        EventTypeType
	Timestamp   uint64
	Blocks      [][]byte
	FrameIDs    []uint32
}

func (e *RawEvent) IsBeginOfRun() bool {
	return e.Type == START_OF_RUN
}

func (e *RawEvent) IsEndOfRun() bool {
	return e.Type == END_OF_RUN
}

func (e *RawEvent) NumBlocks() int {
	return len(e.Blocks)
}

/* ---------- Quick-look plane ---------- */

type PlanePixel struct {
	Row    uint16 `cbor:"row"`
	Col    uint16 `cbor:"col"`
	Signal uint8  `cbor:"signal"`
}

// Plane is the per-sensor zero-suppressed pixel map for one event.
// DeclaredHits is the first-pass hit count and may exceed len(Pixels)
// when hits were dropped on the second pass.
type Plane struct {
	SensorID     int          `cbor:"sensor_id"`
	Cols         int          `cbor:"cols"`
	Rows         int          `cbor:"rows"`
	DeclaredHits int          `cbor:"declared_hits"`
	TriggerID    uint32       `cbor:"trigger_id"`
	EventNumber  uint32       `cbor:"event_number"`
	Pixels       []PlanePixel `cbor:"pixels"`
}

/* ---------- Merged output records ---------- */

type EncodedTrigger uint64

type PixelEntry struct {
	Row            uint16
	Col            uint16
	Signal         uint8
	TimestampRaw   uint8
	FrameTimestamp uint32
}

type PixelRecord struct {
	SensorID  int
	PixelType int
	Entries   []PixelEntry
}

type EncodedEntry struct {
	Value EncodedTrigger
	Label uint16
}

type TriggerRecord struct {
	StreamID int
	Entries  []EncodedEntry
}

type TotRecord struct {
	StreamID int
	Entries  []EncodedEntry
}

// MergedRecords is the output of one aggregation window: one record per
// stream, accumulated across all frames in the window.
type MergedRecords struct {
	Pixels   PixelRecord
	Triggers TriggerRecord
	Tots     TotRecord
}

/* ---------- Converted output ---------- */

// ConvertedEvent is one window's converted output as handed to the
// writer and the monitor. Store holds only the collections that were
// registered; records that failed insertion never reach it.
type ConvertedEvent struct {
	RunNumber   int32
	EventNumber uint32
	Timestamp   uint64
	Plane       *Plane
	Store       *MemoryStore
	Result      InsertResult
	Error       bool
}
