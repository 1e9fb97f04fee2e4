package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeSingleEvent(t *testing.T) {
	setupTest(t)
	frame := DecodedFrame{
		FrameTimestamp: 1000,
		Hits: []Hit{
			{Row: 0, Col: 0, TimestampRaw: 1},
			{Row: 5, Col: 10, TimestampRaw: 2},
		},
		Triggers: []Trigger{{Timestamp: 100, Tag: TRIGGER_TAG_TLU}},
		Tots:     []TimeOverThreshold{{Timestamp: 200, Length: 3}},
	}
	window := []*RawEvent{rawEventFromFrames(12, []uint32{1042}, frame)}

	records, err := Merge(window, TelescopeDecoder{})
	require.NoError(t, err)
	require.NotNil(t, records)

	assert.Equal(t, DEFAULT_SENSOR_ID, records.Pixels.SensorID)
	assert.Equal(t, SPARSE_PIXEL_TYPE, records.Pixels.PixelType)
	assert.Equal(t, STREAM_ID, records.Triggers.StreamID)
	assert.Equal(t, STREAM_ID, records.Tots.StreamID)

	// The merge path keeps the origin hit; only the quick-look path
	// treats it as an artifact.
	require.Len(t, records.Pixels.Entries, 2)
	assert.Equal(t, PixelEntry{Row: 0, Col: 0, Signal: BINARY_SIGNAL, TimestampRaw: 1, FrameTimestamp: 1000},
		records.Pixels.Entries[0])
	assert.Equal(t, PixelEntry{Row: 10, Col: 5, Signal: BINARY_SIGNAL, TimestampRaw: 2, FrameTimestamp: 1000},
		records.Pixels.Entries[1])

	require.Len(t, records.Triggers.Entries, 1)
	assert.Equal(t, EncodedEntry{Value: EncodedTrigger(100<<8 | 0x1), Label: TRIGGER_TAG_TLU},
		records.Triggers.Entries[0])

	require.Len(t, records.Tots.Entries, 1)
	assert.Equal(t, EncodedEntry{Value: EncodedTrigger(200<<8 | 3), Label: TOT_LABEL},
		records.Tots.Entries[0])
}

func TestMergeWindowPrefix(t *testing.T) {
	setupTest(t)
	events := []*RawEvent{
		rawEventFromFrames(1, []uint32{201}, DecodedFrame{
			FrameTimestamp: 10,
			Hits:           []Hit{{Row: 1, Col: 1, TimestampRaw: 1}},
			Triggers:       []Trigger{{Timestamp: 11, Tag: TRIGGER_TAG_TLU}},
			Tots:           []TimeOverThreshold{{Timestamp: 12, Length: 1}},
		}),
		rawEventFromFrames(2, []uint32{202}, DecodedFrame{
			FrameTimestamp: 20,
			Hits:           []Hit{{Row: 2, Col: 2, TimestampRaw: 2}},
			Triggers:       []Trigger{{Timestamp: 21, Tag: TRIGGER_TAG_GENERIC}},
		}),
		rawEventFromFrames(3, []uint32{203}, DecodedFrame{
			FrameTimestamp: 30,
			Hits:           []Hit{{Row: 3, Col: 3, TimestampRaw: 3}},
			Tots:           []TimeOverThreshold{{Timestamp: 31, Length: 2}},
		}),
	}

	merged := make([]*MergedRecords, 0, 3)
	for n := 1; n <= 3; n++ {
		records, err := Merge(events[:n], TelescopeDecoder{})
		require.NoError(t, err)
		require.NotNil(t, records)
		merged = append(merged, records)
	}

	// Growing the window appends entries, it never reorders or touches
	// the entries contributed by earlier frames.
	for n := 1; n < 3; n++ {
		shorter, longer := merged[n-1], merged[n]
		assert.Equal(t, shorter.Pixels.Entries, longer.Pixels.Entries[:len(shorter.Pixels.Entries)])
		assert.Equal(t, shorter.Triggers.Entries, longer.Triggers.Entries[:len(shorter.Triggers.Entries)])
		assert.Equal(t, shorter.Tots.Entries, longer.Tots.Entries[:len(shorter.Tots.Entries)])
	}

	assert.Len(t, merged[2].Pixels.Entries, 3)
	assert.Len(t, merged[2].Triggers.Entries, 2)
	assert.Len(t, merged[2].Tots.Entries, 2)
}

func TestMergeOrdering(t *testing.T) {
	setupTest(t)
	// Two blocks in the first event, one in the second; raw hit
	// timestamps number the expected arrival order.
	window := []*RawEvent{
		rawEventFromFrames(1, []uint32{301, 302},
			DecodedFrame{Hits: []Hit{{Row: 1, Col: 1, TimestampRaw: 1}, {Row: 2, Col: 2, TimestampRaw: 2}}},
			DecodedFrame{Hits: []Hit{{Row: 3, Col: 3, TimestampRaw: 3}}}),
		rawEventFromFrames(2, []uint32{303},
			DecodedFrame{Hits: []Hit{{Row: 4, Col: 4, TimestampRaw: 4}}}),
	}

	records, err := Merge(window, TelescopeDecoder{})
	require.NoError(t, err)
	require.NotNil(t, records)
	require.Len(t, records.Pixels.Entries, 4)
	for i, entry := range records.Pixels.Entries {
		assert.Equal(t, uint8(i+1), entry.TimestampRaw)
	}
}

func TestMergeFrameTimestampTruncation(t *testing.T) {
	setupTest(t)
	window := []*RawEvent{rawEventFromFrames(1, []uint32{400}, DecodedFrame{
		FrameTimestamp: 1<<32 | 7,
		Hits:           []Hit{{Row: 1, Col: 1}},
	})}

	records, err := Merge(window, TelescopeDecoder{})
	require.NoError(t, err)
	require.NotNil(t, records)
	require.Len(t, records.Pixels.Entries, 1)
	assert.Equal(t, uint32(7), records.Pixels.Entries[0].FrameTimestamp)
}

func TestMergeRunBoundaries(t *testing.T) {
	t.Run("begin of run head", func(t *testing.T) {
		log := setupTest(t)
		window := []*RawEvent{{EventNumber: 1, Type: START_OF_RUN, Blocks: [][]byte{}}}
		records, err := Merge(window, TelescopeDecoder{})
		assert.NoError(t, err)
		assert.Nil(t, records)
		assert.Len(t, log.errors, 1)
	})

	t.Run("end of run head", func(t *testing.T) {
		log := setupTest(t)
		window := []*RawEvent{{EventNumber: 2, Type: END_OF_RUN, Blocks: [][]byte{}}}
		records, err := Merge(window, TelescopeDecoder{})
		assert.NoError(t, err)
		assert.Nil(t, records)
		assert.Len(t, log.warnings, 1)
	})
}

func TestMergeUnrecognizedMembers(t *testing.T) {
	log := setupTest(t)
	good := rawEventFromFrames(1, []uint32{500}, DecodedFrame{Hits: []Hit{{Row: 1, Col: 1}}})

	records, err := Merge(nil, TelescopeDecoder{})
	assert.NoError(t, err)
	assert.Nil(t, records)

	records, err = Merge([]*RawEvent{nil}, TelescopeDecoder{})
	assert.NoError(t, err)
	assert.Nil(t, records)

	records, err = Merge([]*RawEvent{good, nil}, TelescopeDecoder{})
	assert.NoError(t, err)
	assert.Nil(t, records)

	records, err = Merge([]*RawEvent{good, {Type: PHYSICS_EVENT}}, TelescopeDecoder{})
	assert.NoError(t, err)
	assert.Nil(t, records)

	assert.Empty(t, log.errors)
	assert.Empty(t, log.warnings)
}

func TestInsertRecords(t *testing.T) {
	setupTest(t)
	window := []*RawEvent{rawEventFromFrames(1, []uint32{600}, DecodedFrame{
		Hits:     []Hit{{Row: 1, Col: 1}},
		Triggers: []Trigger{{Timestamp: 1, Tag: TRIGGER_TAG_TLU}},
		Tots:     []TimeOverThreshold{{Timestamp: 2, Length: 1}},
	})}
	records, err := Merge(window, TelescopeDecoder{})
	require.NoError(t, err)

	store := NewMemoryStore()
	result := InsertRecords(records, store)
	assert.False(t, result.Failed())
	assert.Equal(t, []string{PIXEL_COLLECTION_NAME, TRIGGER_COLLECTION_NAME, TOT_COLLECTION_NAME}, store.Names())

	collection, ok := store.Collection(PIXEL_COLLECTION_NAME)
	require.True(t, ok)
	require.Len(t, collection.Records, 1)
	assert.Equal(t, &records.Pixels, collection.Records[0])
}

func TestInsertEmptyWindow(t *testing.T) {
	setupTest(t)
	// Two physics events with no blocks at all merge into records with
	// no entries; every stream reports a failure and nothing is
	// registered.
	window := []*RawEvent{
		{EventNumber: 1, Type: PHYSICS_EVENT, Blocks: [][]byte{}},
		{EventNumber: 2, Type: PHYSICS_EVENT, Blocks: [][]byte{}},
	}
	records, err := Merge(window, TelescopeDecoder{})
	require.NoError(t, err)
	require.NotNil(t, records)

	store := NewMemoryStore()
	result := InsertRecords(records, store)
	assert.True(t, result.Failed())

	var emptyErr *ErrEmptyRecord
	require.ErrorAs(t, result.Pixels, &emptyErr)
	assert.Equal(t, PIXEL_COLLECTION_NAME, emptyErr.Name)
	require.ErrorAs(t, result.Triggers, &emptyErr)
	assert.Equal(t, TRIGGER_COLLECTION_NAME, emptyErr.Name)
	require.ErrorAs(t, result.Tots, &emptyErr)
	assert.Equal(t, TOT_COLLECTION_NAME, emptyErr.Name)

	assert.Empty(t, store.Names())
}

func TestInsertCollectionConflict(t *testing.T) {
	log := setupTest(t)
	store := NewMemoryStore()

	// Occupy the pixel collection before the insert.
	occupant, _, err := store.GetOrCreate(PIXEL_COLLECTION_NAME)
	require.NoError(t, err)
	require.NoError(t, store.Register(occupant, PIXEL_COLLECTION_NAME))

	window := []*RawEvent{rawEventFromFrames(1, []uint32{700}, DecodedFrame{
		Hits:     []Hit{{Row: 1, Col: 1}},
		Triggers: []Trigger{{Timestamp: 1, Tag: TRIGGER_TAG_TLU}},
		Tots:     []TimeOverThreshold{{Timestamp: 2, Length: 1}},
	})}
	records, err := Merge(window, TelescopeDecoder{})
	require.NoError(t, err)

	result := InsertRecords(records, store)
	var existsErr *ErrCollectionExists
	require.ErrorAs(t, result.Pixels, &existsErr)
	assert.Equal(t, PIXEL_COLLECTION_NAME, existsErr.Name)
	assert.Len(t, log.errors, 1)

	// Sibling streams land despite the pixel failure, and the occupant
	// is untouched.
	assert.NoError(t, result.Triggers)
	assert.NoError(t, result.Tots)
	assert.Empty(t, occupant.Records)

	triggers, ok := store.Collection(TRIGGER_COLLECTION_NAME)
	require.True(t, ok)
	assert.Len(t, triggers.Records, 1)
}
