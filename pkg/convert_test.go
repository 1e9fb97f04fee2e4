package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertWindow(t *testing.T) {
	setupTest(t)
	window := []*RawEvent{
		rawEventFromFrames(12, []uint32{1042}, DecodedFrame{
			FrameTimestamp: 1000,
			Hits:           []Hit{{Row: 5, Col: 10, TimestampRaw: 2}},
			Triggers:       []Trigger{{Timestamp: 100, Tag: TRIGGER_TAG_TLU}},
		}),
		rawEventFromFrames(13, []uint32{1043}, DecodedFrame{
			FrameTimestamp: 2000,
			Hits:           []Hit{{Row: 6, Col: 11, TimestampRaw: 3}},
			Tots:           []TimeOverThreshold{{Timestamp: 200, Length: 3}},
		}),
	}
	window[0].Timestamp = 55

	event, err := ConvertWindow(window, TelescopeDecoder{})
	require.NoError(t, err)
	assert.False(t, event.Error)

	// Identity comes from the head event.
	assert.Equal(t, int32(7), event.RunNumber)
	assert.Equal(t, uint32(12), event.EventNumber)
	assert.Equal(t, uint64(55), event.Timestamp)

	require.NotNil(t, event.Plane)
	assert.Equal(t, uint32(1042), event.Plane.TriggerID)

	assert.False(t, event.Result.Failed())
	require.NotNil(t, event.Store)
	assert.Len(t, event.Store.Names(), 3)

	pixels, ok := event.Store.Collection(PIXEL_COLLECTION_NAME)
	require.True(t, ok)
	require.Len(t, pixels.Records, 1)
	record, ok := pixels.Records[0].(*PixelRecord)
	require.True(t, ok)
	assert.Len(t, record.Entries, 2)
}

func TestConvertWindowEmpty(t *testing.T) {
	setupTest(t)
	event, err := ConvertWindow(nil, TelescopeDecoder{})
	require.NoError(t, err)
	assert.False(t, event.Error)
	assert.Nil(t, event.Plane)
	assert.False(t, event.Result.Failed())
	require.NotNil(t, event.Store)
	assert.Empty(t, event.Store.Names())
}

func TestConvertWindowRunBoundary(t *testing.T) {
	log := setupTest(t)
	window := []*RawEvent{{EventNumber: 1, Type: START_OF_RUN, Blocks: [][]byte{}}}

	event, err := ConvertWindow(window, TelescopeDecoder{})
	require.NoError(t, err)
	assert.False(t, event.Error)
	assert.Nil(t, event.Plane)
	assert.False(t, event.Result.Failed())
	assert.Empty(t, event.Store.Names())
	assert.NotEmpty(t, log.errors)
}

func TestConvertWindowDecodeFailure(t *testing.T) {
	setupTest(t)
	window := []*RawEvent{{
		EventNumber: 5,
		Type:        PHYSICS_EVENT,
		Blocks:      [][]byte{{0x01}},
		FrameIDs:    []uint32{1},
	}}

	event, err := ConvertWindow(window, TelescopeDecoder{})
	require.Error(t, err)
	assert.True(t, event.Error)
}
