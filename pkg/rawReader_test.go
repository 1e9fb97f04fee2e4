package converter

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventBytes(t *testing.T, eventType EventTypeType, eventNb uint32, frameIDs []uint32, blocks [][]byte) []byte {
	t.Helper()
	var payload bytes.Buffer
	for i, block := range blocks {
		blockHeader := BlockHeaderStruct{BlockSize: uint32(len(block)), FrameId: frameIDs[i]}
		require.NoError(t, binary.Write(&payload, binary.LittleEndian, blockHeader))
		payload.Write(block)
	}

	header := EventHeaderStruct{
		EventMagic:         EVENT_MAGIC_NUMBER,
		EventVersion:       EVENT_CURRENT_VERSION,
		EventType:          eventType,
		EventRunNb:         7,
		EventNb:            eventNb,
		EventTimestampSec:  12,
		EventTimestampUsec: 34,
		NumBlocks:          uint32(len(blocks)),
	}
	header.EventSize = EventSizeType(uint32(unsafe.Sizeof(header)) + uint32(payload.Len()))

	var buffer bytes.Buffer
	require.NoError(t, binary.Write(&buffer, binary.LittleEndian, header))
	buffer.Write(payload.Bytes())
	return buffer.Bytes()
}

func TestReadEventFromFile(t *testing.T) {
	setupTest(t)
	block := EncodeFrame(DecodedFrame{FrameTimestamp: 9})
	data := eventBytes(t, PHYSICS_EVENT, 42, []uint32{1042}, [][]byte{block})
	reader := bytes.NewReader(data)

	header, eventData, err := ReadEventFromFile(reader)
	require.NoError(t, err)
	assert.Equal(t, EVENT_MAGIC_NUMBER, header.EventMagic)
	assert.Equal(t, uint32(42), header.EventNb)
	assert.Equal(t, uint32(1), header.NumBlocks)
	assert.Len(t, eventData, len(data)-int(unsafe.Sizeof(header)))

	_, _, err = ReadEventFromFile(reader)
	assert.Equal(t, io.EOF, err)
}

func TestReadEventFromFileBadMagic(t *testing.T) {
	setupTest(t)
	data := eventBytes(t, PHYSICS_EVENT, 1, nil, nil)
	data[0] = 0x00

	_, _, err := ReadEventFromFile(bytes.NewReader(data))
	var magicErr *ErrBadMagic
	require.ErrorAs(t, err, &magicErr)
}

func TestReadEventFromFileTruncatedHeader(t *testing.T) {
	setupTest(t)
	data := eventBytes(t, PHYSICS_EVENT, 1, nil, nil)

	_, _, err := ReadEventFromFile(bytes.NewReader(data[:10]))
	assert.Equal(t, io.EOF, err)
}

func TestReadEvent(t *testing.T) {
	setupTest(t)
	data := eventBytes(t, CALIBRATION_EVENT, 3, nil, nil)

	header, eventData, err := ReadEvent(data)
	require.NoError(t, err)
	assert.Equal(t, CALIBRATION_EVENT, header.EventType)
	assert.Empty(t, eventData)

	_, _, err = ReadEvent(data[:10])
	var shortErr *ErrShortEvent
	require.ErrorAs(t, err, &shortErr)
}

func TestBuildRawEvent(t *testing.T) {
	setupTest(t)
	blockA := EncodeFrame(DecodedFrame{FrameTimestamp: 1})
	blockB := EncodeFrame(DecodedFrame{FrameTimestamp: 2, Hits: []Hit{{Row: 1, Col: 2}}})
	data := eventBytes(t, PHYSICS_EVENT, 42, []uint32{7, 1042}, [][]byte{blockA, blockB})

	header, eventData, err := ReadEvent(data)
	require.NoError(t, err)

	event, err := BuildRawEvent(header, eventData)
	require.NoError(t, err)
	assert.Equal(t, int32(7), event.RunNumber)
	assert.Equal(t, uint32(42), event.EventNumber)
	assert.Equal(t, uint64(12)*1000000+34, event.Timestamp)
	require.Equal(t, 2, event.NumBlocks())
	assert.Equal(t, blockA, event.Blocks[0])
	assert.Equal(t, blockB, event.Blocks[1])
	assert.Equal(t, []uint32{7, 1042}, event.FrameIDs)
}

func TestBuildRawEventTruncatedBlock(t *testing.T) {
	setupTest(t)
	block := EncodeFrame(DecodedFrame{FrameTimestamp: 1})
	data := eventBytes(t, PHYSICS_EVENT, 1, []uint32{5}, [][]byte{block})

	header, eventData, err := ReadEvent(data)
	require.NoError(t, err)

	_, err = BuildRawEvent(header, eventData[:len(eventData)-4])
	var shortErr *ErrShortEvent
	require.ErrorAs(t, err, &shortErr)
}

func TestValidEvent(t *testing.T) {
	assert.True(t, ValidEvent(EventHeaderStruct{EventType: PHYSICS_EVENT}))
	assert.True(t, ValidEvent(EventHeaderStruct{EventType: CALIBRATION_EVENT}))
	assert.False(t, ValidEvent(EventHeaderStruct{EventType: START_OF_RUN}))
	assert.False(t, ValidEvent(EventHeaderStruct{EventType: END_OF_RUN}))
}
