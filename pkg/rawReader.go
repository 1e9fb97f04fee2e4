package converter

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"unsafe"
)

func ValidEvent(header EventHeaderStruct) bool {
	return header.EventType == PHYSICS_EVENT || header.EventType == CALIBRATION_EVENT
}

// ReadEventFromFile reads the next event header and payload from a run
// file. io.EOF is returned unwrapped so callers can detect end of file.
func ReadEventFromFile(file io.Reader) (EventHeaderStruct, []byte, error) {
	var header EventHeaderStruct
	headerSize := unsafe.Sizeof(header)
	headerBinary := make([]byte, headerSize)
	_, err := io.ReadFull(file, headerBinary)
	if err == io.ErrUnexpectedEOF {
		return header, nil, io.EOF
	}
	if err != nil {
		return header, nil, err
	}

	headerReader := bytes.NewReader(headerBinary)
	binary.Read(headerReader, binary.LittleEndian, &header)
	if header.EventMagic != EVENT_MAGIC_NUMBER {
		return header, nil, &ErrBadMagic{Magic: uint32(header.EventMagic)}
	}

	payloadSize := uint32(header.EventSize) - uint32(headerSize)
	eventData := make([]byte, payloadSize)
	if _, err := io.ReadFull(file, eventData); err != nil {
		return header, nil, &ErrShortEvent{Expected: int(payloadSize), Got: 0}
	}
	return header, eventData, nil
}

// ReadEvent parses one event from an in-memory buffer.
func ReadEvent(data []byte) (EventHeaderStruct, []byte, error) {
	var header EventHeaderStruct
	headerSize := unsafe.Sizeof(header)
	if len(data) < int(headerSize) {
		return header, nil, &ErrShortEvent{Expected: int(headerSize), Got: len(data)}
	}
	headerReader := bytes.NewReader(data[:headerSize])
	binary.Read(headerReader, binary.LittleEndian, &header)
	if header.EventMagic != EVENT_MAGIC_NUMBER {
		return header, nil, &ErrBadMagic{Magic: uint32(header.EventMagic)}
	}

	if int(header.EventSize) > len(data) {
		return header, nil, &ErrShortEvent{Expected: int(header.EventSize), Got: len(data)}
	}
	eventData := data[headerSize:header.EventSize]
	return header, eventData, nil
}

// BuildRawEvent walks the block headers in an event payload and
// assembles the raw event handed to the conversion paths.
func BuildRawEvent(header EventHeaderStruct, eventData []byte) (*RawEvent, error) {
	event := &RawEvent{
		RunNumber:   int32(header.EventRunNb),
		EventNumber: header.EventNb,
		Type:        header.EventType,
		Timestamp:   uint64(header.EventTimestampSec)*1000000 + uint64(header.EventTimestampUsec),
		Blocks:      make([][]byte, 0, header.NumBlocks),
		FrameIDs:    make([]uint32, 0, header.NumBlocks),
	}

	var blockHeader BlockHeaderStruct
	blockHeaderSize := int(unsafe.Sizeof(blockHeader))

	position := 0
	for i := uint32(0); i < header.NumBlocks; i++ {
		if position+blockHeaderSize > len(eventData) {
			return nil, &ErrShortEvent{Expected: position + blockHeaderSize, Got: len(eventData)}
		}
		blockReader := bytes.NewReader(eventData[position : position+blockHeaderSize])
		binary.Read(blockReader, binary.LittleEndian, &blockHeader)
		position += blockHeaderSize

		end := position + int(blockHeader.BlockSize)
		if end > len(eventData) {
			return nil, &ErrShortEvent{Expected: end, Got: len(eventData)}
		}
		event.Blocks = append(event.Blocks, eventData[position:end])
		event.FrameIDs = append(event.FrameIDs, blockHeader.FrameId)
		position = end
	}

	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("event %d: %d blocks, run %d", event.EventNumber,
			event.NumBlocks(), event.RunNumber)
		logger.Info(message, "rawReader")
	}
	return event, nil
}
