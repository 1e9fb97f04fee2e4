package converter

import (
	"encoding/binary"
	"fmt"
)

// FrameDecoder turns one raw block payload into decoded frame content.
// Decode must be deterministic and repeatable on the same bytes: the
// quick-look path decodes every block twice.
type FrameDecoder interface {
	Decode(data []byte) (DecodedFrame, error)
}

/* ---------- Telescope frame payload format ---------- */

const FRAME_FORMAT_MARKER = 0xFADE
const FRAME_HEADER_WORDS = 8

const wordsPerHit = 2
const wordsPerTrigger = 5
const wordsPerTot = 4

// TelescopeDecoder decodes the little-endian word stream emitted by the
// telescope front end. It holds no state.
type TelescopeDecoder struct{}

func (TelescopeDecoder) Decode(data []byte) (DecodedFrame, error) {
	frame := DecodedFrame{}

	words, err := frameWords(data)
	if err != nil {
		return frame, err
	}
	if len(words) < FRAME_HEADER_WORDS {
		return frame, &ErrShortFrame{Words: len(words), Need: FRAME_HEADER_WORDS}
	}

	position := 0
	if words[position] != FRAME_FORMAT_MARKER {
		return frame, &ErrBadFrameMarker{Marker: words[position]}
	}
	position++

	frame.FrameTimestamp, position = readFrameTimestamp(words, position)

	nHits := int(words[position] & 0x0FFF)
	position++
	nTriggers := int(words[position] & 0x00FF)
	position++
	nTots := int(words[position] & 0x00FF)
	position++

	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("frame ts %d: %d hits, %d triggers, %d tots",
			frame.FrameTimestamp, nHits, nTriggers, nTots)
		logger.Info(message, "frameDecoder")
	}

	need := FRAME_HEADER_WORDS + nHits*wordsPerHit + nTriggers*wordsPerTrigger + nTots*wordsPerTot
	if len(words) < need {
		return frame, &ErrShortFrame{Words: len(words), Need: need}
	}

	frame.Hits = make([]Hit, 0, nHits)
	for i := 0; i < nHits; i++ {
		var hit Hit
		hit, position = readHit(words, position)
		frame.Hits = append(frame.Hits, hit)
	}

	frame.Triggers = make([]Trigger, 0, nTriggers)
	for i := 0; i < nTriggers; i++ {
		var trigger Trigger
		trigger, position = readTrigger(words, position)
		frame.Triggers = append(frame.Triggers, trigger)
	}

	frame.Tots = make([]TimeOverThreshold, 0, nTots)
	for i := 0; i < nTots; i++ {
		var tot TimeOverThreshold
		tot, position = readTot(words, position)
		frame.Tots = append(frame.Tots, tot)
	}

	return frame, nil
}

func readFrameTimestamp(data []uint16, position int) (uint64, int) {
	timestamp := uint64(data[position]) | uint64(data[position+1])<<16 |
		uint64(data[position+2])<<32 | uint64(data[position+3])<<48
	position += 4
	return timestamp, position
}

func readHit(data []uint16, position int) (Hit, int) {
	hit := Hit{
		Row: (data[position] & 0xFF00) >> 8,
		Col: data[position] & 0x00FF,
	}
	position++
	hit.TimestampRaw = uint8(data[position] & 0x00FF)
	position++

	if configuration.Verbosity > 3 {
		message := fmt.Sprintf("hit row %d col %d ts %d", hit.Row, hit.Col, hit.TimestampRaw)
		logger.Info(message, "frameDecoder")
	}
	return hit, position
}

func readTrigger(data []uint16, position int) (Trigger, int) {
	trigger := Trigger{}
	trigger.Timestamp = uint64(data[position]) | uint64(data[position+1])<<16 |
		uint64(data[position+2])<<32 | uint64(data[position+3])<<48
	position += 4
	trigger.Tag = data[position]
	position++

	if configuration.Verbosity > 3 {
		message := fmt.Sprintf("trigger ts %d tag 0x%02x", trigger.Timestamp, trigger.Tag)
		logger.Info(message, "frameDecoder")
	}
	return trigger, position
}

func readTot(data []uint16, position int) (TimeOverThreshold, int) {
	tot := TimeOverThreshold{}
	tot.Timestamp = uint64(data[position]) | uint64(data[position+1])<<16 |
		uint64(data[position+2])<<32
	position += 3
	tot.Length = uint8(data[position] & 0x00FF)
	position++

	if configuration.Verbosity > 3 {
		message := fmt.Sprintf("tot ts %d length %d", tot.Timestamp, tot.Length)
		logger.Info(message, "frameDecoder")
	}
	return tot, position
}

func frameWords(data []byte) ([]uint16, error) {
	if len(data)%2 != 0 {
		return nil, &ErrOddFrameLength{Bytes: len(data)}
	}
	words := make([]uint16, len(data)/2)
	for i := range words {
		words[i] = binary.LittleEndian.Uint16(data[2*i:])
	}
	return words, nil
}

// EncodeFrame is the inverse of TelescopeDecoder.Decode. The DAQ side
// owns the production encoder; this one serves simulation and tests.
func EncodeFrame(frame DecodedFrame) []byte {
	words := make([]uint16, 0, FRAME_HEADER_WORDS+
		len(frame.Hits)*wordsPerHit+len(frame.Triggers)*wordsPerTrigger+len(frame.Tots)*wordsPerTot)

	words = append(words, FRAME_FORMAT_MARKER)
	words = append(words,
		uint16(frame.FrameTimestamp),
		uint16(frame.FrameTimestamp>>16),
		uint16(frame.FrameTimestamp>>32),
		uint16(frame.FrameTimestamp>>48))
	words = append(words,
		uint16(len(frame.Hits))&0x0FFF,
		uint16(len(frame.Triggers))&0x00FF,
		uint16(len(frame.Tots))&0x00FF)

	for _, hit := range frame.Hits {
		words = append(words, (hit.Row&0x00FF)<<8|(hit.Col&0x00FF), uint16(hit.TimestampRaw))
	}
	for _, trigger := range frame.Triggers {
		words = append(words,
			uint16(trigger.Timestamp),
			uint16(trigger.Timestamp>>16),
			uint16(trigger.Timestamp>>32),
			uint16(trigger.Timestamp>>48),
			trigger.Tag)
	}
	for _, tot := range frame.Tots {
		words = append(words,
			uint16(tot.Timestamp),
			uint16(tot.Timestamp>>16),
			uint16(tot.Timestamp>>32),
			uint16(tot.Length))
	}

	data := make([]byte, 2*len(words))
	for i, word := range words {
		binary.LittleEndian.PutUint16(data[2*i:], word)
	}
	return data
}
