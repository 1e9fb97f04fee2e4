package converter

import "fmt"

// BuildPlane converts one raw event into its quick-look plane. A nil
// plane with a nil error means there was nothing to convert: run
// boundary markers and unrecognized inputs are not errors.
//
// The conversion runs two passes so the plane header can declare the
// full hit count before any pixel is placed: the first pass only
// counts, the second decodes the same blocks again and places the
// surviving hits. Decoders are stateless, so re-decoding is cheaper
// than retaining every decoded frame.
func BuildPlane(event *RawEvent, decoder FrameDecoder) (*Plane, error) {
	if event == nil || event.Blocks == nil {
		return nil, nil
	}
	if event.IsBeginOfRun() {
		logger.Error(fmt.Sprintf("unexpected begin-of-run marker in event %d", event.EventNumber))
		return nil, nil
	}
	if event.IsEndOfRun() {
		logger.Warning(fmt.Sprintf("end-of-run marker in event %d, nothing converted", event.EventNumber), "plane")
		return nil, nil
	}

	totalHits := 0
	for _, block := range event.Blocks {
		frame, err := decoder.Decode(block)
		if err != nil {
			return nil, err
		}
		totalHits += len(frame.Hits)
	}

	var triggerID uint32
	if event.NumBlocks() > 0 {
		triggerID = event.FrameIDs[event.NumBlocks()-1]
	}

	sensorID := configuration.SensorID
	if sensorID == 0 {
		sensorID = DEFAULT_SENSOR_ID
	}

	plane := &Plane{
		SensorID:     sensorID,
		Cols:         SENSOR_NUM_COLS,
		Rows:         SENSOR_NUM_ROWS,
		DeclaredHits: totalHits,
		TriggerID:    triggerID,
		EventNumber:  event.EventNumber,
		Pixels:       make([]PlanePixel, 0, totalHits),
	}

	for _, block := range event.Blocks {
		frame, err := decoder.Decode(block)
		if err != nil {
			return nil, err
		}
		for _, hit := range frame.Hits {
			if !keepQuickLook(hit) {
				continue
			}
			row, col := remapHit(hit)
			plane.Pixels = append(plane.Pixels, PlanePixel{Row: row, Col: col, Signal: BINARY_SIGNAL})
		}
	}

	if configuration.Verbosity > 1 {
		message := fmt.Sprintf("event %d: plane trigger %d, %d/%d hits kept",
			event.EventNumber, triggerID, len(plane.Pixels), totalHits)
		logger.Info(message, "plane")
	}

	// Events at or below the warm-up threshold ship an empty plane
	// carrying the same trigger id.
	if triggerID <= PLANE_TRIGGER_THRESHOLD {
		return &Plane{
			SensorID:    sensorID,
			Cols:        SENSOR_NUM_COLS,
			Rows:        SENSOR_NUM_ROWS,
			TriggerID:   triggerID,
			EventNumber: event.EventNumber,
		}, nil
	}
	return plane, nil
}
