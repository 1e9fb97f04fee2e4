package converter

import "fmt"

// Merge folds a window of 1 to 3 consecutive raw events into one
// record per output stream. Entries keep strict arrival order: frame,
// then block, then position within the block. No resorting, no
// deduplication. A nil result with a nil error means the window was
// nothing to convert (run boundary marker at the head, or a window
// member that is not a raw-block container).
func Merge(window []*RawEvent, decoder FrameDecoder) (*MergedRecords, error) {
	if len(window) == 0 {
		return nil, nil
	}
	head := window[0]
	if head == nil || head.Blocks == nil {
		return nil, nil
	}
	if head.IsBeginOfRun() {
		logger.Error(fmt.Sprintf("unexpected begin-of-run marker in event %d", head.EventNumber))
		return nil, nil
	}
	if head.IsEndOfRun() {
		logger.Warning(fmt.Sprintf("end-of-run marker in event %d, nothing converted", head.EventNumber), "aggregator")
		return nil, nil
	}
	for _, event := range window {
		if event == nil || event.Blocks == nil {
			return nil, nil
		}
	}

	sensorID := configuration.SensorID
	if sensorID == 0 {
		sensorID = DEFAULT_SENSOR_ID
	}

	records := &MergedRecords{
		Pixels:   PixelRecord{SensorID: sensorID, PixelType: SPARSE_PIXEL_TYPE},
		Triggers: TriggerRecord{StreamID: STREAM_ID},
		Tots:     TotRecord{StreamID: STREAM_ID},
	}

	for _, event := range window {
		for _, block := range event.Blocks {
			frame, err := decoder.Decode(block)
			if err != nil {
				return nil, err
			}

			for _, trigger := range frame.Triggers {
				records.Triggers.Entries = append(records.Triggers.Entries,
					EncodedEntry{Value: EncodeTrigger(trigger), Label: trigger.Tag})
			}
			for _, tot := range frame.Tots {
				records.Tots.Entries = append(records.Tots.Entries,
					EncodedEntry{Value: EncodeTot(tot), Label: TOT_LABEL})
			}

			// The output field for the frame timestamp is 32 bit, so
			// the upper half is dropped here.
			frameTimestamp := uint32(frame.FrameTimestamp)
			for _, hit := range frame.Hits {
				row, col, ok := filterAggregated(hit)
				if !ok {
					continue
				}
				records.Pixels.Entries = append(records.Pixels.Entries, PixelEntry{
					Row:            row,
					Col:            col,
					Signal:         BINARY_SIGNAL,
					TimestampRaw:   hit.TimestampRaw,
					FrameTimestamp: frameTimestamp,
				})
			}
		}
	}

	if configuration.Verbosity > 1 {
		message := fmt.Sprintf("window of %d starting at event %d: %d pixels, %d triggers, %d tots",
			len(window), head.EventNumber, len(records.Pixels.Entries),
			len(records.Triggers.Entries), len(records.Tots.Entries))
		logger.Info(message, "aggregator")
	}
	return records, nil
}

// InsertResult reports the three stream insertions of one window.
// Streams are independent: a failure on one never rolls back another.
type InsertResult struct {
	Pixels   error
	Triggers error
	Tots     error
}

func (r InsertResult) Failed() bool {
	return r.Pixels != nil || r.Triggers != nil || r.Tots != nil
}

// InsertRecords places the merged records into their named collections
// on the sink.
func InsertRecords(records *MergedRecords, sink CollectionSink) InsertResult {
	return InsertResult{
		Pixels:   insertRecord(sink, PIXEL_COLLECTION_NAME, &records.Pixels),
		Triggers: insertRecord(sink, TRIGGER_COLLECTION_NAME, &records.Triggers),
		Tots:     insertRecord(sink, TOT_COLLECTION_NAME, &records.Tots),
	}
}

// insertRecord registers a freshly created collection only when the
// record has entries. A pre-existing collection or an empty record
// fails the stream; the unregistered collection is left for the
// garbage collector, so the sink never owns a failed record.
func insertRecord(sink CollectionSink, name string, record Record) error {
	collection, existed, err := sink.GetOrCreate(name)
	if err != nil {
		return err
	}
	if existed {
		logger.Error(fmt.Sprintf("failed to insert %s record: collection exists", name))
		return &ErrCollectionExists{Name: name}
	}
	if err := sink.Append(collection, record); err != nil {
		return err
	}
	if record.Empty() {
		if configuration.Verbosity > 1 {
			logger.Info(fmt.Sprintf("nothing to insert for %s", name), "aggregator")
		}
		return &ErrEmptyRecord{Name: name}
	}
	return sink.Register(collection, name)
}
