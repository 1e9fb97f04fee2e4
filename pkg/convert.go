package converter

// ConvertWindow runs the full pipeline over one window of raw events:
// a quick-look plane from the head event, merged records across the
// whole window, and insertion into a fresh per-window store. The head
// event supplies the run number, event number and timestamp of the
// output. Error is set only on decode failures; insertion failures are
// reported per stream in Result and leave the event writable.
func ConvertWindow(window []*RawEvent, decoder FrameDecoder) (ConvertedEvent, error) {
	event := ConvertedEvent{Store: NewMemoryStore()}
	if len(window) == 0 {
		return event, nil
	}
	if head := window[0]; head != nil {
		event.RunNumber = head.RunNumber
		event.EventNumber = head.EventNumber
		event.Timestamp = head.Timestamp
	}

	plane, err := BuildPlane(window[0], decoder)
	if err != nil {
		event.Error = true
		return event, err
	}
	event.Plane = plane

	records, err := Merge(window, decoder)
	if err != nil {
		event.Error = true
		return event, err
	}
	if records != nil {
		event.Result = InsertRecords(records, event.Store)
	}
	return event, nil
}
