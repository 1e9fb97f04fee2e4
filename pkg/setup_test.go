package converter

import "testing"

// recordingLogger captures log output per level so tests can assert on
// diagnostics.
type recordingLogger struct {
	infos    []string
	warnings []string
	errors   []string
}

func (l *recordingLogger) Info(message string, module string) {
	l.infos = append(l.infos, message)
}

func (l *recordingLogger) Warning(message string, module string) {
	l.warnings = append(l.warnings, message)
}

func (l *recordingLogger) Error(message string) {
	l.errors = append(l.errors, message)
}

// setupTest installs a fresh recording logger and a zeroed
// configuration. Tests that touch the package globals go through here
// and must not run in parallel.
func setupTest(t *testing.T) *recordingLogger {
	t.Helper()
	log := &recordingLogger{}
	SetLogger(log)
	SetConfiguration(Configuration{})
	return log
}

// rawEventFromFrames packs decoded frames back into wire blocks and
// wraps them in a physics event, one block per frame.
func rawEventFromFrames(eventNumber uint32, frameIDs []uint32, frames ...DecodedFrame) *RawEvent {
	event := &RawEvent{
		RunNumber:   7,
		EventNumber: eventNumber,
		Type:        PHYSICS_EVENT,
		Blocks:      make([][]byte, 0, len(frames)),
		FrameIDs:    frameIDs,
	}
	for _, frame := range frames {
		event.Blocks = append(event.Blocks, EncodeFrame(frame))
	}
	return event
}
