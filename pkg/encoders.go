package converter

const timestampMask = 0xFFFFFFFFFFFF

// EncodeTrigger packs a trigger into the 64-bit tagged format. The tag
// rides in the low byte unchanged; readers interpret it, not us.
func EncodeTrigger(t Trigger) EncodedTrigger {
	return EncodedTrigger((t.Timestamp&timestampMask)<<8 | uint64(t.Tag)&0xFF)
}

// EncodeTot packs a time-over-threshold entry into the same 64-bit
// format, pulse length in the low byte. Entries mixed into a
// trigger-shaped stream carry the label TOT_LABEL so readers can tell
// them apart from true triggers. Timestamps above 48 bits and lengths
// above 8 bits truncate silently; that is the hardware contract.
func EncodeTot(t TimeOverThreshold) EncodedTrigger {
	return EncodedTrigger((t.Timestamp&timestampMask)<<8 | uint64(t.Length)&0xFF)
}
