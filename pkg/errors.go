package converter

import "fmt"

// ErrOpenFile represents an error when opening a file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

// ErrBadMagic represents an event header whose magic word does not match.
type ErrBadMagic struct {
	Magic uint32
}

func (e *ErrBadMagic) Error() string {
	return fmt.Sprintf("bad event magic word 0x%08X", e.Magic)
}

// ErrShortEvent represents an event buffer shorter than its declared size.
type ErrShortEvent struct {
	Expected int
	Got      int
}

func (e *ErrShortEvent) Error() string {
	return fmt.Sprintf("short event: expected %d bytes, got %d", e.Expected, e.Got)
}

// ErrBadFrameMarker represents a frame payload without the format marker.
type ErrBadFrameMarker struct {
	Marker uint16
}

func (e *ErrBadFrameMarker) Error() string {
	return fmt.Sprintf("bad frame marker 0x%04X", e.Marker)
}

// ErrShortFrame represents a frame payload shorter than its declared counts.
type ErrShortFrame struct {
	Words int
	Need  int
}

func (e *ErrShortFrame) Error() string {
	return fmt.Sprintf("short frame: %d words, need %d", e.Words, e.Need)
}

// ErrOddFrameLength represents a frame payload that is not whole words.
type ErrOddFrameLength struct {
	Bytes int
}

func (e *ErrOddFrameLength) Error() string {
	return fmt.Sprintf("frame payload of %d bytes is not a whole number of words", e.Bytes)
}

// ErrCollectionExists reports an insert into a collection that already existed.
type ErrCollectionExists struct {
	Name string
}

func (e *ErrCollectionExists) Error() string {
	return fmt.Sprintf("collection %q already exists", e.Name)
}

// ErrEmptyRecord reports a merged record with no entries to register.
type ErrEmptyRecord struct {
	Name string
}

func (e *ErrEmptyRecord) Error() string {
	return fmt.Sprintf("empty record for collection %q", e.Name)
}

// ErrCreateGroup represents an error when creating a group.
type ErrCreateGroup struct {
	GroupName string
	Err       error
}

func (e *ErrCreateGroup) Error() string {
	return fmt.Sprintf("error creating group %q: %v", e.GroupName, e.Err)
}

// ErrCreateTable represents an error when creating a table.
type ErrCreateTable struct {
	TableName string
	Err       error
}

func (e *ErrCreateTable) Error() string {
	return fmt.Sprintf("error creating table %q: %v", e.TableName, e.Err)
}
