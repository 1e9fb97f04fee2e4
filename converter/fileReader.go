package main

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unsafe"

	"github.com/klauspost/compress/zstd"
	converter "github.com/mupix-daq/converter_go/pkg"
)

// inputFile chains the decompressor on top of the file so Close
// releases both.
type inputFile struct {
	io.Reader
	closers []io.Closer
}

func (f *inputFile) Close() error {
	var errs []error
	for _, c := range f.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// openInput opens a run file, transparently decompressing .gz and .zst
// captures.
func openInput(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch filepath.Ext(path) {
	case ".gz":
		gz, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, err
		}
		return &inputFile{Reader: gz, closers: []io.Closer{gz, file}}, nil
	case ".zst":
		dec, err := zstd.NewReader(file)
		if err != nil {
			file.Close()
			return nil, err
		}
		rc := dec.IOReadCloser()
		return &inputFile{Reader: rc, closers: []io.Closer{rc, file}}, nil
	}
	return file, nil
}

type FileReader struct {
	File     io.Reader
	EvtCount int
}

func NewFileReader(file io.Reader) *FileReader {
	return &FileReader{File: file, EvtCount: -1}
}

func (f *FileReader) getNextEvent() (converter.EventHeaderStruct, []byte, error) {
	header, eventData, err := converter.ReadEventFromFile(f.File)
	if err != nil {
		return header, nil, err
	}
	if !converter.ValidEvent(header) {
		return f.getNextEvent()
	}
	f.EvtCount++
	if f.EvtCount >= configuration.MaxEvents {
		if VerbosityLevel > 0 {
			logger.Info("Max events reached", "fileReader")
		}
		return header, nil, io.EOF
	}
	if f.EvtCount < configuration.SkipEvents {
		if VerbosityLevel > 0 {
			message := fmt.Sprintf("Skipping event %d with ID %d", f.EvtCount, header.EventNb)
			logger.Info(message, "fileReader")
		}
		return f.getNextEvent()
	}
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Reading event %d with ID %d", f.EvtCount, header.EventNb)
		logger.Info(message, "fileReader")
	}
	return header, eventData, nil
}

// getNextWindow assembles up to WindowSize consecutive physics events.
// A partial window at end of file is still returned; the following
// call reports io.EOF. An event that fails the raw container checks
// takes its slot as a nil member so the window keeps its cadence.
func (f *FileReader) getNextWindow() ([]*converter.RawEvent, error) {
	size := configuration.WindowSize
	if size < 1 {
		size = 1
	}
	window := make([]*converter.RawEvent, 0, size)
	for len(window) < size {
		header, eventData, err := f.getNextEvent()
		if err != nil {
			if err == io.EOF && len(window) > 0 {
				return window, nil
			}
			return nil, err
		}
		event, err := converter.BuildRawEvent(header, eventData)
		if err != nil {
			message := fmt.Errorf("error building event %d: %w", header.EventNb, err)
			logger.Error(message.Error())
			window = append(window, nil)
			continue
		}
		window = append(window, event)
	}
	return window, nil
}

// countEvents scans the whole run once to count convertible events and
// pick up the run number, then leaves the input untouched for the real
// pass.
func countEvents(path string) (int, int) {
	input, err := openInput(path)
	if err != nil {
		errMessage := fmt.Errorf("error opening file counting events: %w", err)
		logger.Error(errMessage.Error())
		return 0, 0
	}
	defer input.Close()

	evtCount := 0
	runNumber := 0
	for {
		var header converter.EventHeaderStruct
		headerSize := unsafe.Sizeof(header)
		headerBinary := make([]byte, headerSize)
		_, err := io.ReadFull(input, headerBinary)
		if err != nil {
			if err != io.EOF && err != io.ErrUnexpectedEOF {
				errMessage := fmt.Errorf("error reading header counting events: %w", err)
				logger.Error(errMessage.Error())
			}
			break
		}

		headerReader := bytes.NewReader(headerBinary)
		binary.Read(headerReader, binary.LittleEndian, &header)
		if header.EventMagic != converter.EVENT_MAGIC_NUMBER {
			errMessage := fmt.Errorf("bad event magic counting events: %x", uint32(header.EventMagic))
			logger.Error(errMessage.Error())
			break
		}
		runNumber = int(header.EventRunNb)
		if VerbosityLevel > 1 {
			message := fmt.Sprintf("Evt id: %d, type %d", header.EventNb, header.EventType)
			logger.Info(message, "evtCounter")
		}
		payloadSize := uint32(header.EventSize) - uint32(headerSize)
		if _, err := io.CopyN(io.Discard, input, int64(payloadSize)); err != nil {
			break
		}

		if !converter.ValidEvent(header) {
			if VerbosityLevel > 1 {
				message := fmt.Sprintf("Skipping invalid event: %d", header.EventNb)
				logger.Info(message, "evtCounter")
			}
			continue
		}
		evtCount++
	}
	return evtCount, runNumber
}
