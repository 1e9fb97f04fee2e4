package converter

import (
	"errors"
	"fmt"
	"sort"

	hdf5 "github.com/jmbenlloch/go-hdf5"
)

type Writer struct {
	File           *hdf5.File
	Filename       string
	FirstEvt       bool
	Sensors        SensorsMap
	RunGroup       *hdf5.Group
	TelescopeGroup *hdf5.Group
	SensorsGroup   *hdf5.Group
	EventTable     *hdf5.Dataset
	RunInfoTable   *hdf5.Dataset
	HitsTable      *hdf5.Dataset
	TriggersTable  *hdf5.Dataset
	TotsTable      *hdf5.Dataset
	MappingTable   *hdf5.Dataset
	Occupancy      *hdf5.Dataset
	EvtCounter     int
	HitRows        int
	TriggerRows    int
	TotRows        int
}

func NewWriter(filename string, sensors SensorsMap) *Writer {
	if configuration.UseBlosc {
		blosc_version, blosc_date, err := hdf5.RegisterBlosc()
		if err != nil {
			logger.Error(err.Error())
		}
		if configuration.Verbosity > 0 {
			message := fmt.Sprintf("Blosc version %s (%s)", blosc_version, blosc_date)
			logger.Info(message, "writer")
		}
	}

	writer := &Writer{}
	writer.File = openFile(filename)
	writer.Filename = filename
	writer.Sensors = sensors
	writer.RunGroup = createGroup(writer.File, "Run")
	writer.TelescopeGroup = createGroup(writer.File, "Telescope")
	writer.SensorsGroup = createGroup(writer.File, "Sensors")
	writer.EventTable = createTable(writer.RunGroup, "events", EventDataHDF5{})
	writer.RunInfoTable = createTable(writer.RunGroup, "runInfo", RunInfoHDF5{})
	writer.HitsTable = createTable(writer.TelescopeGroup, "hits", HitDataHDF5{})
	writer.TriggersTable = createTable(writer.TelescopeGroup, "triggers", EncodedDataHDF5{})
	writer.TotsTable = createTable(writer.TelescopeGroup, "tots", EncodedDataHDF5{})
	writer.MappingTable = createTable(writer.SensorsGroup, "mapping", SensorMappingHDF5{})
	writer.EvtCounter = 0
	return writer
}

func sortSensorsBySensorID(sensorsFromDaqIDToSensorID map[uint16]uint16) []SensorMappingHDF5 {
	// The array MUST be allocated at creation, if not, HDF5 will panic
	// doing appends will not work
	sorted := make([]SensorMappingHDF5, len(sensorsFromDaqIDToSensorID))
	count := 0
	for daqID, sensorID := range sensorsFromDaqIDToSensorID {
		sensor := SensorMappingHDF5{
			channel:  int32(daqID),
			sensorID: int32(sensorID),
		}
		sorted[count] = sensor
		count++
	}

	// Sort by sensorID
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].sensorID < sorted[j].sensorID
	})
	return sorted
}

func (w *Writer) WriteEvent(event *ConvertedEvent) {
	if !w.FirstEvt {
		writeEntryToTable(w.RunInfoTable, RunInfoHDF5{run_number: event.RunNumber}, 0)
		sorted := sortSensorsBySensorID(w.Sensors.ToSensorID)
		writeArrayToTable(w.MappingTable, &sorted, 0)
		w.Occupancy = create2dArray(w.TelescopeGroup, "occupancy", SENSOR_NUM_COLS*SENSOR_NUM_ROWS)
		w.FirstEvt = true
	}

	writeEntryToTable(w.EventTable, EventDataHDF5{
		evt_number: int32(event.EventNumber),
		timestamp:  event.Timestamp,
	}, w.EvtCounter)

	// One dense grid per event so rows stay aligned with the event
	// table, zero-filled when the plane is empty or absent. Quick-look
	// planes may carry pixels outside the nominal geometry; those are
	// not representable in the grid.
	grid := make([]int16, SENSOR_NUM_COLS*SENSOR_NUM_ROWS)
	if event.Plane != nil {
		for _, pixel := range event.Plane.Pixels {
			if int(pixel.Row) >= SENSOR_NUM_COLS || int(pixel.Col) >= SENSOR_NUM_ROWS {
				continue
			}
			grid[int(pixel.Row)*SENSOR_NUM_ROWS+int(pixel.Col)] = int16(pixel.Signal)
		}
	}
	write2dArray(w.Occupancy, &grid, w.EvtCounter, SENSOR_NUM_COLS*SENSOR_NUM_ROWS)

	if event.Store != nil {
		w.writeHits(event)
		w.TriggerRows += w.writeEncoded(event, TRIGGER_COLLECTION_NAME, w.TriggersTable, w.TriggerRows)
		w.TotRows += w.writeEncoded(event, TOT_COLLECTION_NAME, w.TotsTable, w.TotRows)
	}

	w.EvtCounter++
}

func (w *Writer) writeHits(event *ConvertedEvent) {
	collection, ok := event.Store.Collection(PIXEL_COLLECTION_NAME)
	if !ok {
		return
	}
	for _, record := range collection.Records {
		pixels, ok := record.(*PixelRecord)
		if !ok {
			continue
		}
		rows := make([]HitDataHDF5, len(pixels.Entries))
		for i, entry := range pixels.Entries {
			rows[i] = HitDataHDF5{
				evt_number: int32(event.EventNumber),
				sensor_id:  int32(pixels.SensorID),
				row:        int32(entry.Row),
				col:        int32(entry.Col),
				signal:     int32(entry.Signal),
				ts_raw:     int32(entry.TimestampRaw),
				frame_ts:   int64(entry.FrameTimestamp),
			}
		}
		if len(rows) > 0 {
			writeArrayToTable(w.HitsTable, &rows, w.HitRows)
			w.HitRows += len(rows)
		}
	}
}

func (w *Writer) writeEncoded(event *ConvertedEvent, name string, table *hdf5.Dataset, rowCounter int) int {
	collection, ok := event.Store.Collection(name)
	if !ok {
		return 0
	}
	written := 0
	for _, record := range collection.Records {
		var entries []EncodedEntry
		switch r := record.(type) {
		case *TriggerRecord:
			entries = r.Entries
		case *TotRecord:
			entries = r.Entries
		default:
			continue
		}
		rows := make([]EncodedDataHDF5, len(entries))
		for i, entry := range entries {
			rows[i] = EncodedDataHDF5{
				evt_number: int32(event.EventNumber),
				encoded:    uint64(entry.Value),
				label:      int32(entry.Label),
			}
		}
		if len(rows) > 0 {
			writeArrayToTable(table, &rows, rowCounter+written)
			written += len(rows)
		}
	}
	return written
}

func (w *Writer) Close() error {
	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Closing hdf5 writer %s", w.Filename), "writer")
	}
	var errs []error

	if err := w.EventTable.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing event table: %w", err))
	}
	if err := w.RunInfoTable.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing run info table: %w", err))
	}
	if err := w.HitsTable.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing hits table: %w", err))
	}
	if err := w.TriggersTable.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing triggers table: %w", err))
	}
	if err := w.TotsTable.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing tots table: %w", err))
	}
	if err := w.MappingTable.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing mapping table: %w", err))
	}
	if w.Occupancy != nil {
		if err := w.Occupancy.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing occupancy array: %w", err))
		}
	}
	if err := w.RunGroup.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing run group: %w", err))
	}
	if err := w.TelescopeGroup.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing telescope group: %w", err))
	}
	if err := w.SensorsGroup.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing sensors group: %w", err))
	}
	if err := w.File.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing file: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ProcessConvertedEvent routes one converted event to its outputs.
func ProcessConvertedEvent(event *ConvertedEvent, configuration Configuration,
	writer *Writer, publisher *MonitorPublisher) {
	if configuration.WriteData && !event.Error {
		writer.WriteEvent(event)
	}
	if publisher != nil && event.Plane != nil {
		publisher.Publish(event.Plane)
	}
}
