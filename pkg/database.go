package converter

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	_ "modernc.org/sqlite"
)

// Front-end link id reported by the single-sensor bench setup.
const DEFAULT_DAQ_ID = 701

type SensorMappingEntry struct {
	DaqID    int `db:"DaqID"`
	SensorID int `db:"SensorID"`
	Cols     int `db:"Cols"`
	Rows     int `db:"Rows"`
}

type SensorsMap struct {
	ToDaqID    map[uint16]uint16
	ToSensorID map[uint16]uint16
}

// Resolve maps a front-end link id to its output sensor id.
func (m SensorsMap) Resolve(daqID uint16) uint16 {
	if sensorID, ok := m.ToSensorID[daqID]; ok {
		return sensorID
	}
	return DEFAULT_SENSOR_ID
}

// DefaultSensorsMap is the mapping used when no conditions database is
// available: the bench front end alone.
func DefaultSensorsMap() SensorsMap {
	return SensorsMap{
		ToDaqID:    map[uint16]uint16{DEFAULT_SENSOR_ID: DEFAULT_DAQ_ID},
		ToSensorID: map[uint16]uint16{DEFAULT_DAQ_ID: DEFAULT_SENSOR_ID},
	}
}

// ConnectToDatabase opens the conditions database. The production
// database is MySQL; local setups and tests point the sqlite driver at
// a file or in-memory name instead.
func ConnectToDatabase(driver string, user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	if driver == "sqlite" {
		return sqlx.Connect("sqlite", dbname)
	}
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

func GetSensorsFromDB(db *sqlx.DB, runNumber int) (SensorsMap, error) {
	query := "SELECT DaqID, SensorID, Cols, Rows FROM SensorMapping WHERE MinRun <= %d and MaxRun >= %d ORDER BY SensorID"
	query = fmt.Sprintf(query, runNumber, runNumber)

	if configuration.Verbosity > 0 {
		logger.Info("Sensor mapping read from DB", "database")
	}
	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Query: %s", query)
		logger.Info(message, "database")
	}

	rows, err := db.Queryx(query)
	if err != nil {
		errMessage := fmt.Errorf("error querying database: %w", err)
		return SensorsMap{}, errMessage
	}

	sensorsMap := SensorsMap{
		ToDaqID:    make(map[uint16]uint16),
		ToSensorID: make(map[uint16]uint16),
	}

	for rows.Next() {
		result := SensorMappingEntry{}
		err := rows.StructScan(&result)
		if err != nil {
			errMessage := fmt.Errorf("error scanning DB row: %w", err)
			return SensorsMap{}, errMessage
		}
		if result.Cols != SENSOR_NUM_COLS || result.Rows != SENSOR_NUM_ROWS {
			message := fmt.Sprintf("sensor %d declares %dx%d, expected %dx%d",
				result.SensorID, result.Cols, result.Rows, SENSOR_NUM_COLS, SENSOR_NUM_ROWS)
			logger.Warning(message, "database")
		}
		sensorsMap.ToDaqID[uint16(result.SensorID)] = uint16(result.DaqID)
		sensorsMap.ToSensorID[uint16(result.DaqID)] = uint16(result.SensorID)
	}

	if configuration.Verbosity > 1 {
		daqIDs := maps.Keys(sensorsMap.ToSensorID)
		slices.Sort(daqIDs)
		message := fmt.Sprintf("Mapped DAQ ids: %v", daqIDs)
		logger.Info(message, "database")
	}
	return sensorsMap, nil
}
