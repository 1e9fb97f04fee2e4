package converter

type Configuration struct {
	MaxEvents        int            `json:"max_events"`
	SkipEvents       int            `json:"skip_events"`
	Verbosity        int            `json:"verbosity"`
	WindowSize       int            `json:"window_size"`
	SensorID         int            `json:"sensor_id"`
	FileIn           string         `json:"file_in"`
	FileOut          string         `json:"file_out"`
	NoDB             bool           `json:"no_db"`
	DBDriver         string         `json:"db_driver"`
	Host             string         `json:"host"`
	User             string         `json:"user"`
	Passwd           string         `json:"pass"`
	DBName           string         `json:"dbname"`
	NumWorkers       int            `json:"num_workers"`
	WriteData        bool           `json:"write_data"`
	Parallel         bool           `json:"parallel"`
	Monitor          bool           `json:"monitor"`
	MonitorEndpoint  string         `json:"monitor_endpoint"`
	UseBlosc         bool           `json:"use_blosc"`
	CompressionLevel int            `json:"compression_level"`
	BloscAlgorithm   BloscAlgorithm `json:"blosc_algorithm"`
	BloscShuffle     BloscShuffle   `json:"blosc_shuffle"`
}

var configuration Configuration

func GetConfiguration() Configuration {
	return configuration
}

func SetConfiguration(config Configuration) {
	configuration = config
}
