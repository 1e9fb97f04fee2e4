package main

import (
	"encoding/json"
	"fmt"
	"os"

	converter "github.com/mupix-daq/converter_go/pkg"
)

func LoadConfiguration(filename string) (converter.Configuration, error) {
	var config converter.Configuration

	// Set default values
	config.MaxEvents = 1000000000
	config.SkipEvents = 0
	config.Verbosity = 0
	config.WindowSize = 1
	config.SensorID = converter.DEFAULT_SENSOR_ID
	config.NoDB = false
	config.DBDriver = "mysql"
	config.Host = "localhost"
	config.User = "telescope_reader"
	config.Passwd = "readonly"
	config.DBName = "TELESCOPE"
	config.NumWorkers = 1
	config.WriteData = true
	config.Parallel = false
	config.Monitor = false
	config.MonitorEndpoint = "tcp://*:5556"
	config.UseBlosc = false
	config.CompressionLevel = 4
	config.BloscAlgorithm = converter.BloscAlgorithm{Name: "blosclz", Code: converter.BLOSC_BLOSCLZ}
	config.BloscShuffle = converter.BloscShuffle{Name: "byte-shuffle", Code: converter.BLOSC_SHUFFLE}

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = json.Unmarshal(data, &config)
	if err != nil {
		return config, err
	}
	return config, nil
}

func printConfiguration(config converter.Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("File in: %s", config.FileIn), "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	logger.Info(fmt.Sprintf("DB driver: %s", config.DBDriver), "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	logger.Info(fmt.Sprintf("Window size: %d", config.WindowSize), "config")
	logger.Info(fmt.Sprintf("Sensor ID: %d", config.SensorID), "config")
	logger.Info(fmt.Sprintf("Skip events: %d", config.SkipEvents), "config")
	logger.Info(fmt.Sprintf("Max events: %d", config.MaxEvents), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("Write data: %t", config.WriteData), "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "config")
	logger.Info(fmt.Sprintf("Parallel: %t", config.Parallel), "config")
	logger.Info(fmt.Sprintf("Monitor: %t", config.Monitor), "config")
	logger.Info(fmt.Sprintf("Monitor endpoint: %s", config.MonitorEndpoint), "config")
	logger.Info(fmt.Sprintf("Use blosc: %t", config.UseBlosc), "config")
	logger.Info(fmt.Sprintf("Compression level: %d", config.CompressionLevel), "config")
	logger.Info(fmt.Sprintf("Blosc algorithm: %s", config.BloscAlgorithm), "config")
	logger.Info(fmt.Sprintf("Blosc shuffle: %s", config.BloscShuffle), "config")
}
