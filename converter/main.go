package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	sqlx "github.com/jmoiron/sqlx"
	converter "github.com/mupix-daq/converter_go/pkg"
)

var dbConn *sqlx.DB
var configuration converter.Configuration

var frameDecoder converter.FrameDecoder = converter.TelescopeDecoder{}

var (
	logger         Logger
	VerbosityLevel int
)

func init() {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	handlerStdOut := NewHandler(os.Stdout, opts)
	handlerStdErr := slog.NewJSONHandler(os.Stderr, opts)
	logger = Logger{
		InfoLog:  slog.New(handlerStdOut),
		ErrorLog: slog.New(handlerStdErr),
	}
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	flag.Parse()

	var err error
	configuration, err = LoadConfiguration(*configFilename)
	if err != nil {
		message := fmt.Errorf("Error reading configuration file: %w", err)
		logger.Error(message.Error())
		return
	}
	converter.SetConfiguration(configuration)
	converter.SetLogger(logger)

	VerbosityLevel = configuration.Verbosity
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Reading configuration file: %s", *configFilename)
		logger.Info(message, "main")
		printConfiguration(configuration, logger)
	}

	evtCount, runNumber := countEvents(configuration.FileIn)
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Number of events: %d", evtCount)
		logger.Info(message, "main")
	}

	sensors := converter.DefaultSensorsMap()
	if !configuration.NoDB {
		dbConn, err = converter.ConnectToDatabase(configuration.DBDriver, configuration.User,
			configuration.Passwd, configuration.Host, configuration.DBName)
		if err != nil {
			message := fmt.Errorf("Error connecting to database: %w", err)
			logger.Error(message.Error())
			return
		}
		defer dbConn.Close()

		sensors, err = converter.GetSensorsFromDB(dbConn, runNumber)
		if err != nil {
			message := fmt.Errorf("Error reading sensor mapping: %w", err)
			logger.Error(message.Error())
			return
		}
	}

	input, err := openInput(configuration.FileIn)
	if err != nil {
		message := fmt.Errorf("Error opening file: %w", err)
		logger.Error(message.Error())
		return
	}
	defer input.Close()

	fileReader := NewFileReader(input)

	writer := converter.NewWriter(configuration.FileOut, sensors)

	var publisher *converter.MonitorPublisher
	if configuration.Monitor {
		publisher, err = converter.NewMonitorPublisher(configuration.MonitorEndpoint)
		if err != nil {
			message := fmt.Errorf("Error starting monitor publisher: %w", err)
			logger.Error(message.Error())
			return
		}
		defer publisher.Close()
	}

	start := time.Now()
	var windowsProcessed int
	if configuration.Parallel {
		windowsProcessed = runParallel(fileReader, writer, publisher)
	} else {
		windowsProcessed = runSequential(fileReader, writer, publisher)
	}

	if err := writer.Close(); err != nil {
		message := fmt.Errorf("Error closing output file: %w", err)
		logger.Error(message.Error())
	}

	duration := time.Since(start)
	fmt.Println("Total windows processed: ", windowsProcessed)
	fmt.Printf("Total time: %d ms\n", duration.Milliseconds())
}

func runSequential(fileReader *FileReader, writer *converter.Writer, publisher *converter.MonitorPublisher) int {
	windowsProcessed := 0
	for {
		window, err := fileReader.getNextWindow()
		if err != nil {
			if err != io.EOF {
				message := fmt.Errorf("error reading window: %w", err)
				logger.Error(message.Error())
			}
			break
		}
		event := convertWindow(window)
		converter.ProcessConvertedEvent(&event, configuration, writer, publisher)
		windowsProcessed++
	}
	return windowsProcessed
}
