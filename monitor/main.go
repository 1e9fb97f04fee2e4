package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
	zmq "github.com/pebbe/zmq4"

	converter "github.com/mupix-daq/converter_go/pkg"
)

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
	endpoint := flag.String("endpoint", "tcp://localhost:5556", "Converter monitor endpoint")
	refresh := flag.Int("refresh", 2, "Refresh period in seconds")
	verbosity := flag.Int("verbosity", 0, "Verbosity level")
	flag.Parse()

	VerbosityLevel = *verbosity

	socket, err := zmq.NewSocket(zmq.PULL)
	if err != nil {
		message := fmt.Errorf("Error creating socket: %w", err)
		logger.Error(message.Error())
		return
	}
	defer socket.Close()
	if err := socket.Connect(*endpoint); err != nil {
		message := fmt.Errorf("Error connecting to %s: %w", *endpoint, err)
		logger.Error(message.Error())
		return
	}
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Pulling planes from %s", *endpoint)
		logger.Info(message, "main")
	}

	planes := make(chan converter.Plane, 128)
	go receivePlanes(socket, planes)

	display := NewDisplay()
	ticker := time.NewTicker(time.Duration(*refresh) * time.Second)
	defer ticker.Stop()
	for {
		select {
		case plane := <-planes:
			display.Update(&plane)
		case <-ticker.C:
			display.Print()
		}
	}
}

func receivePlanes(socket *zmq.Socket, planes chan<- converter.Plane) {
	for {
		msg, err := socket.RecvBytes(0)
		if err != nil {
			message := fmt.Errorf("error receiving plane: %w", err)
			logger.Error(message.Error())
			continue
		}
		var plane converter.Plane
		if err := cbor.Unmarshal(msg, &plane); err != nil {
			message := fmt.Errorf("error decoding plane: %w", err)
			logger.Error(message.Error())
			continue
		}
		if VerbosityLevel > 1 {
			message := fmt.Sprintf("Plane for trigger %d with %d pixels", plane.TriggerID, len(plane.Pixels))
			logger.Info(message, "receiver")
		}
		planes <- plane
	}
}
