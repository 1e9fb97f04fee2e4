package converter

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/pebbe/zmq4"
)

// Deterministic encoding so identical planes serialize to identical
// bytes on the monitor wire.
var monitorEncMode = mustEncMode()

func mustEncMode() cbor.EncMode {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return mode
}

// MonitorPublisher streams quick-look planes to online monitors over a
// PUSH socket. Sends never block the conversion loop: with no monitor
// keeping up, planes are dropped.
type MonitorPublisher struct {
	socket *zmq4.Socket
}

func NewMonitorPublisher(endpoint string) (*MonitorPublisher, error) {
	socket, err := zmq4.NewSocket(zmq4.PUSH)
	if err != nil {
		return nil, err
	}
	if err := socket.Bind(endpoint); err != nil {
		socket.Close()
		return nil, err
	}
	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("monitor stream on %s", endpoint), "monitor")
	}
	return &MonitorPublisher{socket: socket}, nil
}

func (p *MonitorPublisher) Publish(plane *Plane) {
	payload, err := monitorEncMode.Marshal(plane)
	if err != nil {
		logger.Error(fmt.Sprintf("monitor encode failed: %v", err))
		return
	}
	if _, err := p.socket.SendBytes(payload, zmq4.DONTWAIT); err != nil {
		if configuration.Verbosity > 2 {
			logger.Info(fmt.Sprintf("monitor send dropped: %v", err), "monitor")
		}
	}
}

func (p *MonitorPublisher) Close() error {
	return p.socket.Close()
}
