package main

import (
	"fmt"
	"io"
	"sync"

	converter "github.com/mupix-daq/converter_go/pkg"
)

type WorkerData struct {
	Seq    int
	Window []*converter.RawEvent
}

type WorkerResult struct {
	Seq   int
	Event converter.ConvertedEvent
}

// convertWindow wraps the library pipeline with panic recovery so a
// malformed window never takes the process down.
func convertWindow(window []*converter.RawEvent) (result converter.ConvertedEvent) {
	defer func() {
		if r := recover(); r != nil {
			errMessage := fmt.Errorf("converter recovered from panic on window at event %d: %v", windowEventNumber(window), r)
			logger.Error(errMessage.Error())
			result = converter.ConvertedEvent{Error: true, Store: converter.NewMemoryStore()}
		}
	}()

	event, err := converter.ConvertWindow(window, frameDecoder)
	if err != nil {
		message := fmt.Errorf("error converting window at event %d: %w", event.EventNumber, err)
		logger.Error(message.Error())
	}
	return event
}

func windowEventNumber(window []*converter.RawEvent) uint32 {
	if len(window) == 0 || window[0] == nil {
		return 0
	}
	return window[0].EventNumber
}

func worker(id int, jobs <-chan WorkerData, results chan<- WorkerResult, wg *sync.WaitGroup) {
	defer wg.Done()
	for job := range jobs {
		if VerbosityLevel > 2 {
			message := fmt.Sprintf("Worker %d converting window %d", id, job.Seq)
			logger.Info(message, "workers")
		}
		results <- WorkerResult{Seq: job.Seq, Event: convertWindow(job.Window)}
	}
}

func sendEventsToWorkers(fileReader *FileReader, jobs chan<- WorkerData) {
	seq := 0
	for {
		window, err := fileReader.getNextWindow()
		if err != nil {
			if err != io.EOF {
				message := fmt.Errorf("error reading window: %w", err)
				logger.Error(message.Error())
			}
			break
		}
		jobs <- WorkerData{Seq: seq, Window: window}
		seq++
	}
	close(jobs)
}

// processWorkerResults drains the results channel. Workers finish out
// of file order, so results are held back until every earlier window
// has been written; the output tables stay aligned with the run.
func processWorkerResults(results <-chan WorkerResult, writer *converter.Writer, publisher *converter.MonitorPublisher) int {
	pending := make(map[int]converter.ConvertedEvent)
	next := 0
	for result := range results {
		pending[result.Seq] = result.Event
		for {
			event, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			converter.ProcessConvertedEvent(&event, configuration, writer, publisher)
			if VerbosityLevel > 0 {
				message := fmt.Sprintf("Processed window %d, event %d", next, event.EventNumber)
				logger.Info(message, "workers")
			}
			next++
		}
	}
	return next
}

func runParallel(fileReader *FileReader, writer *converter.Writer, publisher *converter.MonitorPublisher) int {
	jobs := make(chan WorkerData, 100)
	results := make(chan WorkerResult, 100)

	var wg sync.WaitGroup
	for w := 1; w <= configuration.NumWorkers; w++ {
		wg.Add(1)
		go worker(w, jobs, results, &wg)
	}
	go func() {
		wg.Wait()
		close(results)
	}()
	go sendEventsToWorkers(fileReader, jobs)

	return processWorkerResults(results, writer, publisher)
}
