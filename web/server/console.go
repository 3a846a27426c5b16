package server

import (
	"encoding/json"
	"io"
	"time"
)

// ConsoleMessage is one log line forwarded to the browser console
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // zerolog level name: "debug", "info", "warn", "error"
}

// consoleWriter turns zerolog JSON events into console messages
type consoleWriter struct {
	send func(ConsoleMessage)
}

// newConsoleWriter returns a zerolog output that hands every event to send
func newConsoleWriter(send func(ConsoleMessage)) io.Writer {
	return &consoleWriter{send: send}
}

// Write implements io.Writer. zerolog writes exactly one JSON object per call.
func (cw *consoleWriter) Write(p []byte) (int, error) {
	if cw.send == nil {
		return len(p), nil
	}

	var event struct {
		Level   string `json:"level"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(p, &event); err != nil {
		// Not a structured event; forward it verbatim
		event.Level = "info"
		event.Message = string(p)
	}

	cw.send(ConsoleMessage{
		Message:   event.Message,
		Timestamp: time.Now(),
		Level:     event.Level,
	})
	return len(p), nil
}
