package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sasha-s/go-deadlock"

	"github.com/df07/go-stochastic-raytracer/pkg/integrator"
	"github.com/df07/go-stochastic-raytracer/pkg/output"
	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
)

// ProgressUpdate reports how many scanlines are left
type ProgressUpdate struct {
	Remaining int   `json:"remaining"`
	Total     int   `json:"total"`
	ElapsedMs int64 `json:"elapsedMs"`
}

// CompleteUpdate carries the finished image
type CompleteUpdate struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	RenderID         string  `json:"renderId"`
	TotalPixels      int     `json:"totalPixels"`
	TotalSamples     int     `json:"totalSamples"`
	SamplesPerSecond float64 `json:"samplesPerSecond"`
	MeanLuminance    float64 `json:"meanLuminance"`
	LuminanceStdDev  float64 `json:"luminanceStdDev"`
}

// sseWriter serializes Server-Sent Events onto one response
type sseWriter struct {
	mu     deadlock.Mutex
	w      http.ResponseWriter
	closed bool
}

// send writes one event; after a failed write the client is gone and later events are dropped
func (s *sseWriter) send(event string, data string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		s.closed = true
		return
	}
	if flusher, ok := s.w.(http.Flusher); ok {
		flusher.Flush()
	}
}

// sendJSON writes one event with a JSON payload
func (s *sseWriter) sendJSON(event string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		s.send("error", err.Error())
		return
	}
	s.send(event, string(data))
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// handleRender renders a scene and streams progress, log lines and the final image via SSE.
// Closing the connection cancels the render.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	setSSEHeaders(w)
	events := &sseWriter{w: w}

	req, err := s.parseRenderRequest(r.URL.Query())
	if err != nil {
		events.send("error", fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		events.send("error", err.Error())
		return
	}

	// Log lines go both to the server log and to the browser console
	console := newConsoleWriter(func(msg ConsoleMessage) {
		events.sendJSON("console", msg)
	})
	logger := zerolog.New(zerolog.MultiLevelWriter(s.logOutput, console)).
		With().
		Timestamp().
		Str("scene", sceneObj.Name).
		Logger()

	raytracer := sceneObj.NewRaytracer(req.Width, integrator.NewPathTracingIntegrator(sceneObj.Sky))
	width, height := raytracer.Size()

	startTime := time.Now()
	raytracer.SetOptions(renderer.Options{
		Seed:   req.Seed,
		Logger: logger,
		Progress: func(remaining int) {
			events.sendJSON("progress", ProgressUpdate{
				Remaining: remaining,
				Total:     height,
				ElapsedMs: time.Since(startTime).Milliseconds(),
			})
		},
	})

	frame, stats, err := raytracer.Render(r.Context())
	if err != nil {
		events.send("error", fmt.Sprintf("Render error: %v", err))
		return
	}

	var buf bytes.Buffer
	if err := (output.PNGEncoder{}).Encode(&buf, frame); err != nil {
		events.send("error", fmt.Sprintf("failed to encode image: %v", err))
		return
	}

	events.sendJSON("complete", CompleteUpdate{
		Width:     width,
		Height:    height,
		ImageData: base64.StdEncoding.EncodeToString(buf.Bytes()),
		Stats: Stats{
			RenderID:         stats.RenderID,
			TotalPixels:      stats.TotalPixels,
			TotalSamples:     stats.TotalSamples,
			SamplesPerSecond: stats.SamplesPerSecond(),
			MeanLuminance:    stats.MeanLuminance,
			LuminanceStdDev:  stats.LuminanceStdDev,
		},
		ElapsedMs: time.Since(startTime).Milliseconds(),
	})
}
