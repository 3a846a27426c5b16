// Package server exposes the raytracer over HTTP: scene listing, rendering
// with progress streamed as Server-Sent Events, and pixel inspection.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/df07/go-stochastic-raytracer/pkg/loaders"
	"github.com/df07/go-stochastic-raytracer/pkg/scene"
)

// Request limits
const (
	minWidth   = 16
	maxWidth   = 2000
	maxSamples = 10000
	maxDepth   = 1000
)

// Server handles web requests for the raytracer
type Server struct {
	port      int
	registry  *scene.Registry
	scenesDir string
	logOutput io.Writer
	logger    zerolog.Logger
}

// NewServer creates a new web server that logs to logOutput
func NewServer(port int, scenesDir string, logOutput io.Writer) *Server {
	return &Server{
		port:      port,
		registry:  scene.DefaultRegistry(),
		scenesDir: scenesDir,
		logOutput: logOutput,
		logger:    zerolog.New(logOutput).With().Timestamp().Str("component", "server").Logger(),
	}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string `json:"scene"`   // Built-in scene name or scene file name in the scenes directory
	Width   int    `json:"width"`   // Image width; height follows the camera aspect ratio
	Samples int    `json:"samples"` // Samples per pixel, 0 = scene default
	Depth   int    `json:"depth"`   // Maximum bounce depth, 0 = scene default
	Seed    int64  `json:"seed"`
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", httpServer.Addr).Msgf("starting web server on http://localhost%s", httpServer.Addr)
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		return errors.Wrap(err, "web server stopped")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info().Msg("shutting down web server")
		return httpServer.Shutdown(shutdownCtx)
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes and the scene files on disk
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	files, err := scene.ListYAMLScenes(s.scenesDir)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, append(s.registry.Infos(), files...))
}

// parseRenderRequest parses and validates the query parameters shared by render and inspect
func (s *Server) parseRenderRequest(values url.Values) (*RenderRequest, error) {
	req := &RenderRequest{Scene: values.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 400, minWidth, maxWidth); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(values, "samples", 0, 0, maxSamples); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(values, "depth", 0, 0, maxDepth); err != nil {
		return nil, err
	}
	if seed := values.Get("seed"); seed != "" {
		if req.Seed, err = strconv.ParseInt(seed, 10, 64); err != nil {
			return nil, errors.Errorf("invalid seed: %s", seed)
		}
	} else {
		req.Seed = 42
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	value := values.Get(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Errorf("invalid %s: %s", key, value)
	}
	if parsed < min || parsed > max {
		return 0, errors.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
	}
	return parsed, nil
}

// createScene resolves a built-in scene or a scene file inside the scenes directory
// and applies the sampling overrides of the request
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := s.lookupScene(req.Scene, req.Seed)
	if err != nil {
		return nil, err
	}

	if req.Samples > 0 {
		sceneObj.Sampling.SamplesPerPixel = req.Samples
	}
	if req.Depth > 0 {
		sceneObj.Sampling.MaxDepth = req.Depth
	}
	return sceneObj, nil
}

// lookupScene resolves a built-in scene, a listed scene ID ("yaml:marbles")
// or a scene file name ("marbles.yaml"). Only files listed in the scenes directory
// can be loaded, never arbitrary paths.
func (s *Server) lookupScene(name string, seed int64) (*scene.Scene, error) {
	id := name
	switch {
	case strings.HasPrefix(name, scene.YAMLScenePrefix):
	case loaders.IsSceneFile(name):
		id = scene.YAMLSceneID(name)
	default:
		return s.registry.Lookup(name, seed)
	}

	info, err := scene.FindYAMLScene(s.scenesDir, id)
	if err != nil {
		return nil, err
	}
	return loaders.LoadScene(info.FilePath)
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(value)
}
