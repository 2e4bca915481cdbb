package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/vmihailenco/msgpack/v5"

	"qcomposer/internal/circuit"
)

const (
	maxBodyBytes     = 1 << 20
	contentMsgpack   = "application/msgpack"
	simulationHeader = "X-Simulation-Id"
)

// handleSimulate handles POST /simulate
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	run, err := s.sim.Simulate(r.Context(), req)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	w.Header().Set(simulationHeader, run.ID)
	if strings.Contains(r.Header.Get("Accept"), contentMsgpack) {
		s.writeMsgpack(w, http.StatusOK, run.Result)
		return
	}
	s.writeJSON(w, http.StatusOK, run.Result)
}

// handleExportQASM handles POST /qasm
func (s *Server) handleExportQASM(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	c, err := circuit.Validate(req)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, c.ToQASM()); err != nil {
		s.log.Error().Err(err).Msg("Failed to write QASM response")
	}
}

// handleParseQASM handles POST /qasm/parse
func (s *Server) handleParseQASM(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}

	req, err := circuit.ParseQASM(string(body))
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, req)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	var usedPercent float64
	if stat, err := mem.VirtualMemory(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to get memory statistics")
	} else {
		usedPercent = stat.UsedPercent
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":              "ok",
		"memory_used_percent": usedPercent,
	})
}

func (s *Server) serveFrontendFile(name string) http.HandlerFunc {
	path := filepath.Join(s.frontendDir, name)
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, path)
	}
}

// decodeRequest reads a JSON program. On failure it has already written the
// 422 response.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (circuit.Request, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.log.Debug().Err(err).Msg("Failed to read request body")
		s.writeError(w, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return circuit.Request{}, false
	}

	req, err := circuit.DecodeRequest(data)
	if err != nil {
		s.log.Debug().Err(err).Msg("Failed to decode request body")
		s.writeFailure(w, err)
		return circuit.Request{}, false
	}
	return req, true
}

// statusFor maps simulation errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, circuit.ErrSchema):
		return http.StatusUnprocessableEntity
	case errors.Is(err, circuit.ErrRange),
		errors.Is(err, circuit.ErrSemantic),
		errors.Is(err, circuit.ErrResourceLimit):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Int("status", status).Msg("Simulation failed")
	}
	s.writeError(w, status, err.Error())
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (s *Server) writeMsgpack(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", contentMsgpack)
	w.WriteHeader(status)

	if err := msgpack.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode msgpack response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"detail": message,
	})
}
