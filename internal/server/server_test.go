package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"qcomposer/internal/result"
	"qcomposer/internal/simulator"
)

const bellJSON = `{"qubit_count":2,"program":[{"gate":"h","target":0},{"gate":"cx","control":0,"target":1}]}`

func newTestServer(t *testing.T, frontendDir string) *Server {
	t.Helper()
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	return New(Config{
		Port:        0,
		Log:         logger,
		Simulator:   simulator.New(logger),
		FrontendDir: frontendDir,
		DevMode:     true,
	})
}

func post(t *testing.T, s *Server, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body["detail"]
}

func TestSimulate(t *testing.T) {
	s := newTestServer(t, "")

	w := post(t, s, "/simulate", bellJSON, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	_, err := uuid.Parse(w.Header().Get("X-Simulation-Id"))
	assert.NoError(t, err)

	var res result.Result
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, 2, res.QubitCount)
	assert.Equal(t, []float64{0.5, 0, 0, 0.5}, res.Probabilities)
	assert.Equal(t, result.Amplitude{Re: 0.70710678}, res.Statevector[0])
	assert.Len(t, res.Phases, 4)
}

func TestSimulateWireFormat(t *testing.T) {
	s := newTestServer(t, "")

	w := post(t, s, "/simulate", `{"qubit_count":1,"program":[]}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(w.Body).Decode(&raw))
	assert.JSONEq(t, `1`, string(raw["qubit_count"]))
	assert.JSONEq(t, `[{"re":1,"im":0},{"re":0,"im":0}]`, string(raw["statevector"]))
	assert.JSONEq(t, `[1,0]`, string(raw["probabilities"]))
	assert.JSONEq(t, `[0,0]`, string(raw["phases"]))
}

func TestSimulateMsgpack(t *testing.T) {
	s := newTestServer(t, "")

	w := post(t, s, "/simulate", bellJSON, map[string]string{"Accept": "application/msgpack"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/msgpack", w.Header().Get("Content-Type"))

	var res result.Result
	require.NoError(t, msgpack.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, []float64{0.5, 0, 0, 0.5}, res.Probabilities)
}

func TestSimulateErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		detail string
	}{
		{"malformed json", `{"qubit_count":`, http.StatusUnprocessableEntity, ""},
		{"wrong field type", `{"qubit_count":"two"}`, http.StatusUnprocessableEntity, ""},
		{"unsupported gate", `{"qubit_count":1,"program":[{"gate":"swap","target":0}]}`, http.StatusUnprocessableEntity, "unsupported gate 'swap' (step 0)"},
		{"qubit count", `{"qubit_count":5,"program":[]}`, http.StatusBadRequest, "qubit_count must be between 1 and 4"},
		{"target range", `{"qubit_count":2,"program":[{"gate":"h","target":2}]}`, http.StatusBadRequest, "target=2 out of range 0..1 (step 0)"},
		{"missing angle", `{"qubit_count":1,"program":[{"gate":"rz","target":0}]}`, http.StatusBadRequest, "rz requires an 'angle' field (step 0)"},
		{"missing program", `{"qubit_count":1}`, http.StatusUnprocessableEntity, "program is required"},
		{"missing qubit count", `{}`, http.StatusUnprocessableEntity, "qubit_count is required"},
		{"same wire", `{"qubit_count":2,"program":[{"gate":"cx","control":1,"target":1}]}`, http.StatusBadRequest, "cx control and target must differ (step 0)"},
	}

	s := newTestServer(t, "")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, s, "/simulate", tt.body, nil)
			assert.Equal(t, tt.status, w.Code)
			got := detail(t, w)
			if tt.detail != "" {
				assert.Equal(t, tt.detail, got)
			} else {
				assert.NotEmpty(t, got)
			}
		})
	}
}

func TestSimulateGateLimit(t *testing.T) {
	var prog []string
	for range 11 {
		prog = append(prog, `{"gate":"x","target":0}`)
	}
	body := `{"qubit_count":1,"program":[` + strings.Join(prog, ",") + `]}`

	w := post(t, newTestServer(t, ""), "/simulate", body, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "gate limit (10) exceeded on qubit 0", detail(t, w))
}

func TestExportQASM(t *testing.T) {
	w := post(t, newTestServer(t, ""), "/qasm", bellJSON, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, w.Body.String(), "qreg q[2];")
	assert.Contains(t, w.Body.String(), "cx q[0], q[1];")
}

func TestParseQASM(t *testing.T) {
	s := newTestServer(t, "")

	w := post(t, s, "/qasm/parse", "qreg q[2];\nh q[0];\ncx q[0], q[1];\n", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, bellJSON, w.Body.String())

	w = post(t, s, "/qasm/parse", "h q[0];", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "missing qreg declaration", detail(t, w))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(context.DeadlineExceeded))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "memory_used_percent")
}

func TestFrontend(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>composer</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.html"), []byte("<h1>tests</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))

	s := newTestServer(t, dir)
	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	assert.Contains(t, get("/").Body.String(), "composer")
	assert.Contains(t, get("/test").Body.String(), "tests")
	assert.Contains(t, get("/app.js").Body.String(), "console.log")
	assert.Equal(t, http.StatusNotFound, get("/missing.css").Code)
}

func TestFrontendMissing(t *testing.T) {
	s := newTestServer(t, filepath.Join(t.TempDir(), "nope"))

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func dialStream(t *testing.T) (*websocket.Conn, context.Context) {
	t.Helper()
	ts := httptest.NewServer(newTestServer(t, "").Handler())
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws/simulate", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn, ctx
}

func TestSimulateStream(t *testing.T) {
	conn, ctx := dialStream(t)

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(bellJSON)))

	var steps []simulator.Step
	for range 2 {
		var step simulator.Step
		require.NoError(t, wsjson.Read(ctx, conn, &step))
		steps = append(steps, step)
	}
	assert.Equal(t, "h", steps[0].Gate)
	assert.Equal(t, 0, steps[0].Step)
	assert.Equal(t, "cx", steps[1].Gate)
	assert.Equal(t, []float64{0.5, 0, 0, 0.5}, steps[1].Result.Probabilities)

	var end streamEnd
	require.NoError(t, wsjson.Read(ctx, conn, &end))
	assert.True(t, end.Done)
	assert.Empty(t, end.Error)
	assert.NotEmpty(t, end.ID)
	assert.Equal(t, steps[1].Result, end.Result)
}

func TestSimulateStreamValidationError(t *testing.T) {
	conn, ctx := dialStream(t)

	body, err := json.Marshal(map[string]interface{}{"qubit_count": 0, "program": []interface{}{}})
	require.NoError(t, err)
	require.NoError(t, conn.Write(ctx, websocket.MessageText, bytes.TrimSpace(body)))

	var end streamEnd
	require.NoError(t, wsjson.Read(ctx, conn, &end))
	assert.False(t, end.Done)
	assert.Equal(t, "qubit_count must be between 1 and 4", end.Error)
}

func TestSimulateStreamMalformed(t *testing.T) {
	conn, ctx := dialStream(t)

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte("{not json")))

	var end streamEnd
	require.NoError(t, wsjson.Read(ctx, conn, &end))
	assert.Contains(t, end.Error, "invalid request body")
}
