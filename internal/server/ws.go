package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"qcomposer/internal/circuit"
	"qcomposer/internal/result"
	"qcomposer/internal/simulator"
)

const frameWriteTimeout = 5 * time.Second

// streamEnd is the last frame of a stream.
type streamEnd struct {
	Done   bool           `json:"done,omitempty"`
	ID     string         `json:"id,omitempty"`
	Result *result.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// handleSimulateStream handles GET /ws/simulate. The client sends a single
// program; the server answers with one frame per applied gate followed by a
// streamEnd frame, then closes.
func (s *Server) handleSimulateStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.origins,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "unexpected exit")

	ctx := r.Context()
	conn.SetReadLimit(maxBodyBytes)

	_, data, err := conn.Read(ctx)
	if err != nil {
		s.log.Debug().Err(err).Msg("WebSocket closed before a program arrived")
		return
	}

	req, err := circuit.DecodeRequest(data)
	if err != nil {
		s.finishStream(ctx, conn, streamEnd{Error: err.Error()})
		return
	}

	run, err := s.sim.Stream(ctx, req, func(step simulator.Step) error {
		return s.writeFrame(ctx, conn, step)
	})
	if err != nil {
		var closeErr websocket.CloseError
		if errors.As(err, &closeErr) {
			s.log.Debug().Err(err).Msg("WebSocket client left mid-stream")
			return
		}
		s.finishStream(ctx, conn, streamEnd{Error: err.Error()})
		return
	}

	s.finishStream(ctx, conn, streamEnd{Done: true, ID: run.ID, Result: run.Result})
}

func (s *Server) writeFrame(ctx context.Context, conn *websocket.Conn, v interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, frameWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, v)
}

func (s *Server) finishStream(ctx context.Context, conn *websocket.Conn, end streamEnd) {
	if err := s.writeFrame(ctx, conn, end); err != nil {
		s.log.Debug().Err(err).Msg("Failed to write final stream frame")
		return
	}
	conn.Close(websocket.StatusNormalClosure, "")
}
