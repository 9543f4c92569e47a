// Package port exposes the timer over a minimal HTTP control surface. It
// is the UI event source: buttons in a client map one-to-one onto these
// endpoints, which translate requests into timer operations and report
// precondition no-ops as accepted=false rather than errors.
package port

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/okolari/tracktimer/internal/domain"
	"github.com/okolari/tracktimer/internal/errmap"
	"github.com/okolari/tracktimer/internal/observability"
	"github.com/okolari/tracktimer/internal/tracker/app"
)

// timerService is a narrow, consumer-defined interface for the timer
// operations the handler requires. The *app.Timer satisfies this.
type timerService interface {
	Start(ctx context.Context, taskID domain.TaskID) bool
	Pause(ctx context.Context) bool
	Resume(ctx context.Context) bool
	Stop(ctx context.Context) bool
	Reset(ctx context.Context)
	Status() app.Status
}

// TimerHandler serves the timer control endpoints.
type TimerHandler struct {
	svc timerService
}

// NewTimerHandler creates a TimerHandler backed by the given Timer.
func NewTimerHandler(svc *app.Timer) *TimerHandler {
	return &TimerHandler{svc: svc}
}

// Register mounts the control endpoints on mux.
func (h *TimerHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/timer/start", h.handleStart)
	mux.HandleFunc("POST /v1/timer/pause", h.handlePause)
	mux.HandleFunc("POST /v1/timer/resume", h.handleResume)
	mux.HandleFunc("POST /v1/timer/stop", h.handleStop)
	mux.HandleFunc("POST /v1/timer/reset", h.handleReset)
	mux.HandleFunc("GET /v1/timer", h.handleStatus)
}

type startRequest struct {
	TaskID string `json:"task_id"`
}

// transitionResponse reports whether a transition took effect. A refused
// precondition (start while running, pause while idle) is not an error:
// accepted is false and the state is unchanged.
type transitionResponse struct {
	Accepted bool `json:"accepted"`
}

type statusResponse struct {
	Active           bool   `json:"active"`
	TaskID           string `json:"task_id,omitempty"`
	ElapsedMs        int64  `json:"elapsed_ms"`
	Elapsed          string `json:"elapsed"`
	StartTimeEpochMs int64  `json:"start_time_epoch_ms,omitempty"`
}

func (h *TimerHandler) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), w, fmt.Errorf("decode start request: %w", domain.ErrInvalidInput))
		return
	}

	taskID, err := domain.NewTaskID(req.TaskID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, transitionResponse{Accepted: h.svc.Start(r.Context(), taskID)})
}

func (h *TimerHandler) handlePause(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, transitionResponse{Accepted: h.svc.Pause(r.Context())})
}

func (h *TimerHandler) handleResume(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, transitionResponse{Accepted: h.svc.Resume(r.Context())})
}

func (h *TimerHandler) handleStop(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, transitionResponse{Accepted: h.svc.Stop(r.Context())})
}

func (h *TimerHandler) handleReset(w http.ResponseWriter, r *http.Request) {
	h.svc.Reset(r.Context())
	writeJSON(w, http.StatusOK, transitionResponse{Accepted: true})
}

func (h *TimerHandler) handleStatus(w http.ResponseWriter, _ *http.Request) {
	st := h.svc.Status()
	writeJSON(w, http.StatusOK, statusResponse{
		Active:           st.Active,
		TaskID:           st.TaskID.String(),
		ElapsedMs:        st.ElapsedMs,
		Elapsed:          domain.FormatElapsed(st.ElapsedMs),
		StartTimeEpochMs: st.StartTimeEpochMs,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding a response struct cannot fail; the write itself is
	// best-effort once headers are out.
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	httpErr := errmap.ToHTTPError(err)
	observability.LoggerFromContext(ctx).Warn("timer request rejected",
		slog.String("code", httpErr.Code),
		slog.String("error", err.Error()),
	)
	writeJSON(w, httpErr.StatusCode, httpErr)
}
