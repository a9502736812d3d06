package control_service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/vitistack/authproxy/internal/control"
	"github.com/vitistack/authproxy/internal/interceptor"
	"github.com/vitistack/authproxy/pkg/rest/middleware"
	"github.com/vitistack/authproxy/pkg/rest/response"
)

type Asker interface {
	Ask(ctx context.Context, msg control.Message) (*control.AuthStatus, error)
}

type ControlService struct {
	channel     Asker
	coordinator *interceptor.Coordinator
	logger      *slog.Logger
}

type status struct {
	Authenticated bool    `json:"authenticated"`
	AccountType   *string `json:"accountType"`
	Refresh       string  `json:"refresh"`
}

func NewControlService(channel Asker, coordinator *interceptor.Coordinator, logger *slog.Logger) *ControlService {
	return &ControlService{
		channel:     channel,
		coordinator: coordinator,
		logger:      logger,
	}
}

// PostControl applies one control message. AuthCheck is answered with the session status,
// every other message with 204.
func (cs *ControlService) PostControl(w http.ResponseWriter, r *http.Request) {
	logger := cs.logger.With(slog.String("request_id", middleware.RequestID(r.Context())))

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<16))
	if err != nil {
		response.Err(w, response.ErrInvalidInput, "unable to read control message")
		return
	}

	msg, err := control.Decode(raw)
	if err != nil {
		logger.Debug("rejecting control message", slog.String("reason", err.Error()))
		response.Err(w, response.ErrInvalidInput, "invalid control message")
		return
	}
	if msg == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	reply, err := cs.channel.Ask(r.Context(), msg)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			response.Err(w, response.ErrTimeout, "control channel did not answer in time")
			return
		}
		logger.Error("control message not applied", slog.String("reason", err.Error()))
		response.Err(w, response.ErrInternalError, "control message not applied")
		return
	}

	if reply == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	response.JSON(w, http.StatusOK, reply)
}

// GetStatus reports the session together with the refresh coordinator state.
func (cs *ControlService) GetStatus(w http.ResponseWriter, r *http.Request) {
	reply, err := cs.channel.Ask(r.Context(), control.AuthCheck{})
	if err != nil {
		response.Err(w, response.ErrInternalError, "control channel unavailable")
		return
	}

	st := status{
		Authenticated: reply.Authenticated,
		Refresh:       cs.coordinator.State().String(),
	}
	if reply.AccountType != "" {
		role := string(reply.AccountType)
		st.AccountType = &role
	}
	response.JSON(w, http.StatusOK, st)
}
