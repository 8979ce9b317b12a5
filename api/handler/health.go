package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/loftplanner/api/transport"
	"github.com/fastygo/loftplanner/internal/infrastructure/monitor"
	"github.com/fastygo/loftplanner/pkg/httpcontext"
)

// StatusSource is implemented by *monitor.Monitor.
type StatusSource interface {
	GetStatus() monitor.Status
}

// AnomalyCounter is implemented by *schedule.UseCase.
type AnomalyCounter interface {
	Anomalies() int64
}

type HealthHandler struct {
	baseHandler
	monitor   StatusSource
	anomalies AnomalyCounter
}

func NewHealthHandler(mon StatusSource, anomalies AnomalyCounter, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
		anomalies:   anomalies,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	var anomalies int64
	if h.anomalies != nil {
		anomalies = h.anomalies.Anomalies()
	}
	payload := map[string]any{
		"timestamp": time.Now().UTC(),
		"services": map[string]any{
			"postgresql": status.PostgreSQL,
			"redis":      status.Redis,
			"buffer": map[string]any{
				"online": status.Buffer,
				"size":   status.BufferSize,
			},
		},
		"completion_anomalies": anomalies,
		"degraded":             status.Degraded(),
	}

	if status.PostgreSQL {
		h.respondSuccess(ctx, http.StatusOK, payload)
		return
	}
	h.respondJSON(ctx, http.StatusServiceUnavailable, transport.NewError("DEGRADED", "dependencies unhealthy", payload))
}
