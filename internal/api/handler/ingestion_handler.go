package handler

import (
	"log/slog"
	"net/http"

	"credit-engine/internal/batch"
)

type IngestionHandler struct {
	job    *batch.IngestionJob
	logger *slog.Logger
}

func NewIngestionHandler(job *batch.IngestionJob, l *slog.Logger) *IngestionHandler {
	if job == nil {
		panic("ingestion job cannot be nil")
	}
	return &IngestionHandler{
		job:    job,
		logger: l.With("component", "IngestionHandler"),
	}
}

// RunIngestion handles POST /ingestion/run
// @Summary Run bulk ingestion
// @Description Synchronously ingests the configured customer and loan workbooks and returns the per-row outcome summary of each stage.
// @Tags Ingestion
// @Produce json
// @Success 200 {object} batch.Result "Ingestion summary"
// @Failure 500 {object} dto.ErrorResponse "A stage failed at the source level"
// @Router /ingestion/run [post]
// @Security BearerAuth
func (h *IngestionHandler) RunIngestion(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "Received manual ingestion request")

	result, err := h.job.Run(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Manual ingestion run failed", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
