package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Yoshiken-lab/Photocon-sub001/internal/core/ports"
	"github.com/Yoshiken-lab/Photocon-sub001/internal/messaging/payloads"
	"github.com/Yoshiken-lab/Photocon-sub001/internal/usecase"
)

// CollectionHandler serves the collection trigger endpoints.
type CollectionHandler struct {
	collection usecase.CollectionUseCase
	publisher  ports.CollectionPublisher
	logger     *slog.Logger
}

func NewCollectionHandler(
	collection usecase.CollectionUseCase,
	publisher ports.CollectionPublisher,
	logger *slog.Logger,
) *CollectionHandler {
	return &CollectionHandler{
		collection: collection,
		publisher:  publisher,
		logger:     logger,
	}
}

// TriggerCollectAll handles POST /api/admin/collect. The work is queued for
// the worker so the admin request returns immediately.
func (h *CollectionHandler) TriggerCollectAll(w http.ResponseWriter, r *http.Request) {
	err := h.publisher.PublishCollectionRequest(r.Context(), payloads.CollectionRequestPayload{})
	if err != nil {
		h.logger.Error("failed to publish collection request", "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to queue collection", h.logger)
		return
	}

	respondWithJSON(w, http.StatusAccepted, map[string]interface{}{
		"success": true,
		"message": "collection queued",
	}, h.logger)
}

// TriggerCollectContest handles POST /api/admin/collect/{contestID}, running
// the single-contest collection inline and failing loudly.
func (h *CollectionHandler) TriggerCollectContest(w http.ResponseWriter, r *http.Request) {
	contestID, err := uuid.Parse(chi.URLParam(r, "contestID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid contest id", h.logger)
		return
	}

	result, err := h.collection.CollectForContest(r.Context(), contestID)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"result":  result,
	}, h.logger)
}

// CronCollect handles GET /api/cron/collect, behind the bearer shared secret
// (see CronAuth). Runs the full pass inline and reports per-contest results.
func (h *CollectionHandler) CronCollect(w http.ResponseWriter, r *http.Request) {
	results, err := h.collection.CollectAll(r.Context())
	if err != nil {
		h.logger.Error("scheduled collection failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "collection failed", h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"results": results,
	}, h.logger)
}
