package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Yoshiken-lab/Photocon-sub001/internal/domain"
	"github.com/Yoshiken-lab/Photocon-sub001/internal/usecase"
)

// AdminHandler serves the moderation endpoints. Failures answer with the
// underlying message: moderation actions affect public contest outcomes and
// must fail loudly to the operator, never silently.
type AdminHandler struct {
	moderation usecase.ModerationUseCase
	logger     *slog.Logger
}

func NewAdminHandler(moderation usecase.ModerationUseCase, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{moderation: moderation, logger: logger}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type updateAwardRequest struct {
	AwardLabel *string `json:"award_label"`
}

// UpdateEntryStatus handles PATCH /api/admin/entries/{entryID}/status.
func (h *AdminHandler) UpdateEntryStatus(w http.ResponseWriter, r *http.Request) {
	entryID, err := uuid.Parse(chi.URLParam(r, "entryID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid entry id", h.logger)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid JSON body", h.logger)
		return
	}

	entry, err := h.moderation.SetStatus(r.Context(), entryID, domain.EntryStatus(req.Status))
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"entry":   entry,
	}, h.logger)
}

// UpdateEntryAward handles PATCH /api/admin/entries/{entryID}/award.
// A null award_label revokes the award.
func (h *AdminHandler) UpdateEntryAward(w http.ResponseWriter, r *http.Request) {
	entryID, err := uuid.Parse(chi.URLParam(r, "entryID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid entry id", h.logger)
		return
	}

	var req updateAwardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid JSON body", h.logger)
		return
	}

	var label *domain.AwardLabel
	if req.AwardLabel != nil {
		l := domain.AwardLabel(*req.AwardLabel)
		label = &l
	}

	entry, err := h.moderation.SetAward(r.Context(), entryID, label)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"entry":   entry,
	}, h.logger)
}

// ListEntries handles GET /api/admin/entries?contest_id=...&status=...
func (h *AdminHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	contestID, err := uuid.Parse(r.URL.Query().Get("contest_id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid contest_id", h.logger)
		return
	}

	var status *domain.EntryStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.EntryStatus(s)
		status = &st
	}

	page, perPage := pagination(r)
	entries, err := h.moderation.ListEntries(r.Context(), contestID, status, page, perPage)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"entries": entries}, h.logger)
}
