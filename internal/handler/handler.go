package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Yoshiken-lab/Photocon-sub001/internal/domain"
	"github.com/Yoshiken-lab/Photocon-sub001/internal/usecase"
)

// respondWithJSON sends a JSON response to the client.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError sends a JSON error response.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, map[string]string{"error": message}, logger)
}

// respondWithDomainError maps the error taxonomy onto status codes. Expected
// business outcomes keep their message; infrastructure faults answer with a
// generic 500 and the detail stays in the logs.
func respondWithDomainError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondWithError(w, http.StatusBadRequest, vErr.Error(), logger)
	case errors.Is(err, domain.ErrDuplicateMedia):
		respondWithError(w, http.StatusConflict, "this photo has already been submitted to this contest", logger)
	case errors.Is(err, domain.ErrEntryNotFound), errors.Is(err, domain.ErrContestNotFound):
		respondWithError(w, http.StatusNotFound, err.Error(), logger)
	case errors.Is(err, domain.ErrInvalidTransition):
		respondWithError(w, http.StatusUnprocessableEntity, "entry must be approved before an award can be assigned", logger)
	default:
		logger.Error("request failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "internal server error", logger)
	}
}

// voterIdentity extracts the opaque voter identity: an authenticated user id
// set by the upstream auth gate, or the anonymous client token.
func voterIdentity(r *http.Request) string {
	if id := r.Header.Get("X-User-ID"); id != "" {
		return id
	}
	return r.Header.Get("X-Voter-Token")
}

func pagination(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage <= 0 {
		perPage = 20
	}
	return page, perPage
}

// SubmissionHandler serves the public submission and gallery endpoints.
type SubmissionHandler struct {
	ingestion  usecase.IngestionUseCase
	moderation usecase.ModerationUseCase
	maxUpload  int64
	logger     *slog.Logger
}

func NewSubmissionHandler(
	ingestion usecase.IngestionUseCase,
	moderation usecase.ModerationUseCase,
	maxUploadBytes int64,
	logger *slog.Logger,
) *SubmissionHandler {
	return &SubmissionHandler{
		ingestion:  ingestion,
		moderation: moderation,
		maxUpload:  maxUploadBytes,
		logger:     logger,
	}
}

// SubmitEntry handles POST /api/entries (multipart form).
func (h *SubmissionHandler) SubmitEntry(w http.ResponseWriter, r *http.Request) {
	// 1 MiB headroom for the non-file form fields
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+1<<20)

	file, _, err := r.FormFile("file")
	if err != nil {
		h.logger.Warn("submission without readable file", "error", err)
		respondWithError(w, http.StatusBadRequest, "invalid file: file is required", h.logger)
		return
	}
	defer file.Close()

	sub := usecase.UploadSubmission{
		ContestID:       r.FormValue("contest_id"),
		Nickname:        r.FormValue("nickname"),
		Email:           r.FormValue("email"),
		Title:           r.FormValue("title"),
		Description:     r.FormValue("description"),
		SubmissionToken: r.FormValue("submission_token"),
		File:            file,
	}

	entry, err := h.ingestion.SubmitUpload(r.Context(), sub)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"entry":   entry,
	}, h.logger)
}

// ListContestEntries handles GET /api/contests/{contestID}/entries — the
// public gallery feed, approved entries only.
func (h *SubmissionHandler) ListContestEntries(w http.ResponseWriter, r *http.Request) {
	contestID, err := uuid.Parse(chi.URLParam(r, "contestID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid contest id", h.logger)
		return
	}

	page, perPage := pagination(r)
	approved := domain.StatusApproved
	entries, err := h.moderation.ListEntries(r.Context(), contestID, &approved, page, perPage)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"entries": entries}, h.logger)
}
