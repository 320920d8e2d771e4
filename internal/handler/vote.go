package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Yoshiken-lab/Photocon-sub001/internal/domain"
	"github.com/Yoshiken-lab/Photocon-sub001/internal/usecase"
)

// VoteHandler serves the public voting endpoints.
type VoteHandler struct {
	voting usecase.VotingUseCase
	logger *slog.Logger
}

func NewVoteHandler(voting usecase.VotingUseCase, logger *slog.Logger) *VoteHandler {
	return &VoteHandler{voting: voting, logger: logger}
}

type castVoteRequest struct {
	EntryID string `json:"entry_id"`
}

// CastVote handles POST /api/votes. A repeated vote answers 409 with the
// current tally so the client can render "already voted" without error
// styling.
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req castVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid JSON body", h.logger)
		return
	}

	voter := voterIdentity(r)
	if voter == "" {
		respondWithError(w, http.StatusBadRequest, "voter identity is required", h.logger)
		return
	}

	status, err := h.voting.CastVote(r.Context(), req.EntryID, voter)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyVoted) {
			respondWithJSON(w, http.StatusConflict, map[string]interface{}{
				"vote_count": status.VoteCount,
				"accepted":   false,
				"message":    "already voted for this entry",
			}, h.logger)
			return
		}
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"vote_count": status.VoteCount,
		"accepted":   true,
	}, h.logger)
}

// GetVoteStatus handles GET /api/votes/status?entry_id=...
func (h *VoteHandler) GetVoteStatus(w http.ResponseWriter, r *http.Request) {
	voter := voterIdentity(r)
	if voter == "" {
		respondWithError(w, http.StatusBadRequest, "voter identity is required", h.logger)
		return
	}

	status, err := h.voting.GetVoteStatus(r.Context(), r.URL.Query().Get("entry_id"), voter)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, status, h.logger)
}
