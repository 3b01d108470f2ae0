package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/KirkDiggler/sealedroll/internal/dice"
	"github.com/KirkDiggler/sealedroll/internal/models"
	rollService "github.com/KirkDiggler/sealedroll/internal/services/roll"
	"github.com/go-chi/chi/v5"
)

// maxRequestBytes caps the body of POST /rolls
const maxRequestBytes = 4 << 10

const (
	msgInvalidBody     = "Invalid request body"
	msgBodyTooLarge    = "Request body too large"
	msgRollNotFound    = "Roll not found"
	msgAlreadyRevealed = "Roll already revealed"
	msgCreateFailed    = "Failed to create roll"
	msgRevealFailed    = "Failed to reveal roll"
	msgReadFailed      = "Failed to load roll"
)

// Config holds configuration for the HTTP handler
type Config struct {
	RollService rollService.Service
}

// Handler serves the roll endpoints
type Handler struct {
	rollService rollService.Service
}

// createRollRequest is the body of POST /rolls. Absent booleans default to true.
type createRollRequest struct {
	NumDice         int    `json:"numDice"`
	NumSides        int    `json:"numSides"`
	Label           string `json:"label"`
	ShowSum         *bool  `json:"showSum"`
	WithReplacement *bool  `json:"withReplacement"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New creates a new HTTP handler
func New(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RollService == nil {
		return nil, errors.New("roll service cannot be nil")
	}

	return &Handler{
		rollService: cfg.RollService,
	}, nil
}

// CreateRoll seals a new roll
func (h *Handler) CreateRoll(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	var req createRollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	output, err := h.rollService.CreateRoll(r.Context(), &rollService.CreateRollInput{
		NumDice:         req.NumDice,
		NumSides:        req.NumSides,
		Label:           req.Label,
		ShowSum:         boolOrTrue(req.ShowSum),
		WithReplacement: boolOrTrue(req.WithReplacement),
	})
	if err != nil {
		writeServiceError(w, err, msgCreateFailed)
		return
	}

	writeJSON(w, http.StatusCreated, output.Roll)
}

// GetRoll returns the sealed or revealed view of a roll
func (h *Handler) GetRoll(w http.ResponseWriter, r *http.Request) {
	output, err := h.rollService.GetRoll(r.Context(), &rollService.GetRollInput{
		RollID: chi.URLParam(r, "id"),
	})
	if err != nil {
		writeServiceError(w, err, msgReadFailed)
		return
	}

	writeJSON(w, http.StatusOK, output.Roll)
}

// RevealRoll reveals a sealed roll
func (h *Handler) RevealRoll(w http.ResponseWriter, r *http.Request) {
	output, err := h.rollService.RevealRoll(r.Context(), &rollService.RevealRollInput{
		RollID: chi.URLParam(r, "id"),
	})
	if err != nil {
		writeServiceError(w, err, msgRevealFailed)
		return
	}

	writeJSON(w, http.StatusOK, output.Roll)
}

// Health is used by load balancers to check the process is up
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// writeServiceError maps lifecycle errors to status codes. Anything
// unrecognised is a 500 with a generic message.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, rollService.ErrInvalidConfiguration):
		var cfgErr dice.ConfigError
		if errors.As(err, &cfgErr) {
			writeError(w, http.StatusBadRequest, cfgErr.Error())
			return
		}
		if errors.Is(err, rollService.ErrLabelTooLong) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Label must be at most %d characters", models.MaxLabelLength))
			return
		}
		writeError(w, http.StatusBadRequest, msgInvalidBody)
	case errors.Is(err, rollService.ErrRollNotFound), errors.Is(err, rollService.ErrEmptyRollID):
		writeError(w, http.StatusNotFound, msgRollNotFound)
	case errors.Is(err, rollService.ErrAlreadyRevealed):
		writeError(w, http.StatusBadRequest, msgAlreadyRevealed)
	default:
		log.Printf("[http] %s: %v", fallback, err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[http] failed to encode response: %v", err)
	}
}

func boolOrTrue(b *bool) bool {
	if b == nil {
		return true
	}
	return *b
}
