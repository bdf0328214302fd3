// Package server exposes the engine over HTTP/JSON.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"spendtrack/internal/calculator"
	"spendtrack/internal/models"
	"spendtrack/internal/service"
)

// Server wires the HTTP routes to the ledger and reward services.
type Server struct {
	ledger *service.LedgerService
	reward *service.RewardService
}

// New creates a Server.
func New(ledger *service.LedgerService, reward *service.RewardService) *Server {
	return &Server{ledger: ledger, reward: reward}
}

// Handler returns the routed handler with logging and metrics middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /user/{id}", s.getUser)
	mux.HandleFunc("GET /average_spending_by_age", s.averageSpendingByAge)
	mux.HandleFunc("GET /high_spending_users", s.listHighSpenders)
	mux.HandleFunc("GET /top_spending_users", s.listLeaderboard)
	mux.HandleFunc("POST /write_high_spending_user", s.writeHighSpender)

	mux.HandleFunc("POST /users", s.createUser)
	mux.HandleFunc("POST /users/{id}/spending", s.addSpending)
	mux.HandleFunc("POST /recompute_leaderboard", s.recomputeLeaderboard)

	mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(metricsMiddleware(mux))
}

type userResponse struct {
	UserID        int64   `json:"user_id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Age           int     `json:"age"`
	TotalSpending float64 `json:"total_spending"`
}

type highSpenderResponse struct {
	UserID        int64   `json:"user_id"`
	TotalSpending float64 `json:"total_spending"`
	BonusPoints   int     `json:"bonus_points"`
}

type leaderboardResponse struct {
	Rank          int     `json:"rank"`
	UserID        int64   `json:"user_id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Age           int     `json:"age"`
	TotalSpending float64 `json:"total_spending"`
	BonusPoints   int     `json:"bonus_points"`
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, service.ErrInvalidInput)
		return
	}

	view, err := s.ledger.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{
		UserID:        view.ID,
		Name:          view.Name,
		Email:         view.Email,
		Age:           view.Age,
		TotalSpending: view.TotalSpending.InexactFloat64(),
	})
}

// averageSpendingByAge returns the bucket-to-mean mapping. The legacy
// format=json query parameter is accepted and ignored; the response is
// always JSON.
func (s *Server) averageSpendingByAge(w http.ResponseWriter, r *http.Request) {
	averages, err := s.ledger.AverageSpendingByAge(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make(map[string]float64, len(averages))
	for bucket, mean := range averages {
		out[bucket] = mean.InexactFloat64()
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listHighSpenders(w http.ResponseWriter, r *http.Request) {
	spenders, err := s.ledger.ListHighSpenders(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]highSpenderResponse, len(spenders))
	for i, hs := range spenders {
		out[i] = highSpenderResponse{
			UserID:        hs.UserID,
			TotalSpending: hs.TotalSpending.InexactFloat64(),
			BonusPoints:   hs.BonusPoints,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := s.ledger.ListLeaderboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]leaderboardResponse, len(board))
	for i, entry := range board {
		out[i] = leaderboardResponse{
			Rank:          entry.Rank,
			UserID:        entry.UserID,
			Name:          entry.Name,
			Email:         entry.Email,
			Age:           entry.Age,
			TotalSpending: entry.TotalSpending.InexactFloat64(),
			// Derived for display, like the legacy top-spenders view.
			BonusPoints: calculator.BonusPoints(entry.TotalSpending),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) writeHighSpender(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID        *int64   `json:"user_id"`
		TotalSpending *float64 `json:"total_spending"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, service.ErrInvalidInput)
		return
	}
	if req.UserID == nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid user_id. It must be an integer.")
		return
	}
	if req.TotalSpending == nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid total_spending. It must be a number.")
		return
	}

	points, err := s.reward.Admit(r.Context(), *req.UserID, decimal.NewFromFloat(*req.TotalSpending))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":      "High spender data saved successfully.",
		"bonus_points": points,
	})
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID int64  `json:"user_id"`
		Name   string `json:"name"`
		Email  string `json:"email"`
		Age    int    `json:"age"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, service.ErrInvalidInput)
		return
	}

	user := &models.User{ID: req.UserID, Name: req.Name, Email: req.Email, Age: req.Age}
	if err := s.ledger.CreateUser(r.Context(), user); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "User created.", "user_id": user.ID})
}

func (s *Server) addSpending(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, service.ErrInvalidInput)
		return
	}

	var req struct {
		Amount *float64 `json:"amount"`
		Year   int      `json:"year"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount == nil {
		writeError(w, service.ErrInvalidInput)
		return
	}

	entry := &models.SpendingEntry{UserID: id, Amount: decimal.NewFromFloat(*req.Amount), Year: req.Year}
	if err := s.ledger.AddSpending(r.Context(), entry); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Spending recorded."})
}

func (s *Server) recomputeLeaderboard(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.RecomputeLeaderboard(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Leaderboard recomputed."})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeError maps the service error taxonomy to HTTP statuses. Anything
// outside the taxonomy is a storage failure.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrBelowThreshold),
		errors.Is(err, service.ErrDuplicateAdmission):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		writeErrorMessage(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("Internal error", "error", err)
		writeErrorMessage(w, http.StatusInternalServerError, "internal storage error")
	}
}
