package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"spendtrack/internal/models"
	"spendtrack/internal/notify"
	"spendtrack/internal/service"
	"spendtrack/internal/storage/sqlite"
)

// setupTestServer seeds the store with the canonical fixture: four users with
// per-year spending entries.
func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	users := []models.User{
		{ID: 90, Name: "John Doe", Email: "john@example.com", Age: 25},
		{ID: 91, Name: "Jane Smith", Email: "jane@example.com", Age: 30},
		{ID: 92, Name: "Bob Johnson", Email: "bob@example.com", Age: 35},
		{ID: 93, Name: "Alice Brown", Email: "alice@example.com", Age: 50},
	}
	for i := range users {
		if err := store.CreateUser(ctx, &users[i]); err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}
	}

	entries := []models.SpendingEntry{
		{UserID: 90, Amount: decimal.RequireFromString("100.0"), Year: 2021},
		{UserID: 90, Amount: decimal.RequireFromString("150.0"), Year: 2022},
		{UserID: 91, Amount: decimal.RequireFromString("200.0"), Year: 2022},
		{UserID: 92, Amount: decimal.RequireFromString("300.0"), Year: 2022},
		{UserID: 93, Amount: decimal.RequireFromString("400.0"), Year: 2022},
	}
	for i := range entries {
		if err := store.AddSpending(ctx, &entries[i]); err != nil {
			t.Fatalf("failed to seed spending: %v", err)
		}
	}

	ledger := service.NewLedgerService(store)
	reward := service.NewRewardService(store, notify.Log{})
	server := httptest.NewServer(New(ledger, reward).Handler())
	t.Cleanup(server.Close)

	return server
}

func getJSON(t *testing.T, url string, wantStatus int, out any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s status = %d, want %d", url, resp.StatusCode, wantStatus)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	return resp
}

func TestGetUser(t *testing.T) {
	server := setupTestServer(t)

	var user struct {
		UserID        int64   `json:"user_id"`
		Name          string  `json:"name"`
		Email         string  `json:"email"`
		Age           int     `json:"age"`
		TotalSpending float64 `json:"total_spending"`
	}
	getJSON(t, server.URL+"/user/90", http.StatusOK, &user)

	if user.Name != "John Doe" || user.Email != "john@example.com" || user.Age != 25 {
		t.Errorf("unexpected user: %+v", user)
	}
	if user.TotalSpending != 250.0 {
		t.Errorf("total_spending = %v, want 250.0", user.TotalSpending)
	}
}

func TestGetUserNotFound(t *testing.T) {
	server := setupTestServer(t)
	getJSON(t, server.URL+"/user/9999", http.StatusNotFound, nil)
}

func TestAverageSpendingByAge(t *testing.T) {
	server := setupTestServer(t)

	var averages map[string]float64
	getJSON(t, server.URL+"/average_spending_by_age?format=json", http.StatusOK, &averages)

	want := map[string]float64{
		"25-30": 150.0, // (100 + 150 + 200) / 3
		"31-36": 300.0,
		">47":   400.0,
	}
	if len(averages) != len(want) {
		t.Fatalf("got %d buckets, want %d (%v)", len(averages), len(want), averages)
	}
	for bucket, mean := range want {
		if averages[bucket] != mean {
			t.Errorf("bucket %q = %v, want %v", bucket, averages[bucket], mean)
		}
	}
	if _, ok := averages["18-24"]; ok {
		t.Error("empty bucket 18-24 should be absent, not zero")
	}
}

func TestWriteHighSpendingUser(t *testing.T) {
	server := setupTestServer(t)
	url := server.URL + "/write_high_spending_user"

	t.Run("missing fields are rejected", func(t *testing.T) {
		resp := postJSON(t, url, map[string]any{"total_spending": 2000.0})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}

		resp = postJSON(t, url, map[string]any{"user_id": 90})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("below threshold is rejected", func(t *testing.T) {
		resp := postJSON(t, url, map[string]any{"user_id": 90, "total_spending": 1000.0})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("unknown user is 404", func(t *testing.T) {
		resp := postJSON(t, url, map[string]any{"user_id": 99, "total_spending": 2000.0})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})

	t.Run("successful admission", func(t *testing.T) {
		resp := postJSON(t, url, map[string]any{"user_id": 90, "total_spending": 2500.0})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want 201", resp.StatusCode)
		}

		var out struct {
			Message     string `json:"message"`
			BonusPoints int    `json:"bonus_points"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if out.Message != "High spender data saved successfully." {
			t.Errorf("message = %q", out.Message)
		}
		if out.BonusPoints != 1 {
			t.Errorf("bonus_points = %d, want 1", out.BonusPoints)
		}
	})

	t.Run("duplicate admission is rejected", func(t *testing.T) {
		resp := postJSON(t, url, map[string]any{"user_id": 90, "total_spending": 5000.0})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}

		var spenders []struct {
			UserID        int64   `json:"user_id"`
			TotalSpending float64 `json:"total_spending"`
			BonusPoints   int     `json:"bonus_points"`
		}
		getJSON(t, server.URL+"/high_spending_users", http.StatusOK, &spenders)
		if len(spenders) != 1 {
			t.Fatalf("got %d high spenders, want 1", len(spenders))
		}
		if spenders[0].TotalSpending != 2500.0 || spenders[0].BonusPoints != 1 {
			t.Errorf("original row was modified: %+v", spenders[0])
		}
	})
}

func TestTopSpendingUsers(t *testing.T) {
	server := setupTestServer(t)

	resp := postJSON(t, server.URL+"/recompute_leaderboard", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("recompute status = %d, want 200", resp.StatusCode)
	}

	var board []struct {
		Rank          int     `json:"rank"`
		UserID        int64   `json:"user_id"`
		TotalSpending float64 `json:"total_spending"`
		BonusPoints   int     `json:"bonus_points"`
	}
	getJSON(t, server.URL+"/top_spending_users", http.StatusOK, &board)

	if len(board) != 4 {
		t.Fatalf("got %d entries, want 4", len(board))
	}
	// Alice Brown (400) leads, then Bob Johnson (300), John Doe (250), Jane Smith (200).
	wantOrder := []int64{93, 92, 90, 91}
	for i, want := range wantOrder {
		if board[i].UserID != want {
			t.Errorf("rank %d = user %d, want %d", i+1, board[i].UserID, want)
		}
		if board[i].Rank != i+1 {
			t.Errorf("entry %d rank = %d, want %d", i, board[i].Rank, i+1)
		}
	}
	// Nobody in the fixture clears the bonus threshold.
	for _, entry := range board {
		if entry.BonusPoints != 0 {
			t.Errorf("user %d bonus_points = %d, want 0", entry.UserID, entry.BonusPoints)
		}
	}
}

func TestCreateUserAndSpendingEndpoints(t *testing.T) {
	server := setupTestServer(t)

	resp := postJSON(t, server.URL+"/users", map[string]any{
		"user_id": 200, "name": "New User", "email": "new@example.com", "age": 40,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create user status = %d, want 201", resp.StatusCode)
	}

	resp = postJSON(t, server.URL+"/users/200/spending", map[string]any{"amount": 75.5, "year": 2023})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add spending status = %d, want 201", resp.StatusCode)
	}

	var user struct {
		TotalSpending float64 `json:"total_spending"`
	}
	getJSON(t, server.URL+"/user/200", http.StatusOK, &user)
	if user.TotalSpending != 75.5 {
		t.Errorf("total_spending = %v, want 75.5", user.TotalSpending)
	}
}
