package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendtrack/internal/models"
	"spendtrack/internal/storage/sqlite"
)

// capturingNotifier records delivered texts on a channel so tests can wait
// for the fire-and-forget goroutine.
type capturingNotifier struct {
	texts chan string
	err   error
}

func newCapturingNotifier() *capturingNotifier {
	return &capturingNotifier{texts: make(chan string, 8)}
}

func (n *capturingNotifier) Notify(_ context.Context, text string) error {
	n.texts <- text
	return n.err
}

func (n *capturingNotifier) wait(t *testing.T) string {
	t.Helper()
	select {
	case text := <-n.texts:
		return text
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
		return ""
	}
}

func newRewardFixture(t *testing.T) (*RewardService, *capturingNotifier) {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.CreateUser(context.Background(), &models.User{
		ID: 90, Name: "John Doe", Email: "john@example.com", Age: 25,
	}))

	notifier := newCapturingNotifier()
	return NewRewardService(store, notifier), notifier
}

func TestAdmitInvalidUserID(t *testing.T) {
	svc, _ := newRewardFixture(t)

	_, err := svc.Admit(context.Background(), 0, decimal.NewFromInt(2000))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Admit(context.Background(), -5, decimal.NewFromInt(2000))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAdmitBelowThreshold(t *testing.T) {
	svc, _ := newRewardFixture(t)

	for _, total := range []string{"0", "1000", "1498.99"} {
		_, err := svc.Admit(context.Background(), 90, decimal.RequireFromString(total))
		assert.ErrorIs(t, err, ErrBelowThreshold, "total %s", total)
	}
}

func TestAdmitThresholdBeatsUserLookup(t *testing.T) {
	svc, _ := newRewardFixture(t)

	// Unknown user AND below threshold: threshold check wins (fail fast).
	_, err := svc.Admit(context.Background(), 999, decimal.NewFromInt(1000))
	assert.ErrorIs(t, err, ErrBelowThreshold)
}

func TestAdmitUnknownUser(t *testing.T) {
	svc, _ := newRewardFixture(t)

	_, err := svc.Admit(context.Background(), 999, decimal.NewFromInt(2000))
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAdmitSuccess(t *testing.T) {
	svc, notifier := newRewardFixture(t)

	points, err := svc.Admit(context.Background(), 90, decimal.RequireFromString("2500.0"))
	require.NoError(t, err)
	// 1 + floor((2500-1499)/2000) = 1
	assert.Equal(t, 1, points)

	text := notifier.wait(t)
	assert.Contains(t, text, "John Doe")
	assert.Contains(t, text, "2500.00")
	assert.Contains(t, text, "Bonus Points: 1")
}

func TestAdmitBonusAccrual(t *testing.T) {
	tests := []struct {
		total string
		want  int
	}{
		{"1499", 1},
		{"3499", 2},
		{"5499", 3},
	}

	for _, tt := range tests {
		t.Run(tt.total, func(t *testing.T) {
			svc, _ := newRewardFixture(t)
			points, err := svc.Admit(context.Background(), 90, decimal.RequireFromString(tt.total))
			require.NoError(t, err)
			assert.Equal(t, tt.want, points)
		})
	}
}

func TestAdmitDuplicate(t *testing.T) {
	svc, notifier := newRewardFixture(t)
	ctx := context.Background()

	_, err := svc.Admit(ctx, 90, decimal.NewFromInt(2500))
	require.NoError(t, err)
	notifier.wait(t)

	_, err = svc.Admit(ctx, 90, decimal.NewFromInt(5000))
	assert.ErrorIs(t, err, ErrDuplicateAdmission)

	// Only the first admission was recorded and notified.
	spenders, err := svc.store.ListHighSpenders(ctx)
	require.NoError(t, err)
	require.Len(t, spenders, 1)
	assert.True(t, spenders[0].TotalSpending.Equal(decimal.NewFromInt(2500)))
	assert.Empty(t, notifier.texts)
}

func TestAdmitNotifierFailureDoesNotFailAdmission(t *testing.T) {
	svc, notifier := newRewardFixture(t)
	notifier.err = errors.New("telegram unreachable")

	points, err := svc.Admit(context.Background(), 90, decimal.NewFromInt(1499))
	require.NoError(t, err)
	assert.Equal(t, 1, points)
	notifier.wait(t)

	// The row is committed regardless of delivery.
	spenders, err := svc.store.ListHighSpenders(context.Background())
	require.NoError(t, err)
	assert.Len(t, spenders, 1)
}
