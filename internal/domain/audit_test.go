package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldPolicy_Filter(t *testing.T) {
	values := map[string]interface{}{
		"id":             1,
		"email":          "a@b.mx",
		"password":       "hash",
		"remember_token": "tok",
		"created_at":     "2025-01-01",
		"updated_at":     "2025-01-01",
		"name":           "Ana",
	}

	t.Run("deny only", func(t *testing.T) {
		got := FieldPolicy{Deny: []string{"email"}}.Filter(values)
		assert.Equal(t, map[string]interface{}{"id": 1, "name": "Ana"}, got)
	})

	t.Run("allow list never admits secrets", func(t *testing.T) {
		got := FieldPolicy{Allow: []string{"id", "password", "updated_at"}}.Filter(values)
		assert.Equal(t, map[string]interface{}{"id": 1}, got)
	})

	t.Run("nil input", func(t *testing.T) {
		assert.Nil(t, FieldPolicy{}.Filter(nil))
	})
}

func TestAuditValues_UsesJSONNames(t *testing.T) {
	now := time.Date(2025, 12, 12, 20, 0, 0, 0, time.UTC)
	pid := uint(3)
	entry := RaffleEntry{ID: 7, GuestID: 2, PrizeID: &pid, Status: EntryStatusWon, DrawnAt: &now}

	got := PolicyFor(EntityRaffleEntry).Filter(AuditValues(entry))
	require.NotNil(t, got)
	assert.Equal(t, "won", got["status"])
	assert.EqualValues(t, 3, got["prize_id"])
	assert.NotContains(t, got, "created_at")
	assert.NotContains(t, got, "participated_at")
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(0, 0))
	assert.Equal(t, 40.0, Percentage(4, 10))
	assert.Equal(t, 33.33, Percentage(1, 3))
	assert.Equal(t, 66.67, Percentage(2, 3))
}
