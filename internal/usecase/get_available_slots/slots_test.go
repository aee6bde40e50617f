package get_available_slots

import (
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// 2025-06-02 понедельник
var monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func TestGenerateSlots(t *testing.T) {
	tests := []struct {
		name  string
		hours domain.OpeningHours
		want  []types.TimeString
	}{
		{
			name:  "morning hours",
			hours: domain.OpeningHours{"monday": {Open: "09:00", Close: "11:00"}},
			want:  []types.TimeString{"09:00", "09:30", "10:00", "10:30"},
		},
		{
			name:  "close off the grid",
			hours: domain.OpeningHours{"monday": {Open: "09:00", Close: "10:15"}},
			want:  []types.TimeString{"09:00", "09:30", "10:00"},
		},
		{
			name:  "open off the grid",
			hours: domain.OpeningHours{"monday": {Open: "09:15", Close: "10:00"}},
			want:  []types.TimeString{"09:15", "09:45"},
		},
		{
			name:  "closed day",
			hours: domain.OpeningHours{"monday": {Open: "09:00", Close: "18:00", Closed: true}},
			want:  nil,
		},
		{
			name:  "missing day",
			hours: domain.OpeningHours{"tuesday": {Open: "09:00", Close: "18:00"}},
			want:  nil,
		},
		{
			name:  "nil hours",
			hours: nil,
			want:  nil,
		},
		{
			name:  "open equals close",
			hours: domain.OpeningHours{"monday": {Open: "09:00", Close: "09:00"}},
			want:  nil,
		},
		{
			name:  "open after close",
			hours: domain.OpeningHours{"monday": {Open: "18:00", Close: "09:00"}},
			want:  nil,
		},
		{
			name:  "malformed open",
			hours: domain.OpeningHours{"monday": {Open: "nine", Close: "18:00"}},
			want:  nil,
		},
		{
			name:  "out of range close",
			hours: domain.OpeningHours{"monday": {Open: "09:00", Close: "25:00"}},
			want:  nil,
		},
		{
			name:  "late evening",
			hours: domain.OpeningHours{"monday": {Open: "22:30", Close: "23:59"}},
			want:  []types.TimeString{"22:30", "23:00", "23:30"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(GenerateSlots(monday, tt.hours, domain.DefaultSlotStepMinutes))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("GenerateSlots() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGenerateSlotsIsRestartable(t *testing.T) {
	seq := GenerateSlots(monday, domain.OpeningHours{"monday": {Open: "09:00", Close: "11:00"}}, 30)

	first := slices.Collect(seq)
	second := slices.Collect(seq)

	assert.Equal(t, first, second)

	// Досрочный выход не ломает следующий проход
	for range seq {
		break
	}
	assert.Len(t, slices.Collect(seq), 4)
}

func TestGenerateSlotsUsesDateCalendarDay(t *testing.T) {
	// 2025-06-02 00:30 в Москве это ещё 1 июня (воскресенье) в UTC
	moscow := time.FixedZone("MSK", 3*60*60)
	date := time.Date(2025, 6, 2, 0, 30, 0, 0, moscow)
	hours := domain.OpeningHours{
		"monday": {Open: "09:00", Close: "10:00"},
		"sunday": {Closed: true},
	}

	got := slices.Collect(GenerateSlots(date, hours, 30))

	assert.Equal(t, []types.TimeString{"09:00", "09:30"}, got)
}

func TestIsOnGrid(t *testing.T) {
	hours := domain.OpeningHours{"monday": {Open: "09:00", Close: "11:00"}}

	assert.True(t, IsOnGrid(monday, hours, 30, "10:30"))
	assert.False(t, IsOnGrid(monday, hours, 30, "10:15"))
	assert.False(t, IsOnGrid(monday, hours, 30, "11:00"))
	assert.False(t, IsOnGrid(monday.AddDate(0, 0, 1), hours, 30, "10:00"))
}

func TestFilterAvailableRemovesOccupied(t *testing.T) {
	candidates := slices.Values([]types.TimeString{"09:00", "09:30", "10:00"})
	now := monday.AddDate(0, 0, -7)

	got := FilterAvailable(monday, candidates, []types.TimeString{"09:30"}, now, time.Hour, time.UTC)

	assert.Equal(t, []types.TimeString{"09:00", "10:00"}, got)
}

func TestFilterAvailableToday(t *testing.T) {
	hours := domain.OpeningHours{"monday": {Open: "09:00", Close: "13:00"}}
	now := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)

	got := FilterAvailable(monday, GenerateSlots(monday, hours, 30), nil, now, time.Hour, time.UTC)

	// 10:30 == now + 60m исключается, позже остаются
	assert.Equal(t, []types.TimeString{"11:00", "11:30", "12:00", "12:30"}, got)
}

func TestFilterAvailableRespectsSalonLocation(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	hours := domain.OpeningHours{"monday": {Open: "09:00", Close: "13:00"}}
	// 08:00 UTC = 11:00 MSK
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

	got := FilterAvailable(monday, GenerateSlots(monday, hours, 30), nil, now, time.Hour, moscow)

	assert.Equal(t, []types.TimeString{"12:30"}, got)
}

func TestFilterAvailablePastDateIsEmpty(t *testing.T) {
	hours := domain.OpeningHours{"monday": {Open: "09:00", Close: "18:00"}}
	now := monday.AddDate(0, 0, 1)

	got := FilterAvailable(monday, GenerateSlots(monday, hours, 30), nil, now, time.Hour, time.UTC)

	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestFilterAvailableFutureDateKeepsAll(t *testing.T) {
	hours := domain.OpeningHours{"monday": {Open: "09:00", Close: "11:00"}}
	now := time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC)

	got := FilterAvailable(monday, GenerateSlots(monday, hours, 30), nil, now, time.Hour, time.UTC)

	assert.Equal(t, []types.TimeString{"09:00", "09:30", "10:00", "10:30"}, got)
}
