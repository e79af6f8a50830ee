package register

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/time-register/backend/internal/domain"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{59 * time.Second, "00:00:59"},
		{time.Minute, "00:01:00"},
		{8*time.Hour + 40*time.Minute, "08:40:00"},
		{26*time.Hour + 3*time.Minute + 7*time.Second, "26:03:07"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
}

func TestRecalculate_CumulativeDurations(t *testing.T) {
	store := newMemoryStore()
	m := newTestManager(store)

	date := m.dateOf(testClock(0, 0, 0))
	end1 := testClock(12, 0, 0)
	end2 := testClock(17, 30, 0)
	require.NoError(t, store.CreateTimeSlot(&domain.TimeSlot{
		UserID: 1, Date: date, Start: testClock(9, 0, 0), End: &end1, Ordinal: 1, Status: domain.TimeSlotStatusClosed,
	}))
	require.NoError(t, store.CreateTimeSlot(&domain.TimeSlot{
		UserID: 1, Date: date, Start: testClock(13, 0, 0), End: &end2, Ordinal: 2, Status: domain.TimeSlotStatusClosed,
	}))

	require.NoError(t, m.Recalculate(1, date))

	assert.Equal(t, "03:00:00", store.slots[1].Duration)
	assert.Equal(t, "03:00:00", store.slots[1].CumulativeDuration)
	assert.Equal(t, "04:30:00", store.slots[2].Duration)
	assert.Equal(t, "07:30:00", store.slots[2].CumulativeDuration)
}

func TestRecalculate_SkipsOpenSlot(t *testing.T) {
	store := newMemoryStore()
	m := newTestManager(store)

	date := m.dateOf(testClock(0, 0, 0))
	end1 := testClock(12, 0, 0)
	require.NoError(t, store.CreateTimeSlot(&domain.TimeSlot{
		UserID: 1, Date: date, Start: testClock(9, 0, 0), End: &end1, Ordinal: 1, Status: domain.TimeSlotStatusClosed,
	}))
	require.NoError(t, store.CreateTimeSlot(&domain.TimeSlot{
		UserID: 1, Date: date, Start: testClock(13, 0, 0), Ordinal: 2, Status: domain.TimeSlotStatusOpen,
	}))

	require.NoError(t, m.Recalculate(1, date))

	assert.Equal(t, "03:00:00", store.slots[1].CumulativeDuration)
	// 未结束的时间段保持不变
	assert.Empty(t, store.slots[2].Duration)
	assert.Empty(t, store.slots[2].CumulativeDuration)
}

func TestRecalculate_Idempotent(t *testing.T) {
	store := newMemoryStore()
	m := newTestManager(store)

	date := m.dateOf(testClock(0, 0, 0))
	end1 := testClock(12, 0, 0)
	end2 := testClock(18, 0, 0)
	require.NoError(t, store.CreateTimeSlot(&domain.TimeSlot{
		UserID: 1, Date: date, Start: testClock(9, 0, 0), End: &end1, Ordinal: 1, Status: domain.TimeSlotStatusClosed,
	}))
	require.NoError(t, store.CreateTimeSlot(&domain.TimeSlot{
		UserID: 1, Date: date, Start: testClock(14, 0, 0), End: &end2, Ordinal: 2, Status: domain.TimeSlotStatusClosed,
	}))

	require.NoError(t, m.Recalculate(1, date))
	first := []string{
		store.slots[1].Duration, store.slots[1].CumulativeDuration,
		store.slots[2].Duration, store.slots[2].CumulativeDuration,
	}

	require.NoError(t, m.Recalculate(1, date))
	second := []string{
		store.slots[1].Duration, store.slots[1].CumulativeDuration,
		store.slots[2].Duration, store.slots[2].CumulativeDuration,
	}

	assert.Equal(t, first, second)
}

func TestRecalculate_NoClosedSlotsIsNoop(t *testing.T) {
	store := newMemoryStore()
	m := newTestManager(store)

	date := m.dateOf(testClock(0, 0, 0))
	require.NoError(t, m.Recalculate(1, date))
}
