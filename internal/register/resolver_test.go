package register

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/time-register/backend/internal/domain"
)

func TestResolveSlot_NoSlotToday(t *testing.T) {
	store := newMemoryStore()
	m := newTestManager(store)

	res, err := m.resolveSlot(1, testClock(10, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, resolutionNoSlot, res.Code)
	assert.Nil(t, res.Slot)
	assert.Equal(t, EventEntry, res.eventKind())
}

func TestResolveSlot_OpenSlot(t *testing.T) {
	store := newMemoryStore()
	m := newTestManager(store)

	slot := &domain.TimeSlot{
		UserID:  1,
		Date:    m.dateOf(testClock(10, 0, 0)),
		Start:   testClock(9, 0, 0),
		Ordinal: 1,
		Status:  domain.TimeSlotStatusOpen,
	}
	require.NoError(t, store.CreateTimeSlot(slot))

	res, err := m.resolveSlot(1, testClock(12, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, resolutionOpenSlot, res.Code)
	require.NotNil(t, res.Slot)
	assert.Equal(t, slot.ID, res.Slot.ID)
	assert.Equal(t, EventExit, res.eventKind())
}

func TestResolveSlot_ClosedSlot(t *testing.T) {
	store := newMemoryStore()
	m := newTestManager(store)

	end := testClock(12, 0, 0)
	slot := &domain.TimeSlot{
		UserID:  1,
		Date:    m.dateOf(end),
		Start:   testClock(9, 0, 0),
		End:     &end,
		Ordinal: 1,
		Status:  domain.TimeSlotStatusClosed,
	}
	require.NoError(t, store.CreateTimeSlot(slot))

	res, err := m.resolveSlot(1, testClock(14, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, resolutionClosedSlot, res.Code)
	require.NotNil(t, res.Slot)
	assert.Equal(t, EventEntry, res.eventKind())
}

func TestResolveSlot_SpuriousSlotRemoved(t *testing.T) {
	store := newMemoryStore()
	m := newTestManager(store)

	start := testClock(10, 0, 0)
	slot := &domain.TimeSlot{
		UserID:  1,
		Date:    m.dateOf(start),
		Start:   start,
		Ordinal: 1,
		Status:  domain.TimeSlotStatusOpen,
	}
	require.NoError(t, store.CreateTimeSlot(slot))

	// 距开始 59 秒，视为误触并删除
	res, err := m.resolveSlot(1, testClock(10, 0, 59))
	require.NoError(t, err)
	assert.Equal(t, resolutionSlotRemoved, res.Code)
	assert.Nil(t, res.Slot)
	assert.Empty(t, store.slots)
}

func TestResolveSlot_ExactlyOneMinuteIsNotSpurious(t *testing.T) {
	store := newMemoryStore()
	m := newTestManager(store)

	start := testClock(10, 0, 0)
	slot := &domain.TimeSlot{
		UserID:  1,
		Date:    m.dateOf(start),
		Start:   start,
		Ordinal: 1,
		Status:  domain.TimeSlotStatusOpen,
	}
	require.NoError(t, store.CreateTimeSlot(slot))

	res, err := m.resolveSlot(1, start.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, resolutionOpenSlot, res.Code)
	assert.Len(t, store.slots, 1)
}

func TestResolveSlot_ReturnsLatestByOrdinal(t *testing.T) {
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

	res, err := m.resolveSlot(1, testClock(17, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, resolutionOpenSlot, res.Code)
	assert.Equal(t, int32(2), res.Slot.Ordinal)
}
