package register

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/time-register/backend/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{ID: 1, Username: "zhangsan", FullName: "张三", CompanyID: 1}
}

// 为用户 1 指派一份周一 09:00-17:00 的班表
func setupSchedule(store *memoryStore) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, testLoc)
	store.assignments = append(store.assignments, &domain.UserWorkSchedule{
		ID:             1,
		UserID:         1,
		WorkScheduleID: 10,
		StartDate:      date.AddDate(0, 0, -30),
		EndDate:        date.AddDate(0, 0, 30),
	})
	store.days[10] = []*domain.WorkScheduleDay{
		{ID: 1, Weekday: 1, StartTime: "09:00:00", EndTime: "17:00:00"},
	}
}

func TestHandleClockEvent_EntryWithinMarginRoundsToScheduleStart(t *testing.T) {
	store := newMemoryStore()
	setupSchedule(store)
	m := newTestManager(store)

	result, err := m.HandleClockEvent(testUser(), "", nil, true, testClock(8, 50, 0))
	require.NoError(t, err)
	assert.Equal(t, 200, result.Code)

	require.Len(t, store.slots, 1)
	slot := store.slots[1]
	assert.True(t, slot.Start.Equal(testClock(9, 0, 0)))
	assert.Equal(t, domain.TimeSlotStatusOpen, slot.Status)
	assert.Equal(t, domain.ClassificationNormal, slot.Classification)
	assert.Equal(t, domain.JustificationCompleted, slot.Justification)
	assert.Equal(t, int32(1), slot.Ordinal)
}

func TestHandleClockEvent_LateExitBecomesExtraAfter(t *testing.T) {
	store := newMemoryStore()
	setupSchedule(store)
	m := newTestManager(store)
	user := testUser()

	_, err := m.HandleClockEvent(user, "", nil, true, testClock(8, 50, 0))
	require.NoError(t, err)

	result, err := m.HandleClockEvent(user, "", nil, true, testClock(17, 40, 0))
	require.NoError(t, err)
	assert.Equal(t, 200, result.Code)

	slot := store.slots[1]
	assert.Equal(t, domain.TimeSlotStatusClosed, slot.Status)
	require.NotNil(t, slot.End)
	// 超出容差窗口，不做取整
	assert.True(t, slot.End.Equal(testClock(17, 40, 0)))
	assert.Equal(t, domain.ClassificationExtraAfter, slot.Classification)
	assert.Equal(t, domain.JustificationPending, slot.Justification)
	assert.Equal(t, "08:40:00", slot.Duration)
	assert.Equal(t, "08:40:00", slot.CumulativeDuration)
}

func TestHandleClockEvent_PendingGateBlocksNewClockIn(t *testing.T) {
	store := newMemoryStore()
	setupSchedule(store)
	m := newTestManager(store)

	date := m.dateOf(testClock(0, 0, 0))
	for i := 1; i <= 2; i++ {
		end := testClock(18, 0, 0).AddDate(0, 0, -i)
		require.NoError(t, store.CreateTimeSlot(&domain.TimeSlot{
			UserID:        1,
			Date:          date.AddDate(0, 0, -i),
			Start:         testClock(9, 0, 0).AddDate(0, 0, -i),
			End:           &end,
			Ordinal:       1,
			Status:        domain.TimeSlotStatusClosed,
			Justification: domain.JustificationPending,
		}))
	}

	result, err := m.HandleClockEvent(testUser(), "", nil, true, testClock(9, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 400, result.Code)
	// 不应创建任何新的时间段
	assert.Len(t, store.slots, 2)
}

func TestHandleClockEvent_NoScheduleUnderEnforcementLeavesPending(t *testing.T) {
	store := newMemoryStore()
	m := newTestManager(store)

	result, err := m.HandleClockEvent(testUser(), "", nil, true, testClock(10, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 200, result.Code)

	slot := store.slots[1]
	assert.Equal(t, domain.ClassificationNormal, slot.Classification)
	assert.Equal(t, domain.JustificationPending, slot.Justification)
	assert.True(t, slot.Start.Equal(testClock(10, 0, 0)))
}

func TestHandleClockEvent_EnforcementDisabled(t *testing.T) {
	store := newMemoryStore()
	m := newTestManager(store)

	result, err := m.HandleClockEvent(testUser(), "加班", nil, false, testClock(22, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 200, result.Code)

	slot := store.slots[1]
	assert.Equal(t, domain.ClassificationNormal, slot.Classification)
	assert.Equal(t, domain.JustificationCompleted, slot.Justification)
	assert.Equal(t, "加班", slot.Comment)
}

func TestHandleClockEvent_ProjectNotFound(t *testing.T) {
	store := newMemoryStore()
	m := newTestManager(store)

	projectID := int64(42)
	result, err := m.HandleClockEvent(testUser(), "", &projectID, false, testClock(9, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 400, result.Code)
	assert.Empty(t, store.slots)
}

func TestHandleClockEvent_SpuriousSlotRemoved(t *testing.T) {
	store := newMemoryStore()
	m := newTestManager(store)
	user := testUser()

	_, err := m.HandleClockEvent(user, "", nil, false, testClock(10, 0, 0))
	require.NoError(t, err)
	require.Len(t, store.slots, 1)

	result, err := m.HandleClockEvent(user, "", nil, false, testClock(10, 0, 59))
	require.NoError(t, err)
	assert.Equal(t, 400, result.Code)
	assert.Empty(t, store.slots)
}

// 任意打卡序列之后，每个用户每天最多只有一个未结束的时间段，
// 且时间段序号从 1 开始稠密递增
func TestHandleClockEvent_SingleOpenInvariantAndOrdinalDensity(t *testing.T) {
	store := newMemoryStore()
	m := newTestManager(store)
	user := testUser()

	times := []time.Time{
		testClock(9, 0, 0),
		testClock(12, 0, 0),
		testClock(13, 0, 0),
		testClock(17, 30, 0),
		testClock(19, 0, 0),
	}
	for _, now := range times {
		result, err := m.HandleClockEvent(user, "", nil, false, now)
		require.NoError(t, err)
		require.Equal(t, 200, result.Code)
	}

	slots, err := store.GetTimeSlotsByUserAndDate(1, m.dateOf(testClock(0, 0, 0)))
	require.NoError(t, err)
	require.Len(t, slots, 3)

	openCount := 0
	for i, slot := range slots {
		assert.Equal(t, int32(i+1), slot.Ordinal)
		if slot.Status == domain.TimeSlotStatusOpen {
			openCount++
			assert.Nil(t, slot.End)
		} else {
			assert.NotNil(t, slot.End)
		}
	}
	assert.Equal(t, 1, openCount)
}

func TestHandleManualEntry_ExtraBeforeWithEnforcement(t *testing.T) {
	store := newMemoryStore()
	setupSchedule(store)
	m := newTestManager(store)

	result, err := m.HandleManualEntry(testUser(), nil, testClock(8, 0, 0), testClock(12, 0, 0), true)
	require.NoError(t, err)
	assert.Equal(t, 200, result.Code)

	require.Len(t, store.slots, 1)
	slot := store.slots[1]
	assert.Equal(t, domain.TimeSlotStatusClosed, slot.Status)
	assert.Equal(t, domain.ClassificationExtraBefore, slot.Classification)
	assert.Equal(t, domain.JustificationPending, slot.Justification)
	// 补录不做取整，保留原始边界
	assert.True(t, slot.Start.Equal(testClock(8, 0, 0)))
	assert.True(t, slot.End.Equal(testClock(12, 0, 0)))
	assert.Equal(t, "手动补录", slot.Comment)
	assert.Equal(t, "04:00:00", slot.Duration)
}

func TestHandleManualEntry_NoScheduleUnderEnforcementIsRejected(t *testing.T) {
	store := newMemoryStore()
	m := newTestManager(store)

	result, err := m.HandleManualEntry(testUser(), nil, testClock(9, 0, 0), testClock(12, 0, 0), true)
	require.NoError(t, err)
	assert.Equal(t, 404, result.Code)
	assert.Empty(t, store.slots)
}

func TestHandleManualEntry_EnforcementDisabled(t *testing.T) {
	store := newMemoryStore()
	m := newTestManager(store)

	result, err := m.HandleManualEntry(testUser(), nil, testClock(20, 0, 0), testClock(22, 0, 0), false)
	require.NoError(t, err)
	assert.Equal(t, 200, result.Code)

	slot := store.slots[1]
	assert.Equal(t, domain.ClassificationNormal, slot.Classification)
	assert.Equal(t, domain.JustificationCompleted, slot.Justification)
}

func TestHandleManualEntry_EndMustBeAfterStart(t *testing.T) {
	store := newMemoryStore()
	m := newTestManager(store)

	result, err := m.HandleManualEntry(testUser(), nil, testClock(12, 0, 0), testClock(12, 0, 0), false)
	require.NoError(t, err)
	assert.Equal(t, 400, result.Code)
	assert.Empty(t, store.slots)
}

func TestHandleManualEntry_OrdinalFollowsExistingSlots(t *testing.T) {
	store := newMemoryStore()
	m := newTestManager(store)
	user := testUser()

	_, err := m.HandleClockEvent(user, "", nil, false, testClock(9, 0, 0))
	require.NoError(t, err)
	_, err = m.HandleClockEvent(user, "", nil, false, testClock(12, 0, 0))
	require.NoError(t, err)

	result, err := m.HandleManualEntry(user, nil, testClock(14, 0, 0), testClock(16, 0, 0), false)
	require.NoError(t, err)
	require.Equal(t, 200, result.Code)
	assert.Equal(t, int32(2), result.Slot.Ordinal)
}

func TestJustify(t *testing.T) {
	store := newMemoryStore()
	m := newTestManager(store)
	user := testUser()

	end := testClock(18, 0, 0)
	slot := &domain.TimeSlot{
		UserID:        1,
		Date:          m.dateOf(end),
		Start:         testClock(17, 0, 0),
		End:           &end,
		Ordinal:       1,
		Status:        domain.TimeSlotStatusClosed,
		Justification: domain.JustificationPending,
	}
	require.NoError(t, store.CreateTimeSlot(slot))

	result, err := m.Justify(user, slot.ID, "处理线上故障", domain.ExtraSegmentOvertime)
	require.NoError(t, err)
	assert.Equal(t, 200, result.Code)

	assert.Equal(t, domain.JustificationCompleted, slot.Justification)
	assert.Equal(t, "处理线上故障", slot.Comment)

	require.Len(t, store.segments, 1)
	segment := store.segments[0]
	assert.Equal(t, domain.ExtraSegmentOvertime, segment.Type)
	assert.True(t, segment.Start.Equal(slot.Start))
	require.NotNil(t, segment.End)
	assert.True(t, segment.End.Equal(*slot.End))
}

func TestJustify_SlotNotFound(t *testing.T) {
	store := newMemoryStore()
	m := newTestManager(store)

	result, err := m.Justify(testUser(), 99, "说明", domain.ExtraSegmentOvertime)
	require.NoError(t, err)
	assert.Equal(t, 404, result.Code)
}

func TestJustify_OtherUsersSlotIsInvisible(t *testing.T) {
	store := newMemoryStore()
	m := newTestManager(store)

	slot := &domain.TimeSlot{
		UserID:        2,
		Date:          m.dateOf(testClock(0, 0, 0)),
		Start:         testClock(9, 0, 0),
		Ordinal:       1,
		Status:        domain.TimeSlotStatusOpen,
		Justification: domain.JustificationPending,
	}
	require.NoError(t, store.CreateTimeSlot(slot))

	result, err := m.Justify(testUser(), slot.ID, "说明", domain.ExtraSegmentOvertime)
	require.NoError(t, err)
	assert.Equal(t, 404, result.Code)
}

func TestJustify_SegmentFailureKeepsSlotPending(t *testing.T) {
	store := newMemoryStore()
	store.segmentErr = errSegmentRejected
	m := newTestManager(store)

	slot := &domain.TimeSlot{
		UserID:        1,
		Date:          m.dateOf(testClock(0, 0, 0)),
		Start:         testClock(9, 0, 0),
		Ordinal:       1,
		Status:        domain.TimeSlotStatusOpen,
		Justification: domain.JustificationPending,
	}
	require.NoError(t, store.CreateTimeSlot(slot))

	_, err := m.Justify(testUser(), slot.ID, "说明", domain.ExtraSegmentOvertime)
	require.ErrorIs(t, err, errSegmentRejected)
	assert.Equal(t, domain.JustificationPending, slot.Justification)
	assert.Empty(t, store.segments)
}
