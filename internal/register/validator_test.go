package register

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/time-register/backend/internal/config"
	"github.com/sysu-ecnc-dev/time-register/backend/internal/domain"
)

var testLoc = time.FixedZone("CST", 8*3600)

// 2025-03-10 是周一
func testClock(hour, min, sec int) time.Time {
	return time.Date(2025, 3, 10, hour, min, sec, 0, testLoc)
}

func newTestManager(store Store) *Manager {
	cfg := &config.Config{}
	cfg.Register.MarginMinutes = 15
	cfg.Register.MinSlotSeconds = 60
	return NewManager(cfg, testLoc, store)
}

func TestClassifyEvent(t *testing.T) {
	dayStart := testClock(9, 0, 0)
	dayEnd := testClock(17, 0, 0)
	margin := 15 * time.Minute

	tests := []struct {
		name           string
		event          time.Time
		kind           EventKind
		wantCode       int
		wantClass      domain.TimeSlotClassification
		wantAdjustedTo *time.Time
	}{
		{
			name:           "上班时刻前 10 分钟上班打卡取整到上班时刻",
			event:          testClock(8, 50, 0),
			kind:           EventEntry,
			wantCode:       ValidationOK,
			wantClass:      domain.ClassificationNormal,
			wantAdjustedTo: &dayStart,
		},
		{
			name:      "上班时刻前 20 分钟上班打卡算提前加班",
			event:     testClock(8, 40, 0),
			kind:      EventEntry,
			wantCode:  ValidationExtraBefore,
			wantClass: domain.ClassificationExtraBefore,
		},
		{
			name:      "上班时刻前的下班打卡算提前加班",
			event:     testClock(8, 50, 0),
			kind:      EventExit,
			wantCode:  ValidationExtraBefore,
			wantClass: domain.ClassificationExtraBefore,
		},
		{
			name:           "下班时刻整点下班打卡正常",
			event:          testClock(17, 0, 0),
			kind:           EventExit,
			wantCode:       ValidationOK,
			wantClass:      domain.ClassificationNormal,
			wantAdjustedTo: &dayEnd,
		},
		{
			name:      "下班时刻一秒之后下班打卡算延后加班",
			event:     testClock(17, 0, 1),
			kind:      EventExit,
			wantCode:  ValidationExtraAfter,
			wantClass: domain.ClassificationExtraAfter,
		},
		{
			name:      "下班 40 分钟后下班打卡算延后加班且不取整",
			event:     testClock(17, 40, 0),
			kind:      EventExit,
			wantCode:  ValidationExtraAfter,
			wantClass: domain.ClassificationExtraAfter,
		},
		{
			name:      "下班时刻之后的上班打卡算延后加班",
			event:     testClock(18, 0, 0),
			kind:      EventEntry,
			wantCode:  ValidationExtraAfter,
			wantClass: domain.ClassificationExtraAfter,
		},
		{
			name:      "工作时间内的打卡正常且不取整",
			event:     testClock(12, 30, 0),
			kind:      EventEntry,
			wantCode:  ValidationOK,
			wantClass: domain.ClassificationNormal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyEvent(dayStart, dayEnd, tt.event, tt.kind, margin)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantClass, got.Classification)
			if tt.wantAdjustedTo != nil {
				require.NotNil(t, got.AdjustedTime)
				assert.True(t, got.AdjustedTime.Equal(*tt.wantAdjustedTo))
			} else {
				assert.Nil(t, got.AdjustedTime)
			}
		})
	}
}

func TestClassifyRange(t *testing.T) {
	dayStart := testClock(9, 0, 0)
	dayEnd := testClock(17, 0, 0)

	tests := []struct {
		name       string
		rangeStart time.Time
		rangeEnd   time.Time
		wantCode   int
		wantClass  domain.TimeSlotClassification
		wantJust   domain.JustificationStatus
	}{
		{
			name:       "早于上班时刻开始的补录算提前加班",
			rangeStart: testClock(8, 0, 0),
			rangeEnd:   testClock(12, 0, 0),
			wantCode:   ValidationExtraBefore,
			wantClass:  domain.ClassificationExtraBefore,
			wantJust:   domain.JustificationPending,
		},
		{
			name:       "晚于下班时刻结束的补录算延后加班",
			rangeStart: testClock(10, 0, 0),
			rangeEnd:   testClock(18, 0, 0),
			wantCode:   ValidationExtraAfter,
			wantClass:  domain.ClassificationExtraAfter,
			wantJust:   domain.JustificationPending,
		},
		{
			name:       "完全处于工作时间内的补录无需说明",
			rangeStart: testClock(9, 0, 0),
			rangeEnd:   testClock(17, 0, 0),
			wantCode:   ValidationOK,
			wantClass:  domain.ClassificationNormal,
			wantJust:   domain.JustificationCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyRange(dayStart, dayEnd, tt.rangeStart, tt.rangeEnd)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantClass, got.Classification)
			assert.Equal(t, tt.wantJust, got.Justification)
		})
	}
}

func TestClassifyEventAgainstSchedule_NoSchedule(t *testing.T) {
	store := newMemoryStore()
	m := newTestManager(store)

	// 没有任何班表指派
	got, err := m.classifyEventAgainstSchedule(1, testClock(10, 0, 0), EventEntry)
	require.NoError(t, err)
	assert.Equal(t, ValidationNoSchedule, got.Code)
	assert.Equal(t, domain.ClassificationNormal, got.Classification)

	// 有班表指派但班表中没有周一
	store.assignments = append(store.assignments, &domain.UserWorkSchedule{
		ID: 1, UserID: 1, WorkScheduleID: 7,
		StartDate: testClock(0, 0, 0).AddDate(0, 0, -30),
		EndDate:   testClock(0, 0, 0).AddDate(0, 0, 30),
	})
	store.days[7] = []*domain.WorkScheduleDay{{ID: 1, Weekday: 2, StartTime: "09:00:00", EndTime: "17:00:00"}}

	got, err = m.classifyEventAgainstSchedule(1, testClock(10, 0, 0), EventEntry)
	require.NoError(t, err)
	assert.Equal(t, ValidationNoSchedule, got.Code)
}

func TestIsoWeekday(t *testing.T) {
	assert.Equal(t, int32(1), isoWeekday(testClock(12, 0, 0)))                   // 周一
	assert.Equal(t, int32(7), isoWeekday(testClock(12, 0, 0).AddDate(0, 0, 6))) // 周日
}
