package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/time-register/backend/internal/domain"
)

func validWorkSchedule() *domain.WorkSchedule {
	return &domain.WorkSchedule{
		Name:      "常规班表",
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		Days: []domain.WorkScheduleDay{
			{
				Weekday:   1,
				StartTime: "09:00:00",
				EndTime:   "18:00:00",
				Segments: []domain.WorkScheduleSegment{
					{StartTime: "12:00:00", EndTime: "13:00:00", Description: "午休"},
				},
			},
			{
				Weekday:   2,
				StartTime: "09:00:00",
				EndTime:   "18:00:00",
			},
		},
	}
}

func TestValidateWorkSchedule(t *testing.T) {
	t.Run("合法班表", func(t *testing.T) {
		require.NoError(t, ValidateWorkSchedule(validWorkSchedule()))
	})

	t.Run("结束日期早于开始日期", func(t *testing.T) {
		ws := validWorkSchedule()
		ws.EndDate = ws.StartDate.AddDate(0, 0, -1)
		assert.Error(t, ValidateWorkSchedule(ws))
	})

	t.Run("重复定义同一个星期", func(t *testing.T) {
		ws := validWorkSchedule()
		ws.Days[1].Weekday = 1
		assert.Error(t, ValidateWorkSchedule(ws))
	})

	t.Run("时间格式错误", func(t *testing.T) {
		ws := validWorkSchedule()
		ws.Days[0].StartTime = "9:00"
		assert.Error(t, ValidateWorkSchedule(ws))
	})

	t.Run("下班时间不晚于上班时间", func(t *testing.T) {
		ws := validWorkSchedule()
		ws.Days[0].EndTime = ws.Days[0].StartTime
		assert.Error(t, ValidateWorkSchedule(ws))
	})

	t.Run("子时间段超出工作时间", func(t *testing.T) {
		ws := validWorkSchedule()
		ws.Days[0].Segments[0].EndTime = "19:00:00"
		assert.Error(t, ValidateWorkSchedule(ws))
	})

	t.Run("子时间段之间存在重叠", func(t *testing.T) {
		ws := validWorkSchedule()
		ws.Days[0].Segments = append(ws.Days[0].Segments, domain.WorkScheduleSegment{
			StartTime: "12:30:00",
			EndTime:   "14:00:00",
		})
		assert.Error(t, ValidateWorkSchedule(ws))
	})

	t.Run("子时间段首尾相接不算重叠", func(t *testing.T) {
		ws := validWorkSchedule()
		ws.Days[0].Segments = append(ws.Days[0].Segments, domain.WorkScheduleSegment{
			StartTime: "13:00:00",
			EndTime:   "14:00:00",
		})
		assert.NoError(t, ValidateWorkSchedule(ws))
	})
}

func TestValidateUserWorkSchedule(t *testing.T) {
	ws := validWorkSchedule()

	t.Run("指派范围在班表范围内", func(t *testing.T) {
		assignment := &domain.UserWorkSchedule{
			StartDate: ws.StartDate,
			EndDate:   ws.EndDate,
		}
		assert.NoError(t, ValidateUserWorkSchedule(assignment, ws))
	})

	t.Run("指派的结束日期早于开始日期", func(t *testing.T) {
		assignment := &domain.UserWorkSchedule{
			StartDate: ws.StartDate.AddDate(0, 1, 0),
			EndDate:   ws.StartDate,
		}
		assert.Error(t, ValidateUserWorkSchedule(assignment, ws))
	})

	t.Run("指派范围超出班表范围", func(t *testing.T) {
		assignment := &domain.UserWorkSchedule{
			StartDate: ws.StartDate.AddDate(0, 0, -1),
			EndDate:   ws.EndDate,
		}
		assert.Error(t, ValidateUserWorkSchedule(assignment, ws))
	})
}
