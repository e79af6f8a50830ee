package utils

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/time-register/backend/internal/domain"
)

// ValidateWorkSchedule 检查班表的日期范围、每天的上下班时间和子时间段是否合法
func ValidateWorkSchedule(ws *domain.WorkSchedule) error {
	if ws.EndDate.Before(ws.StartDate) {
		return fmt.Errorf("班表的结束日期不能早于开始日期")
	}

	seenWeekdays := make(map[int32]bool)

	for _, day := range ws.Days {
		if day.Weekday < 1 || day.Weekday > 7 {
			return fmt.Errorf("星期 %d 不合法", day.Weekday)
		}
		if seenWeekdays[day.Weekday] {
			return fmt.Errorf("星期 %d 被定义了多次", day.Weekday)
		}
		seenWeekdays[day.Weekday] = true

		dayStart, err := time.Parse("15:04:05", day.StartTime)
		if err != nil {
			return fmt.Errorf("星期 %d 的上班时间格式错误", day.Weekday)
		}
		dayEnd, err := time.Parse("15:04:05", day.EndTime)
		if err != nil {
			return fmt.Errorf("星期 %d 的下班时间格式错误", day.Weekday)
		}
		if !dayEnd.After(dayStart) {
			return fmt.Errorf("星期 %d 的下班时间必须晚于上班时间", day.Weekday)
		}

		// 检查子时间段是否都落在当天的工作时间内
		for i, segment := range day.Segments {
			segStart, err := time.Parse("15:04:05", segment.StartTime)
			if err != nil {
				return fmt.Errorf("星期 %d 的第 %d 个时间段的开始时间格式错误", day.Weekday, i+1)
			}
			segEnd, err := time.Parse("15:04:05", segment.EndTime)
			if err != nil {
				return fmt.Errorf("星期 %d 的第 %d 个时间段的结束时间格式错误", day.Weekday, i+1)
			}
			if !segEnd.After(segStart) {
				return fmt.Errorf("星期 %d 的第 %d 个时间段的结束时间必须晚于开始时间", day.Weekday, i+1)
			}
			if segStart.Before(dayStart) || segEnd.After(dayEnd) {
				return fmt.Errorf("星期 %d 的第 %d 个时间段超出了当天的工作时间", day.Weekday, i+1)
			}
		}

		// 检查子时间段之间是否有重叠
		for i := 0; i < len(day.Segments); i++ {
			iStart, _ := time.Parse("15:04:05", day.Segments[i].StartTime)
			iEnd, _ := time.Parse("15:04:05", day.Segments[i].EndTime)

			for j := i + 1; j < len(day.Segments); j++ {
				jStart, _ := time.Parse("15:04:05", day.Segments[j].StartTime)
				jEnd, _ := time.Parse("15:04:05", day.Segments[j].EndTime)

				if !(jStart.After(iEnd) || jStart.Equal(iEnd) || iStart.After(jEnd) || iStart.Equal(jEnd)) {
					return fmt.Errorf("星期 %d 的第 %d 个和第 %d 个时间段之间存在重叠", day.Weekday, i+1, j+1)
				}
			}
		}
	}

	return nil
}

// ValidateUserWorkSchedule 检查班表指派的日期范围是否落在班表的生效范围内
func ValidateUserWorkSchedule(assignment *domain.UserWorkSchedule, ws *domain.WorkSchedule) error {
	if assignment.EndDate.Before(assignment.StartDate) {
		return fmt.Errorf("指派的结束日期不能早于开始日期")
	}

	if assignment.StartDate.Before(ws.StartDate) || assignment.EndDate.After(ws.EndDate) {
		return fmt.Errorf("指派的日期范围超出了班表的生效范围")
	}

	return nil
}
