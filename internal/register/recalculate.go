package register

import (
	"fmt"
	"time"
)

// Recalculate 重算某个用户某一天所有时间段的时长字段。
// 打卡和补录成功后会自动触发，管理端修改记录后也可以单独调用
func (m *Manager) Recalculate(userID int64, date time.Time) error {
	unlock := m.lockUser(userID)
	defer unlock()

	return m.recalculate(userID, m.dateOf(date))
}

// recalculate 按时间段顺序累计时长，结果写回每个时间段的
// Duration 和 CumulativeDuration 字段。重复执行结果不变
func (m *Manager) recalculate(userID int64, date time.Time) error {
	slots, err := m.store.GetTimeSlotsByUserAndDate(userID, date)
	if err != nil {
		return err
	}

	var total time.Duration
	updated := slots[:0]
	for _, slot := range slots {
		// 仍未结束的时间段不参与统计，也不会被修改
		if slot.End == nil {
			continue
		}
		d := slot.End.Sub(slot.Start)
		total += d
		slot.Duration = formatDuration(d)
		slot.CumulativeDuration = formatDuration(total)
		updated = append(updated, slot)
	}

	if len(updated) == 0 {
		return nil
	}

	return m.store.UpdateTimeSlotDurations(updated)
}

// formatDuration 把时长格式化为 HH:MM:SS，小时数可以超过 24
func formatDuration(d time.Duration) string {
	secs := int64(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}
