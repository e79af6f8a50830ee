package register

import (
	"database/sql"
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/time-register/backend/internal/domain"
)

// 时间段解析结果码
const (
	resolutionOpenSlot    = 200 // 找到未结束的时间段，本次打卡将把它结束
	resolutionClosedSlot  = 201 // 最近的时间段已结束，本次打卡将开启新的时间段
	resolutionNoSlot      = 203 // 当天还没有任何时间段
	resolutionSlotRemoved = 400 // 未结束的时间段与当前时刻间隔过短，已被删除
)

type resolution struct {
	Code int
	Slot *domain.TimeSlot
}

// eventKind 把解析结果映射为打卡事件类型：
// 结束已有时间段是下班事件，其余情况都是上班事件
func (r *resolution) eventKind() EventKind {
	if r.Code == resolutionOpenSlot {
		return EventExit
	}
	return EventEntry
}

// resolveSlot 检查用户当天最近的一个时间段，决定本次打卡的动作。
// 未结束的时间段如果距离其开始时刻不足 minSlot，视为连续误触产生的噪声，直接删除
func (m *Manager) resolveSlot(userID int64, now time.Time) (*resolution, error) {
	slot, err := m.store.GetLatestTimeSlot(userID, m.dateOf(now))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &resolution{Code: resolutionNoSlot}, nil
		}
		return nil, err
	}

	if slot.Status == domain.TimeSlotStatusOpen {
		if now.Sub(slot.Start) < m.minSlot {
			if err := m.store.DeleteTimeSlot(slot.ID); err != nil {
				return nil, err
			}
			return &resolution{Code: resolutionSlotRemoved}, nil
		}
		return &resolution{Code: resolutionOpenSlot, Slot: slot}, nil
	}

	return &resolution{Code: resolutionClosedSlot, Slot: slot}, nil
}
