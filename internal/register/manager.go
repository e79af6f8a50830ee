package register

import (
	"database/sql"
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/time-register/backend/internal/domain"
)

// HandleClockEvent 处理一次打卡，applySchedule 为该用户所属公司的班表校验开关。
// 返回的 Result 中的错误以结果码形式表达，只有存储层的故障才会以 error 返回
func (m *Manager) HandleClockEvent(user *domain.User, comment string, projectID *int64, applySchedule bool, now time.Time) (*Result, error) {
	now = now.In(m.loc)

	if projectID != nil {
		if _, err := m.store.GetProjectByID(*projectID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &Result{Code: 400, Message: "项目不存在"}, nil
			}
			return nil, err
		}
	}

	unlock := m.lockUser(user.ID)
	defer unlock()

	res, err := m.resolveSlot(user.ID, now)
	if err != nil {
		return nil, err
	}
	if res.Code == resolutionSlotRemoved {
		return &Result{Code: 400, Message: "上一条打卡与其开始时刻间隔不足一分钟，已被删除"}, nil
	}

	kind := res.eventKind()

	validation := EventValidation{Code: ValidationOK, Classification: domain.ClassificationNormal}
	if applySchedule {
		blocked, err := m.hasPendingRegisters(user.ID, now)
		if err != nil {
			return nil, err
		}
		if blocked {
			return &Result{Code: 400, Message: "存在待说明的打卡记录，请先对其进行说明"}, nil
		}

		validation, err = m.classifyEventAgainstSchedule(user.ID, now, kind)
		if err != nil {
			return nil, err
		}
	}

	eventTime := now
	if validation.AdjustedTime != nil {
		eventTime = *validation.AdjustedTime
	}

	// 只有班表校验通过（或未启用校验）的打卡才视为无需说明
	justification := domain.JustificationPending
	if validation.Code == ValidationOK {
		justification = domain.JustificationCompleted
	}

	date := m.dateOf(now)
	var slot *domain.TimeSlot

	switch res.Code {
	case resolutionOpenSlot:
		slot = res.Slot
		end := eventTime
		slot.End = &end
		slot.Status = domain.TimeSlotStatusClosed
		slot.Classification = validation.Classification
		slot.Justification = justification
		if comment != "" {
			slot.Comment = comment
		}
		if err := m.store.UpdateTimeSlot(slot); err != nil {
			return nil, err
		}
	case resolutionClosedSlot, resolutionNoSlot:
		var ordinal int32 = 1
		if res.Slot != nil {
			ordinal = res.Slot.Ordinal + 1
		}
		slot = &domain.TimeSlot{
			UserID:         user.ID,
			Date:           date,
			Start:          eventTime,
			Ordinal:        ordinal,
			Comment:        comment,
			Status:         domain.TimeSlotStatusOpen,
			Classification: validation.Classification,
			Justification:  justification,
			ProjectID:      projectID,
		}
		if err := m.store.CreateTimeSlot(slot); err != nil {
			return nil, err
		}
	}

	if err := m.recalculate(user.ID, date); err != nil {
		return nil, err
	}

	return &Result{Code: 200, Message: "打卡成功", Slot: slot}, nil
}

// HandleManualEntry 补录一段完整的工作时间。
// 与打卡路径不同，启用班表校验时补录必须存在对应的班表，否则拒绝
func (m *Manager) HandleManualEntry(user *domain.User, projectID *int64, start, end time.Time, applySchedule bool) (*Result, error) {
	start = start.In(m.loc)
	end = end.In(m.loc)

	if !end.After(start) {
		return &Result{Code: 400, Message: "结束时刻必须晚于开始时刻"}, nil
	}

	if projectID != nil {
		if _, err := m.store.GetProjectByID(*projectID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &Result{Code: 400, Message: "项目不存在"}, nil
			}
			return nil, err
		}
	}

	unlock := m.lockUser(user.ID)
	defer unlock()

	classification := domain.ClassificationNormal
	justification := domain.JustificationCompleted
	if applySchedule {
		validation, err := m.classifyRangeAgainstSchedule(user.ID, start, end)
		if err != nil {
			return nil, err
		}
		if validation.Code == ValidationNoSchedule {
			return &Result{Code: 404, Message: "该日期没有生效的班表，无法补录"}, nil
		}
		classification = validation.Classification
		justification = validation.Justification
	}

	date := m.dateOf(start)

	var ordinal int32 = 1
	latest, err := m.store.GetLatestTimeSlot(user.ID, date)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if latest != nil {
		ordinal = latest.Ordinal + 1
	}

	slot := &domain.TimeSlot{
		UserID:         user.ID,
		Date:           date,
		Start:          start,
		End:            &end,
		Ordinal:        ordinal,
		Comment:        "手动补录",
		Status:         domain.TimeSlotStatusClosed,
		Classification: classification,
		Justification:  justification,
		ProjectID:      projectID,
	}
	if err := m.store.CreateTimeSlot(slot); err != nil {
		return nil, err
	}

	if err := m.recalculate(user.ID, date); err != nil {
		return nil, err
	}

	return &Result{Code: 200, Message: "补录工时成功", Slot: slot}, nil
}

// Justify 为一条待说明的打卡记录补充说明，并生成对应的额外时间段。
// 只有额外时间段创建成功，打卡记录才会被标记为已说明
func (m *Manager) Justify(user *domain.User, slotID int64, comment string, extraType domain.ExtraSegmentType) (*Result, error) {
	unlock := m.lockUser(user.ID)
	defer unlock()

	slot, err := m.store.GetTimeSlotByID(slotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &Result{Code: 404, Message: "打卡记录不存在"}, nil
		}
		return nil, err
	}
	if slot.UserID != user.ID {
		return &Result{Code: 404, Message: "打卡记录不存在"}, nil
	}

	segment := &domain.UserExtraSegment{
		UserID:      user.ID,
		Date:        slot.Date,
		Start:       slot.Start,
		End:         slot.End,
		Type:        extraType,
		Description: comment,
	}
	if err := m.store.CreateUserExtraSegment(segment); err != nil {
		return nil, err
	}

	slot.Comment = comment
	slot.Justification = domain.JustificationCompleted
	if err := m.store.UpdateTimeSlot(slot); err != nil {
		return nil, err
	}

	return &Result{Code: 200, Message: "说明提交成功", Slot: slot}, nil
}

// hasPendingRegisters 检查用户当前生效的班表指派范围内是否还有待说明的打卡
func (m *Manager) hasPendingRegisters(userID int64, now time.Time) (bool, error) {
	assignment, err := m.store.GetActiveUserWorkSchedule(userID, m.dateOf(now))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	return m.store.HasPendingTimeSlots(userID, assignment.StartDate, assignment.EndDate)
}
