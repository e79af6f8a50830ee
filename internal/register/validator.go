package register

import (
	"database/sql"
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/time-register/backend/internal/domain"
)

type EventKind int

const (
	EventEntry EventKind = iota
	EventExit
)

// 班表校验结果码
const (
	ValidationOK          = 200
	ValidationExtraBefore = 201
	ValidationExtraAfter  = 203
	ValidationNoSchedule  = 404
)

type EventValidation struct {
	Code           int
	Classification domain.TimeSlotClassification
	AdjustedTime   *time.Time
}

type RangeValidation struct {
	Code           int
	Classification domain.TimeSlotClassification
	Justification  domain.JustificationStatus
}

// classifyEvent 对单次打卡事件做班表校验。
// 在上班时刻前 margin 范围内的上班打卡会被取整到上班时刻，
// 除此之外早于上班时刻归类为 EXTRA_BEFORE，晚于下班时刻归类为 EXTRA_AFTER
func classifyEvent(dayStart, dayEnd, event time.Time, kind EventKind, margin time.Duration) EventValidation {
	startLimit := dayStart.Add(-margin)
	endLimit := dayEnd.Add(margin)

	switch {
	case kind == EventEntry && !event.Before(startLimit) && !event.After(dayStart):
		adjusted := dayStart
		return EventValidation{Code: ValidationOK, Classification: domain.ClassificationNormal, AdjustedTime: &adjusted}
	case event.Before(dayStart):
		return EventValidation{Code: ValidationExtraBefore, Classification: domain.ClassificationExtraBefore}
	case event.After(dayEnd):
		return EventValidation{Code: ValidationExtraAfter, Classification: domain.ClassificationExtraAfter}
	case kind == EventExit && !event.Before(dayEnd) && !event.After(endLimit):
		adjusted := dayEnd
		return EventValidation{Code: ValidationOK, Classification: domain.ClassificationNormal, AdjustedTime: &adjusted}
	default:
		return EventValidation{Code: ValidationOK, Classification: domain.ClassificationNormal}
	}
}

// classifyRange 对补录的完整时间段做班表校验，补录不做边界取整
func classifyRange(dayStart, dayEnd, rangeStart, rangeEnd time.Time) RangeValidation {
	switch {
	case rangeStart.Before(dayStart):
		return RangeValidation{Code: ValidationExtraBefore, Classification: domain.ClassificationExtraBefore, Justification: domain.JustificationPending}
	case rangeEnd.After(dayEnd):
		return RangeValidation{Code: ValidationExtraAfter, Classification: domain.ClassificationExtraAfter, Justification: domain.JustificationPending}
	default:
		return RangeValidation{Code: ValidationOK, Classification: domain.ClassificationNormal, Justification: domain.JustificationCompleted}
	}
}

// scheduleDayFor 查找用户在时刻 t 所属日期生效的班表中对应星期的定义。
// 没有生效的班表或者班表中没有这一天时返回 nil
func (m *Manager) scheduleDayFor(userID int64, t time.Time) (*domain.WorkScheduleDay, error) {
	assignment, err := m.store.GetActiveUserWorkSchedule(userID, m.dateOf(t))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	day, err := m.store.GetWorkScheduleDay(assignment.WorkScheduleID, isoWeekday(t))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return day, nil
}

// dayBounds 计算班表某一天在 date 当天的上下班时刻
func (m *Manager) dayBounds(day *domain.WorkScheduleDay, date time.Time) (time.Time, time.Time, error) {
	dayStart, err := timeOfDayOn(date, day.StartTime, m.loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	dayEnd, err := timeOfDayOn(date, day.EndTime, m.loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return dayStart, dayEnd, nil
}

func (m *Manager) classifyEventAgainstSchedule(userID int64, event time.Time, kind EventKind) (EventValidation, error) {
	day, err := m.scheduleDayFor(userID, event)
	if err != nil {
		return EventValidation{}, err
	}
	if day == nil {
		// 打卡路径容忍没有班表的情况，此时按 NORMAL 处理
		return EventValidation{Code: ValidationNoSchedule, Classification: domain.ClassificationNormal}, nil
	}

	dayStart, dayEnd, err := m.dayBounds(day, m.dateOf(event))
	if err != nil {
		return EventValidation{}, err
	}

	return classifyEvent(dayStart, dayEnd, event, kind, m.margin), nil
}

func (m *Manager) classifyRangeAgainstSchedule(userID int64, rangeStart, rangeEnd time.Time) (RangeValidation, error) {
	day, err := m.scheduleDayFor(userID, rangeStart)
	if err != nil {
		return RangeValidation{}, err
	}
	if day == nil {
		return RangeValidation{Code: ValidationNoSchedule}, nil
	}

	dayStart, dayEnd, err := m.dayBounds(day, m.dateOf(rangeStart))
	if err != nil {
		return RangeValidation{}, err
	}

	return classifyRange(dayStart, dayEnd, rangeStart, rangeEnd), nil
}
