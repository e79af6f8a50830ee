package domain

import "time"

type ExtraSegmentType string

const (
	ExtraSegmentOvertime     ExtraSegmentType = "OVERTIME"
	ExtraSegmentSpecialEvent ExtraSegmentType = "SPECIAL_EVENT"
	ExtraSegmentNoSchedule   ExtraSegmentType = "NO_SCHEDULE"
)

// UserExtraSegment 是用户对异常打卡做出说明后生成的额外时间段记录
type UserExtraSegment struct {
	ID          int64            `json:"id"`
	UserID      int64            `json:"userID"`
	Date        time.Time        `json:"date"`
	Start       time.Time        `json:"start"`
	End         *time.Time       `json:"end"`
	Type        ExtraSegmentType `json:"type"`
	Description string           `json:"description"`
	CreatedAt   time.Time        `json:"createdAt"`
	Version     int32            `json:"-"`
}
