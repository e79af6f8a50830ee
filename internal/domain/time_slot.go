package domain

import "time"

type TimeSlotStatus string

const (
	TimeSlotStatusOpen   TimeSlotStatus = "OPEN"
	TimeSlotStatusClosed TimeSlotStatus = "CLOSED"
)

type TimeSlotClassification string

const (
	ClassificationNormal      TimeSlotClassification = "NORMAL"
	ClassificationExtraBefore TimeSlotClassification = "EXTRA_BEFORE"
	ClassificationExtraAfter  TimeSlotClassification = "EXTRA_AFTER"
)

type JustificationStatus string

const (
	JustificationPending   JustificationStatus = "PENDING"
	JustificationCompleted JustificationStatus = "COMPLETED"
)

// TimeSlot 表示某个用户在某一天内的一段连续工作时间
type TimeSlot struct {
	ID                 int64                  `json:"id"`
	UserID             int64                  `json:"userID"`
	Date               time.Time              `json:"date"`
	Start              time.Time              `json:"start"`
	End                *time.Time             `json:"end"` // 为空表示该时间段仍未结束
	Ordinal            int32                  `json:"ordinal"`
	Comment            string                 `json:"comment"`
	Duration           string                 `json:"duration"`           // HH:MM:SS
	CumulativeDuration string                 `json:"cumulativeDuration"` // 截至本段的当日累计时长
	Status             TimeSlotStatus         `json:"status"`
	Classification     TimeSlotClassification `json:"classification"`
	Justification      JustificationStatus    `json:"justification"`
	ProjectID          *int64                 `json:"projectID"`
	CreatedAt          time.Time              `json:"createdAt"`
	Version            int32                  `json:"-"`
}
