package domain

import "time"

// WorkScheduleSegment 表示一天之内的子时间段（如午休），仅做展示，不参与打卡校验
type WorkScheduleSegment struct {
	ID          int64  `json:"id"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description"`
}

// WorkScheduleDay 的 Weekday 取值为 1-7，1 表示周一
type WorkScheduleDay struct {
	ID        int64                 `json:"id"`
	Weekday   int32                 `json:"weekday"`
	StartTime string                `json:"startTime"` // HH:MM:SS
	EndTime   string                `json:"endTime"`
	Segments  []WorkScheduleSegment `json:"segments"`
}

type WorkSchedule struct {
	ID        int64             `json:"id"`
	CompanyID int64             `json:"companyID"`
	Name      string            `json:"name"`
	StartDate time.Time         `json:"startDate"`
	EndDate   time.Time         `json:"endDate"`
	Days      []WorkScheduleDay `json:"days"`
	CreatedAt time.Time         `json:"createdAt"`
	Version   int32             `json:"-"`
}

// UserWorkSchedule 将某个班表在一段日期内指定给某个用户
type UserWorkSchedule struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"userID"`
	WorkScheduleID int64     `json:"workScheduleID"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	CreatedAt      time.Time `json:"createdAt"`
	Version        int32     `json:"-"`
}
