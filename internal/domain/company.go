package domain

import "time"

type Company struct {
	ID                    int64     `json:"id"`
	Name                  string    `json:"name"`
	ApplyAssignedSchedule bool      `json:"applyAssignedSchedule"` // 是否按指定班表校验打卡
	CreatedAt             time.Time `json:"createdAt"`
	Version               int32     `json:"-"`
}
