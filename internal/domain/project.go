package domain

import "time"

type Project struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"companyID"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}
