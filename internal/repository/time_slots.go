package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/time-register/backend/internal/domain"
)

func scanTimeSlot(dst interface{ Scan(...any) error }, slot *domain.TimeSlot) error {
	var endTime sql.NullTime
	var projectID sql.NullInt64

	fields := []any{
		&slot.ID,
		&slot.UserID,
		&slot.Date,
		&slot.Start,
		&endTime,
		&slot.Ordinal,
		&slot.Comment,
		&slot.Duration,
		&slot.CumulativeDuration,
		&slot.Status,
		&slot.Classification,
		&slot.Justification,
		&projectID,
		&slot.CreatedAt,
		&slot.Version,
	}
	if err := dst.Scan(fields...); err != nil {
		return err
	}

	if endTime.Valid {
		slot.End = &endTime.Time
	}
	if projectID.Valid {
		slot.ProjectID = &projectID.Int64
	}

	return nil
}

const timeSlotColumns = `
	id, user_id, date, start_time, end_time, ordinal, comment,
	duration, cumulative_duration, status, classification, justification,
	project_id, created_at, version
`

// GetLatestTimeSlot 返回用户当天序号最大的时间段
func (r *Repository) GetLatestTimeSlot(userID int64, date time.Time) (*domain.TimeSlot, error) {
	query := `
		SELECT ` + timeSlotColumns + `
		FROM time_slots
		WHERE user_id = $1 AND date = $2
		ORDER BY ordinal DESC
		LIMIT 1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	slot := &domain.TimeSlot{}
	if err := scanTimeSlot(r.dbpool.QueryRowContext(ctx, query, userID, date), slot); err != nil {
		return nil, err
	}

	return slot, nil
}

func (r *Repository) GetTimeSlotByID(id int64) (*domain.TimeSlot, error) {
	query := `
		SELECT ` + timeSlotColumns + `
		FROM time_slots
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	slot := &domain.TimeSlot{}
	if err := scanTimeSlot(r.dbpool.QueryRowContext(ctx, query, id), slot); err != nil {
		return nil, err
	}

	return slot, nil
}

func (r *Repository) GetTimeSlotsByUserAndDate(userID int64, date time.Time) ([]*domain.TimeSlot, error) {
	query := `
		SELECT ` + timeSlotColumns + `
		FROM time_slots
		WHERE user_id = $1 AND date = $2
		ORDER BY ordinal
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]*domain.TimeSlot, 0)
	for rows.Next() {
		slot := &domain.TimeSlot{}
		if err := scanTimeSlot(rows, slot); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *Repository) CreateTimeSlot(slot *domain.TimeSlot) error {
	query := `
		INSERT INTO time_slots (
			user_id, date, start_time, end_time, ordinal, comment,
			status, classification, justification, project_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{
		slot.UserID,
		slot.Date,
		slot.Start,
		slot.End,
		slot.Ordinal,
		slot.Comment,
		slot.Status,
		slot.Classification,
		slot.Justification,
		slot.ProjectID,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&slot.ID, &slot.CreatedAt, &slot.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateTimeSlot(slot *domain.TimeSlot) error {
	query := `
		UPDATE time_slots
		SET
			start_time = $1,
			end_time = $2,
			comment = $3,
			status = $4,
			classification = $5,
			justification = $6,
			version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{
		slot.Start,
		slot.End,
		slot.Comment,
		slot.Status,
		slot.Classification,
		slot.Justification,
		slot.ID,
		slot.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&slot.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteTimeSlot(id int64) error {
	query := `
		DELETE FROM time_slots WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

// UpdateTimeSlotDurations 在一个事务中批量写回重算后的时长字段
func (r *Repository) UpdateTimeSlotDurations(slots []*domain.TimeSlot) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE time_slots
		SET
			duration = $1,
			cumulative_duration = $2,
			version = version + 1
		WHERE id = $3
		RETURNING version
	`

	for _, slot := range slots {
		if err := tx.QueryRowContext(ctx, query, slot.Duration, slot.CumulativeDuration, slot.ID).Scan(&slot.Version); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// HasPendingTimeSlots 查询用户在 [from, to] 日期范围内是否还有待说明的打卡
func (r *Repository) HasPendingTimeSlots(userID int64, from time.Time, to time.Time) (bool, error) {
	hasPending := false

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT EXISTS (
			SELECT 1 FROM time_slots
			WHERE user_id = $1 AND justification = $2 AND date BETWEEN $3 AND $4
		)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, userID, domain.JustificationPending, from, to).Scan(&hasPending); err != nil {
		return false, err
	}

	return hasPending, nil
}
