package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/time-register/backend/internal/domain"
)

// GetActiveUserWorkSchedule 查找用户在指定日期生效的班表指派。
// 假设同一时间只有一个指派生效，如果数据中出现重叠，取最近创建的那个
func (r *Repository) GetActiveUserWorkSchedule(userID int64, date time.Time) (*domain.UserWorkSchedule, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, work_schedule_id, start_date, end_date, created_at, version
		FROM user_work_schedules
		WHERE user_id = $1 AND start_date <= $2 AND end_date >= $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	assignment := &domain.UserWorkSchedule{
		UserID: userID,
	}
	dst := []any{&assignment.ID, &assignment.WorkScheduleID, &assignment.StartDate, &assignment.EndDate, &assignment.CreatedAt, &assignment.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, userID, date).Scan(dst...); err != nil {
		return nil, err
	}

	return assignment, nil
}

func (r *Repository) GetUserWorkSchedulesByUserID(userID int64) ([]*domain.UserWorkSchedule, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, work_schedule_id, start_date, end_date, created_at, version
		FROM user_work_schedules
		WHERE user_id = $1
		ORDER BY start_date
	`

	rows, err := r.dbpool.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]*domain.UserWorkSchedule, 0)
	for rows.Next() {
		assignment := &domain.UserWorkSchedule{
			UserID: userID,
		}
		dst := []any{&assignment.ID, &assignment.WorkScheduleID, &assignment.StartDate, &assignment.EndDate, &assignment.CreatedAt, &assignment.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *Repository) CreateUserWorkSchedule(assignment *domain.UserWorkSchedule) error {
	query := `
		INSERT INTO user_work_schedules (user_id, work_schedule_id, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{assignment.UserID, assignment.WorkScheduleID, assignment.StartDate, assignment.EndDate}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&assignment.ID, &assignment.CreatedAt, &assignment.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteUserWorkSchedule(id int64) error {
	query := `
		DELETE FROM user_work_schedules WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
