package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/time-register/backend/internal/domain"
)

func (r *Repository) CreateUserExtraSegment(segment *domain.UserExtraSegment) error {
	query := `
		INSERT INTO user_extra_segments (user_id, date, start_time, end_time, type, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{segment.UserID, segment.Date, segment.Start, segment.End, segment.Type, segment.Description}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&segment.ID, &segment.CreatedAt, &segment.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetUserExtraSegmentsByUserID(userID int64) ([]*domain.UserExtraSegment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, date, start_time, end_time, type, description, created_at, version
		FROM user_extra_segments
		WHERE user_id = $1
		ORDER BY date, start_time
	`

	rows, err := r.dbpool.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	segments := make([]*domain.UserExtraSegment, 0)
	for rows.Next() {
		segment := &domain.UserExtraSegment{
			UserID: userID,
		}
		var endTime sql.NullTime

		dst := []any{&segment.ID, &segment.Date, &segment.Start, &endTime, &segment.Type, &segment.Description, &segment.CreatedAt, &segment.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if endTime.Valid {
			segment.End = &endTime.Time
		}

		segments = append(segments, segment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return segments, nil
}
