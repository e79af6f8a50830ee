package repository

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/sysu-ecnc-dev/time-register/backend/internal/domain"
)

func (r *Repository) GetWorkSchedulesByCompanyID(companyID int64) ([]*domain.WorkSchedule, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			ws.id,
			ws.name,
			ws.start_date,
			ws.end_date,
			ws.created_at,
			ws.version,
			wsd.id,
			wsd.weekday,
			wsd.start_time,
			wsd.end_time,
			wss.id,
			wss.start_time,
			wss.end_time,
			wss.description
		FROM work_schedules ws
		LEFT JOIN work_schedule_days wsd ON ws.id = wsd.work_schedule_id
		LEFT JOIN work_schedule_segments wss ON wsd.id = wss.work_schedule_day_id
		WHERE ws.company_id = $1
		ORDER BY ws.id, wsd.weekday, wss.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedulesMap := make(map[int64]*domain.WorkSchedule)
	daysMap := make(map[int64]map[int64]*domain.WorkScheduleDay) // scheduleID -> dayID -> day

	for rows.Next() {
		var row struct {
			ID        int64
			Name      string
			StartDate time.Time
			EndDate   time.Time
			CreatedAt time.Time
			Version   int32

			DayID        sql.NullInt64
			Weekday      sql.NullInt32
			DayStartTime sql.NullString
			DayEndTime   sql.NullString

			SegmentID          sql.NullInt64
			SegmentStartTime   sql.NullString
			SegmentEndTime     sql.NullString
			SegmentDescription sql.NullString
		}

		dst := []any{
			&row.ID,
			&row.Name,
			&row.StartDate,
			&row.EndDate,
			&row.CreatedAt,
			&row.Version,
			&row.DayID,
			&row.Weekday,
			&row.DayStartTime,
			&row.DayEndTime,
			&row.SegmentID,
			&row.SegmentStartTime,
			&row.SegmentEndTime,
			&row.SegmentDescription,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if _, exists := schedulesMap[row.ID]; !exists {
			// 说明此时是第一次查到这个班表，需要在 map 中初始化
			schedule := &domain.WorkSchedule{
				ID:        row.ID,
				CompanyID: companyID,
				Name:      row.Name,
				StartDate: row.StartDate,
				EndDate:   row.EndDate,
				CreatedAt: row.CreatedAt,
				Version:   row.Version,
			}
			schedulesMap[row.ID] = schedule
			daysMap[row.ID] = make(map[int64]*domain.WorkScheduleDay)
		}

		// 如果 dayID 为空，则表示这个班表没有定义任何一天，跳过 day 的解析
		if !row.DayID.Valid {
			continue
		}

		day, exists := daysMap[row.ID][row.DayID.Int64]
		if !exists {
			day = &domain.WorkScheduleDay{
				ID:        row.DayID.Int64,
				Weekday:   row.Weekday.Int32,
				StartTime: row.DayStartTime.String,
				EndTime:   row.DayEndTime.String,
				Segments:  make([]domain.WorkScheduleSegment, 0),
			}
			daysMap[row.ID][row.DayID.Int64] = day
		}

		// 如果 segmentID 为空，则表示这一天没有子时间段，跳过 segment 的解析
		if !row.SegmentID.Valid {
			continue
		}

		day.Segments = append(day.Segments, domain.WorkScheduleSegment{
			ID:          row.SegmentID.Int64,
			StartTime:   row.SegmentStartTime.String,
			EndTime:     row.SegmentEndTime.String,
			Description: row.SegmentDescription.String,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 组装结果
	schedules := make([]*domain.WorkSchedule, 0, len(schedulesMap))
	for scheduleID, schedule := range schedulesMap {
		days := make([]domain.WorkScheduleDay, 0, len(daysMap[scheduleID]))
		for _, day := range daysMap[scheduleID] {
			days = append(days, *day)
		}
		sort.Slice(days, func(i, j int) bool {
			return days[i].Weekday < days[j].Weekday
		})
		schedule.Days = days
		schedules = append(schedules, schedule)
	}

	sort.Slice(schedules, func(i, j int) bool {
		return schedules[i].ID < schedules[j].ID
	})

	return schedules, nil
}

func (r *Repository) GetWorkScheduleByID(id int64) (*domain.WorkSchedule, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT company_id, name, start_date, end_date, created_at, version
		FROM work_schedules WHERE id = $1
	`

	schedule := &domain.WorkSchedule{
		ID: id,
	}
	dst := []any{&schedule.CompanyID, &schedule.Name, &schedule.StartDate, &schedule.EndDate, &schedule.CreatedAt, &schedule.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	query = `
		SELECT
			wsd.id,
			wsd.weekday,
			wsd.start_time,
			wsd.end_time,
			wss.id,
			wss.start_time,
			wss.end_time,
			wss.description
		FROM work_schedule_days wsd
		LEFT JOIN work_schedule_segments wss ON wsd.id = wss.work_schedule_day_id
		WHERE wsd.work_schedule_id = $1
		ORDER BY wsd.weekday, wss.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	daysMap := make(map[int64]*domain.WorkScheduleDay)
	dayOrder := make([]int64, 0)

	for rows.Next() {
		var dayID int64
		var weekday int32
		var dayStart, dayEnd string
		var segmentID sql.NullInt64
		var segmentStart, segmentEnd, segmentDescription sql.NullString

		dst := []any{&dayID, &weekday, &dayStart, &dayEnd, &segmentID, &segmentStart, &segmentEnd, &segmentDescription}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		day, exists := daysMap[dayID]
		if !exists {
			day = &domain.WorkScheduleDay{
				ID:        dayID,
				Weekday:   weekday,
				StartTime: dayStart,
				EndTime:   dayEnd,
				Segments:  make([]domain.WorkScheduleSegment, 0),
			}
			daysMap[dayID] = day
			dayOrder = append(dayOrder, dayID)
		}

		if segmentID.Valid {
			day.Segments = append(day.Segments, domain.WorkScheduleSegment{
				ID:          segmentID.Int64,
				StartTime:   segmentStart.String,
				EndTime:     segmentEnd.String,
				Description: segmentDescription.String,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	schedule.Days = make([]domain.WorkScheduleDay, 0, len(dayOrder))
	for _, dayID := range dayOrder {
		schedule.Days = append(schedule.Days, *daysMap[dayID])
	}

	return schedule, nil
}

// GetWorkScheduleDay 查找班表中某个星期对应的定义
func (r *Repository) GetWorkScheduleDay(workScheduleID int64, weekday int32) (*domain.WorkScheduleDay, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, start_time, end_time
		FROM work_schedule_days
		WHERE work_schedule_id = $1 AND weekday = $2
	`

	day := &domain.WorkScheduleDay{
		Weekday: weekday,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, workScheduleID, weekday).Scan(&day.ID, &day.StartTime, &day.EndTime); err != nil {
		return nil, err
	}

	return day, nil
}

// CreateWorkSchedule 在一个事务中插入班表及其所有天和子时间段
func (r *Repository) CreateWorkSchedule(schedule *domain.WorkSchedule) error {
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
		INSERT INTO work_schedules (company_id, name, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`
	params := []any{schedule.CompanyID, schedule.Name, schedule.StartDate, schedule.EndDate}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&schedule.ID, &schedule.CreatedAt, &schedule.Version); err != nil {
		return err
	}

	for i := range schedule.Days {
		day := &schedule.Days[i]

		query := `
			INSERT INTO work_schedule_days (work_schedule_id, weekday, start_time, end_time)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, query, schedule.ID, day.Weekday, day.StartTime, day.EndTime).Scan(&day.ID); err != nil {
			return err
		}

		for j := range day.Segments {
			segment := &day.Segments[j]

			query := `
				INSERT INTO work_schedule_segments (work_schedule_day_id, start_time, end_time, description)
				VALUES ($1, $2, $3, $4)
				RETURNING id
			`
			if err := tx.QueryRowContext(ctx, query, day.ID, segment.StartTime, segment.EndTime, segment.Description).Scan(&segment.ID); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// UpdateWorkSchedule 更新班表的元信息并整体替换它的天和子时间段
func (r *Repository) UpdateWorkSchedule(schedule *domain.WorkSchedule) error {
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
		UPDATE work_schedules
		SET
			name = $1,
			start_date = $2,
			end_date = $3,
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING version
	`
	params := []any{schedule.Name, schedule.StartDate, schedule.EndDate, schedule.ID, schedule.Version}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&schedule.Version); err != nil {
		return err
	}

	// 先把原先的天删除再插入，子时间段由外键级联删除
	query = `DELETE FROM work_schedule_days WHERE work_schedule_id = $1`
	if _, err := tx.ExecContext(ctx, query, schedule.ID); err != nil {
		return err
	}

	for i := range schedule.Days {
		day := &schedule.Days[i]

		query := `
			INSERT INTO work_schedule_days (work_schedule_id, weekday, start_time, end_time)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, query, schedule.ID, day.Weekday, day.StartTime, day.EndTime).Scan(&day.ID); err != nil {
			return err
		}

		for j := range day.Segments {
			segment := &day.Segments[j]

			query := `
				INSERT INTO work_schedule_segments (work_schedule_day_id, start_time, end_time, description)
				VALUES ($1, $2, $3, $4)
				RETURNING id
			`
			if err := tx.QueryRowContext(ctx, query, day.ID, segment.StartTime, segment.EndTime, segment.Description).Scan(&segment.ID); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteWorkSchedule(id int64) error {
	query := `
		DELETE FROM work_schedules WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
