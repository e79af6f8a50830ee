package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/time-register/backend/internal/domain"
	"github.com/sysu-ecnc-dev/time-register/backend/internal/utils"
)

type workScheduleDayRequest struct {
	Weekday   int32  `json:"weekday" validate:"required,gte=1,lte=7"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
	Segments  []struct {
		StartTime   string `json:"startTime" validate:"required"`
		EndTime     string `json:"endTime" validate:"required"`
		Description string `json:"description"`
	} `json:"segments" validate:"dive"`
}

func buildWorkScheduleDays(reqDays []workScheduleDayRequest) []domain.WorkScheduleDay {
	days := make([]domain.WorkScheduleDay, 0, len(reqDays))
	for _, day := range reqDays {
		segments := make([]domain.WorkScheduleSegment, 0, len(day.Segments))
		for _, segment := range day.Segments {
			segments = append(segments, domain.WorkScheduleSegment{
				StartTime:   segment.StartTime,
				EndTime:     segment.EndTime,
				Description: segment.Description,
			})
		}
		days = append(days, domain.WorkScheduleDay{
			Weekday:   day.Weekday,
			StartTime: day.StartTime,
			EndTime:   day.EndTime,
			Segments:  segments,
		})
	}
	return days
}

func (h *Handler) GetCompanyWorkSchedules(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	schedules, err := h.repository.GetWorkSchedulesByCompanyID(myInfo.CompanyID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班表列表成功", schedules)
}

func (h *Handler) GetWorkSchedule(w http.ResponseWriter, r *http.Request) {
	ws := r.Context().Value(WorkScheduleCtx).(*domain.WorkSchedule)
	h.successResponse(w, r, "获取班表成功", ws)
}

func (h *Handler) CreateWorkSchedule(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		Name      string                   `json:"name" validate:"required"`
		StartDate string                   `json:"startDate" validate:"required,datetime=2006-01-02"`
		EndDate   string                   `json:"endDate" validate:"required,datetime=2006-01-02"`
		Days      []workScheduleDayRequest `json:"days" validate:"required,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	loc := h.register.Location()
	startDate, _ := time.ParseInLocation("2006-01-02", req.StartDate, loc)
	endDate, _ := time.ParseInLocation("2006-01-02", req.EndDate, loc)

	ws := &domain.WorkSchedule{
		CompanyID: myInfo.CompanyID,
		Name:      req.Name,
		StartDate: startDate,
		EndDate:   endDate,
		Days:      buildWorkScheduleDays(req.Days),
	}

	if err := utils.ValidateWorkSchedule(ws); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateWorkSchedule(ws); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "work_schedules_company_id_name_key":
				h.errorResponse(w, r, "班表名称已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建班表成功", ws)
}

func (h *Handler) UpdateWorkSchedule(w http.ResponseWriter, r *http.Request) {
	ws := r.Context().Value(WorkScheduleCtx).(*domain.WorkSchedule)

	var req struct {
		Name      *string                   `json:"name"`
		StartDate *string                   `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
		EndDate   *string                   `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
		Days      *[]workScheduleDayRequest `json:"days" validate:"omitempty,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	loc := h.register.Location()
	if req.Name != nil {
		ws.Name = *req.Name
	}
	if req.StartDate != nil {
		startDate, _ := time.ParseInLocation("2006-01-02", *req.StartDate, loc)
		ws.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, _ := time.ParseInLocation("2006-01-02", *req.EndDate, loc)
		ws.EndDate = endDate
	}
	if req.Days != nil {
		ws.Days = buildWorkScheduleDays(*req.Days)
	}

	if err := utils.ValidateWorkSchedule(ws); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateWorkSchedule(ws); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "work_schedules_company_id_name_key":
				h.errorResponse(w, r, "班表名称已存在")
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新班表成功", ws)
}

func (h *Handler) DeleteWorkSchedule(w http.ResponseWriter, r *http.Request) {
	ws := r.Context().Value(WorkScheduleCtx).(*domain.WorkSchedule)

	if err := h.repository.DeleteWorkSchedule(ws.ID); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "user_work_schedules_work_schedule_id_fkey":
				h.errorResponse(w, r, "该班表已被指派给用户，无法删除")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除班表成功", nil)
}
