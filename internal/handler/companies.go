package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/time-register/backend/internal/domain"
)

func (h *Handler) GetAllCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.repository.GetAllCompanies()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取公司列表成功", companies)
}

func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name                  string `json:"name" validate:"required"`
		ApplyAssignedSchedule bool   `json:"applyAssignedSchedule"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	company := &domain.Company{
		Name:                  req.Name,
		ApplyAssignedSchedule: req.ApplyAssignedSchedule,
	}

	if err := h.repository.CreateCompany(company); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "companies_name_key":
				h.errorResponse(w, r, "公司名称已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建公司成功", company)
}

func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	company := r.Context().Value(CompanyCtx).(*domain.Company)
	h.successResponse(w, r, "获取公司信息成功", company)
}

func (h *Handler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	company := r.Context().Value(CompanyCtx).(*domain.Company)

	var req struct {
		Name                  *string `json:"name"`
		ApplyAssignedSchedule *bool   `json:"applyAssignedSchedule"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.ApplyAssignedSchedule != nil {
		company.ApplyAssignedSchedule = *req.ApplyAssignedSchedule
	}

	if err := h.repository.UpdateCompany(company); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "companies_name_key":
				h.errorResponse(w, r, "公司名称已存在")
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

	h.successResponse(w, r, "更新公司信息成功", company)
}

func (h *Handler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	company := r.Context().Value(CompanyCtx).(*domain.Company)

	if err := h.repository.DeleteCompany(company.ID); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "users_company_id_fkey":
				h.errorResponse(w, r, "该公司下存在用户，无法删除")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除公司成功", nil)
}
