package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/time-register/backend/internal/domain"
)

// applyAssignedSchedule 查询用户所在公司是否开启了按班表校验打卡
func (h *Handler) applyAssignedSchedule(user *domain.User) (bool, error) {
	company, err := h.repository.GetCompanyByID(user.CompanyID)
	if err != nil {
		return false, err
	}
	return company.ApplyAssignedSchedule, nil
}

// publishPendingReminder 在产生待说明的打卡记录时给用户发送提醒邮件
func (h *Handler) publishPendingReminder(user *domain.User, slot *domain.TimeSlot) error {
	mailMessage := domain.MailMessage{
		Type: "register_pending",
		To:   user.Email,
		Data: domain.RegisterPendingMailData{
			FullName: user.FullName,
			Date:     slot.Date.Format("2006-01-02"),
			Message:  "您有一条打卡记录与班表不符，请尽快登录系统进行说明",
		},
	}

	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	)
}

func (h *Handler) ClockEvent(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		Comment   string `json:"comment"`
		ProjectID *int64 `json:"projectID"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	applySchedule, err := h.applyAssignedSchedule(myInfo)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	now := time.Now().In(h.register.Location())
	result, err := h.register.HandleClockEvent(myInfo, req.Comment, req.ProjectID, applySchedule, now)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if result.Code != http.StatusOK {
		h.errorResponse(w, r, result.Message)
		return
	}

	// 打卡记录需要说明时提醒用户
	if result.Slot != nil && result.Slot.Justification == domain.JustificationPending {
		if err := h.publishPendingReminder(myInfo, result.Slot); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, result.Message, result.Slot)
}

func (h *Handler) ManualEntry(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		Start     string `json:"start" validate:"required,datetime=2006-01-02T15:04:05"`
		End       string `json:"end" validate:"required,datetime=2006-01-02T15:04:05"`
		ProjectID *int64 `json:"projectID"`
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
	start, _ := time.ParseInLocation("2006-01-02T15:04:05", req.Start, loc)
	end, _ := time.ParseInLocation("2006-01-02T15:04:05", req.End, loc)

	applySchedule, err := h.applyAssignedSchedule(myInfo)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	result, err := h.register.HandleManualEntry(myInfo, req.ProjectID, start, end, applySchedule)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if result.Code != http.StatusOK {
		h.errorResponse(w, r, result.Message)
		return
	}

	if result.Slot != nil && result.Slot.Justification == domain.JustificationPending {
		if err := h.publishPendingReminder(myInfo, result.Slot); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, result.Message, result.Slot)
}

func (h *Handler) JustifyRegister(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	slotIDParam := chi.URLParam(r, "id")
	slotID, err := strconv.ParseInt(slotIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "记录ID无效")
		return
	}

	var req struct {
		Comment string `json:"comment" validate:"required"`
		Type    string `json:"type" validate:"required,oneof=OVERTIME SPECIAL_EVENT NO_SCHEDULE"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	result, err := h.register.Justify(myInfo, slotID, req.Comment, domain.ExtraSegmentType(req.Type))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if result.Code != http.StatusOK {
		h.errorResponse(w, r, result.Message)
		return
	}

	h.successResponse(w, r, result.Message, result.Slot)
}

func (h *Handler) GetMyRegisters(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	loc := h.register.Location()
	date := time.Now().In(loc)
	if dateParam := r.URL.Query().Get("date"); dateParam != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateParam, loc)
		if err != nil {
			h.errorResponse(w, r, "日期格式错误")
			return
		}
		date = parsed
	}

	slots, err := h.repository.GetTimeSlotsByUserAndDate(myInfo.ID, date)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取打卡记录成功", slots)
}

func (h *Handler) RecalculateRegisters(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID int64  `json:"userID" validate:"required"`
		Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if _, err := h.repository.GetUserByID(req.UserID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "用户不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	date, _ := time.ParseInLocation("2006-01-02", req.Date, h.register.Location())
	if err := h.register.Recalculate(req.UserID, date); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "重新计算工时成功", nil)
}
