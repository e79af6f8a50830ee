package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/time-register/backend/internal/config"
	"github.com/sysu-ecnc-dev/time-register/backend/internal/domain"
	"github.com/sysu-ecnc-dev/time-register/backend/internal/register"
	"github.com/sysu-ecnc-dev/time-register/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	register    *register.Manager
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, manager *register.Manager, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		register:    manager,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
			r.Route("/update-email", func(r chi.Router) {
				r.Post("/require", h.RequireUpdateEmail)
				r.Post("/confirm", h.ConfirmUpdateEmail)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(h.myInfo)
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreateUser)
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Get("/", h.GetAllUserInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleManager})).Delete("/", h.DeleteUser)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/password", h.UpdateUserPassword)
				// 班表指派
				r.Route("/work-schedules", func(r chi.Router) {
					r.Get("/", h.GetUserWorkSchedules)
					r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.AssignWorkSchedule)
					r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Delete("/{assignmentID}", h.RemoveWorkScheduleAssignment)
				})
			})
		})

		r.Route("/companies", func(r chi.Router) {
			r.Use(h.myInfo)
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Get("/", h.GetAllCompanies)
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreateCompany)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.companyInfo)
				r.Get("/", h.GetCompany)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/", h.UpdateCompany)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Delete("/", h.DeleteCompany)
			})
		})

		r.Route("/projects", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetCompanyProjects)
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreateProject)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.projectInfo)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/", h.UpdateProject)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Delete("/", h.DeleteProject)
			})
		})

		r.Route("/work-schedules", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetCompanyWorkSchedules)
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreateWorkSchedule)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.workSchedule)
				r.Get("/", h.GetWorkSchedule)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/", h.UpdateWorkSchedule)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Delete("/", h.DeleteWorkSchedule)
			})
		})

		r.Route("/registers", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyRegisters)
			r.Group(func(r chi.Router) {
				r.Use(h.preventLeavedEmployee)
				r.Post("/clock", h.ClockEvent)
				r.Post("/manual", h.ManualEntry)
				r.Post("/{id}/justify", h.JustifyRegister)
			})
			// 管理端修改记录后触发重算
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/recalculate", h.RecalculateRegisters)
		})
	})
}
