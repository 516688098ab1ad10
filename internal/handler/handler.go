package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
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
		})

		r.Route("/users", func(r chi.Router) {
			r.With(h.managerOnly).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo) // 员工需要能看到其他人的信息来对调班次
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).With(h.managerOnly).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).With(h.managerOnly).Delete("/", h.DeleteUser)
			})
		})

		r.Route("/shifts", func(r chi.Router) {
			r.With(h.managerOnly).Post("/", h.CreateShift)
			r.Get("/", h.GetShifts)
			r.Get("/open", h.GetOpenShifts)
			r.With(h.managerOnly).Post("/bulk-delete", h.BulkDeleteShifts)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.shiftCtx)
				r.Get("/", h.GetShift)
				r.With(h.managerOnly).Patch("/", h.UpdateShift)
				r.With(h.managerOnly).Delete("/", h.DeleteShift)
			})
		})

		// 周视图，week 参数为该周内的任意一天
		r.Route("/schedule", func(r chi.Router) {
			r.Get("/calendar", h.GetCalendarView)
			r.Get("/user-grid", h.GetUserGridView)
			r.Get("/list", h.GetListView)
			r.Get("/matrix", h.GetMatrixView)
		})

		r.Route("/shift-requests", func(r chi.Router) {
			r.Use(h.myInfo)
			r.With(h.preventInactiveStaff).Post("/", h.SubmitShiftRequest)
			r.Get("/", h.GetShiftRequests)
			r.With(h.managerOnly).Get("/summary", h.GetShiftRequestSummary)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.shiftRequestCtx)
				r.Get("/", h.GetShiftRequest)
				r.With(h.managerOnly).Post("/approve", h.ApproveShiftRequest)
				r.With(h.managerOnly).Post("/reject", h.RejectShiftRequest)
			})
		})
	})
}
