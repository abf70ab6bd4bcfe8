package rest

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zapis/config"
	"zapis/internal/service"
)

type Handler struct {
	services *service.Services
	logger   *zap.Logger
	config   *config.Config
}

func NewHandler(services *service.Services, logger *zap.Logger, config *config.Config) *Handler {
	return &Handler{
		services: services,
		logger:   logger,
		config:   config,
	}
}

func (h *Handler) InitRoutes(router *gin.Engine) {
	router.Use(h.loggerMiddleware())

	router.Use(h.errorMiddleware())

	router.Use(h.corsMiddleware())

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.register)
			auth.POST("/login", h.login)
			auth.POST("/refresh", h.refreshTokens)
			auth.POST("/logout", h.logout)
		}

		users := api.Group("/users")
		users.Use(h.authMiddleware())
		{
			users.GET("/me", h.getCurrentUser)
			users.GET("/:id", h.getUserByID)
			users.PUT("/:id", h.updateUser)
			users.PUT("/:id/password", h.updatePassword)

			admin := users.Group("/")
			admin.Use(h.adminMiddleware())
			{
				admin.POST("/", h.createUser)
				admin.GET("/", h.getUsers)
				admin.DELETE("/:id", h.deleteUser)
			}
		}

		organizations := api.Group("/organizations")
		{
			organizations.GET("/slug/:slug", h.getOrganizationBySlug)
			organizations.GET("/:id", h.getOrganizationByID)

			auth := organizations.Group("/", h.authMiddleware())
			{
				auth.POST("/", h.createOrganization)
				auth.GET("/", h.adminMiddleware(), h.getOrganizations)
				auth.PUT("/:id", h.updateOrganization)
				auth.DELETE("/:id", h.deleteOrganization)

				auth.POST("/:id/logo", h.uploadOrganizationLogo)
				auth.DELETE("/:id/logo", h.deleteOrganizationLogo)

				auth.POST("/:id/calendars", h.createCalendar)
				auth.GET("/:id/calendars", h.getCalendars)
				auth.GET("/:id/calendars/:calendarId", h.getCalendarByID)
				auth.DELETE("/:id/calendars/:calendarId", h.deleteCalendar)
			}
		}

		h.initScheduleRoutes(api)

		appointments := api.Group("/appointments")
		appointments.Use(h.authMiddleware())
		{
			appointments.GET("/", h.getAppointments)
			appointments.GET("/:id", h.getAppointmentByID)
			appointments.PUT("/:id", h.updateAppointment)
			appointments.POST("/:id/confirm", h.confirmAppointment)
			appointments.POST("/:id/cancel", h.cancelAppointment)
		}

		sync := api.Group("/calendar-sync")
		{
			sync.GET("/callback", h.calendarSyncCallback)

			auth := sync.Group("/", h.authMiddleware())
			{
				auth.GET("/:orgId/:calendarId/connect", h.connectCalendar)
				auth.GET("/:orgId/:calendarId/connections", h.getCalendarConnections)
				auth.GET("/:orgId/:calendarId/events", h.getCalendarEvents)
			}
		}
	}
}

// Сетка, настройки и слоты живут под календарём организации.
// Публичному мастеру бронирования доступны только свободные слоты
// и создание записи.
func (h *Handler) initScheduleRoutes(api *gin.RouterGroup) {
	calendars := api.Group("/organizations/:id/calendars/:calendarId")
	{
		calendars.GET("/slots/free", h.getFreeSlots)
		calendars.POST("/appointments", h.bookAppointment)

		auth := calendars.Group("/", h.authMiddleware())
		{
			auth.GET("/settings", h.getSettings)
			auth.PUT("/settings", h.updateSettings)

			auth.GET("/availability/week", h.getWeekGrid)
			auth.POST("/availability/toggle-slot", h.toggleSlot)
			auth.POST("/availability/toggle-day", h.toggleDay)

			auth.POST("/slots", h.createTimeSlot)
			auth.POST("/slots/seed", h.seedTimeSlots)
			auth.GET("/slots", h.getTimeSlots)
			auth.PUT("/slots/:slotId", h.updateTimeSlot)
			auth.DELETE("/slots/:slotId", h.deleteTimeSlot)
		}
	}
}
