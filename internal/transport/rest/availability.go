package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zapis/internal/domain"
	"zapis/internal/service"
	"zapis/pkg/validator"
)

// @Summary Недельная сетка доступности
// @Description Возвращает сетку слотов недели со статусами для административного календаря
// @Tags Доступность
// @Accept json
// @Produce json
// @Param id path int true "ID организации"
// @Param calendarId path int true "ID календаря"
// @Param anchor query string false "Любая дата недели в формате YYYY-MM-DD, по умолчанию сегодня"
// @Success 200 {object} availability.WeekGrid "Сетка недели"
// @Failure 400 {object} errorResponseBody "Неверный формат даты"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /organizations/{id}/calendars/{calendarId}/availability/week [get]
func (h *Handler) getWeekGrid(c *gin.Context) {
	orgID, calendarID, ok := getOrgCalendarParams(c)
	if !ok {
		return
	}

	anchor := time.Now().UTC()
	if raw := c.Query("anchor"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			badRequestResponse(c, "неверный формат даты")
			return
		}
		anchor = parsed
	}

	grid, err := h.services.Availability.WeekGrid(c.Request.Context(), orgID, calendarID, anchor)
	if err != nil {
		h.logger.Error("ошибка при построении сетки недели", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	successResponse(c, http.StatusOK, grid)
}

// @Summary Переключить слот
// @Description Помечает слот недоступным или снимает отметку
// @Tags Доступность
// @Accept json
// @Produce json
// @Param id path int true "ID организации"
// @Param calendarId path int true "ID календаря"
// @Param input body domain.ToggleSlotDTO true "Дата и время слота"
// @Success 200 {object} domain.Settings "Обновленные настройки"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 409 {object} errorResponseBody "На слот есть подтвержденная запись"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /organizations/{id}/calendars/{calendarId}/availability/toggle-slot [post]
func (h *Handler) toggleSlot(c *gin.Context) {
	orgID, calendarID, ok := getOrgCalendarParams(c)
	if !ok {
		return
	}

	var req domain.ToggleSlotDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if !validator.ValidateDate(req.Date) || !validator.ValidateTimeLabel(req.Time) {
		badRequestResponse(c, "неверный формат даты или времени")
		return
	}

	settings, err := h.services.Availability.ToggleSlot(c.Request.Context(), orgID, calendarID, req)
	if err != nil {
		h.logger.Error("ошибка при переключении слота", zap.Error(err))
		if errors.Is(err, service.ErrSlotHasAppointment) {
			errorResponse(c, http.StatusConflict, err.Error())
			return
		}
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	successResponse(c, http.StatusOK, settings)
}

// @Summary Переключить день
// @Description Делает день полностью недоступным либо возвращает его в доступное состояние
// @Tags Доступность
// @Accept json
// @Produce json
// @Param id path int true "ID организации"
// @Param calendarId path int true "ID календаря"
// @Param input body domain.ToggleDayDTO true "Дата"
// @Success 200 {object} domain.Settings "Обновленные настройки"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /organizations/{id}/calendars/{calendarId}/availability/toggle-day [post]
func (h *Handler) toggleDay(c *gin.Context) {
	orgID, calendarID, ok := getOrgCalendarParams(c)
	if !ok {
		return
	}

	var req domain.ToggleDayDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if !validator.ValidateDate(req.Date) {
		badRequestResponse(c, "неверный формат даты")
		return
	}

	settings, err := h.services.Availability.ToggleDay(c.Request.Context(), orgID, calendarID, req)
	if err != nil {
		h.logger.Error("ошибка при переключении дня", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	successResponse(c, http.StatusOK, settings)
}

// @Summary Свободные слоты
// @Description Публичная точка мастера бронирования: свободные слоты в границах таймфрейма
// @Tags Доступность
// @Accept json
// @Produce json
// @Param id path int true "ID организации"
// @Param calendarId path int true "ID календаря"
// @Param timeframe query string false "Таймфрейм: asap, this_week, next_week, this_month" default(asap)
// @Success 200 {object} successResponseBody "Свободные слоты"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /organizations/{id}/calendars/{calendarId}/slots/free [get]
func (h *Handler) getFreeSlots(c *gin.Context) {
	orgID, calendarID, ok := getOrgCalendarParams(c)
	if !ok {
		return
	}

	timeframe := domain.Timeframe(c.DefaultQuery("timeframe", string(domain.TimeframeASAP)))

	slots, err := h.services.Availability.ListBookable(c.Request.Context(), orgID, calendarID, timeframe)
	if err != nil {
		h.logger.Error("ошибка при получении свободных слотов", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	successResponse(c, http.StatusOK, slots)
}
