package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zapis/internal/domain"
	"zapis/pkg/validator"
)

// @Summary Создать слот
// @Tags Слоты
// @Accept json
// @Produce json
// @Param id path int true "ID организации"
// @Param calendarId path int true "ID календаря"
// @Param input body domain.CreateTimeSlotDTO true "Данные слота"
// @Success 201 {object} map[string]interface{} "ID созданного слота"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /organizations/{id}/calendars/{calendarId}/slots [post]
func (h *Handler) createTimeSlot(c *gin.Context) {
	orgID, calendarID, ok := getOrgCalendarParams(c)
	if !ok {
		return
	}

	var req domain.CreateTimeSlotDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if !validator.ValidateDate(req.Date) || !validator.ValidateTimeLabel(req.Time) {
		badRequestResponse(c, "неверный формат даты или времени")
		return
	}

	id, err := h.services.TimeSlot.Create(c.Request.Context(), orgID, calendarID, req)
	if err != nil {
		h.logger.Error("ошибка при создании слота", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Массовое создание слотов
// @Description Создает свободные слоты на диапазон дат по рабочим часам календаря
// @Tags Слоты
// @Accept json
// @Produce json
// @Param id path int true "ID организации"
// @Param calendarId path int true "ID календаря"
// @Param input body domain.SeedTimeSlotsDTO true "Диапазон дат"
// @Success 201 {object} map[string]interface{} "Количество созданных слотов"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /organizations/{id}/calendars/{calendarId}/slots/seed [post]
func (h *Handler) seedTimeSlots(c *gin.Context) {
	orgID, calendarID, ok := getOrgCalendarParams(c)
	if !ok {
		return
	}

	var req domain.SeedTimeSlotsDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	created, err := h.services.TimeSlot.Seed(c.Request.Context(), orgID, calendarID, req)
	if err != nil {
		h.logger.Error("ошибка при массовом создании слотов", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	createdResponse(c, map[string]interface{}{
		"created": created,
	})
}

// @Summary Список слотов
// @Description Постраничный список слотов календаря с фильтрами
// @Tags Слоты
// @Accept json
// @Produce json
// @Param id path int true "ID организации"
// @Param calendarId path int true "ID календаря"
// @Param status query string false "Статус слота: available, unavailable, booked"
// @Param date_from query string false "Начало диапазона дат YYYY-MM-DD"
// @Param date_to query string false "Конец диапазона дат YYYY-MM-DD"
// @Param page query int false "Номер страницы" default(1)
// @Param page_size query int false "Размер страницы" default(20)
// @Success 200 {object} paginatedResponse "Слоты"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /organizations/{id}/calendars/{calendarId}/slots [get]
func (h *Handler) getTimeSlots(c *gin.Context) {
	orgID, calendarID, ok := getOrgCalendarParams(c)
	if !ok {
		return
	}

	page, pageSize := getPagination(c)

	filter := domain.TimeSlotFilter{
		OrgID:      &orgID,
		CalendarID: &calendarID,
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	}

	if raw := c.Query("status"); raw != "" {
		status := domain.SlotStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("date_from"); raw != "" {
		filter.DateFrom = &raw
	}
	if raw := c.Query("date_to"); raw != "" {
		filter.DateTo = &raw
	}

	slots, total, err := h.services.TimeSlot.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("ошибка при получении списка слотов", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	paginatedSuccessResponse(c, slots, total, page, pageSize)
}

// @Summary Обновить статус слота
// @Tags Слоты
// @Accept json
// @Produce json
// @Param id path int true "ID организации"
// @Param calendarId path int true "ID календаря"
// @Param slotId path int true "ID слота"
// @Param input body domain.UpdateTimeSlotDTO true "Новый статус"
// @Success 204 {object} nil "Слот обновлен"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /organizations/{id}/calendars/{calendarId}/slots/{slotId} [put]
func (h *Handler) updateTimeSlot(c *gin.Context) {
	slotID, err := strconv.ParseInt(c.Param("slotId"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID слота")
		return
	}

	var req domain.UpdateTimeSlotDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.TimeSlot.UpdateStatus(c.Request.Context(), slotID, req); err != nil {
		h.logger.Error("ошибка при обновлении слота", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	noContentResponse(c)
}

// @Summary Удалить слот
// @Tags Слоты
// @Accept json
// @Produce json
// @Param id path int true "ID организации"
// @Param calendarId path int true "ID календаря"
// @Param slotId path int true "ID слота"
// @Success 204 {object} nil "Слот удален"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /organizations/{id}/calendars/{calendarId}/slots/{slotId} [delete]
func (h *Handler) deleteTimeSlot(c *gin.Context) {
	slotID, err := strconv.ParseInt(c.Param("slotId"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID слота")
		return
	}

	if err := h.services.TimeSlot.Delete(c.Request.Context(), slotID); err != nil {
		h.logger.Error("ошибка при удалении слота", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	noContentResponse(c)
}
