package rest

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zapis/internal/domain"
	"zapis/internal/service"
)

// @Summary Создать запись
// @Description Публичная точка мастера бронирования: создает ожидающую запись на свободный слот
// @Tags Записи
// @Accept json
// @Produce json
// @Param id path int true "ID организации"
// @Param calendarId path int true "ID календаря"
// @Param input body domain.CreateAppointmentDTO true "Данные записи"
// @Success 201 {object} map[string]interface{} "ID созданной записи"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 409 {object} errorResponseBody "Слот недоступен"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /organizations/{id}/calendars/{calendarId}/appointments [post]
func (h *Handler) bookAppointment(c *gin.Context) {
	orgID, calendarID, ok := getOrgCalendarParams(c)
	if !ok {
		return
	}

	var req domain.CreateAppointmentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Appointment.Book(c.Request.Context(), orgID, calendarID, req)
	if err != nil {
		h.logger.Error("ошибка при создании записи", zap.Error(err))
		if errors.Is(err, service.ErrSlotUnavailable) {
			errorResponse(c, http.StatusConflict, err.Error())
			return
		}
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Подтвердить запись
// @Description Переводит ожидающую запись в подтвержденную и помечает слот занятым
// @Tags Записи
// @Accept json
// @Produce json
// @Param id path int true "ID записи"
// @Success 200 {object} messageResponseType "Запись подтверждена"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 409 {object} errorResponseBody "Слот уже занят"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /appointments/{id}/confirm [post]
func (h *Handler) confirmAppointment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if err := h.services.Appointment.Confirm(c.Request.Context(), id); err != nil {
		h.logger.Error("ошибка при подтверждении записи", zap.Error(err))
		if errors.Is(err, service.ErrSlotAlreadyBooked) {
			errorResponse(c, http.StatusConflict, err.Error())
			return
		}
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	messageResponse(c, http.StatusOK, "запись подтверждена")
}

// @Summary Отменить запись
// @Description Отменяет запись и освобождает слот
// @Tags Записи
// @Accept json
// @Produce json
// @Param id path int true "ID записи"
// @Success 200 {object} messageResponseType "Запись отменена"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /appointments/{id}/cancel [post]
func (h *Handler) cancelAppointment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if err := h.services.Appointment.Cancel(c.Request.Context(), id); err != nil {
		h.logger.Error("ошибка при отмене записи", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	messageResponse(c, http.StatusOK, "запись отменена")
}

// @Summary Получить запись по ID
// @Tags Записи
// @Accept json
// @Produce json
// @Param id path int true "ID записи"
// @Success 200 {object} domain.Appointment "Данные записи"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 404 {object} errorResponseBody "Запись не найдена"
// @Security ApiKeyAuth
// @Router /appointments/{id} [get]
func (h *Handler) getAppointmentByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	appointment, err := h.services.Appointment.GetByID(c.Request.Context(), id)
	if err != nil {
		notFoundResponse(c, "запись не найдена")
		return
	}

	successResponse(c, http.StatusOK, appointment)
}

// @Summary Обновить запись
// @Tags Записи
// @Accept json
// @Produce json
// @Param id path int true "ID записи"
// @Param input body domain.UpdateAppointmentDTO true "Изменяемые поля записи"
// @Success 204 {object} nil "Запись обновлена"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /appointments/{id} [put]
func (h *Handler) updateAppointment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	var req domain.UpdateAppointmentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Appointment.Update(c.Request.Context(), id, req); err != nil {
		h.logger.Error("ошибка при обновлении записи", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	noContentResponse(c)
}

// @Summary Список записей
// @Description Постраничный список записей с фильтрами, просроченные ожидающие записи отменяются
// @Tags Записи
// @Accept json
// @Produce json
// @Param org_id query int false "ID организации"
// @Param calendar_id query int false "ID календаря"
// @Param email query string false "Email клиента"
// @Param status query string false "Статус записи: pending, confirmed, cancelled"
// @Param start_date query string false "Начало диапазона YYYY-MM-DD"
// @Param end_date query string false "Конец диапазона YYYY-MM-DD"
// @Param page query int false "Номер страницы" default(1)
// @Param page_size query int false "Размер страницы" default(20)
// @Success 200 {object} paginatedResponse "Записи"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /appointments [get]
func (h *Handler) getAppointments(c *gin.Context) {
	page, pageSize := getPagination(c)

	filter := domain.AppointmentFilter{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}

	if raw := c.Query("org_id"); raw != "" {
		orgID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequestResponse(c, "неверный формат org_id")
			return
		}
		filter.OrgID = &orgID
	}

	if raw := c.Query("calendar_id"); raw != "" {
		calendarID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequestResponse(c, "неверный формат calendar_id")
			return
		}
		filter.CalendarID = &calendarID
	}

	if raw := c.Query("email"); raw != "" {
		filter.Email = &raw
	}

	if raw := c.Query("status"); raw != "" {
		status := domain.AppointmentStatus(raw)
		filter.Status = &status
	}

	if raw := c.Query("start_date"); raw != "" {
		startDate, err := time.Parse("2006-01-02", raw)
		if err != nil {
			badRequestResponse(c, "неверный формат start_date")
			return
		}
		filter.StartDate = &startDate
	}

	if raw := c.Query("end_date"); raw != "" {
		endDate, err := time.Parse("2006-01-02", raw)
		if err != nil {
			badRequestResponse(c, "неверный формат end_date")
			return
		}
		filter.EndDate = &endDate
	}

	appointments, total, err := h.services.Appointment.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("ошибка при получении списка записей", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	paginatedSuccessResponse(c, appointments, total, page, pageSize)
}
