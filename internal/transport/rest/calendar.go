package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zapis/internal/domain"
)

// @Summary Подключить внешний календарь
// @Description Возвращает ссылку начала OAuth-потока для выбранного провайдера
// @Tags Синхронизация календарей
// @Accept json
// @Produce json
// @Param orgId path int true "ID организации"
// @Param calendarId path int true "ID календаря"
// @Param provider query string true "Провайдер: google или outlook"
// @Success 200 {object} map[string]interface{} "Ссылка авторизации"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /calendar-sync/{orgId}/{calendarId}/connect [get]
func (h *Handler) connectCalendar(c *gin.Context) {
	orgID, calendarID, ok := getSyncParams(c)
	if !ok {
		return
	}

	provider := domain.CalendarProvider(c.Query("provider"))
	if provider != domain.CalendarProviderGoogle && provider != domain.CalendarProviderOutlook {
		badRequestResponse(c, "неизвестный провайдер календаря")
		return
	}

	url, err := h.services.Calendar.AuthURL(c.Request.Context(), orgID, calendarID, provider)
	if err != nil {
		h.logger.Error("ошибка при создании ссылки авторизации", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	successResponse(c, http.StatusOK, map[string]interface{}{
		"auth_url": url,
	})
}

// @Summary OAuth callback
// @Description Принимает код авторизации провайдера и сохраняет подключение
// @Tags Синхронизация календарей
// @Accept json
// @Produce json
// @Param state query string true "Параметр state из ссылки авторизации"
// @Param code query string true "Код авторизации"
// @Success 200 {object} messageResponseType "Календарь подключен"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /calendar-sync/callback [get]
func (h *Handler) calendarSyncCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")

	if state == "" || code == "" {
		badRequestResponse(c, "отсутствует код авторизации")
		return
	}

	if err := h.services.Calendar.HandleCallback(c.Request.Context(), state, code); err != nil {
		h.logger.Error("ошибка при обработке callback", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	messageResponse(c, http.StatusOK, "календарь подключен")
}

// @Summary Подключения календаря
// @Description Возвращает список подключенных внешних календарей
// @Tags Синхронизация календарей
// @Accept json
// @Produce json
// @Param orgId path int true "ID организации"
// @Param calendarId path int true "ID календаря"
// @Success 200 {object} successResponseBody "Подключения"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /calendar-sync/{orgId}/{calendarId}/connections [get]
func (h *Handler) getCalendarConnections(c *gin.Context) {
	orgID, calendarID, ok := getSyncParams(c)
	if !ok {
		return
	}

	connections, err := h.services.Calendar.ListConnections(c.Request.Context(), orgID, calendarID)
	if err != nil {
		h.logger.Error("ошибка при получении подключений", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	successResponse(c, http.StatusOK, connections)
}

// @Summary События внешних календарей
// @Description Возвращает занятые интервалы подключенных календарей за период
// @Tags Синхронизация календарей
// @Accept json
// @Produce json
// @Param orgId path int true "ID организации"
// @Param calendarId path int true "ID календаря"
// @Param start query string true "Начало периода (RFC3339)"
// @Param end query string true "Конец периода (RFC3339)"
// @Success 200 {object} successResponseBody "События"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /calendar-sync/{orgId}/{calendarId}/events [get]
func (h *Handler) getCalendarEvents(c *gin.Context) {
	orgID, calendarID, ok := getSyncParams(c)
	if !ok {
		return
	}

	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		badRequestResponse(c, "неверный формат начала периода")
		return
	}

	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		badRequestResponse(c, "неверный формат конца периода")
		return
	}

	if !end.After(start) {
		badRequestResponse(c, "конец периода раньше начала")
		return
	}

	events, err := h.services.Calendar.EventsForWeek(c.Request.Context(), orgID, calendarID, start, end)
	if err != nil {
		h.logger.Error("ошибка при получении событий внешних календарей", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	successResponse(c, http.StatusOK, events)
}

func getSyncParams(c *gin.Context) (int64, int64, bool) {
	orgID, err := strconv.ParseInt(c.Param("orgId"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID организации")
		return 0, 0, false
	}

	calendarID, err := strconv.ParseInt(c.Param("calendarId"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID календаря")
		return 0, 0, false
	}

	return orgID, calendarID, true
}
