package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zapis/internal/domain"
)

// @Summary Получить настройки календаря
// @Description Возвращает документ настроек с заполненными значениями по умолчанию
// @Tags Настройки
// @Accept json
// @Produce json
// @Param id path int true "ID организации"
// @Param calendarId path int true "ID календаря"
// @Success 200 {object} domain.Settings "Настройки календаря"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /organizations/{id}/calendars/{calendarId}/settings [get]
func (h *Handler) getSettings(c *gin.Context) {
	orgID, calendarID, ok := getOrgCalendarParams(c)
	if !ok {
		return
	}

	settings, err := h.services.Settings.Get(c.Request.Context(), orgID, calendarID)
	if err != nil {
		h.logger.Error("ошибка при получении настроек", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	successResponse(c, http.StatusOK, settings)
}

// @Summary Обновить настройки календаря
// @Description Накладывает переданные поля на документ настроек и сохраняет его целиком
// @Tags Настройки
// @Accept json
// @Produce json
// @Param id path int true "ID организации"
// @Param calendarId path int true "ID календаря"
// @Param input body domain.UpdateSettingsDTO true "Изменяемые поля настроек"
// @Success 200 {object} domain.Settings "Обновленные настройки"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /organizations/{id}/calendars/{calendarId}/settings [put]
func (h *Handler) updateSettings(c *gin.Context) {
	orgID, calendarID, ok := getOrgCalendarParams(c)
	if !ok {
		return
	}

	var req domain.UpdateSettingsDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	settings, err := h.services.Settings.Update(c.Request.Context(), orgID, calendarID, req)
	if err != nil {
		h.logger.Error("ошибка при обновлении настроек", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	successResponse(c, http.StatusOK, settings)
}
