package rest

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zapis/internal/domain"
	"zapis/pkg/validator"
)

const maxLogoSize = 5 << 20 // 5 МБ

// @Summary Создать организацию
// @Description Создает организацию, владельцем становится текущий пользователь
// @Tags Организации
// @Accept json
// @Produce json
// @Param input body domain.CreateOrganizationDTO true "Данные организации"
// @Success 201 {object} map[string]interface{} "ID созданной организации"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /organizations [post]
func (h *Handler) createOrganization(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var req domain.CreateOrganizationDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if !validator.ValidateSlug(req.Slug) {
		badRequestResponse(c, "неверный формат slug")
		return
	}
	req.Name = validator.SanitizeString(req.Name)

	id, err := h.services.Organization.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.logger.Error("ошибка при создании организации", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Получить организацию по ID
// @Tags Организации
// @Accept json
// @Produce json
// @Param id path int true "ID организации"
// @Success 200 {object} domain.Organization "Данные организации"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 404 {object} errorResponseBody "Организация не найдена"
// @Router /organizations/{id} [get]
func (h *Handler) getOrganizationByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	org, err := h.services.Organization.GetByID(c.Request.Context(), id)
	if err != nil {
		notFoundResponse(c, "организация не найдена")
		return
	}

	successResponse(c, http.StatusOK, org)
}

// @Summary Получить организацию по slug
// @Description Публичная точка для страницы бронирования
// @Tags Организации
// @Accept json
// @Produce json
// @Param slug path string true "Slug организации"
// @Success 200 {object} domain.Organization "Данные организации"
// @Failure 404 {object} errorResponseBody "Организация не найдена"
// @Router /organizations/slug/{slug} [get]
func (h *Handler) getOrganizationBySlug(c *gin.Context) {
	slug := c.Param("slug")

	org, err := h.services.Organization.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		notFoundResponse(c, "организация не найдена")
		return
	}

	successResponse(c, http.StatusOK, org)
}

// @Summary Список организаций
// @Description Возвращает постраничный список организаций (только для администраторов)
// @Tags Организации
// @Accept json
// @Produce json
// @Param page query int false "Номер страницы" default(1)
// @Param page_size query int false "Размер страницы" default(20)
// @Success 200 {object} successResponseBody "Список организаций"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Security ApiKeyAuth
// @Router /organizations [get]
func (h *Handler) getOrganizations(c *gin.Context) {
	page, pageSize := getPagination(c)

	orgs, err := h.services.Organization.List(c.Request.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		h.logger.Error("ошибка при получении списка организаций", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	successResponse(c, http.StatusOK, orgs)
}

// @Summary Обновить организацию
// @Tags Организации
// @Accept json
// @Produce json
// @Param id path int true "ID организации"
// @Param input body domain.UpdateOrganizationDTO true "Новые данные организации"
// @Success 204 {object} nil "Организация обновлена"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /organizations/{id} [put]
func (h *Handler) updateOrganization(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if !h.canManageOrganization(c, id) {
		return
	}

	var req domain.UpdateOrganizationDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if req.Slug != nil && !validator.ValidateSlug(*req.Slug) {
		badRequestResponse(c, "неверный формат slug")
		return
	}

	if err := h.services.Organization.Update(c.Request.Context(), id, req); err != nil {
		h.logger.Error("ошибка при обновлении организации", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	noContentResponse(c)
}

// @Summary Удалить организацию
// @Tags Организации
// @Accept json
// @Produce json
// @Param id path int true "ID организации"
// @Success 204 {object} nil "Организация удалена"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /organizations/{id} [delete]
func (h *Handler) deleteOrganization(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if !h.canManageOrganization(c, id) {
		return
	}

	if err := h.services.Organization.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("ошибка при удалении организации", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	noContentResponse(c)
}

// @Summary Загрузить логотип организации
// @Description Загружает изображение логотипа для страницы бронирования
// @Tags Организации
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "ID организации"
// @Param logo formData file true "Файл логотипа"
// @Success 200 {object} map[string]interface{} "URL загруженного логотипа"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /organizations/{id}/logo [post]
func (h *Handler) uploadOrganizationLogo(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if !h.canManageOrganization(c, id) {
		return
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		badRequestResponse(c, "файл логотипа не передан")
		return
	}

	if fileHeader.Size > maxLogoSize {
		badRequestResponse(c, "файл логотипа слишком большой")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("ошибка открытия файла логотипа", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("ошибка чтения файла логотипа", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	url, err := h.services.Organization.UploadLogo(c.Request.Context(), id, data, fileHeader.Filename)
	if err != nil {
		h.logger.Error("ошибка загрузки логотипа", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	successResponse(c, http.StatusOK, map[string]interface{}{
		"logo_url": url,
	})
}

// @Summary Удалить логотип организации
// @Tags Организации
// @Accept json
// @Produce json
// @Param id path int true "ID организации"
// @Success 204 {object} nil "Логотип удален"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /organizations/{id}/logo [delete]
func (h *Handler) deleteOrganizationLogo(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if !h.canManageOrganization(c, id) {
		return
	}

	if err := h.services.Organization.DeleteLogo(c.Request.Context(), id); err != nil {
		h.logger.Error("ошибка удаления логотипа", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	noContentResponse(c)
}

// @Summary Создать календарь
// @Tags Календари
// @Accept json
// @Produce json
// @Param id path int true "ID организации"
// @Param input body domain.CreateCalendarDTO true "Данные календаря"
// @Success 201 {object} map[string]interface{} "ID созданного календаря"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /organizations/{id}/calendars [post]
func (h *Handler) createCalendar(c *gin.Context) {
	orgID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if !h.canManageOrganization(c, orgID) {
		return
	}

	var req domain.CreateCalendarDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Organization.CreateCalendar(c.Request.Context(), orgID, req)
	if err != nil {
		h.logger.Error("ошибка при создании календаря", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Список календарей организации
// @Tags Календари
// @Accept json
// @Produce json
// @Param id path int true "ID организации"
// @Success 200 {object} successResponseBody "Список календарей"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Security ApiKeyAuth
// @Router /organizations/{id}/calendars [get]
func (h *Handler) getCalendars(c *gin.Context) {
	orgID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	calendars, err := h.services.Organization.ListCalendars(c.Request.Context(), orgID)
	if err != nil {
		h.logger.Error("ошибка при получении списка календарей", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	successResponse(c, http.StatusOK, calendars)
}

// @Summary Получить календарь по ID
// @Tags Календари
// @Accept json
// @Produce json
// @Param id path int true "ID организации"
// @Param calendarId path int true "ID календаря"
// @Success 200 {object} domain.Calendar "Данные календаря"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 404 {object} errorResponseBody "Календарь не найден"
// @Security ApiKeyAuth
// @Router /organizations/{id}/calendars/{calendarId} [get]
func (h *Handler) getCalendarByID(c *gin.Context) {
	orgID, calendarID, ok := getOrgCalendarParams(c)
	if !ok {
		return
	}

	calendar, err := h.services.Organization.GetCalendarByID(c.Request.Context(), orgID, calendarID)
	if err != nil {
		notFoundResponse(c, "календарь не найден")
		return
	}

	successResponse(c, http.StatusOK, calendar)
}

// @Summary Удалить календарь
// @Tags Календари
// @Accept json
// @Produce json
// @Param id path int true "ID организации"
// @Param calendarId path int true "ID календаря"
// @Success 204 {object} nil "Календарь удален"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /organizations/{id}/calendars/{calendarId} [delete]
func (h *Handler) deleteCalendar(c *gin.Context) {
	orgID, calendarID, ok := getOrgCalendarParams(c)
	if !ok {
		return
	}

	if !h.canManageOrganization(c, orgID) {
		return
	}

	if err := h.services.Organization.DeleteCalendar(c.Request.Context(), orgID, calendarID); err != nil {
		h.logger.Error("ошибка при удалении календаря", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	noContentResponse(c)
}

// canManageOrganization пропускает владельца организации и администратора.
// При отказе ответ уже записан.
func (h *Handler) canManageOrganization(c *gin.Context, orgID int64) bool {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return false
	}

	userRole, err := getUserRole(c)
	if err != nil {
		unauthorizedResponse(c)
		return false
	}

	if userRole == domain.UserRoleAdmin {
		return true
	}

	org, err := h.services.Organization.GetByID(c.Request.Context(), orgID)
	if err != nil {
		notFoundResponse(c, "организация не найдена")
		return false
	}

	if org.OwnerID != userID {
		forbiddenResponse(c, "доступ только для владельца организации")
		return false
	}

	return true
}

func getOrgCalendarParams(c *gin.Context) (int64, int64, bool) {
	orgID, err := strconv.ParseInt(c.Param("id"), 10, 64)
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
