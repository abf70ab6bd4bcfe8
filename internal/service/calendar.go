package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/microsoft"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"zapis/config"
	"zapis/internal/availability"
	"zapis/internal/domain"
	"zapis/internal/repository"
)

const graphBaseURL = "https://graph.microsoft.com/v1.0"

type CalendarServiceImpl struct {
	connRepo repository.CalendarConnectionRepository
	cfg      *config.Config
	logger   *zap.Logger
}

func NewCalendarService(connRepo repository.CalendarConnectionRepository, cfg *config.Config, logger *zap.Logger) *CalendarServiceImpl {
	return &CalendarServiceImpl{
		connRepo: connRepo,
		cfg:      cfg,
		logger:   logger,
	}
}

func (s *CalendarServiceImpl) googleOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.Google.ClientID,
		ClientSecret: s.cfg.Google.ClientSecret,
		RedirectURL:  s.cfg.Google.RedirectURL,
		Scopes:       []string{calendar.CalendarEventsScope},
		Endpoint:     google.Endpoint,
	}
}

func (s *CalendarServiceImpl) outlookOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.Outlook.ClientID,
		ClientSecret: s.cfg.Outlook.ClientSecret,
		RedirectURL:  s.cfg.Outlook.RedirectURL,
		Scopes:       []string{"offline_access", "https://graph.microsoft.com/Calendars.ReadWrite"},
		Endpoint:     microsoft.AzureADEndpoint(s.cfg.Outlook.Tenant),
	}
}

func (s *CalendarServiceImpl) oauthConfig(provider domain.CalendarProvider) (*oauth2.Config, error) {
	switch provider {
	case domain.CalendarProviderGoogle:
		cfg := s.googleOAuthConfig()
		if cfg.ClientID == "" || cfg.ClientSecret == "" {
			return nil, errors.New("интеграция с Google Calendar не настроена")
		}
		return cfg, nil
	case domain.CalendarProviderOutlook:
		cfg := s.outlookOAuthConfig()
		if cfg.ClientID == "" || cfg.ClientSecret == "" {
			return nil, errors.New("интеграция с Outlook не настроена")
		}
		return cfg, nil
	default:
		return nil, fmt.Errorf("неизвестный провайдер календаря: %s", provider)
	}
}

// AuthURL возвращает ссылку начала OAuth-потока. Пара (организация,
// календарь) и провайдер кодируются в state и возвращаются в callback.
func (s *CalendarServiceImpl) AuthURL(ctx context.Context, orgID, calendarID int64, provider domain.CalendarProvider) (string, error) {
	cfg, err := s.oauthConfig(provider)
	if err != nil {
		return "", err
	}

	state := fmt.Sprintf("%s:%d:%d:%s", provider, orgID, calendarID, uuid.New().String())

	return cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// HandleCallback обменивает код на токены и сохраняет подключение.
func (s *CalendarServiceImpl) HandleCallback(ctx context.Context, state, code string) error {
	provider, orgID, calendarID, err := parseOAuthState(state)
	if err != nil {
		return err
	}

	cfg, err := s.oauthConfig(provider)
	if err != nil {
		return err
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("ошибка обмена кода на токен", zap.String("provider", string(provider)), zap.Error(err))
		return errors.New("ошибка авторизации во внешнем календаре")
	}

	conn := domain.CalendarConnection{
		OrgID:        orgID,
		CalendarID:   calendarID,
		Provider:     provider,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenExpiry:  token.Expiry,
	}

	_, err = s.connRepo.Upsert(ctx, conn)
	if err != nil {
		s.logger.Error("ошибка сохранения подключения календаря", zap.Int64("orgId", orgID), zap.Int64("calendarId", calendarID), zap.Error(err))
		return errors.New("ошибка сохранения подключения календаря")
	}

	s.logger.Info("внешний календарь подключён",
		zap.Int64("orgId", orgID),
		zap.Int64("calendarId", calendarID),
		zap.String("provider", string(provider)),
	)

	return nil
}

func (s *CalendarServiceImpl) ListConnections(ctx context.Context, orgID, calendarID int64) ([]domain.CalendarConnection, error) {
	conns, err := s.connRepo.ListByCalendar(ctx, orgID, calendarID)
	if err != nil {
		s.logger.Error("ошибка получения подключений календаря", zap.Int64("orgId", orgID), zap.Int64("calendarId", calendarID), zap.Error(err))
		return nil, errors.New("ошибка при получении подключений календаря")
	}

	return conns, nil
}

// EventsForWeek собирает занятые интервалы со всех подключённых
// провайдеров. Сбой одного провайдера не мешает остальным.
func (s *CalendarServiceImpl) EventsForWeek(ctx context.Context, orgID, calendarID int64, start, end time.Time) ([]domain.CalendarEvent, error) {
	conns, err := s.connRepo.ListByCalendar(ctx, orgID, calendarID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения подключений календаря: %w", err)
	}

	var events []domain.CalendarEvent
	for _, conn := range conns {
		var providerEvents []domain.CalendarEvent
		var fetchErr error

		switch conn.Provider {
		case domain.CalendarProviderGoogle:
			providerEvents, fetchErr = s.googleEvents(ctx, conn, start, end)
		case domain.CalendarProviderOutlook:
			providerEvents, fetchErr = s.outlookEvents(ctx, conn, start, end)
		}

		if fetchErr != nil {
			s.logger.Warn("ошибка получения событий провайдера",
				zap.String("provider", string(conn.Provider)),
				zap.Int64("connectionId", conn.ID),
				zap.Error(fetchErr),
			)
			continue
		}

		events = append(events, providerEvents...)
	}

	return events, nil
}

// CreateEvent создаёт событие записи у первого подключённого провайдера
// и возвращает его идентификатор.
func (s *CalendarServiceImpl) CreateEvent(ctx context.Context, orgID, calendarID int64, appointment domain.Appointment) (string, error) {
	conn, err := s.primaryConnection(ctx, orgID, calendarID)
	if err != nil {
		return "", err
	}

	switch conn.Provider {
	case domain.CalendarProviderGoogle:
		return s.googleCreateEvent(ctx, *conn, appointment)
	case domain.CalendarProviderOutlook:
		return s.outlookCreateEvent(ctx, *conn, appointment)
	default:
		return "", fmt.Errorf("неизвестный провайдер календаря: %s", conn.Provider)
	}
}

func (s *CalendarServiceImpl) DeleteEvent(ctx context.Context, orgID, calendarID int64, eventID string) error {
	conn, err := s.primaryConnection(ctx, orgID, calendarID)
	if err != nil {
		return err
	}

	switch conn.Provider {
	case domain.CalendarProviderGoogle:
		return s.googleDeleteEvent(ctx, *conn, eventID)
	case domain.CalendarProviderOutlook:
		return s.outlookDeleteEvent(ctx, *conn, eventID)
	default:
		return fmt.Errorf("неизвестный провайдер календаря: %s", conn.Provider)
	}
}

func (s *CalendarServiceImpl) primaryConnection(ctx context.Context, orgID, calendarID int64) (*domain.CalendarConnection, error) {
	conns, err := s.connRepo.ListByCalendar(ctx, orgID, calendarID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения подключений календаря: %w", err)
	}
	if len(conns) == 0 {
		return nil, errors.New("внешний календарь не подключён")
	}

	return &conns[0], nil
}

// tokenSource оборачивает сохранённые токены в источник с автообновлением.
// Обновлённый access token сохраняется, чтобы не обновлять его на каждый запрос.
func (s *CalendarServiceImpl) tokenSource(ctx context.Context, conn domain.CalendarConnection) (oauth2.TokenSource, error) {
	cfg, err := s.oauthConfig(conn.Provider)
	if err != nil {
		return nil, err
	}

	stored := &oauth2.Token{
		AccessToken:  conn.AccessToken,
		RefreshToken: conn.RefreshToken,
		Expiry:       conn.TokenExpiry,
	}

	source := cfg.TokenSource(ctx, stored)

	current, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("ошибка обновления токена: %w", err)
	}

	if current.AccessToken != stored.AccessToken {
		conn.AccessToken = current.AccessToken
		if current.RefreshToken != "" {
			conn.RefreshToken = current.RefreshToken
		}
		conn.TokenExpiry = current.Expiry

		if _, err := s.connRepo.Upsert(ctx, conn); err != nil {
			s.logger.Warn("ошибка сохранения обновлённого токена", zap.Int64("connectionId", conn.ID), zap.Error(err))
		}
	}

	return oauth2.StaticTokenSource(current), nil
}

func (s *CalendarServiceImpl) googleService(ctx context.Context, conn domain.CalendarConnection) (*calendar.Service, error) {
	source, err := s.tokenSource(ctx, conn)
	if err != nil {
		return nil, err
	}

	srv, err := calendar.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания клиента Google Calendar: %w", err)
	}

	return srv, nil
}

func (s *CalendarServiceImpl) googleEvents(ctx context.Context, conn domain.CalendarConnection, start, end time.Time) ([]domain.CalendarEvent, error) {
	srv, err := s.googleService(ctx, conn)
	if err != nil {
		return nil, err
	}

	list, err := srv.Events.List("primary").
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		MaxResults(250).
		Do()
	if err != nil {
		return nil, fmt.Errorf("ошибка получения событий Google Calendar: %w", err)
	}

	var events []domain.CalendarEvent
	for _, item := range list.Items {
		if item.Start == nil || item.End == nil {
			continue
		}

		event := domain.CalendarEvent{
			ID:       item.Id,
			Title:    item.Summary,
			Provider: domain.CalendarProviderGoogle,
		}

		// События на весь день приходят с датой вместо времени.
		if item.Start.DateTime != "" {
			event.StartTime = item.Start.DateTime
			event.EndTime = item.End.DateTime
		} else {
			event.StartTime = item.Start.Date
			event.EndTime = item.End.Date
			event.IsAllDay = true
		}

		events = append(events, event)
	}

	return events, nil
}

func (s *CalendarServiceImpl) googleCreateEvent(ctx context.Context, conn domain.CalendarConnection, appointment domain.Appointment) (string, error) {
	srv, err := s.googleService(ctx, conn)
	if err != nil {
		return "", err
	}

	start := appointment.AppointmentDate.UTC()
	end := start.Add(availability.DefaultSlotDuration)

	event := &calendar.Event{
		Summary:     fmt.Sprintf("Запись: %s", appointment.Email),
		Description: fmt.Sprintf("Запись №%d через страницу бронирования", appointment.ID),
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: "UTC"},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: "UTC"},
	}

	created, err := srv.Events.Insert("primary", event).Do()
	if err != nil {
		return "", fmt.Errorf("ошибка создания события Google Calendar: %w", err)
	}

	return created.Id, nil
}

func (s *CalendarServiceImpl) googleDeleteEvent(ctx context.Context, conn domain.CalendarConnection, eventID string) error {
	srv, err := s.googleService(ctx, conn)
	if err != nil {
		return err
	}

	err = srv.Events.Delete("primary", eventID).Do()
	if err != nil {
		return fmt.Errorf("ошибка удаления события Google Calendar: %w", err)
	}

	return nil
}

type graphEvent struct {
	ID       string `json:"id"`
	Subject  string `json:"subject"`
	IsAllDay bool   `json:"isAllDay"`
	Start    struct {
		DateTime string `json:"dateTime"`
	} `json:"start"`
	End struct {
		DateTime string `json:"dateTime"`
	} `json:"end"`
}

type graphEventList struct {
	Value []graphEvent `json:"value"`
}

func (s *CalendarServiceImpl) graphRequest(ctx context.Context, conn domain.CalendarConnection, method, url string, body io.Reader) (*http.Response, error) {
	source, err := s.tokenSource(ctx, conn)
	if err != nil {
		return nil, err
	}

	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("ошибка получения токена: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса к Microsoft Graph: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Prefer", `outlook.timezone="UTC"`)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса к Microsoft Graph: %w", err)
	}

	return resp, nil
}

func (s *CalendarServiceImpl) outlookEvents(ctx context.Context, conn domain.CalendarConnection, start, end time.Time) ([]domain.CalendarEvent, error) {
	url := fmt.Sprintf("%s/me/calendarView?startDateTime=%s&endDateTime=%s&$top=250",
		graphBaseURL,
		start.UTC().Format(time.RFC3339),
		end.UTC().Format(time.RFC3339),
	)

	resp, err := s.graphRequest(ctx, conn, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Microsoft Graph вернул статус %d: %s", resp.StatusCode, string(data))
	}

	var list graphEventList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("ошибка разбора ответа Microsoft Graph: %w", err)
	}

	var events []domain.CalendarEvent
	for _, item := range list.Value {
		event := domain.CalendarEvent{
			ID:       item.ID,
			Title:    item.Subject,
			Provider: domain.CalendarProviderOutlook,
			IsAllDay: item.IsAllDay,
		}

		if item.IsAllDay {
			event.StartTime = graphDate(item.Start.DateTime)
			event.EndTime = graphDate(item.End.DateTime)
		} else {
			event.StartTime = graphDateTime(item.Start.DateTime)
			event.EndTime = graphDateTime(item.End.DateTime)
		}

		events = append(events, event)
	}

	return events, nil
}

func (s *CalendarServiceImpl) outlookCreateEvent(ctx context.Context, conn domain.CalendarConnection, appointment domain.Appointment) (string, error) {
	start := appointment.AppointmentDate.UTC()
	end := start.Add(availability.DefaultSlotDuration)

	payload := map[string]interface{}{
		"subject": fmt.Sprintf("Запись: %s", appointment.Email),
		"body": map[string]string{
			"contentType": "text",
			"content":     fmt.Sprintf("Запись №%d через страницу бронирования", appointment.ID),
		},
		"start": map[string]string{"dateTime": start.Format("2006-01-02T15:04:05"), "timeZone": "UTC"},
		"end":   map[string]string{"dateTime": end.Format("2006-01-02T15:04:05"), "timeZone": "UTC"},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации события: %w", err)
	}

	resp, err := s.graphRequest(ctx, conn, http.MethodPost, graphBaseURL+"/me/events", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Microsoft Graph вернул статус %d: %s", resp.StatusCode, string(body))
	}

	var created graphEvent
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("ошибка разбора ответа Microsoft Graph: %w", err)
	}

	return created.ID, nil
}

func (s *CalendarServiceImpl) outlookDeleteEvent(ctx context.Context, conn domain.CalendarConnection, eventID string) error {
	resp, err := s.graphRequest(ctx, conn, http.MethodDelete, graphBaseURL+"/me/events/"+eventID, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("Microsoft Graph вернул статус %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

func parseOAuthState(state string) (domain.CalendarProvider, int64, int64, error) {
	parts := strings.SplitN(state, ":", 4)
	if len(parts) != 4 {
		return "", 0, 0, errors.New("некорректный параметр state")
	}

	provider := domain.CalendarProvider(parts[0])
	if provider != domain.CalendarProviderGoogle && provider != domain.CalendarProviderOutlook {
		return "", 0, 0, errors.New("некорректный параметр state")
	}

	orgID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", 0, 0, errors.New("некорректный параметр state")
	}

	calendarID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return "", 0, 0, errors.New("некорректный параметр state")
	}

	return provider, orgID, calendarID, nil
}

// Graph отдаёт время без зоны, например "2025-01-08T12:00:00.0000000".
func graphDateTime(s string) string {
	if len(s) >= 19 {
		return s[:19] + "Z"
	}
	return s
}

func graphDate(s string) string {
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}
