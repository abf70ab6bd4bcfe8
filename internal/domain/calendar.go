package domain

import (
	"time"
)

type CalendarProvider string

const (
	CalendarProviderGoogle  CalendarProvider = "google"
	CalendarProviderOutlook CalendarProvider = "outlook"
)

// CalendarEvent — занятый интервал из внешнего календаря.
// StartTime и EndTime приходят либо в RFC3339, либо как дата YYYY-MM-DD
// для событий на весь день.
type CalendarEvent struct {
	ID        string           `json:"id"`
	Title     string           `json:"title,omitempty"`
	StartTime string           `json:"start_time"`
	EndTime   string           `json:"end_time"`
	Provider  CalendarProvider `json:"provider"`
	IsAllDay  bool             `json:"is_all_day"`
}

// CalendarConnection — подключение внешнего календаря к паре
// (организация, календарь). Токены OAuth хранятся в сериализованном виде.
type CalendarConnection struct {
	ID           int64            `json:"id"`
	OrgID        int64            `json:"org_id"`
	CalendarID   int64            `json:"calendar_id"`
	Provider     CalendarProvider `json:"provider"`
	AccountEmail string           `json:"account_email,omitempty"`
	AccessToken  string           `json:"-"`
	RefreshToken string           `json:"-"`
	TokenExpiry  time.Time        `json:"-"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
