package domain

import (
	"time"
)

const (
	DefaultStartTime = "09:00"
	DefaultEndTime   = "17:00"
)

// DefaultWorkingDays — понедельник–пятница.
var DefaultWorkingDays = []int{1, 2, 3, 4, 5}

type WorkingHours struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// BlockedSlot — повторяющаяся блокировка. Если Date пустая, блокировка
// действует каждый день, иначе только в указанную дату (YYYY-MM-DD).
type BlockedSlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Label     string `json:"label,omitempty"`
	Date      string `json:"date,omitempty"`
}

// OneOffSlot — точечная отметка "недоступно" для конкретной пары (дата, время).
type OneOffSlot struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type CalendarSyncSettings struct {
	AutoCreateEvents  bool `json:"auto_create_events"`
	ShowBusyTimes     bool `json:"show_busy_times"`
	SyncCancellations bool `json:"sync_cancellations"`
}

// Settings — документ настроек для пары (организация, календарь).
// Хранится и перезаписывается целиком.
type Settings struct {
	OrgID        int64                `json:"org_id"`
	CalendarID   int64                `json:"calendar_id"`
	WorkingHours *WorkingHours        `json:"working_hours,omitempty"`
	WorkingDays  []int                `json:"working_days,omitempty"`
	BlockedSlots []BlockedSlot        `json:"blocked_slots,omitempty"`
	OneOffSlots  []OneOffSlot         `json:"one_off_unavailable_slots,omitempty"`
	CalendarSync CalendarSyncSettings `json:"calendar_sync"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// Normalize заполняет отсутствующие поля значениями по умолчанию.
// Пустой (но не nil) список рабочих дней сохраняется как есть: это
// осознанное "полностью закрыто", а не отсутствие настройки.
func (s *Settings) Normalize() {
	if s.WorkingHours == nil || s.WorkingHours.StartTime == "" || s.WorkingHours.EndTime == "" {
		s.WorkingHours = &WorkingHours{StartTime: DefaultStartTime, EndTime: DefaultEndTime}
	}
	if s.WorkingDays == nil {
		s.WorkingDays = append([]int(nil), DefaultWorkingDays...)
	}
}

type UpdateSettingsDTO struct {
	WorkingHours *WorkingHours         `json:"working_hours,omitempty"`
	WorkingDays  *[]int                `json:"working_days,omitempty"`
	BlockedSlots *[]BlockedSlot        `json:"blocked_slots,omitempty"`
	CalendarSync *CalendarSyncSettings `json:"calendar_sync,omitempty"`
}

type ToggleSlotDTO struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

type ToggleDayDTO struct {
	Date string `json:"date" binding:"required"`
}
