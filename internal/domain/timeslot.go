package domain

import (
	"time"
)

type SlotStatus string

const (
	SlotStatusAvailable   SlotStatus = "available"
	SlotStatusUnavailable SlotStatus = "unavailable"
	SlotStatusBooked      SlotStatus = "booked"
)

// TimeSlot — плоская запись для публичного мастера бронирования.
// Пустой статус трактуется как "available".
type TimeSlot struct {
	ID         int64      `json:"id"`
	OrgID      int64      `json:"org_id"`
	CalendarID int64      `json:"calendar_id"`
	Date       string     `json:"date"`
	Time       string     `json:"time"`
	Status     SlotStatus `json:"status,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Bookable сообщает, можно ли предлагать слот в мастере бронирования.
func (s TimeSlot) Bookable() bool {
	return s.Status != SlotStatusUnavailable && s.Status != SlotStatusBooked
}

type Timeframe string

const (
	TimeframeASAP      Timeframe = "asap"
	TimeframeThisWeek  Timeframe = "this_week"
	TimeframeNextWeek  Timeframe = "next_week"
	TimeframeThisMonth Timeframe = "this_month"
)

type CreateTimeSlotDTO struct {
	Date   string     `json:"date" binding:"required"`
	Time   string     `json:"time" binding:"required"`
	Status SlotStatus `json:"status" binding:"omitempty,oneof=available unavailable booked"`
}

// SeedTimeSlotsDTO — массовое создание слотов на диапазон дат
// по рабочим часам календаря.
type SeedTimeSlotsDTO struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

type UpdateTimeSlotDTO struct {
	Status *SlotStatus `json:"status" binding:"omitempty,oneof=available unavailable booked"`
}

type TimeSlotFilter struct {
	OrgID      *int64      `json:"org_id"`
	CalendarID *int64      `json:"calendar_id"`
	Status     *SlotStatus `json:"status"`
	DateFrom   *string     `json:"date_from"`
	DateTo     *string     `json:"date_to"`
	Limit      int         `json:"limit"`
	Offset     int         `json:"offset"`
}
