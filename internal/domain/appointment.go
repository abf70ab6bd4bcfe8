package domain

import (
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

type LocationType string

const (
	LocationTypeOffice LocationType = "office"
	LocationTypePhone  LocationType = "phone"
	LocationTypeVideo  LocationType = "video"
)

type LocationDetails struct {
	Type    LocationType `json:"type"`
	Details string       `json:"details,omitempty"`
}

type Appointment struct {
	ID              int64             `json:"id"`
	OrgID           int64             `json:"org_id"`
	CalendarID      int64             `json:"calendar_id"`
	SlotID          int64             `json:"slot_id"`
	Email           string            `json:"email"`
	Location        LocationDetails   `json:"location_details"`
	Status          AppointmentStatus `json:"status"`
	AppointmentDate time.Time         `json:"appointment_date"`
	Date            string            `json:"date,omitempty"`
	Time            string            `json:"time,omitempty"`
	ProviderEventID string            `json:"provider_event_id,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	ExpiresAt       time.Time         `json:"expires_at"`
}

type CreateAppointmentDTO struct {
	SlotID   int64           `json:"slot_id" binding:"required"`
	Email    string          `json:"email" binding:"required,email"`
	Location LocationDetails `json:"location_details" binding:"required"`
}

type UpdateAppointmentDTO struct {
	Status          *AppointmentStatus `json:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
	Location        *LocationDetails   `json:"location_details"`
	ProviderEventID *string            `json:"provider_event_id"`
}

type AppointmentFilter struct {
	OrgID         *int64             `json:"org_id"`
	CalendarID    *int64             `json:"calendar_id"`
	Email         *string            `json:"email"`
	Status        *AppointmentStatus `json:"status"`
	ExcludeStatus *AppointmentStatus `json:"exclude_status"`
	StartDate     *time.Time         `json:"start_date"`
	EndDate       *time.Time         `json:"end_date"`
	Limit         int                `json:"limit"`
	Offset        int                `json:"offset"`
}
