package service

import "errors"

// Ошибки конфликтов бронирования. Обработчики сопоставляют их через
// errors.Is и отвечают статусом 409.
var (
	ErrSlotUnavailable    = errors.New("слот недоступен для записи")
	ErrSlotHasAppointment = errors.New("на этот слот есть подтверждённая запись")
	ErrSlotAlreadyBooked  = errors.New("слот уже занят другой записью")
)
