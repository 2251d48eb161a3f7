package notifier

import "github.com/m04kA/FGV-BookingService/internal/domain"

// Noop заглушка для конфигураций без webhook-уведомлений
type Noop struct{}

func (Noop) BookingCreated(*domain.Booking)     {}
func (Noop) BookingCancelled(*domain.Booking)   {}
func (Noop) BookingRescheduled(*domain.Booking) {}
