package domain

// Default configuration values
const (
	DefaultMaxBookingsPerSlot = 4
	DefaultMaxBouquetsPerSlot = 12
)

// Business validation constants
const (
	MinBookingsPerSlot = 1
	MaxBookingsPerSlot = 100
	MinBouquetsPerSlot = 1
	MaxBouquetsPerSlot = 500

	MinBouquetsPerBooking = 1
	MaxBouquetsPerBooking = 20

	MaxSlotLabels = 24

	MaxCustomerNameLength       = 200
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxHolidayTitleLength       = 200
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
