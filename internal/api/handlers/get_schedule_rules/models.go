package get_schedule_rules

import (
	"time"

	"github.com/m04kA/FGV-BookingService/internal/domain"
)

// ScheduleRulesResponse HTTP response model
type ScheduleRulesResponse struct {
	OperatingWeekdays  []int    `json:"operatingWeekdays"` // 0=воскресенье .. 6=суббота
	SeasonStart        string   `json:"seasonStart"`       // "MM-DD"
	SeasonEnd          string   `json:"seasonEnd"`         // "MM-DD"
	SlotLabels         []string `json:"slotLabels"`
	MaxBookingsPerSlot int      `json:"maxBookingsPerSlot"`
	MaxBouquetsPerSlot int      `json:"maxBouquetsPerSlot"`
	CreatedAt          string   `json:"createdAt"`
	UpdatedAt          string   `json:"updatedAt"`
}

// FromDomainRules конвертирует domain модель в HTTP response
func FromDomainRules(rules *domain.ScheduleRules) *ScheduleRulesResponse {
	weekdays := make([]int, 0, len(rules.OperatingWeekdays))
	for _, wd := range rules.OperatingWeekdays {
		weekdays = append(weekdays, int(wd))
	}

	labels := make([]string, 0, len(rules.SlotLabels))
	for _, label := range rules.SlotLabels {
		labels = append(labels, string(label))
	}

	return &ScheduleRulesResponse{
		OperatingWeekdays:  weekdays,
		SeasonStart:        rules.SeasonStart.String(),
		SeasonEnd:          rules.SeasonEnd.String(),
		SlotLabels:         labels,
		MaxBookingsPerSlot: rules.MaxBookingsPerSlot,
		MaxBouquetsPerSlot: rules.MaxBouquetsPerSlot,
		CreatedAt:          rules.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          rules.UpdatedAt.Format(time.RFC3339),
	}
}
