package update_schedule_rules

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/FGV-BookingService/internal/domain"
)

// UpdateScheduleRulesRequest HTTP request model
type UpdateScheduleRulesRequest struct {
	OperatingWeekdays  []int    `json:"operatingWeekdays"` // 0=воскресенье .. 6=суббота
	SeasonStart        string   `json:"seasonStart"`       // "MM-DD"
	SeasonEnd          string   `json:"seasonEnd"`         // "MM-DD"
	SlotLabels         []string `json:"slotLabels"`
	MaxBookingsPerSlot int      `json:"maxBookingsPerSlot"`
	MaxBouquetsPerSlot int      `json:"maxBouquetsPerSlot"`
}

// ScheduleRulesResponse HTTP response model
type ScheduleRulesResponse struct {
	OperatingWeekdays  []int    `json:"operatingWeekdays"`
	SeasonStart        string   `json:"seasonStart"`
	SeasonEnd          string   `json:"seasonEnd"`
	SlotLabels         []string `json:"slotLabels"`
	MaxBookingsPerSlot int      `json:"maxBookingsPerSlot"`
	MaxBouquetsPerSlot int      `json:"maxBouquetsPerSlot"`
	CreatedAt          string   `json:"createdAt"`
	UpdatedAt          string   `json:"updatedAt"`
}

// ToDomainRules конвертирует HTTP запрос в domain модель
func (r *UpdateScheduleRulesRequest) ToDomainRules() (*domain.ScheduleRules, error) {
	start, err := parseMonthDay(r.SeasonStart)
	if err != nil {
		return nil, fmt.Errorf("seasonStart: %w", err)
	}

	end, err := parseMonthDay(r.SeasonEnd)
	if err != nil {
		return nil, fmt.Errorf("seasonEnd: %w", err)
	}

	weekdays := make([]time.Weekday, 0, len(r.OperatingWeekdays))
	for _, wd := range r.OperatingWeekdays {
		weekdays = append(weekdays, time.Weekday(wd))
	}

	labels := make([]domain.TimeLabel, 0, len(r.SlotLabels))
	for _, label := range r.SlotLabels {
		labels = append(labels, domain.TimeLabel(strings.TrimSpace(label)))
	}

	return &domain.ScheduleRules{
		OperatingWeekdays:  weekdays,
		SeasonStart:        start,
		SeasonEnd:          end,
		SlotLabels:         labels,
		MaxBookingsPerSlot: r.MaxBookingsPerSlot,
		MaxBouquetsPerSlot: r.MaxBouquetsPerSlot,
	}, nil
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

// parseMonthDay парсит границу сезонного окна в формате "MM-DD"
func parseMonthDay(s string) (domain.MonthDay, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return domain.MonthDay{}, fmt.Errorf("expected MM-DD, got %q", s)
	}

	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return domain.MonthDay{}, fmt.Errorf("invalid month in %q", s)
	}

	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return domain.MonthDay{}, fmt.Errorf("invalid day in %q", s)
	}

	return domain.MonthDay{Month: time.Month(month), Day: day}, nil
}
