package schedule

import (
	"time"

	"github.com/yukikurage/crew-scheduling-api/internal/models"
)

// HoursSummary compares a driver's scheduled hours with their capacity. The
// Over* flags are informational; nothing rejects an assignment because of
// them.
type HoursSummary struct {
	Date         models.Date `json:"date"`
	DayHours     float64     `json:"day_hours"`
	WeekHours    float64     `json:"week_hours"`
	MonthHours   float64     `json:"month_hours"`
	MaxDay       float64     `json:"max_hours_per_day"`
	MaxWeek      float64     `json:"max_hours_per_week"`
	MaxMonth     float64     `json:"max_hours_per_month"`
	OverDay      bool        `json:"over_day"`
	OverWeek     bool        `json:"over_week"`
	OverMonth    bool        `json:"over_month"`
	PreferredDay bool        `json:"preferred_day"`
}

// SummarizeHours totals the hours of tasks on day, on day's ISO week
// (Monday to Sunday) and on day's calendar month. Cancelled tasks and tasks
// without hours_per_day are ignored.
func SummarizeHours(tasks []models.CrewTask, capacity models.DriverCapacity, day models.Date) HoursSummary {
	weekStart := day.AddDays(-((int(day.In(time.UTC).Weekday()) + 6) % 7))
	weekEnd := weekStart.AddDays(6)
	monthStart := models.NewDate(day.Year, day.Month, 1)
	// Month 13 normalizes to January of the next year.
	monthEnd := models.NewDate(day.Year, day.Month+1, 1).AddDays(-1)

	summary := HoursSummary{
		Date:         day,
		MaxDay:       capacity.MaxHoursPerDay,
		MaxWeek:      capacity.MaxHoursPerWeek,
		MaxMonth:     capacity.MaxHoursPerMonth,
		PreferredDay: capacity.WorksOn(day.In(time.UTC).Weekday()),
	}

	for _, task := range tasks {
		if task.TaskStatus == models.TaskStatusCancelled || task.HoursPerDay == nil {
			continue
		}
		hours := *task.HoursPerDay
		summary.DayHours += hours * float64(overlapDays(task, day, day))
		summary.WeekHours += hours * float64(overlapDays(task, weekStart, weekEnd))
		summary.MonthHours += hours * float64(overlapDays(task, monthStart, monthEnd))
	}

	summary.OverDay = capacity.MaxHoursPerDay > 0 && summary.DayHours > capacity.MaxHoursPerDay
	summary.OverWeek = capacity.MaxHoursPerWeek > 0 && summary.WeekHours > capacity.MaxHoursPerWeek
	summary.OverMonth = capacity.MaxHoursPerMonth > 0 && summary.MonthHours > capacity.MaxHoursPerMonth
	return summary
}

// overlapDays counts the days task spends inside [from, to].
func overlapDays(task models.CrewTask, from, to models.Date) int {
	start := task.StartDate
	if start.Before(from) {
		start = from
	}
	end := task.EndDate
	if end.After(to) {
		end = to
	}
	if end.Before(start) {
		return 0
	}
	return start.DaysUntil(end) + 1
}
