package schedule

import (
	"github.com/yukikurage/crew-scheduling-api/internal/constants"
	"github.com/yukikurage/crew-scheduling-api/internal/models"
)

// Expand lays tasks out one cell per day of [StartDate, EndDate], clipped to
// [from, to], and groups the cells by driver. Tasks without a driver land in
// the unassigned bucket. Entries are ordered by first appearance of the
// driver in tasks. names resolves driver display names; a task's preloaded
// Driver takes precedence.
func Expand(tasks []models.CrewTask, from, to models.Date, names map[string]string) []Entry {
	entries := []Entry{}
	index := make(map[string]int)

	for _, task := range tasks {
		if task.StartDate.IsZero() || task.EndDate.Before(task.StartDate) {
			continue
		}

		driverID := constants.UnassignedDriverID
		driverName := constants.UnassignedDriverName
		if !task.IsUnassigned() {
			driverID = *task.DriverID
			driverName = resolveName(task, names)
		}

		totalDays := task.DurationDays()
		first := max(0, task.StartDate.DaysUntil(from))
		last := min(totalDays-1, task.StartDate.DaysUntil(to))
		for offset := first; offset <= last; offset++ {
			day := task.StartDate.AddDays(offset)

			pos, ok := index[driverID]
			if !ok {
				pos = len(entries)
				index[driverID] = pos
				entries = append(entries, Entry{
					DriverID:   driverID,
					DriverName: driverName,
					Dates:      map[string]Cell{},
				})
			}

			key := day.String()
			cell := entries[pos].Dates[key]
			cell.Tasks = append(cell.Tasks, ScheduledTask{
				CrewTask:   task,
				TaskDate:   day,
				CurrentDay: offset + 1,
				IsMultiDay: totalDays > 1,
				IsFirstDay: offset == 0,
				IsLastDay:  offset == totalDays-1,
			})
			cell.TaskCount++
			entries[pos].Dates[key] = cell
		}
	}

	return entries
}

func resolveName(task models.CrewTask, names map[string]string) string {
	if task.Driver != nil {
		if name := task.Driver.DisplayName(); name != "" {
			return name
		}
	}
	if name, ok := names[*task.DriverID]; ok {
		return name
	}
	return *task.DriverID
}
