package schedule

import (
	"slices"
	"strings"

	"github.com/yukikurage/crew-scheduling-api/internal/models"
)

// Criteria narrows a task list. Zero-valued fields are inactive.
type Criteria struct {
	Query    string           `json:"query"`
	TaskType *models.TaskType `json:"task_type"`
	Priority *int             `json:"priority"`
}

// Filter returns the tasks matching every active criterion, sorted by start
// date ascending. Ties keep their input order. The input is not modified.
func Filter(tasks []models.CrewTask, criteria Criteria) []models.CrewTask {
	query := strings.ToLower(strings.TrimSpace(criteria.Query))

	out := make([]models.CrewTask, 0, len(tasks))
	for _, task := range tasks {
		if query != "" && !matchesQuery(task, query) {
			continue
		}
		if criteria.TaskType != nil && *criteria.TaskType != "" && task.TaskType != *criteria.TaskType {
			continue
		}
		if criteria.Priority != nil && task.Priority != *criteria.Priority {
			continue
		}
		out = append(out, task)
	}

	slices.SortStableFunc(out, func(a, b models.CrewTask) int {
		return a.StartDate.Compare(b.StartDate)
	})
	return out
}

func matchesQuery(task models.CrewTask, query string) bool {
	for _, field := range []string{task.Title, task.Description, task.CustomerName, task.Location} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
