package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/crew-scheduling-api/internal/constants"
	"github.com/yukikurage/crew-scheduling-api/internal/models"
	"github.com/yukikurage/crew-scheduling-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// ActiveTasks excludes tasks that no longer occupy a driver.
func ActiveTasks(db *gorm.DB) *gorm.DB {
	return db.Where("crew_tasks.task_status NOT IN ?",
		[]models.TaskStatus{models.TaskStatusCancelled, models.TaskStatusCompleted})
}

// OverlappingRange keeps tasks whose inclusive date range intersects
// [from, to].
func OverlappingRange(from, to models.Date) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("crew_tasks.start_date <= ? AND crew_tasks.end_date >= ?", to, from)
	}
}

// ForDriver narrows to one driver. The unassigned sentinel matches NULL.
func ForDriver(driverID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if driverID == constants.UnassignedDriverID {
			return db.Where("crew_tasks.driver_id IS NULL")
		}
		return db.Where("crew_tasks.driver_id = ?", driverID)
	}
}
