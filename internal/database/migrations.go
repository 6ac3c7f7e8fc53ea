package database

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/crew-scheduling-api/internal/models"
)

type index struct {
	model   any
	name    string
	columns []string
}

// indexes backs the overlap check (driver + status + date range) and the
// schedule range scan.
var indexes = []index{
	{&models.CrewTask{}, "idx_crew_tasks_driver_dates", []string{"driver_id", "start_date", "end_date"}},
	{&models.CrewTask{}, "idx_crew_tasks_status", []string{"task_status"}},
	{&models.CrewTask{}, "idx_crew_tasks_start_date", []string{"start_date"}},
	{&models.CrewTask{}, "idx_crew_tasks_end_date", []string{"end_date"}},
	{&models.CrewTask{}, "idx_crew_tasks_booking_id", []string{"booking_id"}},
	{&models.Driver{}, "idx_drivers_last_name", []string{"last_name", "first_name"}},
	{&models.Vehicle{}, "idx_vehicles_brand", []string{"brand"}},
}

// AddIndexes creates any missing index. The existence check goes through the
// gorm migrator so it works on every supported dialect.
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	migrator := db.Migrator()

	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			log.Debug("index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(idx.model); err != nil {
			return fmt.Errorf("failed to resolve table for index %s: %w", idx.name, err)
		}
		table := stmt.Schema.Table

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, table, strings.Join(idx.columns, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("created index",
			zap.String("index", idx.name),
			zap.String("table", table),
			zap.Strings("columns", idx.columns))
	}

	return nil
}
