package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yukikurage/crew-scheduling-api/internal/constants"
	"github.com/yukikurage/crew-scheduling-api/internal/coordinator"
	"github.com/yukikurage/crew-scheduling-api/internal/database"
	"github.com/yukikurage/crew-scheduling-api/internal/dto"
	"github.com/yukikurage/crew-scheduling-api/internal/models"
	"github.com/yukikurage/crew-scheduling-api/internal/repository"
	"github.com/yukikurage/crew-scheduling-api/internal/services"
)

// HandlersTestSuite drives the full router against an in-memory database
type HandlersTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	ctx    context.Context

	tasks   *services.CrewTaskService
	drivers *services.DriverService

	cookies map[string]*http.Cookie
}

// SetupTest runs before each test
func (suite *HandlersTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), database.GormConfig(logger.Silent))
	suite.Require().NoError(err)

	// Every connection to :memory: is a separate database.
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	log := zap.NewNop()
	database.SetDB(suite.db)
	suite.Require().NoError(database.Migrate(database.GetDB(), log))

	taskRepo := repository.NewCrewTaskRepository(suite.db)
	driverRepo := repository.NewDriverRepository(suite.db)

	suite.ctx = context.Background()
	suite.tasks = services.NewCrewTaskService(taskRepo, log)
	suite.drivers = services.NewDriverService(driverRepo, taskRepo, log)

	coord := coordinator.New(services.NewLocalTaskStore(suite.tasks), suite.drivers, coordinator.Config{
		Now:    func() time.Time { return time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC) },
		Logger: log,
	})

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("test-secret"))))
	RegisterRoutes(suite.router, Handlers{
		Tasks:       NewTaskHandler(suite.tasks, log),
		Schedule:    NewScheduleHandler(services.NewScheduleService(taskRepo, driverRepo, log), log),
		Assignments: NewAssignmentHandler(coord, log),
		Drivers:     NewDriverHandler(suite.drivers, log),
		Vehicles:    NewVehicleHandler(services.NewVehicleService(repository.NewVehicleRepository(suite.db), log), log),
		TaskFinder:  suite.tasks,
	})

	suite.cookies = map[string]*http.Cookie{}
}

// TearDownTest runs after each test
func (suite *HandlersTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
	database.SetDB(nil)
}

// do sends a request carrying the session cookies from earlier responses.
func (suite *HandlersTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		req = httptest.NewRequest(method, url, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	for _, ck := range suite.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		suite.cookies[ck.Name] = ck
	}
	return w
}

func (suite *HandlersTestSuite) decode(w *httptest.ResponseRecorder, out any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func (suite *HandlersTestSuite) createDriver(first, last string) *models.Driver {
	driver, err := suite.drivers.CreateDriver(suite.ctx, services.CreateDriverInput{FirstName: first, LastName: last})
	suite.Require().NoError(err)
	return driver
}

func (suite *HandlersTestSuite) createTask(driverID, start, end string) *models.CrewTask {
	task, err := suite.tasks.CreateTask(suite.ctx, draft(start, end), driverID)
	suite.Require().NoError(err)
	return task
}

func (suite *HandlersTestSuite) countTasks(driverID string) int64 {
	var n int64
	suite.db.Model(&models.CrewTask{}).Where("driver_id = ?", driverID).Count(&n)
	return n
}

func draft(start, end string) models.CrewTaskDraft {
	hours := 8.0
	return models.CrewTaskDraft{
		TaskNumber:  7,
		TaskType:    models.TaskTypeCharter,
		StartDate:   models.MustParseDate(start),
		EndDate:     models.MustParseDate(end),
		HoursPerDay: &hours,
		Title:       "Airport transfer",
	}
}

func (suite *HandlersTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"status":"ok"`)
}

// Tasks

func (suite *HandlersTestSuite) TestCreateTask_OverlapReturnsConflicts() {
	driver := suite.createDriver("Aiko", "Sato")
	existing := suite.createTask(driver.ID, "2025-06-04", "2025-06-06")

	w := suite.do(http.MethodPost, "/api/tasks", dto.CreateTaskRequest{
		CrewTaskDraft: draft("2025-06-06", "2025-06-08"),
		DriverID:      driver.ID,
	})

	suite.Equal(http.StatusConflict, w.Code)
	var body dto.ConflictResponse
	suite.decode(w, &body)
	suite.NotEmpty(body.Error)
	suite.Require().Len(body.Conflicts, 1)
	suite.Equal(existing.ID, body.Conflicts[0].ID)
}

func (suite *HandlersTestSuite) TestCreateTask_Unassigned() {
	w := suite.do(http.MethodPost, "/api/tasks", dto.CreateTaskRequest{
		CrewTaskDraft: draft("2025-06-06", "2025-06-06"),
		DriverID:      constants.UnassignedDriverID,
	})

	suite.Equal(http.StatusCreated, w.Code)
	var task models.CrewTask
	suite.decode(w, &task)
	suite.Nil(task.DriverID)
	suite.Equal("2025-06-06", task.StartDate.String())
}

func (suite *HandlersTestSuite) TestCreateTask_InvalidDates() {
	w := suite.do(http.MethodPost, "/api/tasks", dto.CreateTaskRequest{
		CrewTaskDraft: draft("2025-06-08", "2025-06-06"),
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "INVALID_INPUT")
}

func (suite *HandlersTestSuite) TestListTasks_RangeAndPagination() {
	driver := suite.createDriver("Aiko", "Sato")
	suite.createTask(driver.ID, "2025-06-02", "2025-06-02")
	suite.createTask(driver.ID, "2025-06-04", "2025-06-05")
	suite.createTask(driver.ID, "2025-07-01", "2025-07-01")

	w := suite.do(http.MethodGet, "/api/tasks?start_date=2025-06-01&end_date=2025-06-30&limit=1&page=2", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.TaskListResponse
	suite.decode(w, &body)
	suite.Equal(int64(2), body.Pagination.Total)
	suite.Equal(2, body.Pagination.TotalPages)
	suite.Require().Len(body.Tasks, 1)
	suite.Equal("2025-06-04", body.Tasks[0].StartDate.String())
}

func (suite *HandlersTestSuite) TestListTasks_BadParams() {
	for _, url := range []string{
		"/api/tasks?start_date=06/01/2025",
		"/api/tasks?start_date=2025-06-10&end_date=2025-06-01",
		"/api/tasks?task_type=parade",
		"/api/tasks?task_number=seven",
	} {
		w := suite.do(http.MethodGet, url, nil)
		suite.Equal(http.StatusBadRequest, w.Code, url)
	}
}

func (suite *HandlersTestSuite) TestTaskLifecycle() {
	task := suite.createTask("", "2025-06-02", "2025-06-02")
	path := "/api/tasks/" + task.ID

	w := suite.do(http.MethodGet, path, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodPatch, path, map[string]any{"title": "Evening charter", "priority": 2})
	suite.Equal(http.StatusOK, w.Code)
	var updated models.CrewTask
	suite.decode(w, &updated)
	suite.Equal("Evening charter", updated.Title)
	suite.Equal(2, updated.Priority)

	w = suite.do(http.MethodDelete, path, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, path, nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do(http.MethodGet, "/api/tasks/not-a-uuid", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

// Schedule

func (suite *HandlersTestSuite) TestGetSchedule_RosterOrderWithUnassignedLast() {
	ben := suite.createDriver("Ben", "Ito")
	aiko := suite.createDriver("Aiko", "Sato")
	suite.createTask(ben.ID, "2025-06-05", "2025-06-06")
	suite.createTask("", "2025-06-07", "2025-06-07")

	w := suite.do(http.MethodGet, "/api/schedule?start_date=2025-06-01&end_date=2025-06-07", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ScheduleResponse
	suite.decode(w, &body)
	suite.Require().Len(body.Drivers, 3)
	suite.Equal(aiko.ID, body.Drivers[0].DriverID)
	suite.Empty(body.Drivers[0].Dates)
	suite.Equal(ben.ID, body.Drivers[1].DriverID)
	suite.Equal(constants.UnassignedDriverID, body.Drivers[2].DriverID)

	cell := body.Drivers[1].Dates["2025-06-06"]
	suite.Require().Len(cell.Tasks, 1)
	suite.True(cell.Tasks[0].IsLastDay)
	suite.Equal(2, cell.Tasks[0].CurrentDay)

	suite.Equal(7, body.Meta.Days)
	suite.Equal(2, body.Meta.DriverCount)
	suite.Equal(3, body.Meta.TaskCount)
	suite.Equal(1, body.Meta.UnassignedCount)
}

func (suite *HandlersTestSuite) TestGetSchedule_DriverFilter() {
	ben := suite.createDriver("Ben", "Ito")
	suite.createDriver("Aiko", "Sato")
	suite.createTask("", "2025-06-07", "2025-06-07")

	w := suite.do(http.MethodGet, "/api/schedule?start_date=2025-06-01&end_date=2025-06-07&driver_ids="+ben.ID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ScheduleResponse
	suite.decode(w, &body)
	suite.Require().Len(body.Drivers, 1)
	suite.Equal(ben.ID, body.Drivers[0].DriverID)
}

func (suite *HandlersTestSuite) TestGetSchedule_RangeRequired() {
	w := suite.do(http.MethodGet, "/api/schedule?start_date=2025-06-01", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestUnassignedTasks_Filtered() {
	suite.createTask("", "2025-06-09", "2025-06-09")
	early := draft("2025-06-03", "2025-06-03")
	early.Title = "Gala shuttle"
	_, err := suite.tasks.CreateTask(suite.ctx, early, "")
	suite.Require().NoError(err)

	w := suite.do(http.MethodGet, "/api/schedule/unassigned?query=gala", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.UnassignedTasksResponse
	suite.decode(w, &body)
	suite.Equal(1, body.Count)
	suite.Equal("Gala shuttle", body.Tasks[0].Title)
}

// Assignments

func (suite *HandlersTestSuite) TestAssignments_ConflictThenOverwriteFromSession() {
	aiko := suite.createDriver("Aiko", "Sato")
	ben := suite.createDriver("Ben", "Ito")
	old := suite.createTask(ben.ID, "2025-06-05", "2025-06-05")

	batch := draft("2025-06-05", "2025-06-05")
	batch.Title = "Wedding charter"

	w := suite.do(http.MethodPost, "/api/assignments", dto.CreateAssignmentRequest{
		Draft:       batch,
		DriverIDs:   []string{aiko.ID, ben.ID},
		MultiDriver: true,
	})

	suite.Equal(http.StatusConflict, w.Code)
	var conflict dto.OutcomeResponse
	suite.decode(w, &conflict)
	suite.Equal(coordinator.OutcomeConflict, conflict.Outcome)
	suite.Zero(conflict.Created)
	suite.Require().Len(conflict.Conflicts, 1)
	suite.Equal(ben.ID, conflict.Conflicts[0].DriverID)
	suite.Equal("Ben Ito", conflict.Conflicts[0].DriverName)
	suite.Equal(old.ID, conflict.Conflicts[0].Conflicts[0].ID)

	w = suite.do(http.MethodPost, "/api/assignments/resolve", dto.ResolveRequest{
		Resolution: coordinator.ResolutionOverwrite,
	})

	suite.Equal(http.StatusOK, w.Code)
	var resolved dto.OutcomeResponse
	suite.decode(w, &resolved)
	suite.Equal(coordinator.OutcomeSuccess, resolved.Outcome)
	suite.Equal(1, resolved.Resolved)
	suite.Equal(1, resolved.Deleted)
	suite.True(resolved.RefreshGrid)

	_, err := suite.tasks.GetTask(suite.ctx, old.ID)
	suite.ErrorIs(err, services.ErrTaskNotFound)
	suite.Equal(int64(1), suite.countTasks(ben.ID))
	suite.Equal(int64(1), suite.countTasks(aiko.ID))

	w = suite.do(http.MethodPost, "/api/assignments/resolve", dto.ResolveRequest{
		Resolution: coordinator.ResolutionOverwrite,
	})
	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(w.Body.String(), "NO_PENDING_CONFLICT")
}

func (suite *HandlersTestSuite) TestAssignments_SkipLeavesStoreUntouched() {
	ben := suite.createDriver("Ben", "Ito")
	suite.createTask(ben.ID, "2025-06-05", "2025-06-05")

	w := suite.do(http.MethodPost, "/api/assignments", dto.CreateAssignmentRequest{
		Draft:     draft("2025-06-05", "2025-06-05"),
		DriverIDs: []string{ben.ID},
	})
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.do(http.MethodPost, "/api/assignments/resolve", dto.ResolveRequest{
		Resolution: coordinator.ResolutionSkip,
	})

	suite.Equal(http.StatusOK, w.Code)
	var body dto.OutcomeResponse
	suite.decode(w, &body)
	suite.Equal(coordinator.OutcomeSkipped, body.Outcome)
	suite.Equal(1, body.Skipped)
	suite.False(body.RefreshGrid)
	suite.Equal(int64(1), suite.countTasks(ben.ID))
}

func (suite *HandlersTestSuite) TestAssignments_PartialResolutionKeepsRestPending() {
	aiko := suite.createDriver("Aiko", "Sato")
	ben := suite.createDriver("Ben", "Ito")
	suite.createTask(aiko.ID, "2025-06-05", "2025-06-05")
	oldBen := suite.createTask(ben.ID, "2025-06-05", "2025-06-05")

	w := suite.do(http.MethodPost, "/api/assignments", dto.CreateAssignmentRequest{
		Draft:       draft("2025-06-05", "2025-06-05"),
		DriverIDs:   []string{aiko.ID, ben.ID},
		MultiDriver: true,
	})
	suite.Require().Equal(http.StatusConflict, w.Code)

	w = suite.do(http.MethodPost, "/api/assignments/resolve", dto.ResolveRequest{
		Resolution: coordinator.ResolutionSkip,
		DriverIDs:  []string{aiko.ID},
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodPost, "/api/assignments/resolve", dto.ResolveRequest{
		Resolution: coordinator.ResolutionOverwrite,
		DriverIDs:  []string{ben.ID},
	})

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var body dto.OutcomeResponse
	suite.decode(w, &body)
	suite.Equal(coordinator.OutcomeSuccess, body.Outcome)
	suite.Equal(1, body.Resolved)
	suite.Equal(1, body.Deleted)
	_, err := suite.tasks.GetTask(suite.ctx, oldBen.ID)
	suite.ErrorIs(err, services.ErrTaskNotFound)
	suite.Equal(int64(1), suite.countTasks(aiko.ID))
	suite.Equal(int64(1), suite.countTasks(ben.ID))

	w = suite.do(http.MethodPost, "/api/assignments/resolve", dto.ResolveRequest{
		Resolution: coordinator.ResolutionOverwrite,
	})
	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(w.Body.String(), "NO_PENDING_CONFLICT")
}

func (suite *HandlersTestSuite) TestAssignments_OverwriteUnconflictedDriverKeepsPending() {
	ben := suite.createDriver("Ben", "Ito")
	carl := suite.createDriver("Carl", "Mori")
	oldBen := suite.createTask(ben.ID, "2025-06-05", "2025-06-05")

	w := suite.do(http.MethodPost, "/api/assignments", dto.CreateAssignmentRequest{
		Draft:     draft("2025-06-05", "2025-06-05"),
		DriverIDs: []string{ben.ID},
	})
	suite.Require().Equal(http.StatusConflict, w.Code)

	w = suite.do(http.MethodPost, "/api/assignments/resolve", dto.ResolveRequest{
		Resolution: coordinator.ResolutionOverwrite,
		DriverIDs:  []string{carl.ID},
	})

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var body dto.OutcomeResponse
	suite.decode(w, &body)
	suite.Equal(1, body.Resolved)
	suite.Zero(body.Deleted)
	suite.Equal(int64(1), suite.countTasks(carl.ID))

	_, err := suite.tasks.GetTask(suite.ctx, oldBen.ID)
	suite.NoError(err)

	w = suite.do(http.MethodPost, "/api/assignments/resolve", dto.ResolveRequest{
		Resolution: coordinator.ResolutionSkip,
	})
	suite.Equal(http.StatusOK, w.Code)
	var skipped dto.OutcomeResponse
	suite.decode(w, &skipped)
	suite.Equal(coordinator.OutcomeSkipped, skipped.Outcome)
	suite.Equal(1, skipped.Skipped)
}

func (suite *HandlersTestSuite) TestAssignments_ResolveRejectsUnknownResolution() {
	w := suite.do(http.MethodPost, "/api/assignments/resolve", map[string]any{"resolution": "merge"})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestAssignments_CreateDefaultsToUnassigned() {
	w := suite.do(http.MethodPost, "/api/assignments", dto.CreateAssignmentRequest{
		Draft: draft("2025-06-05", "2025-06-05"),
	})

	suite.Equal(http.StatusCreated, w.Code)
	var body dto.OutcomeResponse
	suite.decode(w, &body)
	suite.Equal(1, body.Created)
	suite.Require().Len(body.Tasks, 1)
	suite.Nil(body.Tasks[0].DriverID)
}

func (suite *HandlersTestSuite) TestMoveTask() {
	aiko := suite.createDriver("Aiko", "Sato")
	task := suite.createTask("", "2025-06-05", "2025-06-06")

	tests := []struct {
		name   string
		date   string
		status int
	}{
		{"past date", "2025-05-30", http.StatusUnprocessableEntity},
		{"different date", "2025-06-06", http.StatusUnprocessableEntity},
		{"start date", "2025-06-05", http.StatusOK},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.do(http.MethodPost, "/api/assignments/move", dto.MoveRequest{
				TaskID:   task.ID,
				DriverID: aiko.ID,
				Date:     models.MustParseDate(tt.date),
			})
			suite.Equal(tt.status, w.Code, w.Body.String())
		})
	}

	moved, err := suite.tasks.GetTask(suite.ctx, task.ID)
	suite.Require().NoError(err)
	suite.Require().NotNil(moved.DriverID)
	suite.Equal(aiko.ID, *moved.DriverID)
}

func (suite *HandlersTestSuite) TestBulkAssign_PartialFailure() {
	aiko := suite.createDriver("Aiko", "Sato")
	task := suite.createTask("", "2025-06-05", "2025-06-05")

	w := suite.do(http.MethodPost, "/api/assignments/bulk", dto.BulkAssignRequest{
		DriverID: aiko.ID,
		TaskIDs:  []string{task.ID, "6fa459ea-ee8a-4ca4-894e-db77e160355e"},
	})

	suite.Equal(http.StatusMultiStatus, w.Code)
	var body dto.OutcomeResponse
	suite.decode(w, &body)
	suite.Equal(coordinator.OutcomePartialFailure, body.Outcome)
	suite.Equal(1, body.Succeeded)
	suite.Equal(1, body.Failed)
	suite.Require().Len(body.Failures, 1)
	suite.Equal("6fa459ea-ee8a-4ca4-894e-db77e160355e", body.Failures[0].TaskID)
	suite.Equal(int64(1), suite.countTasks(aiko.ID))
}

func (suite *HandlersTestSuite) TestUpdateAndDeleteAssignment() {
	task := suite.createTask("", "2025-06-05", "2025-06-05")

	w := suite.do(http.MethodPatch, "/api/assignments/"+task.ID, map[string]any{})
	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	w = suite.do(http.MethodPatch, "/api/assignments/"+task.ID, map[string]any{"notes": "VIP"})
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodDelete, "/api/assignments/"+task.ID, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodDelete, "/api/assignments/"+task.ID, nil)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Contains(w.Body.String(), "Task not found")
}

func (suite *HandlersTestSuite) TestFilterTasks() {
	charter := models.TaskTypeCharter
	w := suite.do(http.MethodPost, "/api/assignments/filter", map[string]any{
		"tasks": []models.CrewTask{
			{ID: "b", TaskType: models.TaskTypeCharter, Title: "Late", StartDate: models.MustParseDate("2025-06-09"), EndDate: models.MustParseDate("2025-06-09")},
			{ID: "a", TaskType: models.TaskTypeRegular, Title: "Route", StartDate: models.MustParseDate("2025-06-01"), EndDate: models.MustParseDate("2025-06-01")},
			{ID: "c", TaskType: models.TaskTypeCharter, Title: "Early", StartDate: models.MustParseDate("2025-06-02"), EndDate: models.MustParseDate("2025-06-02")},
		},
		"task_type": charter,
	})

	suite.Equal(http.StatusOK, w.Code)
	var body dto.UnassignedTasksResponse
	suite.decode(w, &body)
	suite.Require().Equal(2, body.Count)
	suite.Equal("c", body.Tasks[0].ID)
	suite.Equal("b", body.Tasks[1].ID)
}

// Drivers and vehicles

func (suite *HandlersTestSuite) TestDrivers_ListAndCreate() {
	w := suite.do(http.MethodPost, "/api/drivers", dto.CreateDriverRequest{FirstName: "Chika", LastName: "Mori"})
	suite.Equal(http.StatusCreated, w.Code)

	w = suite.do(http.MethodPost, "/api/drivers", map[string]string{"first_name": "Solo"})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, "/api/drivers", nil)
	suite.Equal(http.StatusOK, w.Code)
	var body struct {
		Drivers []models.Driver `json:"drivers"`
	}
	suite.decode(w, &body)
	suite.Require().Len(body.Drivers, 1)
	suite.Equal("Chika", body.Drivers[0].FirstName)
}

func (suite *HandlersTestSuite) TestDrivers_Capacity() {
	driver := suite.createDriver("Aiko", "Sato")
	path := "/api/drivers/" + driver.ID + "/capacity"

	w := suite.do(http.MethodGet, path, nil)
	suite.Equal(http.StatusOK, w.Code)
	var capacity models.DriverCapacity
	suite.decode(w, &capacity)
	suite.Equal(float64(constants.DefaultMaxHoursPerDay), capacity.MaxHoursPerDay)

	w = suite.do(http.MethodPut, path, map[string]any{"max_hours_per_day": -1})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPut, path, map[string]any{"max_hours_per_day": 10, "preferred_days": []string{"Mon", "tue"}})
	suite.Equal(http.StatusOK, w.Code)
	suite.decode(w, &capacity)
	suite.Equal(10.0, capacity.MaxHoursPerDay)
	suite.Equal("mon,tue", capacity.PreferredDays)

	w = suite.do(http.MethodGet, "/api/drivers/6fa459ea-ee8a-4ca4-894e-db77e160355e/capacity", nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do(http.MethodGet, "/api/drivers/nobody/capacity", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestDrivers_HoursSummary() {
	driver := suite.createDriver("Aiko", "Sato")
	suite.createTask(driver.ID, "2025-06-04", "2025-06-05")

	w := suite.do(http.MethodGet, "/api/drivers/"+driver.ID+"/hours?date=2025-06-05", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"day_hours":8`)
}

func (suite *HandlersTestSuite) TestVehicles_Matches() {
	for _, v := range []dto.CreateVehicleRequest{
		{Brand: "Toyota", Model: "Hi-Ace", PlateNumber: "SHN-300-1234"},
		{Brand: "Mercedes-Benz", Model: "V-Class Black Suite", PlateNumber: "SHN-300-5678"},
	} {
		w := suite.do(http.MethodPost, "/api/vehicles", v)
		suite.Require().Equal(http.StatusCreated, w.Code)
	}

	w := suite.do(http.MethodPost, "/api/vehicles/matches", dto.MatchVehiclesRequest{ServiceName: "V-Class Black Suite"})

	suite.Equal(http.StatusOK, w.Code)
	var body struct {
		Matches []struct {
			Vehicle models.Vehicle `json:"vehicle"`
			Score   int            `json:"score"`
		} `json:"matches"`
	}
	suite.decode(w, &body)
	suite.Require().Len(body.Matches, 2)
	suite.Equal("V-Class Black Suite", body.Matches[0].Vehicle.Model)
	suite.Equal(100, body.Matches[0].Score)
	suite.Less(body.Matches[1].Score, 100)

	w = suite.do(http.MethodPost, "/api/vehicles", map[string]string{"brand": "Toyota"})
	suite.Equal(http.StatusBadRequest, w.Code)
}

// TestHandlersTestSuite runs the test suite
func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
