package coordinator

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/yukikurage/crew-scheduling-api/internal/models"
)

type storeCall struct {
	Op       string
	ID       string
	DriverID string
}

// fakeStore is an in-memory TaskStore that records every call and fails on
// demand.
type fakeStore struct {
	mu    sync.Mutex
	tasks map[string]models.CrewTask
	calls []storeCall

	conflicts  map[string][]models.CrewTask // by driver id
	createErrs map[string]error             // by driver id
	updateErrs map[string]error             // by task id
	deleteErrs map[string]error             // by task id
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tasks:      map[string]models.CrewTask{},
		conflicts:  map[string][]models.CrewTask{},
		createErrs: map[string]error{},
		updateErrs: map[string]error{},
		deleteErrs: map[string]error{},
	}
}

func (s *fakeStore) seed(task models.CrewTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task
}

func (s *fakeStore) Create(ctx context.Context, draft models.CrewTaskDraft, driverID string) (*models.CrewTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, storeCall{Op: "create", DriverID: driverID})

	if _, ok := ctx.Deadline(); !ok {
		return nil, fmt.Errorf("create called without a deadline")
	}
	if conflicts := s.conflicts[driverID]; len(conflicts) > 0 {
		return nil, &ConflictError{Message: "Driver has conflicting tasks", Conflicts: conflicts}
	}
	if err := s.createErrs[driverID]; err != nil {
		return nil, err
	}

	id := driverID
	task := models.CrewTask{
		ID:          uuid.NewString(),
		TaskNumber:  draft.TaskNumber,
		TaskType:    draft.TaskType,
		TaskStatus:  models.TaskStatusScheduled,
		DriverID:    &id,
		StartDate:   draft.StartDate,
		EndDate:     draft.EndDate,
		Title:       draft.Title,
		Priority:    draft.Priority,
		HoursPerDay: draft.HoursPerDay,
	}
	s.tasks[task.ID] = task
	return &task, nil
}

func (s *fakeStore) Update(_ context.Context, id string, patch models.CrewTaskPatch) (*models.CrewTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	call := storeCall{Op: "update", ID: id}
	if patch.DriverID != nil {
		call.DriverID = *patch.DriverID
	}
	s.calls = append(s.calls, call)

	if err := s.updateErrs[id]; err != nil {
		return nil, err
	}
	task, ok := s.tasks[id]
	if !ok {
		return nil, &StoreError{StatusCode: http.StatusNotFound, Message: "Task not found"}
	}
	if patch.DriverID != nil {
		driverID := *patch.DriverID
		task.DriverID = &driverID
	}
	if patch.StartDate != nil {
		task.StartDate = *patch.StartDate
	}
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	s.tasks[id] = task
	return &task, nil
}

func (s *fakeStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, storeCall{Op: "delete", ID: id})

	if err := s.deleteErrs[id]; err != nil {
		return err
	}
	if _, ok := s.tasks[id]; !ok {
		return &StoreError{StatusCode: http.StatusNotFound, Message: "Task not found"}
	}
	delete(s.tasks, id)
	return nil
}

func (s *fakeStore) Get(_ context.Context, id string) (*models.CrewTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, storeCall{Op: "get", ID: id})

	task, ok := s.tasks[id]
	if !ok {
		return nil, &StoreError{StatusCode: http.StatusNotFound, Message: "Task not found"}
	}
	return &task, nil
}

func (s *fakeStore) callsFor(op string) []storeCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []storeCall
	for _, c := range s.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (s *fakeStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *fakeStore) has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[id]
	return ok
}

type fakeRoster struct {
	drivers []models.Driver
	err     error
}

func (r fakeRoster) ListDrivers(context.Context) ([]models.Driver, error) {
	return r.drivers, r.err
}
