package storeclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yukikurage/crew-scheduling-api/internal/constants"
	"github.com/yukikurage/crew-scheduling-api/internal/coordinator"
	"github.com/yukikurage/crew-scheduling-api/internal/models"
)

const driverID = "1b4e28ba-2fa1-41d2-883f-0016d3cca427"

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL + "/api/")
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New("ftp://store.example.com")
	assert.Error(t, err)

	_, err = New("://nope")
	assert.Error(t, err)
}

func TestClient_CreateSendsDraftAndDriver(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/tasks", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"task-1","task_number":3,"driver_id":null,"start_date":"2025-06-05","end_date":"2025-06-06"}`))
	})

	draft := models.CrewTaskDraft{
		TaskNumber: 3,
		StartDate:  models.MustParseDate("2025-06-05"),
		EndDate:    models.MustParseDate("2025-06-06"),
		Title:      "Airport transfer",
	}
	task, err := c.Create(context.Background(), draft, constants.UnassignedDriverID)

	require.NoError(t, err)
	assert.Equal(t, "task-1", task.ID)
	assert.True(t, task.IsUnassigned())
	assert.Equal(t, "2025-06-06", task.EndDate.String())

	assert.Equal(t, constants.UnassignedDriverID, got["driver_id"])
	assert.Equal(t, "2025-06-05", got["start_date"])
	assert.Equal(t, "Airport transfer", got["title"])
}

func TestClient_CreateConflict(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"Driver already has tasks in this period","conflicts":[{"id":"task-9","start_date":"2025-06-05","end_date":"2025-06-05"}]}`))
	})

	_, err := c.Create(context.Background(), models.CrewTaskDraft{}, driverID)

	var conflictErr *coordinator.ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, "Driver already has tasks in this period", conflictErr.Error())
	require.Len(t, conflictErr.Conflicts, 1)
	assert.Equal(t, "task-9", conflictErr.Conflicts[0].ID)
	assert.True(t, coordinator.IsConflict(err))
}

func TestClient_ErrorMessagesAreVerbatim(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "error key", status: http.StatusBadRequest, body: `{"error":"Invalid task type"}`, message: "Invalid task type"},
		{name: "api error", status: http.StatusNotFound, body: `{"code":"NOT_FOUND","message":"Task not found"}`, message: "Task not found"},
		{name: "plain text", status: http.StatusBadGateway, body: "bad gateway\n", message: "bad gateway"},
		{name: "empty body", status: http.StatusServiceUnavailable, body: "", message: "task store returned 503 Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Get(context.Background(), "task-1")

			var storeErr *coordinator.StoreError
			require.ErrorAs(t, err, &storeErr)
			assert.Equal(t, tt.status, storeErr.StatusCode)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestClient_UpdateAndDelete(t *testing.T) {
	var methods []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodPatch:
			var patch map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
			assert.Equal(t, map[string]any{"driver_id": driverID}, patch)
			_, _ = w.Write([]byte(`{"id":"task-1","driver_id":"` + driverID + `","start_date":"2025-06-05","end_date":"2025-06-05"}`))
		case http.MethodDelete:
			_, _ = w.Write([]byte(`{"message":"Task deleted"}`))
		}
	})

	id := driverID
	task, err := c.Update(context.Background(), "task-1", models.CrewTaskPatch{DriverID: &id})
	require.NoError(t, err)
	require.NotNil(t, task.DriverID)
	assert.Equal(t, driverID, *task.DriverID)

	require.NoError(t, c.Delete(context.Background(), "task-1"))
	assert.Equal(t, []string{"PATCH /api/tasks/task-1", "DELETE /api/tasks/task-1"}, methods)
}

func TestClient_HonoursContextDeadline(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Get(ctx, "task-1")

	var storeErr *coordinator.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Contains(t, storeErr.Error(), "unreachable")
}
