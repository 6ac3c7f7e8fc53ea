package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/crew-scheduling-api/internal/models"
)

func filterFixture() []models.CrewTask {
	return []models.CrewTask{
		{ID: "late", Title: "Airport pickup", TaskType: models.TaskTypeCharter, Priority: 2, StartDate: models.MustParseDate("2025-06-09")},
		{ID: "early", Title: "Vehicle wash", Location: "Haneda depot", TaskType: models.TaskTypeMaintenance, Priority: 0, StartDate: models.MustParseDate("2025-06-01")},
		{ID: "mid", Title: "City tour", CustomerName: "ACME Travel", TaskType: models.TaskTypeCharter, Priority: 2, StartDate: models.MustParseDate("2025-06-05")},
		{ID: "mid-2", Description: "Airport standby shift", TaskType: models.TaskTypeStandby, Priority: 1, StartDate: models.MustParseDate("2025-06-05")},
	}
}

func ids(tasks []models.CrewTask) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestFilter_NoCriteriaSortsByStartDate(t *testing.T) {
	got := Filter(filterFixture(), Criteria{})

	assert.Equal(t, []string{"early", "mid", "mid-2", "late"}, ids(got))
}

func TestFilter_QueryMatchesAnyTextField(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"title and description", "AIRPORT", []string{"mid-2", "late"}},
		{"customer", "acme", []string{"mid"}},
		{"location", "haneda", []string{"early"}},
		{"no match", "kyoto", []string{}},
		{"blank query is inactive", "   ", []string{"early", "mid", "mid-2", "late"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(filterFixture(), Criteria{Query: tt.query})))
		})
	}
}

func TestFilter_AllCriteriaAreAnded(t *testing.T) {
	charter := models.TaskTypeCharter
	two := 2

	got := Filter(filterFixture(), Criteria{Query: "airport", TaskType: &charter, Priority: &two})

	assert.Equal(t, []string{"late"}, ids(got))
}

func TestFilter_PriorityZeroIsActive(t *testing.T) {
	zero := 0

	assert.Equal(t, []string{"early"}, ids(Filter(filterFixture(), Criteria{Priority: &zero})))
}

func TestFilter_IdempotentAndDoesNotMutateInput(t *testing.T) {
	input := filterFixture()
	charter := models.TaskTypeCharter
	criteria := Criteria{TaskType: &charter}

	once := Filter(input, criteria)
	twice := Filter(once, criteria)

	assert.Equal(t, once, twice)
	assert.Equal(t, []string{"late", "early", "mid", "mid-2"}, ids(input))
}
