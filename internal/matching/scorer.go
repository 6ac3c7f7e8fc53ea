// Package matching ranks vehicles against a task's service descriptor.
package matching

import (
	"slices"
	"strings"

	"github.com/yukikurage/crew-scheduling-api/internal/models"
)

// BaselineScore is the score of a vehicle no rule matched.
const BaselineScore = 30

// Scorer evaluates a rule table. The zero value uses DefaultRules.
type Scorer struct {
	Rules []Rule
}

// Match pairs a vehicle with its score.
type Match struct {
	Vehicle models.Vehicle `json:"vehicle"`
	Score   int            `json:"score"`
	Rule    string         `json:"rule,omitempty"`
}

// ScoreVehicleMatch scores v for service with DefaultRules.
func ScoreVehicleMatch(service string, v models.Vehicle) int {
	return Scorer{}.Score(service, v)
}

// Score returns an integer in [0, 100]. All comparisons are case-insensitive
// substring checks. An empty or unmatched service yields BaselineScore.
func (s Scorer) Score(service string, v models.Vehicle) int {
	score, _ := s.evaluate(service, v)
	return score
}

func (s Scorer) evaluate(service string, v models.Vehicle) (int, string) {
	svc := strings.ToLower(strings.TrimSpace(service))
	brand := strings.ToLower(v.Brand)
	model := strings.ToLower(v.Model)

	score, matched := BaselineScore, ""
	if svc == "" {
		return score, matched
	}

	for _, rule := range s.rules() {
		if rule.Match(svc, brand, model) {
			score, matched = rule.Score(svc, brand, model), rule.Name
			break
		}
	}

	if containsAny(svc, luxuryKeywords...) && containsAny(model, executiveModels...) && score < luxuryFloor {
		score = luxuryFloor
		if matched == "" {
			matched = "floor:luxury"
		}
	}

	return clamp(score), matched
}

func (s Scorer) rules() []Rule {
	if s.Rules == nil {
		return DefaultRules
	}
	return s.Rules
}

// Rank scores every vehicle and orders them best first. Equal scores keep
// the input order.
func (s Scorer) Rank(service string, vehicles []models.Vehicle) []Match {
	matches := make([]Match, len(vehicles))
	for i, v := range vehicles {
		score, rule := s.evaluate(service, v)
		matches[i] = Match{Vehicle: v, Score: score, Rule: rule}
	}
	slices.SortStableFunc(matches, func(a, b Match) int {
		return b.Score - a.Score
	})
	return matches
}

// RankVehicles ranks with DefaultRules.
func RankVehicles(service string, vehicles []models.Vehicle) []Match {
	return Scorer{}.Rank(service, vehicles)
}

func clamp(score int) int {
	return min(max(score, 0), 100)
}
