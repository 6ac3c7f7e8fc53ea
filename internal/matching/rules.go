package matching

import "strings"

// Rule scores a (service, vehicle) pair when Match holds. Rules are tried in
// order and the first match wins.
type Rule struct {
	Name  string
	Match func(service, brand, model string) bool
	Score func(service, brand, model string) int
}

func fixed(score int) func(string, string, string) int {
	return func(string, string, string) int { return score }
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// Model phrases that name one exact vehicle line.
var exactModels = []string{
	"alphard executive lounge",
	"alphard z",
	"v-class black suite",
	"v-class extra long",
	"s580",
	"maybach",
	"hi-ace",
}

var (
	vClassFamily      = []string{"v-class", "v class"}
	mercedesVClass    = []string{"mercedes benz v class", "mercedes-benz v-class", "mercedes benz v-class", "mercedes-benz v class"}
	blackSuiteVariant = []string{"black suite"}
	extraLongVariant  = []string{"extra long"}
	alphardFamily     = []string{"alphard"}
)

// variantScore grades a V-Class vehicle by variant.
func variantScore(blackSuite, extraLong, other int) func(string, string, string) int {
	return func(_, _, model string) int {
		switch {
		case containsAny(model, blackSuiteVariant...):
			return blackSuite
		case containsAny(model, extraLongVariant...):
			return extraLong
		}
		return other
	}
}

// DefaultRules is the ordered vehicle rule table, most specific first.
var DefaultRules = buildRules()

func buildRules() []Rule {
	rules := make([]Rule, 0, len(exactModels)+5)
	for _, phrase := range exactModels {
		phrase := phrase
		rules = append(rules, Rule{
			Name: "exact:" + phrase,
			Match: func(service, _, model string) bool {
				return strings.Contains(service, phrase) && strings.Contains(model, phrase)
			},
			Score: fixed(100),
		})
	}

	return append(rules,
		Rule{
			Name: "variant:mercedes-v-class",
			Match: func(service, _, model string) bool {
				return containsAny(service, mercedesVClass...) && containsAny(model, vClassFamily...)
			},
			Score: variantScore(100, 95, 90),
		},
		Rule{
			Name: "family:v-class",
			Match: func(service, _, model string) bool {
				return containsAny(service, vClassFamily...) && containsAny(model, vClassFamily...)
			},
			Score: variantScore(95, 90, 85),
		},
		Rule{
			Name: "family:alphard",
			Match: func(service, _, model string) bool {
				return containsAny(service, alphardFamily...) && containsAny(model, alphardFamily...)
			},
			Score: fixed(90),
		},
		Rule{
			Name: "brand:mercedes",
			Match: func(service, brand, _ string) bool {
				return strings.Contains(service, "mercedes") && strings.Contains(brand, "mercedes")
			},
			Score: fixed(85),
		},
		Rule{
			Name: "brand:toyota",
			Match: func(service, brand, _ string) bool {
				return strings.Contains(service, "toyota") && strings.Contains(brand, "toyota")
			},
			Score: fixed(85),
		},
	)
}

// Luxury floor: these service keywords on an executive-tier model raise the
// score to at least luxuryFloor.
var (
	luxuryKeywords  = []string{"luxury", "premium", "executive"}
	executiveModels = []string{"executive lounge", "black suite", "maybach", "s580", "alphard z"}
	luxuryFloor     = 90
)
