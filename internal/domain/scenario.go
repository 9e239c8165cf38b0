package domain

// ScenarioCount is the number of mutually exclusive day scenarios.
const ScenarioCount = 17

// Scenario groups. 1–3 are the original bull scenarios and 4–6 the original
// bear scenarios; 7–16 are the gap scenarios A–J; 17 (K) never left the
// overnight range and reports both metric sets.
var (
	BullScenarios = []int{1, 2, 3, 7, 8, 9, 10, 11}
	BearScenarios = []int{4, 5, 6, 12, 13, 14, 15, 16}
)

// ScenarioInside is the inside-range scenario (K).
const ScenarioInside = 17

// IsBullScenario reports whether s reports the bull metric set.
// Scenario 17 belongs to both groups.
func IsBullScenario(s int) bool {
	switch s {
	case 1, 2, 3, 7, 8, 9, 10, 11, ScenarioInside:
		return true
	}
	return false
}

// IsBearScenario reports whether s reports the bear metric set.
func IsBearScenario(s int) bool {
	switch s {
	case 4, 5, 6, 12, 13, 14, 15, 16, ScenarioInside:
		return true
	}
	return false
}

// ScenarioLetter returns the letter name of gap scenarios 7–17 (A–K),
// or "" for scenarios 1–6.
func ScenarioLetter(s int) string {
	if s < 7 || s > 17 {
		return ""
	}
	return string(rune('A' + s - 7))
}

// scenarioDescriptions are the short legend texts for each scenario.
var scenarioDescriptions = map[int]string{
	1:  "dipped below overnight low, closed above mid",
	2:  "held overnight low, closed above high",
	3:  "held overnight mid, closed above high",
	4:  "spiked above overnight high, closed below mid",
	5:  "held overnight high, closed below low",
	6:  "held overnight mid, closed below low",
	7:  "dipped below low, closed at or below mid",
	8:  "held low, dipped below mid, closed in (mid, high]",
	9:  "held low, dipped below mid, closed at or below mid",
	10: "held mid, closed below mid",
	11: "held mid, closed in [mid, high)",
	12: "spiked above high, closed at or above mid",
	13: "spiked above high, closed in [low, mid)",
	14: "spiked above high, closed below low",
	15: "held high, closed at or above low",
	16: "held mid, closed at or above low",
	17: "never left the overnight range",
}

// ScenarioDescription returns the legend text for s, or "" when s is not
// a valid scenario number.
func ScenarioDescription(s int) string {
	return scenarioDescriptions[s]
}
