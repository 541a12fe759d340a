package input

// #region imports
import "strings"

// #endregion imports

// #region mood-patterns

var agitatedPatterns = []string{
	"i cannot", "i can't", "must not", "do not ask",
	"stop", "enough", "!!",
}

var driftPatterns = []string{
	"unrelated", "by the way", "changing the subject",
	"as i was saying", "anyway,", "on another note",
}

var calmPatterns = []string{
	"certainly", "of course", "let us", "step by step",
	"in summary", "to recap",
}

// #endregion mood-patterns

// #region heuristic-mood

// HeuristicMood classifies affective tone via lexical pattern tables.
// It is the default stand-in for the external mood correlation logic;
// callers with a real classifier supply their own mood and skip this.
type HeuristicMood struct{}

// NewHeuristicMood returns the pattern-table classifier.
func NewHeuristicMood() *HeuristicMood { return &HeuristicMood{} }

// Classify returns one of "calm", "stable", "agitated", "drift".
// Drift markers dominate agitation, which dominates calm.
func (h *HeuristicMood) Classify(responseText string) string {
	lower := strings.ToLower(responseText)
	if lower == "" {
		return "stable"
	}
	if countMatches(lower, driftPatterns) > 0 {
		return "drift"
	}
	if countMatches(lower, agitatedPatterns) >= 2 {
		return "agitated"
	}
	if countMatches(lower, calmPatterns) > 0 {
		return "calm"
	}
	return "stable"
}

func countMatches(lower string, patterns []string) int {
	n := 0
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			n++
		}
	}
	return n
}

// #endregion heuristic-mood
