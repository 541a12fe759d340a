package input

// #region imports
import (
	"fmt"
	"strings"

	"github.com/dawnfield/reflex-controller/internal/state"
)

// #endregion imports

// #region struct-audit

// StructAudit checks structural well-formedness of a response and how well
// it covers the prompt's content terms. Format problems (empty response,
// unbalanced fences or brackets) become format errors; prompt terms the
// response never references become memory gaps.
type StructAudit struct {
	maxGaps int
}

// NewStructAudit returns an auditor reporting at most maxGaps memory gaps.
func NewStructAudit(maxGaps int) *StructAudit {
	if maxGaps <= 0 {
		maxGaps = 5
	}
	return &StructAudit{maxGaps: maxGaps}
}

// Audit produces a complete AuditResult; the lists are always non-nil.
func (a *StructAudit) Audit(prompt, responseText string) state.AuditResult {
	formatErrors := []string{}
	trimmed := strings.TrimSpace(responseText)

	if trimmed == "" {
		formatErrors = append(formatErrors, "empty response")
	}
	if strings.Count(trimmed, "```")%2 != 0 {
		formatErrors = append(formatErrors, "unbalanced code fence")
	}
	for _, pair := range [][2]string{{"(", ")"}, {"[", "]"}, {"{", "}"}} {
		open := strings.Count(trimmed, pair[0])
		close := strings.Count(trimmed, pair[1])
		if open != close {
			formatErrors = append(formatErrors,
				fmt.Sprintf("unbalanced %s%s: %d open, %d close", pair[0], pair[1], open, close))
		}
	}

	gaps := memoryGaps(prompt, trimmed, a.maxGaps)
	alignment := alignmentScore(prompt, trimmed, len(formatErrors))

	return state.AuditResult{
		IsValid:        len(formatErrors) == 0,
		AlignmentScore: alignment,
		FormatErrors:   formatErrors,
		MemoryGaps:     gaps,
	}
}

// #endregion struct-audit

// #region helpers

// memoryGaps lists prompt content terms (longer than 3 runes) the response
// never mentions, capped at limit.
func memoryGaps(prompt, response string, limit int) []string {
	gaps := []string{}
	responseSet := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(response)) {
		responseSet[strings.Trim(w, ".,!?;:")] = true
	}
	seen := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(prompt)) {
		term := strings.Trim(w, ".,!?;:")
		if len(term) <= 3 || seen[term] || responseSet[term] {
			continue
		}
		seen[term] = true
		gaps = append(gaps, term)
		if len(gaps) >= limit {
			break
		}
	}
	return gaps
}

// alignmentScore starts from prompt-term coverage and subtracts a fixed
// penalty per format error. Coverage over an empty prompt counts as full.
func alignmentScore(prompt, response string, formatErrors int) float32 {
	promptTerms := 0
	covered := 0
	responseSet := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(response)) {
		responseSet[strings.Trim(w, ".,!?;:")] = true
	}
	for _, w := range strings.Fields(strings.ToLower(prompt)) {
		term := strings.Trim(w, ".,!?;:")
		if len(term) <= 3 {
			continue
		}
		promptTerms++
		if responseSet[term] {
			covered++
		}
	}

	score := float32(1.0)
	if promptTerms > 0 {
		score = float32(covered) / float32(promptTerms)
	}
	score -= 0.2 * float32(formatErrors)
	return clamp(score)
}

// #endregion helpers
