package input

// #region imports
import (
	"math"
	"strings"
)

// #endregion imports

// #region window-drift

// WindowDrift measures semantic divergence as one minus the best cosine
// similarity between the current response's term-frequency vector and a
// trailing window of prior responses. The window is the detector's own
// memory; the pipeline itself stays stateless between turns.
type WindowDrift struct {
	window  []map[string]float64
	maxSize int
}

// NewWindowDrift creates a detector with the given trailing window size.
func NewWindowDrift(windowSize int) *WindowDrift {
	if windowSize <= 0 {
		windowSize = 5
	}
	return &WindowDrift{maxSize: windowSize}
}

// Score returns drift in [0,1]. The first observed response scores 0:
// with no history there is nothing to diverge from.
func (w *WindowDrift) Score(responseText string) float32 {
	vec := termFreq(responseText)
	defer w.push(vec)

	if len(w.window) == 0 || len(vec) == 0 {
		return 0
	}
	var best float64
	for _, prior := range w.window {
		if sim := cosine(vec, prior); sim > best {
			best = sim
		}
	}
	return clamp(float32(1 - best))
}

func (w *WindowDrift) push(vec map[string]float64) {
	if len(vec) == 0 {
		return
	}
	w.window = append(w.window, vec)
	if len(w.window) > w.maxSize {
		w.window = w.window[1:]
	}
}

// #endregion window-drift

// #region helpers

// termFreq builds a lowercase token frequency vector.
func termFreq(text string) map[string]float64 {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 {
		return nil
	}
	freq := make(map[string]float64, len(fields))
	for _, f := range fields {
		freq[f]++
	}
	return freq
}

// cosine computes cosine similarity between two sparse vectors.
func cosine(a, b map[string]float64) float64 {
	var dot, normA, normB float64
	for k, av := range a {
		normA += av * av
		if bv, ok := b[k]; ok {
			dot += av * bv
		}
	}
	for _, bv := range b {
		normB += bv * bv
	}
	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return dot / denom
}

// clamp restricts v to [0, 1].
func clamp(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion helpers
