// # internal/semantic/matcher.go
package semantic

import (
	"context"
	"fmt"
	"math"
)

// DriftClass grades how far a documentation text has drifted from the
// code it describes, based on embedding similarity.
type DriftClass string

const (
	DriftNone     DriftClass = "none"
	DriftInfo     DriftClass = "info"
	DriftWarning  DriftClass = "warning"
	DriftCritical DriftClass = "critical"
)

const (
	similarityNone    = 0.9
	similarityInfo    = 0.7
	similarityWarning = 0.5
)

// Assessment is the outcome of a semantic drift check.
type Assessment struct {
	Score float64
	Class DriftClass
}

// Match pairs a candidate text with its similarity to the query.
type Match struct {
	Text  string
	Score float64
}

// Matcher compares texts by embedding similarity. The cache is
// optional; without one every call embeds from scratch.
type Matcher struct {
	provider  Provider
	cache     *Cache
	threshold float64
}

func NewMatcher(provider Provider, cache *Cache, threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = similarityWarning
	}
	return &Matcher{provider: provider, cache: cache, threshold: threshold}
}

func (m *Matcher) embed(ctx context.Context, text string) ([]float32, error) {
	if m.cache != nil {
		if vec, err := m.cache.Get(m.provider.Name(), text); err != nil {
			return nil, err
		} else if vec != nil {
			return vec, nil
		}
	}

	vec, err := m.provider.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if m.cache != nil {
		if err := m.cache.Put(m.provider.Name(), text, vec); err != nil {
			return nil, err
		}
	}
	return vec, nil
}

// Similarity returns the cosine similarity of the two texts in [-1, 1].
func (m *Matcher) Similarity(ctx context.Context, a, b string) (float64, error) {
	va, err := m.embed(ctx, a)
	if err != nil {
		return 0, fmt.Errorf("embed %q: %w", truncate(a, 40), err)
	}
	vb, err := m.embed(ctx, b)
	if err != nil {
		return 0, fmt.Errorf("embed %q: %w", truncate(b, 40), err)
	}
	return cosine(va, vb), nil
}

// BestMatch returns the candidate most similar to query, provided the
// similarity clears the matcher threshold. ok is false when no
// candidate qualifies.
func (m *Matcher) BestMatch(ctx context.Context, query string, candidates []string) (Match, bool, error) {
	best := Match{Score: math.Inf(-1)}
	for _, candidate := range candidates {
		score, err := m.Similarity(ctx, query, candidate)
		if err != nil {
			return Match{}, false, err
		}
		if score > best.Score {
			best = Match{Text: candidate, Score: score}
		}
	}
	if best.Score < m.threshold {
		return Match{}, false, nil
	}
	return best, true, nil
}

// DetectDrift scores how well docText still describes codeText.
func (m *Matcher) DetectDrift(ctx context.Context, codeText, docText string) (Assessment, error) {
	score, err := m.Similarity(ctx, codeText, docText)
	if err != nil {
		return Assessment{}, err
	}
	return Assessment{Score: score, Class: classify(score)}, nil
}

func classify(score float64) DriftClass {
	switch {
	case score >= similarityNone:
		return DriftNone
	case score >= similarityInfo:
		return DriftInfo
	case score >= similarityWarning:
		return DriftWarning
	default:
		return DriftCritical
	}
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
