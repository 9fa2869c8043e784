// Package tokens estimates token usage of prompts and replies for the
// per-turn usage log.
package tokens

import (
	"sync"

	"github.com/tiktoken-go/tokenizer"
)

// Estimator counts tokens with the cl100k_base encoding, lazily
// initialized and cached for the process lifetime.
type Estimator struct {
	once  sync.Once
	codec tokenizer.Codec
	err   error
}

// NewEstimator creates an estimator. The tokenizer is loaded on first use.
func NewEstimator() *Estimator {
	return &Estimator{}
}

// Count returns the token count of text. If the tokenizer cannot be
// loaded it falls back to a bytes/4 heuristic; usage logging is
// best-effort and must not fail a turn.
func (e *Estimator) Count(text string) int {
	e.once.Do(func() {
		e.codec, e.err = tokenizer.Get(tokenizer.Cl100kBase)
	})
	if e.err != nil || e.codec == nil {
		return len(text) / 4
	}
	ids, _, err := e.codec.Encode(text)
	if err != nil {
		return len(text) / 4
	}
	return len(ids)
}
