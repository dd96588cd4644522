package watcher

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/testforge/internal/core/domain"
)

// Fingerprint hashes the identifiers and contents of a corpus.
// Two corpora with the same fingerprint produce the same prompts.
func Fingerprint(c *domain.Corpus) string {
	h := xxhash.New()
	for _, u := range c.Units() {
		_, _ = h.WriteString(u.Identifier)
		_, _ = h.Write([]byte{0})
		_, _ = h.WriteString(u.Content)
		_, _ = h.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
