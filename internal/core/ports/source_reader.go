package ports

import (
	"context"

	"go.trai.ch/testforge/internal/core/domain"
)

// SourceReader enumerates the source units of the project under test.
//
//go:generate mockgen -source=source_reader.go -destination=mocks/mock_source_reader.go -package=mocks
type SourceReader interface {
	// Read returns the corpus of files under dir accepted by filter.
	Read(ctx context.Context, dir string, filter domain.SourceFilter) (*domain.Corpus, error)
}
