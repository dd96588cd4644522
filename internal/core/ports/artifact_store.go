package ports

import (
	"context"

	"go.trai.ch/testforge/internal/core/domain"
)

// ArtifactStore persists test artifacts addressed by stage and source identifier.
//
//go:generate mockgen -source=artifact_store.go -destination=mocks/mock_artifact_store.go -package=mocks
type ArtifactStore interface {
	// Save writes content for the (stage, sourceIdentifier) pair, replacing any
	// prior file. It records the current run and save time in the manifest.
	Save(ctx context.Context, stage domain.Stage, sourceIdentifier, content string) (domain.TestArtifact, error)

	// Load returns the stored artifact, or nil, nil if none exists.
	Load(stage domain.Stage, sourceIdentifier string) (*domain.TestArtifact, error)

	// List returns the stored artifacts accepted by keep, ordered by filename.
	List(keep func(domain.TestArtifact) bool) ([]domain.TestArtifact, error)

	// Select resolves the preferred artifact for each identifier. A non-empty
	// run restricts the candidates to artifacts saved by that run.
	Select(identifiers []string, run string) (selected []domain.TestArtifact, unresolved []string, err error)
}
