package ports

import "go.trai.ch/testforge/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration for the project rooted at cwd.
	// An empty file means the default file name, which may be absent.
	Load(cwd, file string) (*domain.Config, error)
}
