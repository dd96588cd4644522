// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/testforge/internal/adapters/config"
	_ "go.trai.ch/testforge/internal/adapters/corpus"
	_ "go.trai.ch/testforge/internal/adapters/instructions"
	_ "go.trai.ch/testforge/internal/adapters/lock"
	_ "go.trai.ch/testforge/internal/adapters/logger"
	_ "go.trai.ch/testforge/internal/adapters/process"
	_ "go.trai.ch/testforge/internal/adapters/sanitize"
	_ "go.trai.ch/testforge/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/testforge/internal/app"
)
