package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/testforge/internal/adapters/config"       //nolint:depguard // Wired in app layer
	"go.trai.ch/testforge/internal/adapters/corpus"       //nolint:depguard // Wired in app layer
	"go.trai.ch/testforge/internal/adapters/instructions" //nolint:depguard // Wired in app layer
	"go.trai.ch/testforge/internal/adapters/lock"         //nolint:depguard // Wired in app layer
	"go.trai.ch/testforge/internal/adapters/logger"       //nolint:depguard // Wired in app layer
	"go.trai.ch/testforge/internal/adapters/process"      //nolint:depguard // Wired in app layer
	"go.trai.ch/testforge/internal/adapters/sanitize"     //nolint:depguard // Wired in app layer
	"go.trai.ch/testforge/internal/adapters/watcher"      //nolint:depguard // Wired in app layer
	"go.trai.ch/testforge/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			process.NodeID,
			logger.NodeID,
			instructions.NodeID,
			sanitize.NodeID,
			corpus.NodeID,
			lock.NodeID,
			watcher.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	runner, err := graft.Dep[ports.ProcessRunner](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	instr, err := graft.Dep[ports.InstructionLoader](ctx)
	if err != nil {
		return nil, err
	}

	sanitizer, err := graft.Dep[ports.Sanitizer](ctx)
	if err != nil {
		return nil, err
	}

	reader, err := graft.Dep[ports.SourceReader](ctx)
	if err != nil {
		return nil, err
	}

	locker, err := graft.Dep[ports.Locker](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, runner, log, instr, sanitizer, reader, locker, w), nil
}
