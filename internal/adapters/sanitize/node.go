package sanitize

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/testforge/internal/core/ports"
)

// NodeID is the unique identifier for the output sanitizer Graft node.
const NodeID graft.ID = "adapter.sanitizer"

func init() {
	graft.Register(graft.Node[ports.Sanitizer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Sanitizer, error) {
			return NewFenceStripper(), nil
		},
	})
}
