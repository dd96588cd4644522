package instructions

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/testforge/internal/core/ports"
)

// NodeID is the unique identifier for the instruction loader Graft node.
const NodeID graft.ID = "adapter.instruction_loader"

func init() {
	graft.Register(graft.Node[ports.InstructionLoader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.InstructionLoader, error) {
			return NewLoader(), nil
		},
	})
}
