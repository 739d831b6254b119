package dsl

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/pipekit/logger"
)

// Pipeline is the registry for a graph under construction: it owns the
// ordered op list and resolves identity collisions. Ops are constructed
// through an explicit pipeline handle; there is no process-wide active
// pipeline, so nested or concurrent constructions cannot observe each
// other's ops.
type Pipeline struct {
	// ID uniquely identifies this construction run.
	ID string
	// Name is the human-readable pipeline name.
	Name string

	log            *logger.Logger
	ops            []*ContainerOp
	exitHandlers   []*ContainerOp
	usedIdentities map[string]bool
}

// NewPipeline creates an empty pipeline registry.
func NewPipeline(name string) *Pipeline {
	return &Pipeline{
		ID:             uuid.NewString(),
		Name:           name,
		log:            logger.Global().WithComponent("dsl").WithFields(map[string]interface{}{logger.FieldPipeline: name}),
		usedIdentities: make(map[string]bool),
	}
}

// Ops returns the registered ops in registration order.
func (p *Pipeline) Ops() []*ContainerOp {
	out := make([]*ContainerOp, len(p.ops))
	copy(out, p.ops)
	return out
}

// ExitHandlers returns the ops flagged as exit handlers, in registration
// order. More than one is permitted; downstream compilation decides how to
// treat extras.
func (p *Pipeline) ExitHandlers() []*ContainerOp {
	out := make([]*ContainerOp, len(p.exitHandlers))
	copy(out, p.exitHandlers)
	return out
}

// Op returns the op with the given identity.
func (p *Pipeline) Op(identity string) (*ContainerOp, bool) {
	for _, op := range p.ops {
		if op.Identity == identity {
			return op, true
		}
	}
	return nil, false
}

// register assigns a unique identity to op and records it. The normalized
// display name is used as-is when free; collisions get -1, -2, ... suffixes.
// A zero-value Pipeline is initialized lazily here, so constructing one
// without NewPipeline is safe (it just has no ID).
func (p *Pipeline) register(op *ContainerOp, exitHandler bool) string {
	if p.usedIdentities == nil {
		p.usedIdentities = make(map[string]bool)
	}
	if p.log == nil {
		p.log = logger.Global().WithComponent("dsl")
	}

	base := normalizeIdentity(op.DisplayName)
	identity := base
	for i := 1; p.usedIdentities[identity]; i++ {
		identity = fmt.Sprintf("%s-%d", base, i)
	}

	p.usedIdentities[identity] = true
	p.ops = append(p.ops, op)
	if exitHandler {
		p.exitHandlers = append(p.exitHandlers, op)
	}

	return identity
}

// normalizeIdentity lowercases the display name and collapses every run of
// characters outside [a-z0-9] to a single "-".
func normalizeIdentity(displayName string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(displayName) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}
