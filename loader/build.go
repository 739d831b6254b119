package loader

import (
	"github.com/kbukum/pipekit/config"
	"github.com/kbukum/pipekit/dsl"
	"github.com/kbukum/pipekit/errors"
)

// Build constructs a dsl.Pipeline from a validated definition. After
// references are resolved by definition op name in a second pass, so an op
// may name one defined later in the file. Ops without an explicit retry
// count or gpu vendor get the configured defaults.
func Build(def *Definition, defaults config.DefaultsConfig) (*dsl.Pipeline, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	p := dsl.NewPipeline(def.Name)
	ops := make([]*dsl.ContainerOp, 0, len(def.Ops))
	byDefName := make(map[string]*dsl.ContainerOp, len(def.Ops))

	for _, opDef := range def.Ops {
		op, err := p.NewContainerOp(dsl.OpSpec{
			Name:        opDef.Name,
			Image:       opDef.Image,
			Command:     opDef.Command,
			Arguments:   opDef.Arguments,
			FileOutputs: opDef.Outputs,
			ExitHandler: opDef.ExitHandler,
		})
		if err != nil {
			return nil, err
		}

		if opDef.Retries != nil {
			op.SetRetry(*opDef.Retries)
		} else {
			op.SetRetry(defaults.Retries)
		}

		if opDef.GPU > 0 {
			vendor := opDef.GPUVendor
			if vendor == "" {
				vendor = defaults.GPUVendor
			}
			if vendor == "" {
				vendor = "nvidia"
			}
			if _, err := op.SetGPULimit(opDef.GPU, vendor); err != nil {
				return nil, err
			}
		}

		ops = append(ops, op)
		// The first def with a given name wins for After resolution,
		// matching identity suffixing order.
		if _, exists := byDefName[opDef.Name]; !exists {
			byDefName[opDef.Name] = op
		}
	}

	for i, opDef := range def.Ops {
		if len(opDef.After) == 0 {
			continue
		}
		op := ops[i]
		for _, after := range opDef.After {
			target, ok := byDefName[after]
			if !ok {
				return nil, errors.NotFound("op", after).
					WithDetail("referenced_by", opDef.Name)
			}
			op.After(target)
		}
	}

	return p, nil
}

// BuildNamed loads a definition through the loader and builds it.
func BuildNamed(l Loader, name string, defaults config.DefaultsConfig) (*dsl.Pipeline, error) {
	def, err := l.Load(name)
	if err != nil {
		return nil, err
	}
	return Build(def, defaults)
}
