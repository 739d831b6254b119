package dsl

import (
	"regexp"

	"github.com/kbukum/pipekit/errors"
	"github.com/kbukum/pipekit/logger"
	"github.com/kbukum/pipekit/param"
)

// validNamePattern is the display-name surface: letters, numbers, spaces,
// "_" and "-", starting with a letter.
var validNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9\s_-]*$`)

// OpSpec configures a ContainerOp.
type OpSpec struct {
	// Name is the display name. It need not be unique within the pipeline;
	// the pipeline disambiguates the derived identity on conflicts.
	Name string
	// Image is the container image, such as "python:3.12-slim".
	Image string
	// Command is the command run in the container. Empty uses the image's
	// default entrypoint.
	Command []string
	// Arguments are the command's arguments. Both Command and Arguments may
	// embed parameter reference tokens; every distinct reference found
	// becomes an input of the op.
	Arguments []string
	// FileOutputs maps output labels to the local file paths the container
	// writes them to. Each label becomes an output reference of the op.
	FileOutputs map[string]string
	// ExitHandler marks the op as an exit handler.
	ExitHandler bool
}

// Volume is a flat description of a volume attached to the op's pod.
type Volume struct {
	Name                  string
	HostPath              string
	PersistentVolumeClaim string
}

// VolumeMount mounts a named volume into the container.
type VolumeMount struct {
	Name      string
	MountPath string
	ReadOnly  bool
}

// EnvVar is an environment variable set in the container.
type EnvVar struct {
	Name  string
	Value string
}

// ContainerOp is one container-execution step in a pipeline graph.
type ContainerOp struct {
	// Identity is the pipeline-unique name assigned at registration.
	Identity string
	// DisplayName is the name the op was declared with.
	DisplayName string

	Image       string
	Command     []string
	Arguments   []string
	FileOutputs map[string]string

	// Inputs are the distinct parameter references discovered in Command and
	// Arguments, in discovery order.
	Inputs []param.Param
	// Outputs holds one reference per FileOutputs label, scoped to this op.
	Outputs map[string]param.Param
	// Dependencies are identities of ops this op must run after, declared
	// explicitly via After. Edges implied by Inputs are kept separate and
	// joined with these at graph derivation.
	Dependencies []string

	IsExitHandler bool

	ResourceLimits   map[string]string
	ResourceRequests map[string]string
	NodeSelector     map[string]string
	PodAnnotations   map[string]string
	PodLabels        map[string]string
	Volumes          []Volume
	VolumeMounts     []VolumeMount
	Env              []EnvVar
	Retries          int

	defaultOutput *param.Param
}

// NewContainerOp validates the spec, registers the op with the pipeline and
// derives its input and output wiring. The pipeline is left untouched when
// validation fails.
func (p *Pipeline) NewContainerOp(spec OpSpec) (*ContainerOp, error) {
	if p == nil {
		return nil, errors.NoActivePipeline()
	}
	if !validNamePattern.MatchString(spec.Name) {
		return nil, errors.InvalidName(spec.Name)
	}
	if spec.Image == "" {
		return nil, errors.Validation("image: is required").WithDetail("op", spec.Name)
	}

	op := &ContainerOp{
		DisplayName:      spec.Name,
		Image:            spec.Image,
		Command:          spec.Command,
		Arguments:        spec.Arguments,
		FileOutputs:      spec.FileOutputs,
		IsExitHandler:    spec.ExitHandler,
		ResourceLimits:   make(map[string]string),
		ResourceRequests: make(map[string]string),
		NodeSelector:     make(map[string]string),
		PodAnnotations:   make(map[string]string),
		PodLabels:        make(map[string]string),
	}
	op.Identity = p.register(op, spec.ExitHandler)

	corpus := make([]string, 0, len(spec.Command)+len(spec.Arguments))
	corpus = append(corpus, spec.Command...)
	corpus = append(corpus, spec.Arguments...)
	op.Inputs = param.Dedup(param.Scan(corpus...))

	if len(spec.FileOutputs) > 0 {
		op.Outputs = make(map[string]param.Param, len(spec.FileOutputs))
		for label := range spec.FileOutputs {
			op.Outputs[label] = param.Param{Name: label, Op: op.Identity}
		}
		if len(op.Outputs) == 1 {
			for _, out := range op.Outputs {
				ref := out
				op.defaultOutput = &ref
			}
		}
	}

	p.log.Debug("op registered", logger.Fields(
		logger.FieldOp, op.Identity,
		"inputs", len(op.Inputs),
		"outputs", len(op.Outputs),
	))
	return op, nil
}

// Output returns the op's single output reference. ok is false unless the op
// declared exactly one file output.
func (op *ContainerOp) Output() (out param.Param, ok bool) {
	if op.defaultOutput == nil {
		return param.Param{}, false
	}
	return *op.defaultOutput, true
}

// After declares an explicit dependency on another op and returns the
// receiver. Inputs are not affected.
func (op *ContainerOp) After(other *ContainerOp) *ContainerOp {
	op.Dependencies = append(op.Dependencies, other.Identity)
	return op
}

// Apply applies a modifier function to the op. It exists to chain extension
// methods defined outside this package.
//
//	task.Apply(useSecret("user-sa")).SetRetry(3)
func (op *ContainerOp) Apply(mod func(*ContainerOp) *ContainerOp) *ContainerOp {
	return mod(op)
}
