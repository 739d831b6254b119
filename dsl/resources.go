package dsl

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/kbukum/pipekit/errors"
)

var (
	memoryPattern   = regexp.MustCompile(`^[0-9]+(E|Ei|P|Pi|T|Ti|G|Gi|M|Mi|K|Ki)?$`)
	cpuMilliPattern = regexp.MustCompile(`^[0-9]+m$`)
)

// AddResourceLimit adds a resource limit of the container and returns the
// receiver. The value is stored as-is; use the Set* helpers for validated
// well-known resources.
func (op *ContainerOp) AddResourceLimit(resource, value string) *ContainerOp {
	op.ResourceLimits[resource] = value
	return op
}

// AddResourceRequest adds a resource request of the container and returns
// the receiver.
func (op *ContainerOp) AddResourceRequest(resource, value string) *ContainerOp {
	op.ResourceRequests[resource] = value
	return op
}

// SetMemoryRequest sets the memory request (minimum) for this op. The value
// must be an integer, optionally followed by one of
// E|Ei|P|Pi|T|Ti|G|Gi|M|Mi|K|Ki.
func (op *ContainerOp) SetMemoryRequest(memory string) (*ContainerOp, error) {
	if err := validateMemory(memory); err != nil {
		return op, err
	}
	return op.AddResourceRequest("memory", memory), nil
}

// SetMemoryLimit sets the memory limit (maximum) for this op.
func (op *ContainerOp) SetMemoryLimit(memory string) (*ContainerOp, error) {
	if err := validateMemory(memory); err != nil {
		return op, err
	}
	return op.AddResourceLimit("memory", memory), nil
}

// SetCPURequest sets the cpu request (minimum) for this op. The value must
// be a number, or an integer followed by "m" (1/1000 of a cpu).
func (op *ContainerOp) SetCPURequest(cpu string) (*ContainerOp, error) {
	if err := validateCPU(cpu); err != nil {
		return op, err
	}
	return op.AddResourceRequest("cpu", cpu), nil
}

// SetCPULimit sets the cpu limit (maximum) for this op.
func (op *ContainerOp) SetCPULimit(cpu string) (*ContainerOp, error) {
	if err := validateCPU(cpu); err != nil {
		return op, err
	}
	return op.AddResourceLimit("cpu", cpu), nil
}

// SetGPULimit sets the gpu limit for this op by writing a "<vendor>.com/gpu"
// resource limit. GPUs are only specified in the limits section; there is no
// request counterpart. Supported vendors are "nvidia" and "amd".
func (op *ContainerOp) SetGPULimit(gpu int, vendor string) (*ContainerOp, error) {
	if gpu <= 0 {
		return op, errors.InvalidFormat("gpu", "positive integer").WithDetail("gpu", gpu)
	}
	if vendor != "nvidia" && vendor != "amd" {
		return op, errors.InvalidFormat("vendor", "nvidia or amd").WithDetail("vendor", vendor)
	}
	return op.AddResourceLimit(fmt.Sprintf("%s.com/gpu", vendor), strconv.Itoa(gpu)), nil
}

// AddVolume adds a volume to the op's pod and returns the receiver.
func (op *ContainerOp) AddVolume(volume Volume) *ContainerOp {
	op.Volumes = append(op.Volumes, volume)
	return op
}

// AddVolumeMount adds a volume mount to the container and returns the
// receiver.
func (op *ContainerOp) AddVolumeMount(mount VolumeMount) *ContainerOp {
	op.VolumeMounts = append(op.VolumeMounts, mount)
	return op
}

// AddEnv adds an environment variable to the container and returns the
// receiver.
func (op *ContainerOp) AddEnv(env EnvVar) *ContainerOp {
	op.Env = append(op.Env, env)
	return op
}

// AddNodeSelectorConstraint adds a nodeSelector label constraint and returns
// the receiver. The op's pod is only eligible for nodes carrying every added
// label.
func (op *ContainerOp) AddNodeSelectorConstraint(label, value string) *ContainerOp {
	op.NodeSelector[label] = value
	return op
}

// AddPodAnnotation adds a pod metadata annotation and returns the receiver.
func (op *ContainerOp) AddPodAnnotation(name, value string) *ContainerOp {
	op.PodAnnotations[name] = value
	return op
}

// AddPodLabel adds a pod metadata label and returns the receiver.
func (op *ContainerOp) AddPodLabel(name, value string) *ContainerOp {
	op.PodLabels[name] = value
	return op
}

// SetRetry sets the number of times the task is retried until it is declared
// failed. The count is stored for downstream compilation; nothing is
// enforced here.
func (op *ContainerOp) SetRetry(retries int) *ContainerOp {
	op.Retries = retries
	return op
}

func validateMemory(memory string) error {
	if !memoryPattern.MatchString(memory) {
		return errors.InvalidFormat("memory", `integer, optionally followed by one of "E|Ei|P|Pi|T|Ti|G|Gi|M|Mi|K|Ki"`).
			WithDetail("value", memory)
	}
	return nil
}

func validateCPU(cpu string) error {
	if cpuMilliPattern.MatchString(cpu) {
		return nil
	}
	if _, err := strconv.ParseFloat(cpu, 64); err != nil {
		return errors.InvalidFormat("cpu", `number, or integer followed by "m"`).
			WithDetail("value", cpu)
	}
	return nil
}
