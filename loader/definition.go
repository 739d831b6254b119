package loader

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/pipekit/errors"
)

// Definition is a declarative pipeline description.
type Definition struct {
	// Name is the pipeline name.
	Name string `yaml:"name" validate:"required"`
	// Ops defines the pipeline's operations, in build order.
	Ops []OpDef `yaml:"ops" validate:"required,min=1,dive"`
}

// OpDef defines a single op within a pipeline definition.
type OpDef struct {
	// Name is the op display name; also the key other ops use in After.
	Name string `yaml:"name" validate:"required"`
	// Image is the container image.
	Image string `yaml:"image" validate:"required"`
	// Command is the container command; empty uses the image default.
	Command []string `yaml:"command,omitempty"`
	// Arguments are the command arguments; may embed parameter tokens.
	Arguments []string `yaml:"arguments,omitempty"`
	// Outputs maps output labels to container file paths.
	Outputs map[string]string `yaml:"outputs,omitempty"`
	// After lists definition op names this op explicitly runs after.
	After []string `yaml:"after,omitempty"`
	// ExitHandler marks the op as an exit handler.
	ExitHandler bool `yaml:"exit_handler,omitempty"`
	// Retries overrides the configured default retry count.
	Retries *int `yaml:"retries,omitempty"`
	// GPU is the gpu limit; zero requests none.
	GPU int `yaml:"gpu,omitempty" validate:"gte=0"`
	// GPUVendor overrides the configured default gpu vendor.
	GPUVendor string `yaml:"gpu_vendor,omitempty" validate:"omitempty,oneof=nvidia amd"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the definition against its struct tags.
func (d *Definition) Validate() error {
	err := getValidator().Struct(d)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Validation("definition validation failed").WithCause(err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, strings.ToLower(e.Field())+": failed "+e.Tag())
	}
	return errors.Validation(strings.Join(messages, "; ")).
		WithDetail("pipeline", d.Name)
}
