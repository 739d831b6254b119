package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Graph construction errors
const (
	// ErrCodeNoActivePipeline indicates an op was constructed without a pipeline.
	ErrCodeNoActivePipeline ErrorCode = "NO_ACTIVE_PIPELINE"
	// ErrCodeInvalidName indicates an op display name failed validation.
	ErrCodeInvalidName ErrorCode = "INVALID_NAME"
	// ErrCodeCycleDetected indicates the dependency graph contains a cycle.
	ErrCodeCycleDetected ErrorCode = "CYCLE_DETECTED"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInvalidFormat indicates a field has an invalid format.
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
)

// Resource errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)
