// Package logger wraps zerolog with pipekit's logging conventions:
// component-tagged loggers, structured field helpers, and a configurable
// global instance.
package logger
