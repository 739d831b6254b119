// Package param implements pipeline parameter references: named values
// produced by an op (or supplied at pipeline level), serialized as textual
// tokens embedded in container command and argument strings.
//
// The token format is the wire protocol that links ops together: an op that
// embeds another op's output token in its arguments implicitly depends on
// that op.
package param
