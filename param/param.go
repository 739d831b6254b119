package param

import (
	"fmt"
	"regexp"

	"github.com/kbukum/pipekit/errors"
)

// Param is a reference to a named pipeline value. Op is the identity of the
// op that produces it; an empty Op means a pipeline-level input. Value is an
// optional literal payload carried with the reference.
//
// Params are compared by the full (Op, Name, Value) triple: the same name
// produced by different ops is a different reference.
type Param struct {
	Name  string
	Op    string
	Value string
}

// tokenPattern is the wire format for embedded references. It must stay
// bit-exact: downstream compilers match on this shape.
var tokenPattern = regexp.MustCompile(`{{pipelineparam:op=([\w\s_-]*);name=([\w\s_-]+);value=(.*?)}}`)

// fullTokenPattern anchors tokenPattern for whole-string parsing.
var fullTokenPattern = regexp.MustCompile(`^{{pipelineparam:op=([\w\s_-]*);name=([\w\s_-]+);value=(.*?)}}$`)

// New creates a pipeline-level parameter with an optional default value.
func New(name, value string) Param {
	return Param{Name: name, Value: value}
}

// String serializes the reference to its token form. Values containing "}}"
// will truncate on round-trip; the format has no escaping.
func (p Param) String() string {
	return fmt.Sprintf("{{pipelineparam:op=%s;name=%s;value=%s}}", p.Op, p.Name, p.Value)
}

// Parse parses a single complete token into a Param.
func Parse(token string) (Param, error) {
	m := fullTokenPattern.FindStringSubmatch(token)
	if m == nil {
		return Param{}, errors.InvalidFormat("token", "{{pipelineparam:op=<op>;name=<name>;value=<value>}}").
			WithDetail("token", token)
	}
	return Param{Op: m[1], Name: m[2], Value: m[3]}, nil
}
