package loader

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/kbukum/pipekit/config"
	"github.com/kbukum/pipekit/errors"
)

const trainDef = `
name: train-flow
ops:
  - name: prep
    image: prep:v1
    outputs:
      data: /out/data
  - name: train
    image: trainer:v1
    command: [python, train.py]
    arguments:
      - --data={{pipelineparam:op=prep;name=data;value=}}
    outputs:
      model: /out/model
    retries: 5
    gpu: 1
    gpu_vendor: nvidia
  - name: cleanup
    image: alpine:3
    after: [train]
    exit_handler: true
`

func writeDef(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing definition: %v", err)
	}
}

func TestFileLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, dir, "train-flow.yaml", trainDef)

	l := NewFileLoader(t.TempDir(), dir)

	def, err := l.Load("train-flow")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.Name != "train-flow" || len(def.Ops) != 3 {
		t.Errorf("unexpected definition: %+v", def)
	}
}

func TestFileLoader_NotFound(t *testing.T) {
	l := NewFileLoader(t.TempDir())
	_, err := l.Load("missing")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, dir, "bad.yaml", "name: [broken")

	_, err := LoadFile(filepath.Join(dir, "bad.yaml"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.IsCode(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("expected INVALID_FORMAT, got %v", err)
	}
}

func TestDefinition_Validate(t *testing.T) {
	tests := []struct {
		name    string
		def     Definition
		wantErr bool
	}{
		{
			"valid",
			Definition{Name: "p", Ops: []OpDef{{Name: "a", Image: "img:v1"}}},
			false,
		},
		{"missing name", Definition{Ops: []OpDef{{Name: "a", Image: "img:v1"}}}, true},
		{"no ops", Definition{Name: "p"}, true},
		{"op missing image", Definition{Name: "p", Ops: []OpDef{{Name: "a"}}}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.def.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
					t.Errorf("expected INVALID_INPUT, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, dir, "train-flow.yaml", trainDef)

	p, err := BuildNamed(NewFileLoader(dir), "train-flow", config.DefaultsConfig{Retries: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ops := p.Ops()
	if len(ops) != 3 {
		t.Fatalf("expected 3 ops, got %d", len(ops))
	}

	train, ok := p.Op("train")
	if !ok {
		t.Fatal("expected 'train' op")
	}
	if len(train.Inputs) != 1 || train.Inputs[0].Op != "prep" || train.Inputs[0].Name != "data" {
		t.Errorf("unexpected train inputs: %v", train.Inputs)
	}
	if train.Retries != 5 {
		t.Errorf("expected explicit retries 5, got %d", train.Retries)
	}
	if train.ResourceLimits["nvidia.com/gpu"] != "1" {
		t.Errorf("expected gpu limit from definition, got %v", train.ResourceLimits)
	}

	prep, _ := p.Op("prep")
	if prep.Retries != 1 {
		t.Errorf("expected default retries 1, got %d", prep.Retries)
	}

	cleanup, ok := p.Op("cleanup")
	if !ok {
		t.Fatal("expected 'cleanup' op")
	}
	if !reflect.DeepEqual(cleanup.Dependencies, []string{"train"}) {
		t.Errorf("unexpected dependencies: %v", cleanup.Dependencies)
	}
	if len(p.ExitHandlers()) != 1 {
		t.Errorf("expected 1 exit handler, got %d", len(p.ExitHandlers()))
	}

	levels, err := p.BuildLevels()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{{"prep"}, {"train"}, {"cleanup"}}
	if !reflect.DeepEqual(levels, want) {
		t.Errorf("expected levels %v, got %v", want, levels)
	}
}

func TestBuild_ForwardAfterReference(t *testing.T) {
	def := &Definition{
		Name: "p",
		Ops: []OpDef{
			{Name: "first", Image: "img:v1", After: []string{"second"}},
			{Name: "second", Image: "img:v1"},
		},
	}

	p, err := Build(def, config.DefaultsConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, _ := p.Op("first")
	if !reflect.DeepEqual(first.Dependencies, []string{"second"}) {
		t.Errorf("unexpected dependencies: %v", first.Dependencies)
	}
}

func TestBuild_GPUDefaults(t *testing.T) {
	def := &Definition{
		Name: "p",
		Ops: []OpDef{
			{Name: "defaulted", Image: "img:v1", GPU: 1},
			{Name: "explicit", Image: "img:v1", GPU: 2, GPUVendor: "nvidia"},
			{Name: "none", Image: "img:v1"},
		},
	}

	p, err := Build(def, config.DefaultsConfig{GPUVendor: "amd"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	defaulted, _ := p.Op("defaulted")
	if defaulted.ResourceLimits["amd.com/gpu"] != "1" {
		t.Errorf("expected configured default vendor applied, got %v", defaulted.ResourceLimits)
	}

	explicit, _ := p.Op("explicit")
	if explicit.ResourceLimits["nvidia.com/gpu"] != "2" {
		t.Errorf("expected op vendor to win over default, got %v", explicit.ResourceLimits)
	}

	none, _ := p.Op("none")
	if len(none.ResourceLimits) != 0 {
		t.Errorf("expected no gpu limit, got %v", none.ResourceLimits)
	}
}

func TestBuild_GPUVendorFallback(t *testing.T) {
	def := &Definition{
		Name: "p",
		Ops:  []OpDef{{Name: "a", Image: "img:v1", GPU: 1}},
	}

	// No configured vendor at all falls back to nvidia.
	p, err := Build(def, config.DefaultsConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a, _ := p.Op("a")
	if a.ResourceLimits["nvidia.com/gpu"] != "1" {
		t.Errorf("expected nvidia fallback, got %v", a.ResourceLimits)
	}
}

func TestDefinition_Validate_GPU(t *testing.T) {
	def := Definition{
		Name: "p",
		Ops:  []OpDef{{Name: "a", Image: "img:v1", GPU: 1, GPUVendor: "intel"}},
	}
	if err := def.Validate(); err == nil {
		t.Fatal("expected error for unsupported vendor")
	}

	def.Ops[0].GPUVendor = "amd"
	if err := def.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuild_DanglingAfter(t *testing.T) {
	def := &Definition{
		Name: "p",
		Ops: []OpDef{
			{Name: "a", Image: "img:v1", After: []string{"ghost"}},
		},
	}

	_, err := Build(def, config.DefaultsConfig{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestBuild_InvalidOpName(t *testing.T) {
	def := &Definition{
		Name: "p",
		Ops:  []OpDef{{Name: "9bad", Image: "img:v1"}},
	}

	_, err := Build(def, config.DefaultsConfig{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.IsCode(err, errors.ErrCodeInvalidName) {
		t.Errorf("expected INVALID_NAME, got %v", err)
	}
}

func TestBuild_DuplicateDefNames(t *testing.T) {
	def := &Definition{
		Name: "p",
		Ops: []OpDef{
			{Name: "step", Image: "img:v1"},
			{Name: "step", Image: "img:v1"},
			{Name: "last", Image: "img:v1", After: []string{"step"}},
		},
	}

	p, err := Build(def, config.DefaultsConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ops := p.Ops()
	if ops[0].Identity != "step" || ops[1].Identity != "step-1" {
		t.Errorf("unexpected identities: %q, %q", ops[0].Identity, ops[1].Identity)
	}

	// After resolves to the first def with that name.
	last, _ := p.Op("last")
	if !reflect.DeepEqual(last.Dependencies, []string{"step"}) {
		t.Errorf("unexpected dependencies: %v", last.Dependencies)
	}
}

var _ Loader = (*FileLoader)(nil)
