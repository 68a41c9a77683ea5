package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPipelineIsValid(t *testing.T) {
	pipeline := DefaultPipeline()
	if err := pipeline.Validate(); err != nil {
		t.Fatalf("default pipeline invalid: %v", err)
	}
	if pipeline.Steps[0].Name != "download-ppi-databases" {
		t.Fatalf("unexpected first stage: %s", pipeline.Steps[0].Name)
	}
}

func TestPipelineValidateRejectsBadUnit(t *testing.T) {
	pipeline := DefaultPipeline()
	pipeline.Steps[2].Unit = "fat"
	err := pipeline.Validate()
	if !errors.Is(err, ErrInvalidUnit) {
		t.Fatalf("expected ErrInvalidUnit, got %v", err)
	}
}

func TestPipelineValidateRejectsBadTime(t *testing.T) {
	pipeline := DefaultPipeline()
	pipeline.Steps[0].Time = "1h"
	err := pipeline.Validate()
	if !errors.Is(err, ErrInvalidTimeFormat) {
		t.Fatalf("expected ErrInvalidTimeFormat, got %v", err)
	}
}

func TestLoadPipeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	pipelineYAML := `name: smoke
conda: ml4mikc
steps:
  - name: annotate
    script: annotate.py
    unit: genoa
    time: "00:10:00"
    extra_args:
      - "--array=0-10"
  - name: embed
    script: embed.py
    unit: gpu_a100
    time: "02:00:00"
    conda: esmfold
`
	if err := os.WriteFile(path, []byte(pipelineYAML), 0644); err != nil {
		t.Fatal(err)
	}
	pipeline, err := LoadPipeline(path)
	if err != nil {
		t.Fatalf("LoadPipeline returned error: %v", err)
	}
	if err := pipeline.Validate(); err != nil {
		t.Fatalf("loaded pipeline invalid: %v", err)
	}
	if len(pipeline.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(pipeline.Steps))
	}
	// stage without conda inherits the pipeline environment
	req := pipeline.Request(pipeline.Steps[0])
	if req.CondaEnv != "ml4mikc" {
		t.Fatalf("expected inherited conda env, got %q", req.CondaEnv)
	}
	// stage with its own conda keeps it
	req = pipeline.Request(pipeline.Steps[1])
	if req.CondaEnv != "esmfold" {
		t.Fatalf("expected stage conda env, got %q", req.CondaEnv)
	}
	if len(req.ExtraArgs) != 0 {
		t.Fatalf("unexpected extra args: %v", req.ExtraArgs)
	}
}

func TestPipelineRequestCopiesExtraArgs(t *testing.T) {
	pipeline := DefaultPipeline()
	var arrayStep PipelineStep
	for _, step := range pipeline.Steps {
		if len(step.ExtraArgs) > 0 {
			arrayStep = step
			break
		}
	}
	if arrayStep.Name == "" {
		t.Fatal("default pipeline has no stage with extra args")
	}
	req := pipeline.Request(arrayStep)
	req.ExtraArgs[0] = "mutated"
	if arrayStep.ExtraArgs[0] == "mutated" {
		t.Fatal("Request aliased the step's extra args")
	}
}
