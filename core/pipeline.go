package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PipelineStep is one stage of the data-processing pipeline: a script to
// run and the resources it needs. Conda defaults to the pipeline-wide
// environment when empty.
type PipelineStep struct {
	Name      string   `yaml:"name"`
	Script    string   `yaml:"script"`
	Unit      string   `yaml:"unit"`
	Time      string   `yaml:"time"`
	Conda     string   `yaml:"conda,omitempty"`
	ExtraArgs []string `yaml:"extra_args,omitempty"`
}

// Pipeline is an ordered list of stages. Order is the documented run
// order; stages are not submitted concurrently.
type Pipeline struct {
	Name  string         `yaml:"name"`
	Conda string         `yaml:"conda"`
	Steps []PipelineStep `yaml:"steps"`
}

// DefaultPipeline documents the MIKC processing order: PPI database
// construction, domain annotation, structures and embeddings, then the
// interface model.
func DefaultPipeline() Pipeline {
	return Pipeline{
		Name:  "ml4mikc",
		Conda: "ml4mikc",
		Steps: []PipelineStep{
			{Name: "download-ppi-databases", Script: "src/databases/download_databases_PPIs.py", Unit: UnitRome, Time: "01:00:00"},
			{Name: "build-ppi-network", Script: "src/databases/network.py", Unit: UnitRome, Time: "01:00:00"},
			{Name: "add-uniprot-data", Script: "src/databases/add_uniprot_data.py", Unit: UnitRome, Time: "02:00:00"},
			{Name: "find-mikc", Script: "src/databases/find_MIKC.py", Unit: UnitRome, Time: "00:30:00"},
			{Name: "interpro-domains", Script: "src/databases/all_interpro_domains.py", Unit: UnitGenoa, Time: "04:00:00",
				ExtraArgs: []string{"--array=0-5724%128"}},
			{Name: "add-domains", Script: "src/sources/add_domains.py", Unit: UnitGenoa, Time: "01:00:00"},
			{Name: "add-structure", Script: "src/sources/add_structure.py", Unit: UnitGpuA100, Time: "12:00:00"},
			{Name: "add-embeddings", Script: "src/sources/add_embeddings.py", Unit: UnitGpuA100, Time: "08:00:00"},
			{Name: "concat-embeddings", Script: "src/modeling/pLM/concat_embeddings.py", Unit: UnitGenoa, Time: "01:00:00"},
			{Name: "train-interface-model", Script: "src/modeling/interface/rf.py", Unit: UnitGenoa, Time: "06:00:00"},
		},
	}
}

// LoadPipeline reads a pipeline definition from a YAML file.
func LoadPipeline(path string) (Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("pipeline: read %s: %w", path, err)
	}
	var p Pipeline
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Pipeline{}, fmt.Errorf("pipeline: parse %s: %w", path, err)
	}
	return p, nil
}

// Validate applies the launcher rules to every stage.
func (p Pipeline) Validate() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("pipeline %q has no steps", p.Name)
	}
	for i, step := range p.Steps {
		if step.Name == "" {
			return fmt.Errorf("steps[%d]: name is required", i)
		}
		if !ValidUnit(step.Unit) {
			return fmt.Errorf("steps[%d] %s: %w: %q", i, step.Name, ErrInvalidUnit, step.Unit)
		}
		if !wallTimeRe.MatchString(step.Time) {
			return fmt.Errorf("steps[%d] %s: %w: %q", i, step.Name, ErrInvalidTimeFormat, step.Time)
		}
		if step.Script == "" {
			return fmt.Errorf("steps[%d] %s: %w", i, step.Name, ErrMissingFile)
		}
	}
	return nil
}

// Request builds the JobRequest for one stage.
func (p Pipeline) Request(step PipelineStep) JobRequest {
	conda := step.Conda
	if conda == "" {
		conda = p.Conda
	}
	return JobRequest{
		Unit:       step.Unit,
		Time:       step.Time,
		CondaEnv:   conda,
		ScriptPath: step.Script,
		ExtraArgs:  append([]string(nil), step.ExtraArgs...),
	}
}
