package main

import (
	"fmt"
	"os"

	"github.com/ml4mikc/hpclaunch/core"
	"github.com/ml4mikc/hpclaunch/logger"
)

type PipelineCommand struct {
	Help   bool   `short:"h" long:"help" description:"Show this help message"`
	File   string `short:"f" long:"file" description:"pipeline definition (YAML); built-in MIKC pipeline when omitted"`
	Submit bool   `short:"s" long:"submit" description:"submit every stage in order instead of listing"`
}

var pipelineCommand PipelineCommand

// Execute lists the ordered pipeline stages, or submits them one after
// the other. Submission is fail-fast: the first stage the scheduler
// rejects aborts the rest.
func (x *PipelineCommand) Execute(args []string) error {
	if x.Help {
		return createHelpErr()
	}
	if len(args) > 0 {
		return fmt.Errorf("pipeline: %w: %q", core.ErrUnknownParameter, args[0])
	}
	pipeline := core.DefaultPipeline()
	if x.File != "" {
		loaded, err := core.LoadPipeline(x.File)
		if err != nil {
			return fmt.Errorf("pipeline: %w", err)
		}
		pipeline = loaded
	}
	if err := pipeline.Validate(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if !x.Submit {
		fmt.Printf("pipeline %s (%d stages)\n", pipeline.Name, len(pipeline.Steps))
		for i, step := range pipeline.Steps {
			fmt.Printf("%2d  %-24s %-8s %s  %s\n",
				i+1, step.Name, step.Unit, step.Time, step.Script)
		}
		return nil
	}
	site, err := core.LoadSiteConfig()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	registry := core.CondaRegistry{Bin: site.CondaPath}
	for _, step := range pipeline.Steps {
		req := pipeline.Request(step)
		if err := core.Validate(&req, registry); err != nil {
			return fmt.Errorf("pipeline: %s: %w", step.Name, err)
		}
		body := core.RenderScript(req, site)
		path, werr := core.WriteScript(site.ScriptDir, body)
		if werr != nil {
			return fmt.Errorf("pipeline: %s: %w", step.Name, werr)
		}
		logger.InfoPrintf("submitting stage %s (%s)", step.Name, path)
		jobId, serr := core.Submit(site, path)
		if !site.KeepScripts {
			os.Remove(path)
		}
		if serr != nil {
			return fmt.Errorf("pipeline: %s: %w", step.Name, serr)
		}
		fmt.Printf("%-24s Submitted batch job %s\n", step.Name, jobId)
	}
	return nil
}

func init() {
	parser.AddCommand("pipeline",
		"MIKC data-processing pipeline",
		"List or submit the ordered pipeline stages: database construction, domain annotation, structures, embeddings, modeling",
		&pipelineCommand)
}
