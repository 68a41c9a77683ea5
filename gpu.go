package main

import (
	"fmt"

	"github.com/ml4mikc/hpclaunch/core"
	"github.com/ml4mikc/hpclaunch/logger"
)

// GpuCommand is the fixed-partition launcher: always gpu_a100, no
// pass-through directives. Kept separate from launch on purpose; the two
// are different configurations of the same flow, not a merged design.
type GpuCommand struct {
	Help  bool   `short:"h" long:"help" description:"Show this help message"`
	Time  string `short:"t" long:"time" description:"wall clock limit HH:MM:SS" default:"00:01:00"`
	Conda string `short:"c" long:"conda" description:"conda environment to activate" default:"ml4mikc"`
	File  string `short:"f" long:"file" description:"script to run"`
}

var gpuCommand GpuCommand

func (x *GpuCommand) Execute(args []string) error {
	if x.Help {
		return createHelpErr()
	}
	if len(args) > 0 {
		return fmt.Errorf("gpu: %w: %q", core.ErrUnknownParameter, args[0])
	}
	req := core.JobRequest{
		Unit:       core.UnitGpuA100,
		Time:       x.Time,
		CondaEnv:   x.Conda,
		ScriptPath: x.File,
	}
	site, err := core.LoadSiteConfig()
	if err != nil {
		return fmt.Errorf("gpu: %w", err)
	}
	registry := core.CondaRegistry{Bin: site.CondaPath}
	if err := core.Validate(&req, registry); err != nil {
		return fmt.Errorf("gpu: %w", err)
	}
	logger.DebugObj("job request", req)
	body := core.RenderScript(req, site)
	path, err := core.WriteScript(site.ScriptDir, body)
	if err != nil {
		return fmt.Errorf("gpu: %w", err)
	}
	// The script is left in place after submission; this variant has
	// always relied on the scheduler consuming it and never cleaned up.
	logger.InfoPrintf("submitting %s (%s)", req.ScriptPath, path)
	jobId, err := core.Submit(site, path)
	if err != nil {
		return fmt.Errorf("gpu: %w", err)
	}
	fmt.Printf("Submitted batch job %s\n", jobId)
	return nil
}

func init() {
	parser.AddCommand("gpu",
		"Submit a gpu_a100 job",
		"Submit a job to the gpu_a100 partition with fixed resources",
		&gpuCommand)
}
