package main

import (
	"fmt"
	"os"

	"github.com/ml4mikc/hpclaunch/core"
	"github.com/ml4mikc/hpclaunch/logger"
)

type LaunchCommand struct {
	Help  bool   `short:"h" long:"help" description:"Show this help message"`
	Unit  string `short:"u" long:"unit" description:"compute unit (partition): gpu_a100, gpu_h100, genoa or rome" default:"gpu_a100"`
	Time  string `short:"t" long:"time" description:"wall clock limit HH:MM:SS" default:"00:01:00"`
	Conda string `short:"c" long:"conda" description:"conda environment to activate" default:"ml4mikc"`
	File  string `short:"f" long:"file" description:"script to run"`
}

var launchCommand LaunchCommand

// Execute submits one job. Unrecognized flags land in args and are
// forwarded to the scheduler verbatim; unrecognized bare tokens are a
// hard error.
func (x *LaunchCommand) Execute(args []string) error {
	if x.Help {
		return createHelpErr()
	}
	extra, err := core.ParsePassthrough(args)
	if err != nil {
		return fmt.Errorf("launch: %w", err)
	}
	req := core.JobRequest{
		Unit:       x.Unit,
		Time:       x.Time,
		CondaEnv:   x.Conda,
		ScriptPath: x.File,
		ExtraArgs:  extra,
	}
	site, err := core.LoadSiteConfig()
	if err != nil {
		return fmt.Errorf("launch: %w", err)
	}
	registry := core.CondaRegistry{Bin: site.CondaPath}
	if err := core.Validate(&req, registry); err != nil {
		return fmt.Errorf("launch: %w", err)
	}
	logger.DebugObj("job request", req)
	body := core.RenderScript(req, site)
	path, err := core.WriteScript(site.ScriptDir, body)
	if err != nil {
		return fmt.Errorf("launch: %w", err)
	}
	// sbatch copies the script at submission time, so the file can go
	// as soon as Submit returns
	if !site.KeepScripts {
		defer os.Remove(path)
	}
	logger.InfoPrintf("submitting %s (%s)", req.ScriptPath, path)
	jobId, err := core.Submit(site, path)
	if err != nil {
		return fmt.Errorf("launch: %w", err)
	}
	fmt.Printf("Submitted batch job %s\n", jobId)
	return nil
}

func init() {
	parser.AddCommand("launch",
		"Submit a job",
		"Validate the request, render an sbatch submission script and hand it to the scheduler",
		&launchCommand)
}
