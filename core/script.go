package core

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ScriptCmdPrefix starts every scheduler directive line.
const ScriptCmdPrefix = "#SBATCH"

var jobIdRe = regexp.MustCompile(`Submitted batch job (\d+)`)

func directive(b *bytes.Buffer, arg string) {
	b.WriteString(ScriptCmdPrefix + " " + arg + "\n")
}

// RenderScript produces the submission script for a validated request.
// Rendering is deterministic: identical request and site config always
// produce byte-identical output. Unit, time, environment name, script
// path and extra args are interpolated as raw text; nothing is escaped.
func RenderScript(req JobRequest, site SiteConfig) []byte {
	var b bytes.Buffer
	b.WriteString("#!/bin/bash\n")
	directive(&b, "--partition="+req.Unit)
	directive(&b, "--nodes=1")
	directive(&b, "--time="+req.Time)
	directive(&b, "--ntasks=1")
	if GpuUnit(req.Unit) {
		directive(&b, "--cpus-per-gpu=1")
	} else {
		directive(&b, "--cpus-per-task=1")
	}
	directive(&b, "--output="+site.OutputPattern)
	directive(&b, "--error="+site.ErrorPattern)
	for _, arg := range req.ExtraArgs {
		directive(&b, arg)
	}
	b.WriteString("\n")
	b.WriteString(`echo "job started at $(date)"` + "\n")
	b.WriteString(`source "` + site.CondaSetup + `"` + "\n")
	b.WriteString("conda activate " + req.CondaEnv + "\n")
	b.WriteString(site.Interpreter + " " + req.ScriptPath + "\n")
	return b.Bytes()
}

// WriteScript writes a submission script to dir (system temp directory
// when empty) under a unique name and returns its path.
func WriteScript(dir string, body []byte) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "hpclaunch-"+uuid.NewString()+".sh")
	if err := os.WriteFile(path, body, 0700); err != nil {
		return "", fmt.Errorf("cannot write submission script: %w", err)
	}
	return path, nil
}

// Submit hands a rendered script to the scheduler. Scheduler output is
// surfaced as-is on rejection; on success the job id is extracted from
// the usual "Submitted batch job N" line when present, otherwise the raw
// output is returned.
func Submit(site SiteConfig, scriptPath string) (string, error) {
	out, err := exec.Command(site.SbatchPath, scriptPath).CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("%w: %s", ErrSchedulerRejected, msg)
	}
	if match := jobIdRe.FindStringSubmatch(string(out)); match != nil {
		return match[1], nil
	}
	return strings.TrimSpace(string(out)), nil
}
