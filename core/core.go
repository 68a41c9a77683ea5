package core

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Compute units (SLURM partitions) accepted by the launcher.
const (
	UnitGpuA100 = "gpu_a100"
	UnitGpuH100 = "gpu_h100"
	UnitGenoa   = "genoa"
	UnitRome    = "rome"
)

// Launcher error taxonomy. Every failure is fatal at the CLI boundary;
// main prints the message and exits non-zero.
var (
	ErrUnknownParameter   = errors.New("UnknownParameter")
	ErrInvalidUnit        = errors.New("InvalidUnit")
	ErrInvalidTimeFormat  = errors.New("InvalidTimeFormat")
	ErrMissingFile        = errors.New("MissingFile")
	ErrUnknownEnvironment = errors.New("UnknownEnvironment")
	ErrSchedulerRejected  = errors.New("SchedulerRejected")
)

var wallTimeRe = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)

// JobRequest is the validated configuration for one sbatch submission.
type JobRequest struct {
	// Unit selects the partition hardware pool
	Unit string
	// Time is the wall clock limit, HH:MM:SS
	Time string
	// CondaEnv names the conda environment activated before the job runs
	CondaEnv string
	// ScriptPath is the user script executed by the job; never stat'ed
	// before submission, the scheduler reports missing files itself
	ScriptPath string
	// ExtraArgs are opaque scheduler directives forwarded verbatim,
	// one #SBATCH line per entry, order preserved
	ExtraArgs []string
}

// ValidUnit reports whether unit names a known partition.
func ValidUnit(unit string) bool {
	switch unit {
	case UnitGpuA100, UnitGpuH100, UnitGenoa, UnitRome:
		return true
	}
	return false
}

// GpuUnit reports whether unit allocates GPU hardware.
func GpuUnit(unit string) bool {
	return unit == UnitGpuA100 || unit == UnitGpuH100
}

// ParsePassthrough classifies the argument tokens left over after flag
// parsing. Flag-looking tokens are captured verbatim as scheduler
// directives; a directly following non-flag token is kept as that flag's
// value. Any bare token is a hard error.
func ParsePassthrough(args []string) ([]string, error) {
	var extra []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			return nil, fmt.Errorf("%w: %q", ErrUnknownParameter, arg)
		}
		if !strings.Contains(arg, "=") &&
			i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			extra = append(extra, arg+" "+args[i+1])
			i++
			continue
		}
		extra = append(extra, arg)
	}
	return extra, nil
}

// hasGpuOverride reports whether extra args already carry a GPU count.
func hasGpuOverride(extra []string) bool {
	for _, arg := range extra {
		if strings.HasPrefix(arg, "--gpus=") || strings.HasPrefix(arg, "--gpus ") {
			return true
		}
	}
	return false
}

// Validate checks a JobRequest against the launcher rules, fail-fast and
// in a fixed order: unit, GPU count default, wall time, script path,
// environment registry. For GPU units without an explicit --gpus override
// a --gpus=1 directive is appended to req.ExtraArgs.
func Validate(req *JobRequest, registry EnvRegistry) error {
	if !ValidUnit(req.Unit) {
		return fmt.Errorf("%w: %q is not one of %s, %s, %s, %s",
			ErrInvalidUnit, req.Unit, UnitGpuA100, UnitGpuH100, UnitGenoa, UnitRome)
	}
	if GpuUnit(req.Unit) && !hasGpuOverride(req.ExtraArgs) {
		req.ExtraArgs = append(req.ExtraArgs, "--gpus=1")
	}
	if !wallTimeRe.MatchString(req.Time) {
		return fmt.Errorf("%w: %q does not match HH:MM:SS", ErrInvalidTimeFormat, req.Time)
	}
	if req.ScriptPath == "" {
		return fmt.Errorf("%w: no job script given (-f/--file)", ErrMissingFile)
	}
	ok, err := registry.Has(req.CondaEnv)
	if err != nil {
		return fmt.Errorf("%w: cannot query environments: %v", ErrUnknownEnvironment, err)
	}
	if !ok {
		return fmt.Errorf("%w: conda environment %q not found", ErrUnknownEnvironment, req.CondaEnv)
	}
	return nil
}
