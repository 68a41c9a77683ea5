package core

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// EnvRegistry answers whether a named runtime environment exists.
type EnvRegistry interface {
	Has(name string) (bool, error)
}

// CondaRegistry queries the conda binary for named environments.
type CondaRegistry struct {
	Bin string
}

// List returns the environment names known to conda.
func (c CondaRegistry) List() ([]string, error) {
	bin := c.Bin
	if bin == "" {
		bin = "conda"
	}
	out, err := exec.Command(bin, "env", "list").Output()
	if err != nil {
		return nil, fmt.Errorf("conda: cannot list environments: %w", err)
	}
	return parseEnvList(out), nil
}

// Has reports whether name is among the conda environments.
func (c CondaRegistry) Has(name string) (bool, error) {
	envs, err := c.List()
	if err != nil {
		return false, err
	}
	for _, env := range envs {
		if env == name {
			return true, nil
		}
	}
	return false, nil
}

// parseEnvList extracts environment names from `conda env list` output.
// Lines look like "ml4mikc  *  /home/user/miniconda3/envs/ml4mikc";
// comment lines start with '#'.
func parseEnvList(out []byte) []string {
	var envs []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		envs = append(envs, strings.Fields(line)[0])
	}
	return envs
}
