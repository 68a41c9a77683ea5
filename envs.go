package main

import (
	"fmt"

	"github.com/ml4mikc/hpclaunch/core"
)

type EnvsCommand struct {
	Help bool `short:"h" long:"help" description:"Show this help message"`
}

var envsCommand EnvsCommand

func (x *EnvsCommand) Execute(args []string) error {
	if x.Help {
		return createHelpErr()
	}
	site, err := core.LoadSiteConfig()
	if err != nil {
		return fmt.Errorf("envs: %w", err)
	}
	registry := core.CondaRegistry{Bin: site.CondaPath}
	envs, err := registry.List()
	if err != nil {
		return fmt.Errorf("envs: %w", err)
	}
	for _, env := range envs {
		fmt.Println(env)
	}
	return nil
}

func init() {
	parser.AddCommand("envs",
		"List runtime environments",
		"List the conda environments available for -c/--conda",
		&envsCommand)
}
