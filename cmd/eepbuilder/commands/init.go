package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/eepbuilder/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Directory for the generated config file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	cfgPath := root.Config
	if i.Output != "" {
		cfgPath = filepath.Join(i.Output, config.DefaultPath)
	}
	fmt.Printf("Writing configuration to %s\n", cfgPath)
	return config.Init(cfgPath, i.Force)
}
