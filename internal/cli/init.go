package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/frankiebaffa/vg/internal/deploy"
	"github.com/spf13/cobra"
)

var initForce bool

// initCmd interactively builds a deployment configuration.
var initCmd = &cobra.Command{
	Use:   "init [CONFIG]",
	Short: "Interactively create a configuration file",
	Long: `init prompts for a compilation root and a first action, then writes
the configuration. CONFIG defaults to ./vg.json.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := "./vg.json"
	if len(args) > 0 {
		configPath = args[0]
	}

	if _, err := os.Stat(configPath); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}

	var answers struct {
		Root        string
		Source      string
		Destination string
	}

	questions := []*survey.Question{
		{
			Name: "root",
			Prompt: &survey.Input{
				Message: "Root directory for template resolution",
				Default: ".",
			},
			Validate: survey.Required,
		},
		{
			Name: "source",
			Prompt: &survey.Input{
				Message: "First template to compile",
			},
			Validate: survey.Required,
		},
		{
			Name: "destination",
			Prompt: &survey.Input{
				Message: "Destination for the compiled output",
			},
			Validate: survey.Required,
		},
	}

	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	cfg := deploy.Actions{
		Root: answers.Root,
		Actions: []deploy.Action{
			{
				CompileFile: &deploy.CompileFileOptions{
					Source:      answers.Source,
					Destination: answers.Destination,
				},
			},
		},
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(configPath, append(data, '\n'), 0o644); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)

	return nil
}
