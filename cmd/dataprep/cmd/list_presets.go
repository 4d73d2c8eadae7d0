package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ob-flow/dataprep/internal/presets"
	"github.com/ob-flow/dataprep/internal/runtime"
	"github.com/ob-flow/dataprep/internal/viper"
)

func listPresetsCmd() *cobra.Command {
	listPresetsCmd := &cobra.Command{
		Use:   "list-presets",
		Short: "List the named dataset presets",
		Long:  "This command lists the named presets an import run can be started from, including any defined in the presets file.",
		RunE:  listPresetsRunE,
	}
	return listPresetsCmd
}

// listPresetsRunE binds printPresets to cobra's RunE function definition,
// passing the cobra command's output as an io.Writer.
func listPresetsRunE(cmd *cobra.Command, args []string) error {
	presetsFile := viper.Instance().GetString("presets_file")
	if presetsFile == "" {
		presetsFile = runtime.DefaultPresetsFile
	}

	loaded, err := presets.Load(afero.NewOsFs(), presetsFile)
	if err != nil {
		return err
	}

	printPresets(cmd.OutOrStdout(), loaded)
	return nil
}

// printPresets writes the formatted preset list output to w.
func printPresets(w io.Writer, loaded []presets.Preset) {
	fmt.Fprintln(w, "These are the available import presets:")
	for _, p := range loaded {
		line := fmt.Sprintf("- %s: dataset %s", p.Name, p.Dataset)
		if p.OutputName != "" {
			line += fmt.Sprintf(", output name %s", p.OutputName)
		}
		if p.Seed != nil {
			line += fmt.Sprintf(", seed %d", *p.Seed)
		}
		fmt.Fprintln(w, line)
	}
}
