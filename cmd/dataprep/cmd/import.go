package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os/exec"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/go-github/v57/github"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ob-flow/dataprep/artifacts"
	"github.com/ob-flow/dataprep/internal/cli"
	"github.com/ob-flow/dataprep/internal/formatters"
	"github.com/ob-flow/dataprep/internal/importer"
	"github.com/ob-flow/dataprep/internal/importtool"
	"github.com/ob-flow/dataprep/internal/presets"
	"github.com/ob-flow/dataprep/internal/runtime"
	"github.com/ob-flow/dataprep/internal/verify"
	"github.com/ob-flow/dataprep/internal/viper"
	"github.com/ob-flow/dataprep/version"
)

func importCmd() *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import <dataset>",
		Short: "Import a prepared dataset and verify the resulting archive",
		Long: "This command imports a prepared dataset into a deterministic tarball and, " +
			"on success, verifies the archive it predicts the import to have produced.",
		Args: importPositionalArgs,
		// this fmt.Sprintf is in place to keep spacing consistent with cobras two spaces that's used in: Usage, Flags, etc
		Example: fmt.Sprintf("  %s", "dataprep import levine32"),
		RunE:    importRunE,
	}

	flags := importCmd.Flags()

	viper := viper.Instance()
	flags.String("name", "", "Output file prefix. Defaults to the dataset identifier. (env: DATAPREP_NAME)")
	_ = viper.BindPFlag("name", flags.Lookup("name"))

	flags.Int64("seed", runtime.DefaultSeed, "Seed fixing the generated file order. (env: DATAPREP_SEED)")
	_ = viper.BindPFlag("seed", flags.Lookup("seed"))

	flags.String("output-dir", "", "Directory the archive and its sibling files are written to. (env: DATAPREP_OUTPUT_DIR)")
	_ = viper.BindPFlag("output_dir", flags.Lookup("output-dir"))

	flags.String("tool", "", "Path to an external import program to run instead of the builtin importer.\n"+
		"The program is invoked with --dataset_name, --name, --seed, and --output_dir. (env: DATAPREP_TOOL)")
	_ = viper.BindPFlag("tool", flags.Lookup("tool"))

	flags.String("base-url", "", "Raw-download base URL of the prepared datasets repository. (env: DATAPREP_BASE_URL)")
	_ = viper.BindPFlag("base_url", flags.Lookup("base-url"))

	flags.Bool("skip-verify", false, "Stop after the import step without verifying the archive. (env: DATAPREP_SKIP_VERIFY)")
	_ = viper.BindPFlag("skip_verify", flags.Lookup("skip-verify"))

	flags.Bool("strict", false, "Treat entries without the expected suffix as a failure instead of only reporting the count. (env: DATAPREP_STRICT)")
	_ = viper.BindPFlag("strict", flags.Lookup("strict"))

	flags.String("suffix", "", "Entry suffix every archived file is expected to carry. (env: DATAPREP_SUFFIX)")
	_ = viper.BindPFlag("suffix", flags.Lookup("suffix"))

	flags.String("preset", "", "Run a named preset instead of passing a dataset identifier. (env: DATAPREP_PRESET)")
	_ = viper.BindPFlag("preset", flags.Lookup("preset"))

	flags.String("presets-file", "", "Path to the presets YAML file. (env: DATAPREP_PRESETS_FILE)")
	_ = viper.BindPFlag("presets_file", flags.Lookup("presets-file"))

	return importCmd
}

// importPositionalArgs enforces the workflow's usage contract: a dataset
// identifier is required unless a preset names one.
func importPositionalArgs(cmd *cobra.Command, args []string) error {
	viper := viper.Instance()
	if len(args) == 0 && !cmd.Flag("preset").Changed && !viper.IsSet("preset") {
		return fmt.Errorf("a dataset identifier positional argument is required")
	}
	if len(args) > 1 {
		return fmt.Errorf("at most one dataset identifier may be given")
	}
	return nil
}

// importRunE executes the import-and-verify workflow using the user args
// to inform the execution.
func importRunE(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger, err := logr.FromContext(ctx)
	if err != nil {
		return fmt.Errorf("invalid logging configuration")
	}
	logger.Info("dataprep version", "version", version.Version.String())

	checkForNewerReleaseVersion(ctx, github.NewClient(&http.Client{
		// Timeout in 1s in case Github is slow to respond
		Timeout: time.Second * 1,
	}).Repositories)

	// Render the Viper configuration as a runtime.Config
	cfg, err := runtime.NewConfigFrom(*viper.Instance())
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if len(args) == 1 {
		cfg.Dataset = args[0]
	}

	if cfg.Preset != "" {
		if err := applyPreset(cfg); err != nil {
			return err
		}
	}

	if cfg.Dataset == "" {
		return fmt.Errorf("a dataset identifier is required")
	}

	artifactsWriter, err := artifacts.NewFilesystemWriter(artifacts.WithDirectory(cfg.Artifacts))
	if err != nil {
		return err
	}

	// Add the artifact writer to the context for use by the workflow.
	ctx = artifacts.ContextWithWriter(ctx, artifactsWriter)

	formatter, err := formatters.NewByName(formatters.DefaultFormat)
	if err != nil {
		return err
	}

	logger.Info("importing dataset", "dataset", cfg.Dataset, "name", cfg.OutputName(), "output_dir", cfg.OutputDir)

	// Run the workflow.
	cmd.SilenceUsage = true

	return cli.RunWorkflow(
		ctx,
		importStepFor(cfg),
		cli.WorkflowConfig{
			ArchivePath: cfg.ArchivePath(),
			Suffix:      cfg.Suffix,
			Strict:      cfg.Strict,
			SkipVerify:  cfg.SkipVerify,
		},
		verify.NewVerifier(),
		formatter,
		cmd.OutOrStdout(),
	)
}

// importStepFor binds the configured import implementation: the external
// tool when one is given, the builtin importer otherwise.
func importStepFor(cfg *runtime.Config) func(context.Context) error {
	if cfg.Tool != "" {
		tool := importtool.New(cfg.Tool, exec.Command)
		return func(ctx context.Context) error {
			_, err := tool.Import(ctx, importtool.ImportOptions{
				DatasetName: cfg.Dataset,
				Name:        cfg.OutputName(),
				Seed:        cfg.Seed,
				OutputDir:   cfg.OutputDir,
			})
			return err
		}
	}

	imp := importer.NewImporter(cfg.BaseURL)
	return func(ctx context.Context) error {
		_, err := imp.Import(ctx, importer.Options{
			Dataset:   cfg.Dataset,
			Name:      cfg.OutputName(),
			Seed:      cfg.Seed,
			OutputDir: cfg.OutputDir,
		})
		return err
	}
}

// checkForNewerReleaseVersion checks if there is a newer release available
func checkForNewerReleaseVersion(ctx context.Context, svc version.VersionClient) {
	logger := logr.FromContextOrDiscard(ctx)

	latestRelease, err := version.Version.LatestReleasedVersion(ctx, svc)
	if err != nil {
		logger.Error(err, "Unable to determine if running the latest release")
	}
	if latestRelease != nil {
		logger.Info("Found newer release", "New version", *latestRelease.TagName, "available at", *latestRelease.HTMLURL)
	}
}

// applyPreset overlays the named preset onto cfg.
func applyPreset(cfg *runtime.Config) error {
	all, err := presets.Load(afero.NewOsFs(), cfg.PresetsFile)
	if err != nil {
		return err
	}

	preset, err := presets.Find(all, cfg.Preset)
	if err != nil {
		return err
	}

	if cfg.Dataset == "" {
		cfg.Dataset = preset.Dataset
	}
	if cfg.Name == "" {
		cfg.Name = preset.OutputName
	}
	if preset.Seed != nil {
		cfg.Seed = *preset.Seed
	}

	return nil
}
