package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/ob-flow/dataprep/artifacts"
	"github.com/ob-flow/dataprep/internal/cli"
	"github.com/ob-flow/dataprep/internal/formatters"
	"github.com/ob-flow/dataprep/internal/runtime"
	"github.com/ob-flow/dataprep/internal/verify"
	"github.com/ob-flow/dataprep/internal/viper"
)

func verifyCmd() *cobra.Command {
	verifyCmd := &cobra.Command{
		Use:   "verify [archive]",
		Short: "Verify the contents of a data archive",
		Long: "This command lists the entries of a gzip-compressed data tarball and reports " +
			"how many entries do not carry the expected suffix. Without --strict, mismatches " +
			"are reported but do not fail the command.",
		Args:    cobra.MaximumNArgs(1),
		Example: fmt.Sprintf("  %s", "dataprep verify out/data/data_import/demo.data.tar.gz"),
		RunE:    verifyRunE,
	}

	flags := verifyCmd.Flags()

	viper := viper.Instance()
	flags.String("suffix", "", "Entry suffix every archived file is expected to carry. (env: DATAPREP_SUFFIX)")
	_ = viper.BindPFlag("suffix", flags.Lookup("suffix"))

	flags.Bool("strict", false, "Treat entries without the expected suffix as a failure instead of only reporting the count. (env: DATAPREP_STRICT)")
	_ = viper.BindPFlag("strict", flags.Lookup("strict"))

	flags.String("format", formatters.DefaultFormat, "Report format. One of: text, json. (env: DATAPREP_FORMAT)")
	_ = viper.BindPFlag("format", flags.Lookup("format"))

	return verifyCmd
}

// verifyRunE executes archive verification using the user args to inform
// the execution.
func verifyRunE(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger, err := logr.FromContext(ctx)
	if err != nil {
		return fmt.Errorf("invalid logging configuration")
	}

	cfg, err := runtime.NewConfigFrom(*viper.Instance())
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// The conventional archive location when none is given: the default
	// output prefix under the default output directory.
	archivePath := filepath.Join(runtime.DefaultOutputDir, runtime.DefaultName+".data.tar.gz")
	if len(args) == 1 {
		archivePath = args[0]
	}

	artifactsWriter, err := artifacts.NewFilesystemWriter(artifacts.WithDirectory(cfg.Artifacts))
	if err != nil {
		return err
	}
	ctx = artifacts.ContextWithWriter(ctx, artifactsWriter)

	formatter, err := formatters.NewByName(viper.Instance().GetString("format"))
	if err != nil {
		return err
	}

	logger.Info("verifying archive", "archive", archivePath, "suffix", cfg.Suffix)

	cmd.SilenceUsage = true

	return cli.RunVerify(
		ctx,
		cli.WorkflowConfig{
			ArchivePath: archivePath,
			Suffix:      cfg.Suffix,
			Strict:      cfg.Strict,
		},
		verify.NewVerifier(),
		formatter,
		cmd.OutOrStdout(),
	)
}
