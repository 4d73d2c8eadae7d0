// Package cmd implements the command-line interface for dataprep.
package cmd

import (
	"context"
	"io"
	"os"

	"github.com/ob-flow/dataprep/artifacts"
	"github.com/ob-flow/dataprep/internal/log"
	"github.com/ob-flow/dataprep/internal/runtime"
	"github.com/ob-flow/dataprep/internal/viper"
	"github.com/ob-flow/dataprep/version"

	"github.com/bombsimon/logrusr/v4"
	"github.com/go-logr/logr"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	spfviper "github.com/spf13/viper"
)

var configFileUsed bool

func init() {
	cobra.OnInitialize(func() { initConfig(viper.Instance()) })
}

func rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:              "dataprep",
		Short:            "Dataset import and archive verification tool.",
		Long:             "A utility that imports prepared benchmark datasets into deterministic tarballs and verifies the resulting archive's contents.",
		Version:          version.Version.String(),
		Args:             cobra.MinimumNArgs(1),
		PersistentPreRun: preRunConfig,
	}

	viper := viper.Instance()
	rootCmd.PersistentFlags().String("logfile", "", "Where the execution logfile will be written. (env: DATAPREP_LOGFILE)")
	_ = viper.BindPFlag("logfile", rootCmd.PersistentFlags().Lookup("logfile"))

	rootCmd.PersistentFlags().String("loglevel", "", "The verbosity of the dataprep tool itself. Ex. warn, debug, trace, info, error. (env: DATAPREP_LOGLEVEL)")
	_ = viper.BindPFlag("loglevel", rootCmd.PersistentFlags().Lookup("loglevel"))

	rootCmd.PersistentFlags().String("artifacts", "", "Where run artifacts such as the entry listing will be written. (env: DATAPREP_ARTIFACTS)")
	_ = viper.BindPFlag("artifacts", rootCmd.PersistentFlags().Lookup("artifacts"))

	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(verifyCmd())
	rootCmd.AddCommand(listPresetsCmd())

	return rootCmd
}

func Execute() error {
	return rootCmd().ExecuteContext(context.Background())
}

func initConfig(viper *spfviper.Viper) {
	// set up ENV var support
	viper.SetEnvPrefix("dataprep")
	viper.AutomaticEnv()

	// set up optional config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	configFileUsed = true
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(spfviper.ConfigFileNotFoundError); ok {
			configFileUsed = false
		}
	}

	// Set up logging config defaults
	viper.SetDefault("logfile", runtime.DefaultLogFile)
	viper.SetDefault("loglevel", runtime.DefaultLogLevel)
	viper.SetDefault("artifacts", artifacts.DefaultArtifactsDir)

	// Set up import defaults. The output name deliberately has no
	// default: an empty name falls back to the dataset identifier.
	viper.SetDefault("seed", runtime.DefaultSeed)
	viper.SetDefault("output_dir", runtime.DefaultOutputDir)
	viper.SetDefault("base_url", runtime.DefaultBaseURL)
	viper.SetDefault("presets_file", runtime.DefaultPresetsFile)

	// Set up verifier defaults
	viper.SetDefault("suffix", runtime.DefaultSuffix)
}

// preRunConfig is used by cobra.PreRun in all non-root commands to load all necessary configurations
func preRunConfig(cmd *cobra.Command, args []string) {
	viper := viper.Instance()
	l := log.L()
	l.SetFormatter(&logrus.TextFormatter{DisableColors: true})

	// set up logging
	logname := viper.GetString("logfile")
	logFile, err := os.OpenFile(logname, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err == nil {
		mw := io.MultiWriter(os.Stderr, logFile)
		l.SetOutput(mw)
	} else {
		l.Infof("Failed to log to file, using default stderr")
	}
	if ll, err := logrus.ParseLevel(viper.GetString("loglevel")); err == nil {
		l.SetLevel(ll)
	}

	if !configFileUsed {
		l.Debug("config file not found, proceeding without it")
	}

	logger := logrusr.New(l)
	ctx := logr.NewContext(cmd.Context(), logger)
	cmd.SetContext(ctx)
}
