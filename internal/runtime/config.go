package runtime

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// Config contains configuration details for running dataprep.
type Config struct {
	// Dataset is the prepared dataset identifier to import.
	Dataset string
	// Name is the output prefix. When empty it falls back to Dataset.
	Name string
	Seed int64
	// OutputDir is where the import tool writes the archive and its
	// sibling files.
	OutputDir string
	// Tool is the path to an external import program. When empty the
	// builtin importer is used.
	Tool    string
	BaseURL string
	// Verifier-specific fields
	Suffix     string
	Strict     bool
	SkipVerify bool
	// Shared fields
	LogFile     string
	LogLevel    string
	Artifacts   string
	PresetsFile string
	Preset      string
}

// NewConfigFrom will return a runtime.Config based on the stored inputs in
// the provided viper.Viper. Defaults should be set before this function is
// called, not after.
func NewConfigFrom(vcfg viper.Viper) (*Config, error) {
	cfg := Config{}
	cfg.LogFile = vcfg.GetString("logfile")
	cfg.LogLevel = vcfg.GetString("loglevel")
	cfg.Artifacts = vcfg.GetString("artifacts")
	cfg.storeImportConfiguration(vcfg)
	cfg.storeVerifyConfiguration(vcfg)
	return &cfg, nil
}

// storeImportConfiguration reads import-specific config items in viper,
// normalizes them, and stores them in Config.
func (c *Config) storeImportConfiguration(vcfg viper.Viper) {
	c.Dataset = vcfg.GetString("dataset")
	c.Name = vcfg.GetString("name")
	c.Seed = vcfg.GetInt64("seed")
	c.OutputDir = vcfg.GetString("output_dir")
	c.Tool = vcfg.GetString("tool")
	c.BaseURL = vcfg.GetString("base_url")
	c.SkipVerify = vcfg.GetBool("skip_verify")
	c.PresetsFile = vcfg.GetString("presets_file")
}

// storeVerifyConfiguration reads verifier-specific config items in viper,
// normalizes them, and stores them in Config.
func (c *Config) storeVerifyConfiguration(vcfg viper.Viper) {
	c.Suffix = vcfg.GetString("suffix")
	c.Strict = vcfg.GetBool("strict")
}

// OutputName is the effective output prefix for a run: the explicit name
// if one was given, the dataset identifier otherwise.
func (c *Config) OutputName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Dataset
}

// ArchivePath predicts where the import step leaves the data archive.
// The verifier must inspect exactly this path; any drift between the two
// surfaces as a missing-file failure rather than a false verdict.
func (c *Config) ArchivePath() string {
	return filepath.Join(c.OutputDir, c.OutputName()+".data.tar.gz")
}

// AttachmentsPath is the sibling attachments file for the run.
func (c *Config) AttachmentsPath() string {
	return filepath.Join(c.OutputDir, c.OutputName()+".attachments.gz")
}

// OrderPath is the sibling file-order file for the run.
func (c *Config) OrderPath() string {
	return filepath.Join(c.OutputDir, c.OutputName()+".order.json.gz")
}
