package importtool

// ImportOptions is the flag surface of the external import program.
type ImportOptions struct {
	// DatasetName is the prepared dataset folder name the tool imports.
	DatasetName string
	// Name is the output file prefix; defaults to DatasetName.
	Name string
	Seed int64
	// OmitSeed leaves --seed off the invocation for call sites whose
	// tool variant does not accept it.
	OmitSeed  bool
	OutputDir string
}

// ImportReport captures the tool's terminal output for logging and
// artifact persistence.
type ImportReport struct {
	Stdout string
	Stderr string
}
