package importer

// PreparedFile is one downloadable file in a prepared dataset directory.
type PreparedFile struct {
	Name string
	URL  string
}

// Options configures one import run.
type Options struct {
	// Dataset is the prepared dataset folder name under prepared/ in
	// the source repository.
	Dataset string
	// Name is the output file prefix; defaults to Dataset.
	Name string
	// Seed fixes the generated file order so runs are reproducible.
	Seed int64
	// OutputDir is where the archive and its sibling files are written.
	OutputDir string
}

// Result reports the files one import run produced.
type Result struct {
	// ArchivePath is the packaged data tarball. The verifier must be
	// pointed at exactly this path.
	ArchivePath     string
	AttachmentsPath string
	OrderPath       string
	// Packaged lists the normalized CSV names in archive order.
	Packaged []string
}
