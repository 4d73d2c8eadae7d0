package runtime

const (
	DefaultLogFile  = "dataprep.log"
	DefaultLogLevel = "info"

	// DefaultName mirrors the prefix the original import tool used when
	// no explicit name was supplied at all.
	DefaultName = "omni_dataset"

	// DefaultSeed is the fixed seed the workflow passes to the import
	// step so that the generated file order is reproducible.
	DefaultSeed int64 = 42

	DefaultOutputDir = "out/data/data_import"

	// DefaultBaseURL is the raw-download endpoint of the prepared
	// datasets repository.
	DefaultBaseURL = "https://github.com/kaae-2/ob-flow-datasets/raw/main"

	// DefaultSuffix is the entry suffix every archived file is expected
	// to carry. Matching is case-insensitive.
	DefaultSuffix = ".fcs"

	DefaultPresetsFile = "presets.yaml"
)
