// Package artifacts provides functionality for writing artifact files in a
// configured artifacts directory. Run outputs such as the archive entry
// listing and import tool output are persisted through an ArtifactWriter so
// that callers control where they land instead of relying on a fixed
// temporary path.
package artifacts

import (
	"context"
	"io"
)

const DefaultArtifactsDir = "artifacts"

// EntryListingFilename is the artifact name under which the archive
// verifier persists the entry listing of the most recent run.
const EntryListingFilename = "archive-entries.txt"

// ContextWithWriter adds ArtifactWriter w to the context ctx.
func ContextWithWriter(ctx context.Context, w ArtifactWriter) context.Context {
	return context.WithValue(ctx, artifactWriterContextKey, w)
}

// WriterFromContext returns the writer from the context, or nil.
func WriterFromContext(ctx context.Context) ArtifactWriter {
	w := ctx.Value(artifactWriterContextKey)
	if writer, ok := w.(ArtifactWriter); ok {
		return writer
	}

	return nil
}

// contextKey is a key used to store/retrieve ArtifactsWriter in/from context.Context.
type contextKey string

const artifactWriterContextKey contextKey = "ArtifactWriter"

// ArtifactWriter is the functionality required by all implementations.
type ArtifactWriter interface {
	WriteFile(filename string, contents io.Reader) (fullpathToFile string, err error)
}
