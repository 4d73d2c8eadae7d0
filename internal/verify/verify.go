// Package verify inspects the table of contents of a data archive
// produced by the import step, and reports how many entries do not carry
// the expected suffix.
package verify

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/afero"

	"github.com/ob-flow/dataprep/artifacts"
	"github.com/ob-flow/dataprep/internal/log"
)

var ErrArchiveNotFound = errors.New("archive does not exist")

// Verifier checks data archives on a backing filesystem.
type Verifier struct {
	fs afero.Fs
}

type Option = func(*Verifier)

// WithFs sets the filesystem the verifier reads archives from. Tests use
// this with an in-memory filesystem.
func WithFs(fs afero.Fs) Option {
	return func(v *Verifier) {
		if fs == nil {
			return
		}
		v.fs = fs
	}
}

func NewVerifier(opts ...Option) *Verifier {
	v := Verifier{
		fs: afero.NewOsFs(),
	}

	for _, opt := range opts {
		opt(&v)
	}

	return &v
}

// Archive lists the entries of the gzip-compressed tarball at archivePath
// and counts the ones whose name does not end in suffix. Matching is
// case-insensitive. The entry listing is persisted through the
// ArtifactWriter in ctx when one is configured.
//
// A missing archive is a hard failure and nothing is listed or written. A
// non-zero mismatch count is not: callers decide whether to escalate it.
func (v *Verifier) Archive(ctx context.Context, archivePath string, suffix string) (*Report, error) {
	logger := logr.FromContextOrDiscard(ctx)

	exists, err := afero.Exists(v.fs, archivePath)
	if err != nil {
		return nil, fmt.Errorf("could not stat archive: %v", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrArchiveNotFound, archivePath)
	}

	entries, err := v.entries(archivePath)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Archive: archivePath,
		Suffix:  suffix,
		Entries: entries,
		Total:   len(entries),
	}
	for _, entry := range entries {
		if !strings.HasSuffix(strings.ToLower(entry), strings.ToLower(suffix)) {
			report.Mismatches = append(report.Mismatches, entry)
		}
	}
	report.Mismatched = len(report.Mismatches)

	if aw := artifacts.WriterFromContext(ctx); aw != nil {
		listing := strings.Join(entries, "\n") + "\n"
		listingFile, err := aw.WriteFile(artifacts.EntryListingFilename, strings.NewReader(listing))
		if err != nil {
			return nil, fmt.Errorf("could not write entry listing artifact: %v", err)
		}
		logger.V(log.TRC).Info("entry listing written", "filename", listingFile)
	}

	logger.V(log.DBG).Info("archive verified", "archive", archivePath, "total", report.Total, "mismatched", report.Mismatched)

	return report, nil
}

// entries reads the archive's table of contents in order, in a single
// forward pass. Directory entries are skipped; everything else is listed.
func (v *Verifier) entries(archivePath string) ([]string, error) {
	f, err := v.fs.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("could not open archive: %v", err)
	}
	defer f.Close()

	gzr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("could not decompress archive %s: %v", archivePath, err)
	}
	defer gzr.Close()

	var entries []string
	tr := tar.NewReader(gzr)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not read archive %s: %v", archivePath, err)
		}
		if header.Typeflag == tar.TypeDir {
			continue
		}
		entries = append(entries, header.Name)
	}

	return entries, nil
}
