// Package importer downloads a prepared dataset from the source
// repository and packages it into the deterministic file layout the rest
// of the workflow predicts: <name>.data.tar.gz, <name>.attachments.gz,
// and <name>.order.json.gz under the output directory.
package importer

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-logr/logr"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"

	"github.com/ob-flow/dataprep/internal/log"
)

var ErrNoPreparedFiles = errors.New("no prepared CSV files found in the source repository")

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Importer fetches prepared datasets and packages them locally.
type Importer struct {
	baseURL  string
	contents ContentsGetter
	client   HTTPClient
	fs       afero.Fs
}

type Option = func(*Importer)

// WithHTTPClient overrides the client used for raw downloads.
func WithHTTPClient(client HTTPClient) Option {
	return func(i *Importer) {
		if client == nil {
			return
		}
		i.client = client
	}
}

// WithContentsGetter overrides the GitHub contents API implementation.
func WithContentsGetter(contents ContentsGetter) Option {
	return func(i *Importer) {
		if contents == nil {
			return
		}
		i.contents = contents
	}
}

// WithFs sets the filesystem the importer writes to. Tests use this with
// an in-memory filesystem.
func WithFs(fs afero.Fs) Option {
	return func(i *Importer) {
		if fs == nil {
			return
		}
		i.fs = fs
	}
}

func NewImporter(baseURL string, opts ...Option) *Importer {
	i := Importer{
		baseURL:  strings.TrimRight(baseURL, "/"),
		contents: defaultContentsGetter(),
		client:   &http.Client{},
		fs:       afero.NewOsFs(),
	}

	for _, opt := range opts {
		opt(&i)
	}

	return &i
}

// Import downloads the prepared files for opts.Dataset, normalizes the
// compression variants to plain CSV, and packages them. All downloads
// land in a scratch directory that is removed when the run ends.
func (i *Importer) Import(ctx context.Context, opts Options) (*Result, error) {
	logger := logr.FromContextOrDiscard(ctx)

	if opts.Name == "" {
		opts.Name = opts.Dataset
	}

	files, err := i.listPrepared(ctx, opts.Dataset)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPreparedFiles, opts.Dataset)
	}

	scratch, err := afero.TempDir(i.fs, "", "dataprep-import-")
	if err != nil {
		return nil, fmt.Errorf("could not create scratch directory: %v", err)
	}
	defer i.fs.RemoveAll(scratch) //nolint:errcheck

	downloaded := make([]string, 0, len(files))
	for _, file := range files {
		dest := filepath.Join(scratch, file.Name)
		if err := i.download(ctx, file.URL, dest); err != nil {
			return nil, err
		}
		downloaded = append(downloaded, dest)
	}

	normalized, err := i.normalize(ctx, scratch, downloaded)
	if err != nil {
		return nil, err
	}

	if err := i.fs.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create output directory: %v", err)
	}

	result := Result{
		ArchivePath:     filepath.Join(opts.OutputDir, opts.Name+".data.tar.gz"),
		AttachmentsPath: filepath.Join(opts.OutputDir, opts.Name+".attachments.gz"),
		OrderPath:       filepath.Join(opts.OutputDir, opts.Name+".order.json.gz"),
		Packaged:        normalized,
	}

	if err := i.packageArchive(result.ArchivePath, scratch, normalized); err != nil {
		return nil, err
	}
	logger.Info("packaged CSV files", "count", len(normalized), "archive", result.ArchivePath)

	if err := i.writeAttachments(result.AttachmentsPath); err != nil {
		return nil, err
	}

	if err := i.writeOrder(result.OrderPath, opts.Seed, len(normalized)); err != nil {
		return nil, err
	}
	logger.V(log.DBG).Info("sibling files written", "attachments", result.AttachmentsPath, "order", result.OrderPath)

	return &result, nil
}

// download fetches url into dest on the importer's filesystem.
func (i *Importer) download(ctx context.Context, url string, dest string) error {
	logger := logr.FromContextOrDiscard(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("could not create download request: %v", err)
	}

	logger.V(log.TRC).Info("downloading prepared file", "url", url)

	resp, err := i.client.Do(req)
	if err != nil {
		return fmt.Errorf("could not download %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("could not download %s: status code: %d", url, resp.StatusCode)
	}

	if err := afero.WriteReader(i.fs, dest, resp.Body); err != nil {
		return fmt.Errorf("could not write %s: %v", dest, err)
	}

	return nil
}

// normalize resolves the compression variants per base name, preferring
// plain CSV, then gzip, then zstd, and produces <base>.csv files in the
// scratch directory. The returned names are sorted and become the archive
// order.
func (i *Importer) normalize(ctx context.Context, scratch string, downloaded []string) ([]string, error) {
	byBase := map[string][]string{}
	for _, path := range downloaded {
		base := filepath.Base(path)
		for _, suffix := range []string{".csv", ".csv.gz", ".csv.zst"} {
			if strings.HasSuffix(strings.ToLower(base), suffix) {
				base = base[:len(base)-len(suffix)]
				break
			}
		}
		byBase[base] = append(byBase[base], path)
	}

	bases := make([]string, 0, len(byBase))
	for base := range byBase {
		bases = append(bases, base)
	}
	sort.Strings(bases)

	normalized := make([]string, 0, len(bases))
	for _, base := range bases {
		src := chooseVariant(byBase[base])
		target := filepath.Join(scratch, base+".csv")
		if err := i.decompressTo(src, target); err != nil {
			return nil, err
		}
		normalized = append(normalized, base+".csv")
	}

	return normalized, nil
}

// chooseVariant picks the preferred source among the variants of one base
// name: plain CSV first, then gzip, then zstd.
func chooseVariant(paths []string) string {
	for _, suffix := range []string{".csv", ".csv.gz", ".csv.zst"} {
		for _, path := range paths {
			if strings.HasSuffix(strings.ToLower(path), suffix) {
				return path
			}
		}
	}
	return paths[0]
}

// decompressTo writes the plain-CSV contents of src to target, gunzipping
// or zstd-decompressing as the source name dictates.
func (i *Importer) decompressTo(src string, target string) error {
	in, err := i.fs.Open(src)
	if err != nil {
		return fmt.Errorf("could not open %s: %v", src, err)
	}
	defer in.Close()

	var reader io.Reader = in
	switch {
	case strings.HasSuffix(strings.ToLower(src), ".csv.gz"):
		gzr, err := gzip.NewReader(in)
		if err != nil {
			return fmt.Errorf("could not decompress %s: %v", src, err)
		}
		defer gzr.Close()
		reader = gzr
	case strings.HasSuffix(strings.ToLower(src), ".csv.zst"):
		zr, err := zstd.NewReader(in)
		if err != nil {
			return fmt.Errorf("could not decompress %s: %v", src, err)
		}
		defer zr.Close()
		reader = zr
	}

	if err := afero.WriteReader(i.fs, target, reader); err != nil {
		return fmt.Errorf("could not write %s: %v", target, err)
	}

	return nil
}

// packageArchive tars the normalized CSVs, in order, into a
// gzip-compressed tarball at archivePath.
func (i *Importer) packageArchive(archivePath string, scratch string, names []string) error {
	out, err := i.fs.Create(archivePath)
	if err != nil {
		return fmt.Errorf("could not create archive %s: %v", archivePath, err)
	}
	defer out.Close()

	gzw := gzip.NewWriter(out)
	defer gzw.Close()
	tw := tar.NewWriter(gzw)
	defer tw.Close()

	for _, name := range names {
		contents, err := afero.ReadFile(i.fs, filepath.Join(scratch, name))
		if err != nil {
			return fmt.Errorf("could not read %s: %v", name, err)
		}

		header := &tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(contents)),
		}
		if err := tw.WriteHeader(header); err != nil {
			return fmt.Errorf("could not write archive header for %s: %v", name, err)
		}
		if _, err := tw.Write(contents); err != nil {
			return fmt.Errorf("could not archive %s: %v", name, err)
		}
	}

	return nil
}

// writeAttachments writes the empty attachments sibling file.
func (i *Importer) writeAttachments(path string) error {
	out, err := i.fs.Create(path)
	if err != nil {
		return fmt.Errorf("could not create attachments file %s: %v", path, err)
	}
	defer out.Close()

	gzw := gzip.NewWriter(out)
	return gzw.Close()
}

// writeOrder writes the seeded file-order sibling file: the sequence 1..n
// shuffled deterministically by seed.
func (i *Importer) writeOrder(path string, seed int64, n int) error {
	order := make([]int, n)
	for idx := range order {
		order[idx] = idx + 1
	}
	r := rand.New(rand.NewSource(seed))
	r.Shuffle(len(order), func(a, b int) {
		order[a], order[b] = order[b], order[a]
	})

	payload, err := json.Marshal(map[string][]int{"order": order})
	if err != nil {
		return fmt.Errorf("could not marshal order payload: %v", err)
	}

	out, err := i.fs.Create(path)
	if err != nil {
		return fmt.Errorf("could not create order file %s: %v", path, err)
	}
	defer out.Close()

	gzw := gzip.NewWriter(out)
	if _, err := gzw.Write(payload); err != nil {
		return fmt.Errorf("could not write order file %s: %v", path, err)
	}
	return gzw.Close()
}
