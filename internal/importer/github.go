package importer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-logr/logr"
	"github.com/google/go-github/v57/github"

	"github.com/ob-flow/dataprep/internal/log"
)

var ErrNotGitHubRawURL = errors.New("base URL is not a GitHub raw URL")

// ContentsGetter is the subset of the go-github repositories service the
// importer needs to list a prepared dataset directory.
type ContentsGetter interface {
	GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error)
}

// defaultContentsGetter is the real GitHub API, unauthenticated. The
// prepared datasets repository is public.
func defaultContentsGetter() ContentsGetter {
	return github.NewClient(nil).Repositories
}

// repoInfo identifies the repository and branch behind a GitHub raw
// download URL of the form github.com/<owner>/<repo>/raw/<branch>.
type repoInfo struct {
	Owner  string
	Repo   string
	Branch string
}

func parseRepoInfo(baseURL string) (*repoInfo, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("could not parse base URL: %v", err)
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if parsed.Host != "github.com" || len(parts) < 4 || parts[2] != "raw" {
		return nil, fmt.Errorf("%w: %s", ErrNotGitHubRawURL, baseURL)
	}

	return &repoInfo{
		Owner:  parts[0],
		Repo:   parts[1],
		Branch: parts[3],
	}, nil
}

// listPrepared asks the GitHub contents API for the files under
// prepared/<dataset> at the configured branch, keeping only importable
// CSV variants. Checksum sidecars are skipped.
func (i *Importer) listPrepared(ctx context.Context, dataset string) ([]PreparedFile, error) {
	logger := logr.FromContextOrDiscard(ctx)

	info, err := parseRepoInfo(i.baseURL)
	if err != nil {
		return nil, err
	}

	dir := fmt.Sprintf("prepared/%s", dataset)
	_, entries, _, err := i.contents.GetContents(ctx, info.Owner, info.Repo, dir, &github.RepositoryContentGetOptions{
		Ref: info.Branch,
	})
	if err != nil {
		return nil, fmt.Errorf("could not list prepared files for %s: %v", dataset, err)
	}

	files := make([]PreparedFile, 0, len(entries))
	for _, entry := range entries {
		if entry.GetType() != "file" {
			continue
		}
		name := entry.GetName()
		if name == "" {
			continue
		}
		lower := strings.ToLower(name)
		if strings.HasSuffix(lower, ".sha256") {
			continue
		}
		if !strings.HasSuffix(lower, ".csv") &&
			!strings.HasSuffix(lower, ".csv.gz") &&
			!strings.HasSuffix(lower, ".csv.zst") {
			continue
		}
		downloadURL := entry.GetDownloadURL()
		if downloadURL == "" {
			downloadURL = fmt.Sprintf("%s/%s/%s", i.baseURL, dir, name)
		}
		files = append(files, PreparedFile{Name: name, URL: downloadURL})
	}

	logger.V(log.DBG).Info("prepared files listed", "dataset", dataset, "count", len(files))

	return files, nil
}
