package cmd

import (
	"bytes"
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/go-logr/logr"
	"github.com/google/go-github/v57/github"

	"github.com/ob-flow/dataprep/internal/log"
	"github.com/ob-flow/dataprep/version"
)

// fakeReleases hands back a canned latest release.
type fakeReleases struct {
	release *github.RepositoryRelease
	err     error
}

func (f fakeReleases) GetLatestRelease(ctx context.Context, owner string, repo string) (*github.RepositoryRelease, *github.Response, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.release, &github.Response{}, nil
}

var _ = Describe("Import Command", func() {
	BeforeEach(createAndCleanupDirForArtifactsAndLogs)

	Context("When validating import arguments and flags", func() {
		Context("and the user provided no dataset identifier", func() {
			It("should fail to run without invoking the import step", func() {
				out, err := executeCommand(importCmd())
				Expect(err).To(HaveOccurred())
				Expect(out).To(ContainSubstring("a dataset identifier positional argument is required"))
			})
		})

		Context("and the user provided more than one positional arg", func() {
			It("should fail to run", func() {
				_, err := executeCommand(importCmd(), "demo", "extra")
				Expect(err).To(HaveOccurred())
			})
		})

		Context("and the user named an unknown preset", func() {
			It("should fail to run", func() {
				_, err := executeCommand(importCmd(), "--preset", "nonexistent")
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Context("When checking for a newer release", func() {
		var buf *bytes.Buffer
		var ctx context.Context
		BeforeEach(func() {
			buf = &bytes.Buffer{}
			ctx = logr.NewContext(context.Background(), logr.New(log.NewBufferSink(buf)))
		})

		Context("and a newer release exists", func() {
			BeforeEach(func() {
				running := version.Version.Version
				version.Version.Version = "1.0.0"
				DeferCleanup(func() { version.Version.Version = running })
			})
			It("should log the newer release", func() {
				checkForNewerReleaseVersion(ctx, fakeReleases{release: &github.RepositoryRelease{
					TagName: github.String("99.0.0"),
					HTMLURL: github.String("https://github.com/ob-flow/dataprep/releases/tag/99.0.0"),
				}})
				Expect(buf.String()).To(ContainSubstring("Found newer release"))
				Expect(buf.String()).To(ContainSubstring("99.0.0"))
			})
		})

		Context("and the release lookup fails", func() {
			It("should only log the failure", func() {
				checkForNewerReleaseVersion(ctx, fakeReleases{err: errors.New("rate limited")})
				Expect(buf.String()).To(ContainSubstring("Unable to determine if running the latest release"))
				Expect(buf.String()).ToNot(ContainSubstring("Found newer release"))
			})
		})
	})

	Context("when running the import subcommand", func() {
		Context("with a base URL that is not a GitHub raw endpoint", func() {
			It("should reach the core logic and fail before downloading anything", func() {
				_, err := executeCommand(importCmd(), "demo", "--base-url", "https://example.com/datasets")
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("not a GitHub raw URL"))
			})
		})
	})
})
