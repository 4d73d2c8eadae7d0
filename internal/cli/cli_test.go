package cli

import (
	"context"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ob-flow/dataprep/artifacts"
	"github.com/ob-flow/dataprep/internal/formatters"
	"github.com/ob-flow/dataprep/internal/verify"
)

// fakeVerifier hands back a canned report and records invocations.
type fakeVerifier struct {
	report *verify.Report
	err    error
	calls  int
}

func (f *fakeVerifier) Archive(ctx context.Context, archivePath string, suffix string) (*verify.Report, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

var _ = Describe("The import-and-verify workflow", func() {
	var out *strings.Builder
	var formatter formatters.ResponseFormatter
	var cfg WorkflowConfig
	BeforeEach(func() {
		out = &strings.Builder{}
		var err error
		formatter, err = formatters.NewByName(formatters.DefaultFormat)
		Expect(err).ToNot(HaveOccurred())
		cfg = WorkflowConfig{
			ArchivePath: "out/data/data_import/demo.data.tar.gz",
			Suffix:      ".fcs",
		}
	})

	cleanReport := func() *verify.Report {
		return &verify.Report{
			Archive: "out/data/data_import/demo.data.tar.gz",
			Suffix:  ".fcs",
			Entries: []string{"a.fcs", "b.fcs"},
			Total:   2,
		}
	}

	When("the import step fails", func() {
		It("should propagate the failure and never verify", func() {
			verifier := &fakeVerifier{report: cleanReport()}
			err := RunWorkflow(context.Background(), func(ctx context.Context) error {
				return errors.New("import tool exited 1")
			}, cfg, verifier, formatter, out)
			Expect(err).To(HaveOccurred())
			Expect(verifier.calls).To(BeZero())
		})
	})

	When("the import step succeeds", func() {
		It("should verify the predicted archive and print the report", func() {
			verifier := &fakeVerifier{report: cleanReport()}
			err := RunWorkflow(context.Background(), func(ctx context.Context) error {
				return nil
			}, cfg, verifier, formatter, out)
			Expect(err).ToNot(HaveOccurred())
			Expect(verifier.calls).To(Equal(1))
			Expect(out.String()).To(ContainSubstring("Total entries: 2"))
		})

		It("should skip verification when asked to", func() {
			cfg.SkipVerify = true
			verifier := &fakeVerifier{report: cleanReport()}
			err := RunWorkflow(context.Background(), func(ctx context.Context) error {
				return nil
			}, cfg, verifier, formatter, out)
			Expect(err).ToNot(HaveOccurred())
			Expect(verifier.calls).To(BeZero())
		})
	})

	When("entries do not match the expected suffix", func() {
		mismatched := &verify.Report{
			Archive:    "out/data/data_import/demo.data.tar.gz",
			Suffix:     ".fcs",
			Entries:    []string{"a.fcs", "b.FCS", "c.txt"},
			Total:      3,
			Mismatched: 1,
			Mismatches: []string{"c.txt"},
		}

		It("should still succeed without strict mode", func() {
			verifier := &fakeVerifier{report: mismatched}
			err := RunVerify(context.Background(), cfg, verifier, formatter, out)
			Expect(err).ToNot(HaveOccurred())
			Expect(out.String()).To(ContainSubstring("Entries not matching .fcs: 1"))
		})

		It("should fail in strict mode", func() {
			cfg.Strict = true
			verifier := &fakeVerifier{report: mismatched}
			err := RunVerify(context.Background(), cfg, verifier, formatter, out)
			Expect(err).To(MatchError(ErrMismatchedEntries))
		})
	})

	When("an artifact writer is configured", func() {
		It("should persist the formatted results", func() {
			aw, err := artifacts.NewMapWriter()
			Expect(err).ToNot(HaveOccurred())
			ctx := artifacts.ContextWithWriter(context.Background(), aw)

			verifier := &fakeVerifier{report: cleanReport()}
			Expect(RunVerify(ctx, cfg, verifier, formatter, out)).To(Succeed())
			Expect(aw.Files()).To(HaveKey("results.txt"))
		})
	})

	When("the verifier itself fails", func() {
		It("should propagate the failure", func() {
			verifier := &fakeVerifier{err: verify.ErrArchiveNotFound}
			err := RunVerify(context.Background(), cfg, verifier, formatter, out)
			Expect(err).To(MatchError(verify.ErrArchiveNotFound))
		})
	})
})
