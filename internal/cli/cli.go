// Package cli sequences the import-and-verify workflow: run the import
// step, and on its success hand the predicted archive path to the
// verifier. Every step is fail-fast; a failed import means verification
// is never attempted.
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ob-flow/dataprep/artifacts"
	"github.com/ob-flow/dataprep/internal/formatters"
	"github.com/ob-flow/dataprep/internal/log"
	"github.com/ob-flow/dataprep/internal/verify"
)

// ErrMismatchedEntries is returned in strict mode when the archive holds
// entries that do not carry the expected suffix.
var ErrMismatchedEntries = errors.New("archive holds entries without the expected suffix")

// WorkflowConfig carries the verification half of the workflow contract.
type WorkflowConfig struct {
	// ArchivePath is the archive the import step is expected to have
	// produced. The naming scheme is derived once, by the caller, so the
	// importer and verifier cannot drift apart.
	ArchivePath string
	Suffix      string
	// Strict escalates a non-zero mismatch count to a failing error.
	// Without it the count is reported only, preserving the original
	// workflow's human-in-the-loop behavior.
	Strict     bool
	SkipVerify bool
}

// archiveVerifier is the verification functionality the workflow needs.
type archiveVerifier interface {
	Archive(ctx context.Context, archivePath string, suffix string) (*verify.Report, error)
}

// RunWorkflow executes the import step and then verifies the predicted
// archive, writing the formatted report to w.
func RunWorkflow(
	ctx context.Context,
	runImport func(context.Context) error,
	cfg WorkflowConfig,
	verifier archiveVerifier,
	formatter formatters.ResponseFormatter,
	w io.Writer,
) error {
	if err := runImport(ctx); err != nil {
		return err
	}

	if cfg.SkipVerify {
		log.L().Info("verification skipped by request")
		return nil
	}

	return RunVerify(ctx, cfg, verifier, formatter, w)
}

// RunVerify verifies the configured archive, writes the formatted report
// to w and to the results artifact, and applies the strict-mode verdict.
func RunVerify(
	ctx context.Context,
	cfg WorkflowConfig,
	verifier archiveVerifier,
	formatter formatters.ResponseFormatter,
	w io.Writer,
) error {
	report, err := verifier.Archive(ctx, cfg.ArchivePath, cfg.Suffix)
	if err != nil {
		return err
	}

	formattedReport, err := formatter.Format(ctx, *report)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, string(formattedReport))

	if aw := artifacts.WriterFromContext(ctx); aw != nil {
		resultsFile, err := aw.WriteFile(ResultsFilenameWithExtension(formatter.FileExtension()), bytes.NewReader(formattedReport))
		if err != nil {
			return err
		}
		log.L().Tracef("results written to %s", resultsFile)
	}

	log.L().Infof("Verification result: %s", convertPassed(report.Passed()))

	if cfg.Strict && !report.Passed() {
		return fmt.Errorf("%w: %d of %d", ErrMismatchedEntries, report.Mismatched, report.Total)
	}

	return nil
}

func convertPassed(passed bool) string {
	if passed {
		return "PASSED"
	}

	return "FAILED"
}

func ResultsFilenameWithExtension(ext string) string {
	return strings.Join([]string{"results", ext}, ".")
}
