// Package importtool invokes an external dataset import program. The
// program is an opaque collaborator: dataprep only knows its flag surface
// and that, on success, it leaves an archive at a path predictable from
// the name and output directory it was given.
package importtool

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/go-logr/logr"

	"github.com/ob-flow/dataprep/artifacts"
	"github.com/ob-flow/dataprep/internal/log"
)

// ToolOutputFilename is the artifact name under which the tool's stdout
// is persisted for later inspection.
const ToolOutputFilename = "import-tool-output.txt"

func New(toolPath string, cmdContext execContext) *importTool {
	tool := importTool{toolPath: toolPath, cmdContext: cmdContext}
	return &tool
}

type importTool struct {
	toolPath   string
	cmdContext execContext
}

// Define a type that is the signature of the exec.Command function.
// This allows us to override that function with our own for
// testing purposes. This type is only used directly in the New() function.
type execContext = func(name string, arg ...string) *exec.Cmd

// Import runs the external import program with the dataset identifier,
// output name, seed, and output directory as structured arguments, and
// waits for it to terminate. A non-zero exit propagates as this
// function's own failure; callers must not continue to verification.
func (t importTool) Import(ctx context.Context, opts ImportOptions) (*ImportReport, error) {
	logger := logr.FromContextOrDiscard(ctx)

	cmdArgs := []string{"--dataset_name", opts.DatasetName}
	if opts.Name == "" {
		opts.Name = opts.DatasetName
	}
	cmdArgs = append(cmdArgs, "--name", opts.Name)
	if !opts.OmitSeed {
		cmdArgs = append(cmdArgs, "--seed", strconv.FormatInt(opts.Seed, 10))
	}
	cmdArgs = append(cmdArgs, "--output_dir", opts.OutputDir)

	cmd := t.cmdContext(t.toolPath, cmdArgs...)
	logger.Info("running import tool with the following invocation", "args", cmd.Args)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		logger.V(log.DBG).Info("import tool failed to run properly")
		logger.V(log.DBG).Info("stderr output", "stderr", stderr.String())

		return nil, fmt.Errorf("failed to run import tool: %v", err)
	}

	if err := t.writeToolOutputFile(ctx, stdout.String()); err != nil {
		return nil, fmt.Errorf("unable to copy tool output to artifacts directory: %v", err)
	}

	report := ImportReport{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	return &report, nil
}

func (t importTool) writeToolOutputFile(ctx context.Context, stdout string) error {
	if artifactsWriter := artifacts.WriterFromContext(ctx); artifactsWriter != nil {
		_, err := artifactsWriter.WriteFile(ToolOutputFilename, strings.NewReader(stdout))
		return err
	}

	return nil
}
