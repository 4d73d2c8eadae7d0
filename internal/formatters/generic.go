package formatters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ob-flow/dataprep/internal/verify"
)

var jsonMarshalIndent = json.MarshalIndent

// jsonFormatter is a FormatterFunc that formats a report as JSON
func jsonFormatter(ctx context.Context, r verify.Report) ([]byte, error) {
	response, err := jsonMarshalIndent(r, "", "    ")
	if err != nil {
		e := fmt.Errorf("error formatting report with formatter %s: %w",
			"json",
			err,
		)

		return nil, e
	}

	return response, nil
}

// textFormatter is a FormatterFunc that formats a report the way the
// original workflow printed it: the full entry listing, then the summary
// counts.
func textFormatter(ctx context.Context, r verify.Report) ([]byte, error) {
	var b strings.Builder
	for _, entry := range r.Entries {
		b.WriteString(entry)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Total entries: %d\n", r.Total)
	fmt.Fprintf(&b, "Entries not matching %s: %d\n", r.Suffix, r.Mismatched)

	return []byte(b.String()), nil
}
