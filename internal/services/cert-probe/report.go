package cert_probe

import (
	"fmt"
	"io"

	"github.com/NordCoder/certprobe/internal/domain/probe"
)

// WriteReport prints "<LEVEL>: <message>" followed by detail lines when verbose.
func WriteReport(w io.Writer, r probe.Result, verbose bool) error {
	if _, err := fmt.Fprintf(w, "%s: %s\n", r.Severity, r.Message); err != nil {
		return fmt.Errorf("write status line: %w", err)
	}
	if !verbose {
		return nil
	}
	for _, d := range r.Details {
		if _, err := fmt.Fprintln(w, d); err != nil {
			return fmt.Errorf("write detail line: %w", err)
		}
	}
	return nil
}
