package question

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Conversion is a word-processor document rendered as HTML.
type Conversion struct {
	HTML     string
	Warnings []string
}

// Converter turns a document file into HTML paragraphs and lists.
type Converter interface {
	Convert(ctx context.Context, path string) (Conversion, error)
}

// MammothConverter runs the mammoth CLI, which writes HTML to stdout and
// conversion warnings to stderr.
type MammothConverter struct {
	Bin string
}

func NewMammothConverter(bin string) MammothConverter {
	if strings.TrimSpace(bin) == "" {
		bin = "mammoth"
	}
	return MammothConverter{Bin: bin}
}

func (c MammothConverter) Convert(ctx context.Context, path string) (Conversion, error) {
	cmd := exec.CommandContext(ctx, c.Bin, path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "no stderr"
		}
		return Conversion{}, fmt.Errorf("%s %s: %w (%s)", c.Bin, path, err, msg)
	}
	return Conversion{HTML: stdout.String(), Warnings: splitLines(stderr.String())}, nil
}

func splitLines(v string) []string {
	var out []string
	for _, line := range strings.Split(v, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
