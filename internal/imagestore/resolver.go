package imagestore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
)

// TerminalResolver shows an unmapped image to an operator and reads the
// question number from In.
type TerminalResolver struct {
	In  io.Reader
	Out io.Writer
	// Open displays the image; nil means only the path is printed.
	Open func(path string) error

	scanner *bufio.Scanner
}

func NewTerminalResolver(in io.Reader, out io.Writer) *TerminalResolver {
	return &TerminalResolver{In: in, Out: out, Open: OpenWithViewer}
}

func (r *TerminalResolver) Resolve(ctx context.Context, fingerprint, path string) (int, error) {
	if r.scanner == nil {
		r.scanner = bufio.NewScanner(r.In)
	}
	if r.Open != nil {
		if err := r.Open(path); err != nil {
			fmt.Fprintf(r.Out, "could not open %s: %v\n", path, err)
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		fmt.Fprintf(r.Out, "Unknown image %s (%s). Question number: ", fingerprint, path)
		if !r.scanner.Scan() {
			if err := r.scanner.Err(); err != nil {
				return 0, fmt.Errorf("read question number: %w", err)
			}
			return 0, errors.New("read question number: input closed")
		}
		n, err := strconv.Atoi(strings.TrimSpace(r.scanner.Text()))
		if err != nil || n <= 0 {
			fmt.Fprintln(r.Out, "please type a positive whole number")
			continue
		}
		return n, nil
	}
}

// OpenWithViewer hands the file to the desktop's default viewer.
func OpenWithViewer(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	return cmd.Start()
}
