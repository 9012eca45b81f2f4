// Package iostreams bundles the standard streams of the CLI with TTY and
// color detection.
package iostreams

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
)

// IOStreams bundles the three standard streams together with display options.
type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer

	quiet        bool
	colorEnabled bool
	profile      termenv.Profile
}

// New returns IOStreams wired to the real stdin/stdout/stderr.
// Color is enabled when stdout is a TTY and NO_COLOR is not set.
func New() *IOStreams {
	return &IOStreams{
		In:           os.Stdin,
		Out:          os.Stdout,
		ErrOut:       os.Stderr,
		colorEnabled: fileIsTerminal(os.Stdout) && os.Getenv("NO_COLOR") == "",
		profile:      termenv.ColorProfile(),
	}
}

// Test returns IOStreams backed by buffers, with color disabled.
func Test() (*IOStreams, *bytes.Buffer, *bytes.Buffer, *bytes.Buffer) {
	in, out, errOut := &bytes.Buffer{}, &bytes.Buffer{}, &bytes.Buffer{}

	return &IOStreams{
		In:      in,
		Out:     out,
		ErrOut:  errOut,
		profile: termenv.Ascii,
	}, in, out, errOut
}

// SetQuiet enables or disables quiet mode. In quiet mode Printf is suppressed.
func (s *IOStreams) SetQuiet(q bool) {
	s.quiet = q
}

// IsTerminal reports whether stdout is connected to a terminal.
func (s *IOStreams) IsTerminal() bool {
	if f, ok := s.Out.(*os.File); ok {
		return fileIsTerminal(f)
	}
	return false
}

// Printf writes formatted output to Out, suppressed in quiet mode.
func (s *IOStreams) Printf(format string, a ...any) {
	if s.quiet {
		return
	}
	fmt.Fprintf(s.Out, format, a...)
}

// Errorf writes formatted output to ErrOut. It is never suppressed.
func (s *IOStreams) Errorf(format string, a ...any) {
	fmt.Fprintf(s.ErrOut, format, a...)
}

// Success returns text styled green.
func (s *IOStreams) Success(text string) string {
	if !s.colorEnabled {
		return text
	}
	return termenv.String(text).Foreground(s.profile.Color("2")).String()
}

// Failure returns text styled red.
func (s *IOStreams) Failure(text string) string {
	if !s.colorEnabled {
		return text
	}
	return termenv.String(text).Foreground(s.profile.Color("1")).String()
}

func fileIsTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
