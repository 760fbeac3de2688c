package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/huh/spinner"
	"github.com/fatih/color"
	"golang.org/x/term"
)

type Options struct {
	JSON    bool
	Plain   bool
	Quiet   bool
	Verbose bool
	NoColor bool
}

type Output struct {
	JSON    bool
	Plain   bool
	Quiet   bool
	Verbose bool

	Stdout io.Writer
	Stderr io.Writer

	green  *color.Color
	yellow *color.Color
	red    *color.Color
	gray   *color.Color
	bold   *color.Color
}

func New(opts Options) *Output {
	if opts.NoColor || opts.Plain || opts.JSON {
		color.NoColor = true
	}
	return &Output{
		JSON:    opts.JSON,
		Plain:   opts.Plain,
		Quiet:   opts.Quiet,
		Verbose: opts.Verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow),
		red:     color.New(color.FgRed),
		gray:    color.New(color.FgHiBlack),
		bold:    color.New(color.Bold),
	}
}

func (o *Output) Green(s string) string {
	return o.green.Sprint(s)
}

func (o *Output) Yellow(s string) string {
	return o.yellow.Sprint(s)
}

func (o *Output) Red(s string) string {
	return o.red.Sprint(s)
}

func (o *Output) Gray(s string) string {
	return o.gray.Sprint(s)
}

func (o *Output) Bold(s string) string {
	return o.bold.Sprint(s)
}

func (o *Output) Info(msg string) {
	if o.JSON || o.Quiet {
		return
	}
	fmt.Fprintln(o.Stdout, msg)
}

func (o *Output) Success(msg string) {
	if o.JSON || o.Quiet {
		return
	}
	fmt.Fprintln(o.Stdout, o.Green(msg))
}

func (o *Output) Warn(msg string) {
	if o.JSON || o.Quiet {
		return
	}
	fmt.Fprintln(o.Stdout, o.Yellow(msg))
}

func (o *Output) Debug(msg string) {
	if o.JSON || !o.Verbose {
		return
	}
	fmt.Fprintln(o.Stderr, o.Gray(msg))
}

func (o *Output) Error(msg string) {
	fmt.Fprintln(o.Stderr, o.Red(msg))
}

func (o *Output) Print(msg string) {
	if o.JSON || o.Quiet {
		return
	}
	fmt.Fprintln(o.Stdout, msg)
}

func (o *Output) Write(msg string) {
	if o.JSON || o.Quiet {
		return
	}
	fmt.Fprint(o.Stdout, msg)
}

func (o *Output) EmitJSON(v any) error {
	enc := json.NewEncoder(o.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Spin runs action behind a terminal spinner. Without a terminal, or in
// JSON, plain or quiet mode, the title is printed and action runs as is.
func (o *Output) Spin(ctx context.Context, title string, action func(context.Context) error) error {
	if o.JSON || o.Quiet || o.Plain || !o.isTerminal() {
		o.Info(title)
		return action(ctx)
	}
	return spinner.New().Title(title).Context(ctx).ActionWithErr(action).Run()
}

func (o *Output) isTerminal() bool {
	f, ok := o.Stdout.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// EnableDebugLogging sends debug level slog records to w.
func EnableDebugLogging(w io.Writer) {
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})))
}
