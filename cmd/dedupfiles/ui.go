package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	dedupfiles "github.com/mattkeenan/dedupfiles/pkg"
)

// console prints duplicate pairs, progress and the final status
type console struct {
	out   io.Writer
	quiet bool
	bar   *progressbar.ProgressBar
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// newConsole sets up colour and, on a terminal, a spinner that shows the
// running check count
func newConsole(out io.Writer, quiet, noColor bool) *console {
	if noColor || !isTerminal(os.Stdout) {
		color.NoColor = true
	}

	c := &console{out: out, quiet: quiet}
	if !quiet && isTerminal(os.Stderr) {
		c.bar = progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("Checking files"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}
	return c
}

// progress is the resolver's OnProgress observer
func (c *console) progress(checked int) {
	if c.bar == nil {
		return
	}
	// progress bar errors are cosmetic
	_ = c.bar.Set(checked)
}

// duplicate is the resolver's OnDuplicate observer
func (c *console) duplicate(pair dedupfiles.DuplicatePair) {
	if c.quiet {
		return
	}
	c.clearBar()

	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	yellow.Fprintln(c.out, "Duplicate found:")
	fmt.Fprintf(c.out, " - %s\n", pair.Duplicate)
	fmt.Fprintf(c.out, " - %s\n", pair.Kept)
	fmt.Fprintf(c.out, "   size: %s\n", dedupfiles.FormatHumanSize(pair.Size))
	switch {
	case pair.Error != "":
		red.Fprintf(c.out, "   error: %s\n", pair.Error)
	case pair.Skipped:
		red.Fprintln(c.out, "   skipped: permission denied")
	}
	fmt.Fprintln(c.out)
}

// status is the resolver's OnStatus sink
func (c *console) status(summary string) {
	c.finish()
	color.New(color.FgGreen, color.Bold).Fprintln(c.out, summary)
}

func (c *console) clearBar() {
	if c.bar != nil {
		_ = c.bar.Clear()
	}
}

func (c *console) finish() {
	if c.bar != nil {
		_ = c.bar.Finish()
		c.bar = nil
	}
}

// confirmDeletion asks before a deleting run. Returns false if the user declines.
func confirmDeletion(roots []string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("Permanently delete duplicates under %s", strings.Join(roots, ", ")),
		IsConfirm: true,
		Default:   "n",
	}

	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
	return true, nil
}
