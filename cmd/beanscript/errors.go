package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/aledsdavies/beanscript/internal/beanerr"
)

var (
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// FormatError prints err to w as a single-line diagnostic, per spec.md §7:
// fatal beanerr.Errors name the source line, kind, and violated rule, with
// fuzzy suggestions when available.
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}
	var be *beanerr.Error
	if errors.As(err, &be) {
		fmt.Fprintf(w, "%s %s\n", style(errorStyle, "error:", useColor), be.Error())
		return
	}
	fmt.Fprintf(w, "%s %s\n", style(errorStyle, "error:", useColor), err.Error())
}

func style(s lipgloss.Style, text string, enabled bool) string {
	if !enabled {
		return text
	}
	return s.Render(text)
}
