package ui

import (
	"errors"
	"strings"

	"github.com/fatih/color"

	"github.com/weft-io/weft/internal/trace"
)

// FormatError renders an error for the terminal. Structured dump errors get
// a headline naming the failure kind plus a retry hint where one applies;
// anything else prints as a plain error line.
func FormatError(err error, noColor bool) string {
	headline := color.New(color.FgRed, color.Bold)
	body := color.New(color.FgRed)
	hintColor := color.New(color.FgHiBlack)
	if noColor {
		headline.DisableColor()
		body.DisableColor()
		hintColor.DisableColor()
	}

	var b strings.Builder

	var te *trace.Error
	if !errors.As(err, &te) {
		headline.Fprintf(&b, "error: %s\n", err)
		return b.String()
	}

	headline.Fprintf(&b, "%s\n", strings.ToUpper(te.Kind.String()))
	body.Fprintf(&b, "   %s\n", te.Error())
	if hint := kindHint(te.Kind); hint != "" {
		b.WriteString("\n")
		hintColor.Fprintf(&b, "   → %s\n", hint)
	}
	return b.String()
}

func kindHint(kind trace.ErrorKind) string {
	switch kind {
	case trace.KindOutOfMemory:
		return "raise or remove the session's buffer cap"
	case trace.KindFormatLimit:
		return "the document hit the format's size limit; split the session"
	case trace.KindInvalidFormat:
		return "the session description declares a layout the format cannot express"
	case trace.KindOverflow:
		return "an event declares fewer descriptors than its layout consumes"
	case trace.KindNotFound:
		return "check that every enum referenced by a field is declared"
	case trace.KindIO:
		return "the in-memory document is intact; retry writing the output file"
	default:
		return ""
	}
}
