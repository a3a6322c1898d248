package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"storyreel/internal/captions"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

const statusLabelWidth = 14

func renderField(label, value string) string {
	return fmt.Sprintf("  %-*s %s", statusLabelWidth, label+":", value)
}

func renderStatus(status captions.Status, colorize bool) string {
	label := fmt.Sprintf("[%s]", status.String())
	if !colorize {
		return label
	}
	return statusColor(status) + label + ansiReset
}

// renderRunStatus renders a stored status string. Unknown values are shown
// uncoloured.
func renderRunStatus(value string, colorize bool) string {
	var status captions.Status
	if err := status.UnmarshalText([]byte(value)); err != nil {
		return fmt.Sprintf("[%s]", value)
	}
	return renderStatus(status, colorize)
}

func statusColor(status captions.Status) string {
	switch status {
	case captions.StatusReady:
		return ansiGreen
	case captions.StatusFallback:
		return ansiYellow
	default:
		return ansiRed
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
