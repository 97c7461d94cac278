package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

// statusPrinter renders labeled status lines, coloring them when the
// destination is a terminal.
type statusPrinter struct {
	out      io.Writer
	colorize bool
}

func newStatusPrinter(out io.Writer) *statusPrinter {
	colorize := false
	if file, ok := out.(*os.File); ok {
		fd := file.Fd()
		colorize = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	return &statusPrinter{out: out, colorize: colorize}
}

func (p *statusPrinter) section(title string) {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	if p.colorize {
		line = ansiBlue + line + ansiReset
	}
	fmt.Fprintln(p.out, line)
}

func (p *statusPrinter) ok(label, detail string) {
	p.line(label, "OK", detail, ansiGreen)
}

func (p *statusPrinter) warn(label, detail string) {
	p.line(label, "WARN", detail, ansiYellow)
}

func (p *statusPrinter) fail(label, detail string) {
	p.line(label, "ERROR", detail, ansiRed)
}

func (p *statusPrinter) info(label, detail string) {
	p.line(label, "INFO", detail, "")
}

func (p *statusPrinter) line(label, verdict, detail, color string) {
	text := fmt.Sprintf("  %-18s [%s]", label+":", verdict)
	if detail != "" {
		text += " " + detail
	}
	if p.colorize && color != "" {
		text = color + text + ansiReset
	}
	fmt.Fprintln(p.out, text)
}

func (p *statusPrinter) blank() {
	fmt.Fprintln(p.out)
}
