package config

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// Prompter asks for settings on a line oriented terminal. An empty answer
// keeps the current value, an invalid one falls back to the default.
type Prompter struct {
	sc  *bufio.Scanner
	out io.Writer
	log *zap.Logger
}

// NewPrompter returns a Prompter reading answers from in and writing
// questions to out. Invalid answers are reported to log.
func NewPrompter(in io.Reader, out io.Writer, log *zap.Logger) *Prompter {
	return &Prompter{sc: bufio.NewScanner(in), out: out, log: log}
}

// Prompt asks for every setting that was not given on the command line.
func (c *CLI) Prompt(cfg *Config, p *Prompter) {
	s := &cfg.Settings
	if !c.Given("radius") {
		if ans := p.ask(fmt.Sprintf("Search radius in pixels, preferably a power of two [%d]: ", s.Radius)); ans != "" {
			s.Radius = parseRadius(ans, p.log)
		}
	}
	if !c.Given("boundary") {
		if ans := p.ask(fmt.Sprintf("Image edges, 1 - repeat, 2 - clamp [%s]: ", s.Boundary)); ans != "" {
			s.Boundary = parseBoundary(ans, p.log)
		}
	}
	if !c.Given("height") {
		if ans := p.ask(fmt.Sprintf("Capture height 0-255, or generated [%s]: ", s.Height)); ans != "" {
			s.Height = parseHeight(ans, p.log)
		}
	}
	if !c.Given("mult") {
		if ans := p.ask(fmt.Sprintf("Image height multiplier [%g]: ", s.HeightMult)); ans != "" {
			s.HeightMult = parseMult(ans, p.log)
		}
	}
}

// ask writes question and returns the trimmed answer. A closed input
// yields an empty answer.
func (p *Prompter) ask(question string) string {
	fmt.Fprint(p.out, question)
	if !p.sc.Scan() {
		fmt.Fprintln(p.out)
		return ""
	}
	return strings.TrimSpace(p.sc.Text())
}
