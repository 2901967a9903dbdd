package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jwebster45206/science-santa/pkg/dialogue"
	"github.com/jwebster45206/science-santa/pkg/jolliness"
)

const expectedOptions = 4

func main() {
	files := os.Args[1:]
	if len(files) == 0 {
		files = []string{"-"}
	}

	validator := &ReplyValidator{out: os.Stdout}
	failed := 0
	for _, name := range files {
		data, err := readInput(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read %s: %v\n", name, err)
			failed++
			continue
		}
		if !validator.Check(name, string(data)) {
			failed++
		}
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d replies failed extraction\n", failed, len(files))
		os.Exit(1)
	}
}

func readInput(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}

// ReplyValidator reports how a raw model reply extracts. Warnings flag
// replies the game accepts but the prompt asks the model to avoid.
type ReplyValidator struct {
	out io.Writer
}

// Check prints the report for one reply and returns whether it extracted.
func (v *ReplyValidator) Check(name, raw string) bool {
	res := dialogue.Parse(raw)

	_, _ = fmt.Fprintf(v.out, "%s\n", name)
	_, _ = fmt.Fprintf(v.out, "  status:   %s\n", res.Status)
	_, _ = fmt.Fprintf(v.out, "  strategy: %s\n", res.Strategy)

	if !res.OK() {
		_, _ = fmt.Fprintf(v.out, "  error:    %v\n", res.Err)
		return false
	}

	_, _ = fmt.Fprintf(v.out, "  santa:    %s\n", res.Reply.SantaResponse)
	for i, opt := range res.Reply.Options {
		_, _ = fmt.Fprintf(v.out, "  option %d: [%+d] %s\n", i+1, opt.Points, opt.Text)
	}
	for _, w := range warnings(res.Reply) {
		_, _ = fmt.Fprintf(v.out, "  warning:  %s\n", w)
	}
	return true
}

func warnings(reply *dialogue.Reply) []string {
	var out []string
	if len(reply.Options) != expectedOptions {
		out = append(out, fmt.Sprintf("expected %d options, got %d", expectedOptions, len(reply.Options)))
	}
	for i, opt := range reply.Options {
		if strings.TrimSpace(opt.Text) == "" {
			out = append(out, fmt.Sprintf("option %d has no text", i+1))
		}
		if opt.Points != jolliness.ClampDelta(opt.Points) {
			out = append(out, fmt.Sprintf("option %d points %d will be clamped to %d", i+1, opt.Points, jolliness.ClampDelta(opt.Points)))
		}
	}
	return out
}
