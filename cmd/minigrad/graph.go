package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/minigrad/internal/autodiff"
	"github.com/born-ml/minigrad/internal/graphviz"
)

// runGraph builds f = a*b + b**2, runs backward and prints its DOT graph.
func runGraph(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("graph", flag.ContinueOnError)
	fs.SetOutput(out)
	a := fs.Float64("a", 3, "Value of a")
	b := fs.Float64("b", 4, "Value of b")
	output := fs.String("o", "", "Write DOT to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	na := autodiff.NewLabeled(*a, "a")
	nb := autodiff.NewLabeled(*b, "b")
	f := na.Mul(nb).Add(nb.PowScalar(2))
	f.SetLabel("f")
	f.Backward()

	dot, err := graphviz.Render(f)
	if err != nil {
		return err
	}

	if *output == "" {
		_, err = out.Write(dot)
		return err
	}
	if err := os.WriteFile(*output, dot, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", *output, err)
	}
	return nil
}
