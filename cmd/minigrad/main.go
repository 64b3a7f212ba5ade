// Package main provides the minigrad CLI.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
)

const version = "v0.1.0"

func main() {
	log.SetFlags(0)
	log.SetPrefix("minigrad: ")

	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "version":
		fmt.Printf("minigrad %s\n", version)
	case "train":
		_, err = runTrain(os.Args[2:], os.Stdout)
	case "graph":
		err = runGraph(os.Args[2:], os.Stdout)
	case "help", "-h", "--help":
		usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage(os.Stderr)
		os.Exit(2)
	}

	if err != nil {
		log.Fatal(err)
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "minigrad %s - scalar autodiff and tiny neural networks\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version    Show version")
	fmt.Fprintln(w, "  train      Train a 2-layer MLP on XOR")
	fmt.Fprintln(w, "  graph      Print the DOT graph of f = a*b + b**2")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'minigrad <command> -h' for command flags.")
}
