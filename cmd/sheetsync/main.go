package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	root := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		// 结果状态已经打印过 / the outcome status was already printed
		if !errors.Is(err, errOutcome) {
			fmt.Fprintf(os.Stderr, "sheetsync: %v\n", err)
		}
		os.Exit(1)
	}
}
