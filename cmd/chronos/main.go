package main

import (
	"fmt"
	"os"

	"github.com/sandeepkv93/chronos/internal/cli"
)

func main() {
	if err := cli.New().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "chronos failed: %v\n", err)
		os.Exit(1)
	}
}
