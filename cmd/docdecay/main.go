package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/vporoshin/docdecay/internal/cli"
)

func main() {
	err := cli.Execute()
	if err == nil {
		return
	}

	// Findings exit with their severity code; anything else is fatal.
	var ee *cli.ExitError
	if errors.As(err, &ee) {
		os.Exit(ee.Code())
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(2)
}
