package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/xaheen/xaheen/internal/cli"
	"github.com/xaheen/xaheen/internal/router"
)

func main() {
	if err := cli.Execute(); err != nil {
		// Unknown commands have already listed their suggestions.
		if !errors.Is(err, router.ErrUnknownCommand) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
