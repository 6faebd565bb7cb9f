package main

import (
	"fmt"
	"os"

	"github.com/mithrel/freightdesk/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "freightdesk:", err)
		os.Exit(1)
	}
}
