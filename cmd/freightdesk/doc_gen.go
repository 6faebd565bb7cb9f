//go:build ignore

// Generates markdown and man pages for the CLI: go run doc_gen.go
package main

import (
	"log"

	"github.com/spf13/cobra/doc"

	"github.com/mithrel/freightdesk/internal/cli"
)

func main() {
	root := cli.NewRootCmd()
	root.DisableAutoGenTag = true

	if err := doc.GenMarkdownTree(root, "./docs/markdown"); err != nil {
		log.Fatal(err)
	}
	header := &doc.GenManHeader{Title: "FREIGHTDESK", Section: "1"}
	if err := doc.GenManTree(root, header, "./docs/man"); err != nil {
		log.Fatal(err)
	}
}
