// cmd/tools/template-inspector/main.go
package main

import (
	"flag"
	"fmt"
	"os"

	"docbot/internal/docx"
	"docbot/internal/fields"
	"docbot/pkg/registry"
)

// template-inspector prints the field labels a template actually
// exposes, so registry questions can be checked against the document
// before it ships.
func main() {
	path := flag.String("template", "", "Path to a .docx template")
	convention := flag.String("convention", string(registry.ConventionRedRun), "Field convention: red-run or marker")
	flag.Parse()

	if *path == "" {
		fmt.Println("Error: -template is required.")
		flag.Usage()
		os.Exit(1)
	}

	doc, err := docx.Open(*path)
	if err != nil {
		fmt.Printf("Error: cannot open template: %v\n", err)
		os.Exit(1)
	}

	var labels []string
	switch registry.Convention(*convention) {
	case registry.ConventionRedRun:
		labels = fields.ExtractRed(doc)
	case registry.ConventionMarker:
		labels = fields.ExtractMarkers(doc)
	default:
		fmt.Printf("Error: unknown convention %q (want red-run or marker).\n", *convention)
		os.Exit(1)
	}

	if len(labels) == 0 {
		fmt.Println("No fields found.")
		os.Exit(1)
	}

	fmt.Printf("Fields in %s (%s):\n", *path, *convention)
	for i, label := range labels {
		fmt.Printf("  %2d. %s\n", i+1, label)
	}
}
