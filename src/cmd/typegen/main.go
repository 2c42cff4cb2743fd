// Command typegen writes the TypeScript declarations the UI uses for the
// catalog document, import reports and proxy settings.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/coder/guts"
	"github.com/coder/guts/config"

	"github.com/homedash/homedash/src/internal/log"
)

var packages = []string{
	"github.com/homedash/homedash/src/internal/catalog",
	"github.com/homedash/homedash/src/internal/importer",
	"github.com/homedash/homedash/src/internal/apache",
}

func main() {
	out := flag.String("out", "", "Output file (default: stdout)")
	flag.Parse()

	content, err := generate()
	if err != nil {
		log.Fatalf("Failed to generate types: %v", err)
	}

	if *out == "" {
		fmt.Print(content)
		return
	}
	if err := os.WriteFile(*out, []byte(content), 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", *out, err)
	}
	log.Infof("Wrote %s", *out)
}

func generate() (string, error) {
	golang, err := guts.NewGolangParser()
	if err != nil {
		return "", fmt.Errorf("failed to create parser: %w", err)
	}

	for _, pkg := range packages {
		if err := golang.IncludeGenerate(pkg); err != nil {
			return "", fmt.Errorf("failed to include %s: %w", pkg, err)
		}
	}

	ts, err := golang.ToTypescript()
	if err != nil {
		return "", fmt.Errorf("failed to convert to typescript: %w", err)
	}

	ts.ApplyMutations(
		config.ExportTypes,
		config.ReadOnly,
	)

	content, err := ts.Serialize()
	if err != nil {
		return "", fmt.Errorf("failed to serialize: %w", err)
	}
	return "// Code generated by typegen. DO NOT EDIT.\n\n" + content, nil
}
