//go:build mage

// Package main contains Mage build targets for startup-mcp developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binDir = "bin"

// binaries maps output names to their main packages.
var binaries = map[string]string{
	"startup-mcp": "./cmd/startup-mcp",
	"startup-cli": "./cmd/startup-cli",
}

// Default builds both binaries.
var Default = Build

// Build compiles startup-mcp and startup-cli into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version := versionString()
	for name, pkg := range binaries {
		out := filepath.Join(binDir, name)
		ldflags := "-s -w -X main.version=" + version
		if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, pkg); err != nil {
			return fmt.Errorf("go build %s: %w", pkg, err)
		}
		fmt.Printf("Built %s\n", out)
	}
	return nil
}

// Test runs the full test suite with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "-count=1", "./...")
}

// Golden checks idea reports against the fixtures in internal/idea/testdata.
// The fixtures are checked in and never regenerated from Go output.
func Golden() error {
	return sh.RunV("go", "test", "-count=1", "-run", "TestGenerate_Golden|TestGenerate_FitnessSelection", "./internal/idea/")
}

// Lint runs go vet and, when installed, golangci-lint.
func Lint() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	if _, err := sh.Output("golangci-lint", "version"); err != nil {
		fmt.Println("golangci-lint not installed, skipping")
		return nil
	}
	return sh.RunV("golangci-lint", "run", "./...")
}

// Check runs lint and tests.
func Check() {
	mg.SerialDeps(Lint, Test)
}

// Serve builds and starts the server. The config file comes from
// STARTUP_MCP_CONFIG or ~/.config/startup-mcp/config.yaml.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, "startup-mcp"), "serve")
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}

// versionString returns `git describe` output, or "dev" outside a checkout.
func versionString() string {
	v, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || v == "" {
		return "dev"
	}
	return v
}
