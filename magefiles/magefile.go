//go:build mage

// Package main provides build targets for the kanban project using Mage.
//
// Usage:
//
//	mage build      Compile the kanban binary to bin/
//	mage test:all   Run all tests
//	mage test:race  Run all tests with the race detector
//	mage test:golden Rewrite CLI golden files
//	mage lint       Run go vet and golangci-lint
//	mage clean      Remove build artifacts
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binLint    = "golangci-lint"
	binaryName = "kanban"
	binaryDir  = "bin"
	cmdDir     = "./cmd/kanban"
)

// Build compiles the kanban binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test groups test targets.
type Test mg.Namespace

// All runs every package's tests.
func (Test) All() error {
	return sh.RunV(binGo, "test", "./...")
}

// Race runs the tests with the race detector; the allocator and lockers are
// shared across goroutines.
func (Test) Race() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Golden rewrites the CLI golden files from current output.
func (Test) Golden() error {
	return sh.RunV(binGo, "test", "./internal/cli/", "-update")
}

// Lint runs go vet, then golangci-lint.
func Lint() error {
	if err := sh.RunV(binGo, "vet", "./..."); err != nil {
		return err
	}
	return sh.RunV(binLint, "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	return os.RemoveAll(binaryDir)
}
