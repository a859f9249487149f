//go:build mage

// Package main provides build targets for the Atlantis backend using Mage.
//
// Usage:
//
//	mage build            Compile api and atlantisctl to bin/
//	mage test:all         Run every test
//	mage test:postgres    Run the store tests against TEST_DATABASE_URL
//	mage lint             Run golangci-lint
//	mage clean            Remove build artifacts
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo     = "go"
	binLint   = "golangci-lint"
	binaryDir = "bin"
)

var binaries = map[string]string{
	"atlantis-api": "./cmd/api",
	"atlantisctl":  "./cmd/atlantisctl",
}

// Build compiles every binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	for name, pkg := range binaries {
		if err := sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, name), pkg); err != nil {
			return err
		}
	}
	return nil
}

// Test groups the test targets.
type Test mg.Namespace

// All runs every test with the race detector.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Postgres runs the relational store tests against TEST_DATABASE_URL.
func (Test) Postgres() error {
	if os.Getenv("TEST_DATABASE_URL") == "" {
		return fmt.Errorf("TEST_DATABASE_URL is not set")
	}
	return sh.RunV(binGo, "test", "-v", "./internal/diagrams/store/sqlstore/...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV(binLint, "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}
