//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for the todo project using Mage.
//
// Usage:
//
//	mage build       Compile the todo binary to bin/
//	mage test:all    Run all tests
//	mage test:unit   Run tests without the race detector or cache
//	mage test:race   Run all tests with the race detector
//	mage test:cover  Run all tests and write coverage.out
//	mage lint        Run golangci-lint
//	mage clean       Remove build artifacts
//	mage install     Install todo to GOPATH/bin
//	mage stats       Print Go line counts as a JSON record
package main

const (
	binGo      = "go"
	binLint    = "golangci-lint"
	binaryName = "todo"
	binaryDir  = "bin"
	cmdDir     = "./cmd/todo"
	coverFile  = "coverage.out"
)
