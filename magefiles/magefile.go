// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build mage

// Package main provides build targets for taskman using Mage.
//
// Usage:
//
//	mage build          Compile taskman binary to bin/
//	mage test:all       Run all tests
//	mage test:unit      Run all tests without the race detector
//	mage test:cover     Run all tests with a coverage profile
//	mage lint           Run golangci-lint
//	mage clean          Remove build artifacts
//	mage install        Install taskman to GOPATH/bin
package main

const (
	binGo      = "go"
	binaryName = "taskman"
	binaryDir  = "bin"
	cmdDir     = "./cmd/taskman"
	coverFile  = "coverage.out"
)
