package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maxfischer2781/gridctl/internal/gcerrors"
)

func TestExitCodeForTaxonomyErrors(t *testing.T) {
	assert.Equal(t, 3, exitCodeFor(gcerrors.NewNoDataError("/a/b/c")))
	assert.Equal(t, 4, exitCodeFor(gcerrors.NewIntegrityError("hash collision")))
	assert.Equal(t, gcerrors.ExitDataErr, exitCodeFor(gcerrors.NewAbortError("user declined")))
}

func TestExitCodeForWalksUnwrapChain(t *testing.T) {
	wrapped := fmt.Errorf("loading config: %w", gcerrors.NewConfigError("scan.jobs", errors.New("not an int")))
	assert.Equal(t, 2, exitCodeFor(wrapped), "ConfigError's ExitCode is found through fmt.Errorf's wrapping")
}

func TestExitCodeForUnwrappableErrorDefaultsToOne(t *testing.T) {
	// ScannerError has no ExitCode method of its own.
	assert.Equal(t, 1, exitCodeFor(gcerrors.NewScannerError("files.ls", "/tmp/x", errors.New("permission denied"))))
}

func TestExitCodeForPlainErrorDefaultsToOne(t *testing.T) {
	assert.Equal(t, 1, exitCodeFor(errors.New("usage: gridctl scan <dir>")))
}
