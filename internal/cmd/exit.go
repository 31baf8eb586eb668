package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harrison/pathfind/internal/models"
)

// Process exit codes
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitUsage     = 2
	ExitNoMatches = 3
)

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	kind, ok := models.KindOf(err)
	if !ok {
		return ExitFailure
	}
	switch kind {
	case models.KindInvalidInput, models.KindFileDoesNotExist:
		return ExitUsage
	case models.KindNoMatches:
		return ExitNoMatches
	default:
		return ExitFailure
	}
}

// withUsage prints the command's usage for errors the caller can fix by
// changing the invocation.
func withUsage(cmd *cobra.Command, err error) error {
	if ExitCode(err) == ExitUsage {
		_ = cmd.Usage()
	}
	return err
}
