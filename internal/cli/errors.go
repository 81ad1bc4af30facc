package cli

import "errors"

var (
	// ErrNoPackages is returned when no packages are specified.
	ErrNoPackages = errors.New("no packages specified; pass name:version arguments or --from")

	// ErrNoVersions is returned when the registry lists no matching version.
	ErrNoVersions = errors.New("no matching versions available")

	// ErrAborted is returned when the user aborts an operation.
	ErrAborted = errors.New("operation aborted by user")
)
