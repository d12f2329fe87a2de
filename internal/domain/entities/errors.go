package entities

import "errors"

var (
	// ErrMissingTarget is returned when a file the run depends on does not exist.
	ErrMissingTarget = errors.New("required target file is missing")

	// ErrAssetNotFound is returned when a release carries no asset with the
	// configured suffix.
	ErrAssetNotFound = errors.New("release asset not found")

	// ErrConfigNotFound is returned by FindConfigFile when no file exists in
	// any search location.
	ErrConfigNotFound = errors.New("config file not found in default locations")
)
