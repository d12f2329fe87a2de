package commands

// FirstNonEmpty exports firstNonEmpty for testing.
var FirstNonEmpty = firstNonEmpty //nolint:gochecknoglobals // test export
