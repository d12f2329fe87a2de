package debian

// FindBinary exports findBinary for testing.
var FindBinary = findBinary //nolint:gochecknoglobals // test export

// FindDataArchive exports findDataArchive for testing.
var FindDataArchive = findDataArchive //nolint:gochecknoglobals // test export

// Capitalize exports capitalize for testing.
var Capitalize = capitalize //nolint:gochecknoglobals // test export
