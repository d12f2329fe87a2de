package repositories

import "context"

// PackageInspector reads metadata out of a binary package.
type PackageInspector interface {
	// ElectronMajor extracts the package and reads the Electron major from
	// the application binary called appName.
	ElectronMajor(ctx context.Context, packagePath, appName string) (string, error)
}
