package debian

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/sourcepatch/internal/domain/repositories"
	"github.com/rios0rios0/sourcepatch/internal/patcher"
)

const (
	dataArchivePrefix = "data.tar."
	installRoot       = "opt"
	defaultAppDir     = "Feishin"
)

var (
	ErrDataArchiveNotFound = errors.New("unable to locate data.tar.* in deb archive")
	ErrBinaryNotFound      = errors.New("application binary not found in package")
	ErrElectronNotFound    = errors.New("unable to detect Electron major version from deb")
)

// DebianPackageInspector implements repositories.PackageInspector for .deb
// packages. Extraction uses the ar and tar binaries found on PATH.
type DebianPackageInspector struct {
	lookPath func(string) (string, error)
}

// NewDebianPackageInspector creates a new DebianPackageInspector.
func NewDebianPackageInspector() repositories.PackageInspector {
	return &DebianPackageInspector{lookPath: exec.LookPath}
}

func (i *DebianPackageInspector) ElectronMajor(ctx context.Context, packagePath, appName string) (string, error) {
	workdir, err := os.MkdirTemp("", "sourcepatch-deb-")
	if err != nil {
		return "", fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(workdir)

	absPackage, err := filepath.Abs(packagePath)
	if err != nil {
		return "", fmt.Errorf("invalid package path: %w", err)
	}
	if err = run(ctx, workdir, "ar", "x", absPackage); err != nil {
		return "", err
	}

	archive, err := findDataArchive(workdir)
	if err != nil {
		return "", err
	}
	if err = run(ctx, workdir, i.extractor(), "-xf", archive); err != nil {
		return "", err
	}

	binaryPath, err := findBinary(workdir, appName)
	if err != nil {
		return "", err
	}
	logger.Debugf("[debian] Reading Electron version from %s", binaryPath)

	data, err := os.ReadFile(binaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", binaryPath, err)
	}
	major, found := patcher.ElectronMajor(data)
	if !found {
		return "", fmt.Errorf("%w: %s", ErrElectronNotFound, filepath.Base(packagePath))
	}
	return major, nil
}

// extractor prefers bsdtar, which reads every compression a .deb may use.
func (i *DebianPackageInspector) extractor() string {
	if _, err := i.lookPath("bsdtar"); err == nil {
		return "bsdtar"
	}
	return "tar"
}

func run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s failed: %w\nOutput: %s", name, strings.Join(args, " "), err, string(output))
	}
	return nil
}

// findDataArchive returns the first data.tar.* member, by name.
func findDataArchive(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var archives []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), dataArchivePrefix) {
			archives = append(archives, entry.Name())
		}
	}
	if len(archives) == 0 {
		return "", ErrDataArchiveNotFound
	}
	sort.Strings(archives)
	return archives[0], nil
}

// findBinary looks for appName under opt/Feishin, then under opt/<AppName>,
// then anywhere below opt.
func findBinary(root, appName string) (string, error) {
	candidates := []string{
		filepath.Join(root, installRoot, defaultAppDir, appName),
		filepath.Join(root, installRoot, capitalize(appName), appName),
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}
	}

	found := ""
	walkErr := filepath.WalkDir(filepath.Join(root, installRoot), func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() && entry.Name() == appName {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if walkErr != nil && !errors.Is(walkErr, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to search %s: %w", installRoot, walkErr)
	}
	if found == "" {
		return "", fmt.Errorf("%w: %s", ErrBinaryNotFound, appName)
	}
	return found, nil
}

func capitalize(name string) string {
	first, size := utf8.DecodeRuneInString(name)
	if first == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(first)) + name[size:]
}
