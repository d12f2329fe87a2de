//go:build unit

package debian_test

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/sourcepatch/internal/infrastructure/repositories/debian"
)

// userAgentBinary mimics the strings section of an Electron application.
const userAgentBinary = "\x7fELF\x00\x00Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/138.0.7204.97 Electron/37.2.3 Safari/537.36\x00"

func tarGz(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: name, Mode: 0o755, Size: int64(len(content)), Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

// arArchive writes members in the common ar format used by .deb files.
func arArchive(members []struct {
	name string
	data []byte
},
) []byte {
	var buf bytes.Buffer
	buf.WriteString("!<arch>\n")
	for _, member := range members {
		fmt.Fprintf(&buf, "%-16s%-12s%-6s%-6s%-8s%-10d`\n", member.name, "0", "0", "0", "100644", len(member.data))
		buf.Write(member.data)
		if len(member.data)%2 == 1 {
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

func writeDeb(t *testing.T, files map[string]string) string {
	t.Helper()

	deb := arArchive([]struct {
		name string
		data []byte
	}{
		{name: "debian-binary", data: []byte("2.0\n")},
		{name: "control.tar.gz", data: tarGz(t, map[string]string{"./control": "Package: feishin\n"})},
		{name: "data.tar.gz", data: tarGz(t, files)},
	})
	path := filepath.Join(t.TempDir(), "feishin-0.21.0-linux-amd64.deb")
	require.NoError(t, os.WriteFile(path, deb, 0o644))
	return path
}

func requireTools(t *testing.T) {
	t.Helper()
	for _, tool := range []string{"ar", "tar"} {
		if _, err := exec.LookPath(tool); err != nil {
			t.Skipf("%s is not installed", tool)
		}
	}
}

func TestDebianPackageInspector_ElectronMajor(t *testing.T) {
	t.Parallel()

	t.Run("should read the Electron major from the application binary", func(t *testing.T) {
		t.Parallel()
		requireTools(t)

		// given
		packagePath := writeDeb(t, map[string]string{"./opt/Feishin/feishin": userAgentBinary})
		inspector := debian.NewDebianPackageInspector()

		// when
		major, err := inspector.ElectronMajor(context.Background(), packagePath, "feishin")

		// then
		require.NoError(t, err)
		assert.Equal(t, "37", major)
	})

	t.Run("should fail when the binary carries no Electron user agent", func(t *testing.T) {
		t.Parallel()
		requireTools(t)

		// given
		packagePath := writeDeb(t, map[string]string{"./opt/Feishin/feishin": "\x7fELF plain"})
		inspector := debian.NewDebianPackageInspector()

		// when
		_, err := inspector.ElectronMajor(context.Background(), packagePath, "feishin")

		// then
		require.ErrorIs(t, err, debian.ErrElectronNotFound)
	})

	t.Run("should fail on a file that is not an archive", func(t *testing.T) {
		t.Parallel()
		requireTools(t)

		// given
		packagePath := filepath.Join(t.TempDir(), "broken.deb")
		require.NoError(t, os.WriteFile(packagePath, []byte("not a deb"), 0o644))
		inspector := debian.NewDebianPackageInspector()

		// when
		_, err := inspector.ElectronMajor(context.Background(), packagePath, "feishin")

		// then
		require.Error(t, err)
	})
}

func TestFindBinary(t *testing.T) {
	t.Parallel()

	t.Run("should prefer the capitalized application directory", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "opt", "Sonixd"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "opt", "Sonixd", "sonixd"), []byte{}, 0o755))

		// when
		path, err := debian.FindBinary(root, "sonixd")

		// then
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "opt", "Sonixd", "sonixd"), path)
	})

	t.Run("should search below opt as a last resort", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "opt", "vendor", "bin"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "opt", "vendor", "bin", "feishin"), []byte{}, 0o755))

		// when
		path, err := debian.FindBinary(root, "feishin")

		// then
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "opt", "vendor", "bin", "feishin"), path)
	})

	t.Run("should fail when opt is missing", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := debian.FindBinary(t.TempDir(), "feishin")

		// then
		require.ErrorIs(t, err, debian.ErrBinaryNotFound)
	})
}

func TestFindDataArchive(t *testing.T) {
	t.Parallel()

	t.Run("should pick the data archive whatever its compression", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		for _, name := range []string{"control.tar.zst", "data.tar.zst", "debian-binary"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte{}, 0o644))
		}

		// when
		name, err := debian.FindDataArchive(dir)

		// then
		require.NoError(t, err)
		assert.Equal(t, "data.tar.zst", name)
	})

	t.Run("should fail without a data archive", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := debian.FindDataArchive(t.TempDir())

		// then
		require.ErrorIs(t, err, debian.ErrDataArchiveNotFound)
	})
}

func TestCapitalize(t *testing.T) {
	t.Parallel()

	t.Run("should upper-case the first letter only", func(t *testing.T) {
		t.Parallel()

		// when
		result := debian.Capitalize("feishin")

		// then
		assert.Equal(t, "Feishin", result)
	})
}
