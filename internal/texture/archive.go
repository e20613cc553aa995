package texture

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrMemberNotFound is returned when an archive source names a file the zip does not hold.
var ErrMemberNotFound = errors.New("texture: archive member not found")

const archiveSep = ".zip#"

// splitArchive splits "pack.zip#dir/a.png" into the archive and the member path.
func splitArchive(src string) (archive, member string, ok bool) {
	i := strings.Index(strings.ToLower(src), archiveSep)
	if i < 0 {
		return "", "", false
	}
	archive = src[:i+len(".zip")]
	member = strings.TrimPrefix(src[i+len(archiveSep):], "/")
	if member == "" {
		return "", "", false
	}
	return archive, member, true
}

// archiveKey names the extraction directory of zipPath. It covers the archive's size and
// modification time, so an edited zip is extracted afresh instead of serving stale members.
func archiveKey(zipPath string) (string, error) {
	info, err := os.Stat(zipPath)
	if err != nil {
		return "", fmt.Errorf("texture: %w", err)
	}
	return cachePrefix(fmt.Sprintf("%s|%d|%d", zipPath, info.Size(), info.ModTime().UnixNano())), nil
}

// extractMember unpacks one file from zipPath into destDir, preserving its directory inside
// the archive, and returns the extracted path. An already extracted member is reused.
// Members that would land outside destDir are refused.
func extractMember(zipPath, member, destDir string) (string, error) {
	dest, err := memberPath(destDir, member)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", fmt.Errorf("unzip: %w", err)
	}
	defer r.Close()
	for _, f := range r.File {
		if f.FileInfo().IsDir() || path.Clean(f.Name) != path.Clean(member) {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return "", fmt.Errorf("unzip: %w", err)
		}
		if err := copyMember(f, dest); err != nil {
			_ = os.Remove(dest)
			return "", err
		}
		return dest, nil
	}
	return "", fmt.Errorf("%w: %s in %s", ErrMemberNotFound, member, zipPath)
}

func memberPath(destDir, member string) (string, error) {
	absDir, err := filepath.Abs(destDir)
	if err != nil {
		return "", fmt.Errorf("unzip: %w", err)
	}
	dest := filepath.Join(absDir, filepath.FromSlash(member))
	if !strings.HasPrefix(dest, absDir+string(os.PathSeparator)) {
		return "", fmt.Errorf("unzip: %s escapes the cache directory", member)
	}
	return dest, nil
}

func copyMember(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("unzip: %w", err)
	}
	defer rc.Close()
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("unzip: %w", err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("unzip: %w", err)
	}
	return out.Close()
}
