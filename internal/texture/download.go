package texture

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	defaultUserAgent = "shader-playground/1.0"
	fetchTimeout     = 60 * time.Second
)

// IsURL reports whether src names a remote texture rather than a local file.
func IsURL(src string) bool {
	s := strings.ToLower(src)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Fetch resolves src to a local file. Remote sources are downloaded once into cacheDir and
// reused on later calls; local sources must exist. A source of the form "pack.zip#dir/a.png"
// names one image inside a zip archive, which may itself be local or remote.
func Fetch(ctx context.Context, src, cacheDir string) (string, error) {
	if archive, member, ok := splitArchive(src); ok {
		zipPath, err := Fetch(ctx, archive, cacheDir)
		if err != nil {
			return "", err
		}
		key, err := archiveKey(zipPath)
		if err != nil {
			return "", err
		}
		return extractMember(zipPath, member, filepath.Join(cacheDir, key+"unzipped"))
	}
	if !IsURL(src) {
		if _, err := os.Stat(src); err != nil {
			return "", fmt.Errorf("texture: %w", err)
		}
		return src, nil
	}
	if cached, ok := lookupCache(src, cacheDir); ok {
		return cached, nil
	}
	return download(ctx, http.DefaultClient, src, cacheDir)
}

// cachePrefix keys cached files by URL so two textures named Logo.png do not collide.
func cachePrefix(url string) string {
	sum := sha1.Sum([]byte(url))
	return hex.EncodeToString(sum[:])[:12] + "-"
}

func lookupCache(url, cacheDir string) (string, bool) {
	matches, err := filepath.Glob(filepath.Join(cacheDir, cachePrefix(url)+"*"))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}

// download fetches url and saves it under destDir. Filename is derived from the URL path
// or Content-Disposition; extension from Content-Type or URL. Returns the saved path.
func download(ctx context.Context, client *http.Client, url, destDir string) (savedPath string, err error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download: %s: HTTP %d", url, resp.StatusCode)
	}
	ext := extensionFromContentType(resp.Header.Get("Content-Type"))
	if ext == "" {
		ext = extensionFromURL(url)
	}
	if ext == "" {
		return "", fmt.Errorf("download: %s: %w", url, ErrUnsupportedFormat)
	}
	name := filenameFromContentDisposition(resp.Header.Get("Content-Disposition"))
	if name == "" {
		name = filenameFromURL(url)
	}
	name = sanitizeFilename(strings.TrimSuffix(name, filepath.Ext(name)))
	savedPath = filepath.Join(destDir, cachePrefix(url)+name+ext)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	// Write to a temp name so an interrupted download never looks cached.
	tmp, err := os.CreateTemp(destDir, ".fetch-*")
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("download: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	if err = os.Rename(tmp.Name(), savedPath); err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	return savedPath, nil
}

// ClearCache removes every cached download.
func ClearCache(cacheDir string) error {
	err := os.RemoveAll(cacheDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func filenameFromContentDisposition(cd string) string {
	cd = strings.TrimSpace(cd)
	// filename="..."; or filename*=UTF-8''...
	if i := strings.Index(cd, "filename*=UTF-8''"); i >= 0 {
		s := cd[i+len("filename*=UTF-8''"):]
		if j := strings.IndexAny(s, ";\r\n"); j >= 0 {
			s = s[:j]
		}
		return strings.Trim(s, "\"")
	}
	if i := strings.Index(cd, "filename="); i >= 0 {
		s := cd[i+len("filename="):]
		if j := strings.IndexAny(s, ";\r\n"); j >= 0 {
			s = s[:j]
		}
		return strings.Trim(s, "\" ")
	}
	return ""
}

func extensionFromContentType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = ct[:idx]
	}
	switch {
	case strings.Contains(ct, "png"):
		return ".png"
	case strings.Contains(ct, "jpeg"), strings.Contains(ct, "jpg"):
		return ".jpg"
	case strings.Contains(ct, "gif"):
		return ".gif"
	case strings.Contains(ct, "webp"):
		return ".webp"
	case strings.Contains(ct, "bmp"):
		return ".bmp"
	case strings.Contains(ct, "zip"):
		return ".zip"
	}
	return ""
}

func extensionFromURL(url string) string {
	path := url
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		path = path[:idx]
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png", ".gif", ".webp", ".bmp", ".zip":
		return ext
	case ".jpg", ".jpeg":
		return ".jpg"
	}
	return ""
}

func filenameFromURL(url string) string {
	path := url
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		path = path[:idx]
	}
	return filepath.Base(path)
}

var safeNameRe = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

func sanitizeFilename(name string) string {
	if name == "" || name == "." || name == "/" {
		return "texture"
	}
	name = safeNameRe.ReplaceAllString(name, "_")
	if len(name) > 96 {
		name = name[:96]
	}
	return name
}
