// ABOUTME: Reconciles locally referenced images against the remote media library.
// ABOUTME: Builds the replacement map, uploads only the delta, never re-uploads.
package media

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/h2non/filetype"

	"github.com/draftsmith/wpbridge/internal/wordpress"
)

// Lister fetches the remote media library listing.
type Lister interface {
	ListMedia(ctx context.Context) ([]wordpress.MediaItem, int, error)
}

// Uploader pushes one file's bytes to the remote media library.
type Uploader interface {
	UploadMedia(ctx context.Context, filename, contentType string, data []byte) (*wordpress.MediaItem, int, error)
}

// Entry pairs a local image path with its remote URL. TargetURL is empty until
// the image is known to exist remotely.
type Entry struct {
	LocalPath string
	TargetURL string
}

// Map is the replacement map keyed by deterministic target filename. The key is
// the join key against remote library filenames: re-running a publish finds the
// previous upload under the same name and skips it.
type Map map[string]Entry

// TargetFilename derives the deterministic remote filename for a local image
// reference. Pure: the same (postID, localPath) pair always yields the same name.
func TargetFilename(postID int, localPath string) string {
	return fmt.Sprintf("%d-%s", postID, path.Base(localPath))
}

// BuildMap fetches the remote listing once and joins each local reference
// against it by target filename. References already present remotely get their
// existing URL; the rest are left absent for UploadMissing. The returned int is
// the HTTP status of the listing call.
func BuildMap(ctx context.Context, lister Lister, postID int, refs []string) (Map, int, error) {
	items, status, err := lister.ListMedia(ctx)
	if err != nil {
		return nil, status, err
	}

	remote := make(map[string]string, len(items))
	for _, item := range items {
		url := item.SourceURL()
		if url == "" {
			continue
		}
		remote[path.Base(url)] = url
	}

	m := make(Map, len(refs))
	for _, ref := range refs {
		name := TargetFilename(postID, ref)
		m[name] = Entry{
			LocalPath: ref,
			TargetURL: remote[name],
		}
	}
	return m, status, nil
}

// UploadMissing uploads every entry without a TargetURL, reading local files
// relative to baseDir. Entries that already have a URL are left untouched.
// Uploads run sequentially in sorted key order; the first failure aborts.
// The returned int is the HTTP status of the last upload attempted.
func UploadMissing(ctx context.Context, uploader Uploader, m Map, baseDir string) (int, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		if m[name].TargetURL == "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	lastStatus := 0
	for _, name := range names {
		entry := m[name]

		localPath := filepath.Join(baseDir, filepath.FromSlash(entry.LocalPath))
		data, err := os.ReadFile(localPath)
		if err != nil {
			return lastStatus, fmt.Errorf("failed to read image %s: %w", entry.LocalPath, err)
		}

		item, status, err := uploader.UploadMedia(ctx, name, DetectContentType(entry.LocalPath, data), data)
		lastStatus = status
		if err != nil {
			return status, err
		}
		if item.SourceURL() == "" {
			return status, fmt.Errorf("upload response for %s missing canonical URL", name)
		}

		entry.TargetURL = item.SourceURL()
		m[name] = entry
	}
	return lastStatus, nil
}

// Rewrites returns the local-path to remote-URL substitution map for the
// document link rewriter. Entries still missing a URL are excluded.
func (m Map) Rewrites() map[string]string {
	out := make(map[string]string, len(m))
	for _, entry := range m {
		if entry.TargetURL != "" {
			out[entry.LocalPath] = entry.TargetURL
		}
	}
	return out
}

// DetectContentType guesses a content type from the path's extension, falling
// back to magic-number detection on the file bytes when the extension is
// unknown.
func DetectContentType(localPath string, data []byte) string {
	if ct := mime.TypeByExtension(path.Ext(localPath)); ct != "" {
		return ct
	}
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	return "application/octet-stream"
}
