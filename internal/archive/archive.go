package archive

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/zstd"

	"github.com/docpack/docpack/internal/availability"
	"github.com/docpack/docpack/internal/navigator"
	"github.com/docpack/docpack/internal/render"
)

// Well-known file names inside an archive directory.
const (
	ManifestName     = "manifest.json"
	NavigatorName    = "navigator.index"
	AvailabilityName = "availability.json"
	dataDir          = "data"
)

// Manifest maps page paths to the content hashes of their render JSON. It is
// the archive's table of contents; the blobs themselves live in the sharded
// data directory.
type Manifest struct {
	BundleIdentifier string            `json:"bundleIdentifier"`
	Pages            map[string]string `json:"pages"`
}

// blobPath returns the sharded file path for a hash:
// data/<first2>/<rest>.json.zst
func blobPath(dir, hash string) string {
	return filepath.Join(dir, dataDir, hash[:2], hash[2:]+".json.zst")
}

// writeBlob compresses content into the sharded store, returning its SHA-256
// hash. Writing content that already exists is a no-op.
func writeBlob(dir string, content []byte) (string, error) {
	hash := fmt.Sprintf("%x", sha256.Sum256(content))

	p := blobPath(dir, hash)
	if _, err := os.Stat(p); err == nil {
		return hash, nil
	}

	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return "", fmt.Errorf("creating archive data directory: %w", err)
	}

	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	if err != nil {
		return "", fmt.Errorf("creating zstd writer: %w", err)
	}
	if _, err := w.Write(content); err != nil {
		w.Close()
		return "", fmt.Errorf("compressing archive blob: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("closing zstd writer: %w", err)
	}

	if err := os.WriteFile(p, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("writing archive blob: %w", err)
	}
	return hash, nil
}

// readBlob retrieves and decompresses a blob by hash.
func readBlob(dir, hash string) ([]byte, error) {
	f, err := os.Open(blobPath(dir, hash))
	if err != nil {
		return nil, fmt.Errorf("reading archive blob %s: %w", hash, err)
	}
	defer f.Close()

	r, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompressing archive blob %s: %w", hash, err)
	}
	return data, nil
}

// Writer accumulates an archive on disk: pages into the blob store, then the
// navigator and availability indexes, then the manifest on Finalize. A Writer
// is single-use and not safe for concurrent use.
type Writer struct {
	dir      string
	manifest Manifest
}

// NewWriter starts a fresh archive at dir, creating the directory if needed.
func NewWriter(dir, bundleIdentifier string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating archive directory %s: %w", dir, err)
	}
	return &Writer{
		dir: dir,
		manifest: Manifest{
			BundleIdentifier: bundleIdentifier,
			Pages:            map[string]string{},
		},
	}, nil
}

// AddPage encodes a page and stores it under pagePath, returning the content
// hash. Adding the same path twice keeps the last write.
func (w *Writer) AddPage(pagePath string, page *render.Page) (string, error) {
	data, err := render.EncodePage(page)
	if err != nil {
		return "", err
	}
	hash, err := writeBlob(w.dir, data)
	if err != nil {
		return "", err
	}
	w.manifest.Pages[pagePath] = hash
	return hash, nil
}

// SetNavigator serializes the navigator tree to the archive root.
func (w *Writer) SetNavigator(tree *navigator.Tree, opts navigator.WriteOptions) error {
	return tree.WriteTo(filepath.Join(w.dir, NavigatorName), opts)
}

// SetAvailability serializes the availability index to the archive root.
func (w *Writer) SetAvailability(ix *availability.Index) error {
	data, err := json.Marshal(ix)
	if err != nil {
		return fmt.Errorf("encoding availability index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(w.dir, AvailabilityName), data, 0644); err != nil {
		return fmt.Errorf("writing availability index: %w", err)
	}
	return nil
}

// Finalize writes the manifest. Pages added after Finalize are lost.
func (w *Writer) Finalize() error {
	data, err := json.MarshalIndent(w.manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(w.dir, ManifestName), data, 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// Archive is the read side: a finalized archive directory.
type Archive struct {
	dir      string
	manifest Manifest
}

// Open reads the manifest of an existing archive.
func Open(dir string) (*Archive, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", dir, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding manifest in %s: %w", dir, err)
	}
	return &Archive{dir: dir, manifest: m}, nil
}

// BundleIdentifier returns the bundle this archive was built from.
func (a *Archive) BundleIdentifier() string {
	return a.manifest.BundleIdentifier
}

// Paths returns every page path in the archive, sorted.
func (a *Archive) Paths() []string {
	out := make([]string, 0, len(a.manifest.Pages))
	for p := range a.manifest.Pages {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Hash returns the content hash recorded for a page path.
func (a *Archive) Hash(pagePath string) (string, bool) {
	hash, ok := a.manifest.Pages[pagePath]
	return hash, ok
}

// PageJSON returns the raw render JSON for a page path.
func (a *Archive) PageJSON(pagePath string) ([]byte, error) {
	hash, ok := a.manifest.Pages[pagePath]
	if !ok {
		return nil, fmt.Errorf("archive %s has no page %q", a.dir, pagePath)
	}
	return readBlob(a.dir, hash)
}

// Page decodes the render page stored at a page path.
func (a *Archive) Page(pagePath string) (*render.Page, error) {
	data, err := a.PageJSON(pagePath)
	if err != nil {
		return nil, err
	}
	return render.DecodePage(data)
}

// NavigatorPath returns the path of the binary navigator index file, for
// callers that drive their own (paced) read.
func (a *Archive) NavigatorPath() string {
	return filepath.Join(a.dir, NavigatorName)
}

// Navigator reads the navigator tree atomically.
func (a *Archive) Navigator() (*navigator.Tree, error) {
	return navigator.ReadFrom(a.NavigatorPath())
}

// Availability reads the availability index.
func (a *Archive) Availability() (*availability.Index, error) {
	data, err := os.ReadFile(filepath.Join(a.dir, AvailabilityName))
	if err != nil {
		return nil, fmt.Errorf("reading availability index: %w", err)
	}
	ix := availability.NewIndex()
	if err := json.Unmarshal(data, ix); err != nil {
		return nil, fmt.Errorf("decoding availability index: %w", err)
	}
	return ix, nil
}
