package assembly

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docpack/docpack/internal/availability"
	"github.com/docpack/docpack/internal/navigator"
	"github.com/docpack/docpack/internal/render"
)

// BuiltBundle is the output of assembling one documentation bundle: the
// per-page render nodes, the navigator tree mirroring the bundle layout, and
// the availability index built up during projection.
type BuiltBundle struct {
	Identifier   string
	Pages        map[string]*render.Page
	Tree         *navigator.Tree
	Availability *availability.Index
}

// BuildBundle walks the authored .md files under dir, assembles a render
// page for each, and organizes the pages into a navigator tree that mirrors
// the directory layout (directories become group nodes).
func BuildBundle(dir, identifier string) (*BuiltBundle, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".md") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking bundle %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("bundle %s contains no .md files", dir)
	}
	sort.Strings(files)

	bundle := &BuiltBundle{
		Identifier:   identifier,
		Pages:        map[string]*render.Page{},
		Tree:         navigator.NewTree(identifier),
		Availability: availability.NewIndex(),
	}
	groups := map[string]*navigator.Node{"": bundle.Tree.Root}

	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}

		rel, err := filepath.Rel(dir, file)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", file, err)
		}
		rel = strings.TrimSuffix(filepath.ToSlash(rel), ".md")
		pagePath := "/documentation/" + rel

		page := assemblePage(src, identifier, pagePath, rel)
		bundle.Pages[pagePath] = page

		item := ProjectItem(page.Metadata, page.Kind, pagePath, availability.LanguageSwift, bundle.Availability)
		parent := groupNode(groups, path.Dir(rel))
		parent.AddChild(navigator.NewNode(item))
	}
	return bundle, nil
}

// assemblePage converts one authored file into a render page. A leading
// level-1 heading becomes the page title and is dropped from the content; the
// first paragraph doubles as the abstract.
func assemblePage(src []byte, identifier, pagePath, rel string) *render.Page {
	content := ConvertMarkup(src)

	title := path.Base(rel)
	if len(content) > 0 {
		if h, ok := content[0].(render.Heading); ok && h.Level == 1 {
			title = h.Text
			content = content[1:]
		}
	}

	var abstract render.InlineContents
	for _, block := range content {
		if p, ok := block.(render.Paragraph); ok {
			abstract = p.InlineContent
			break
		}
	}

	return &render.Page{
		SchemaVersion: render.CurrentSchemaVersion,
		Identifier:    "doc://" + identifier + pagePath,
		Kind:          "article",
		Metadata:      render.Metadata{Title: title, Role: "article"},
		Abstract:      abstract,
		Content:       content,
	}
}

// groupNode resolves (creating as needed) the group node for a directory,
// building intermediate groups down from the root.
func groupNode(groups map[string]*navigator.Node, dir string) *navigator.Node {
	if dir == "." {
		dir = ""
	}
	if n, ok := groups[dir]; ok {
		return n
	}

	parent := groupNode(groups, path.Dir(dir))
	n := navigator.NewNode(navigator.NewPathlessItem(
		navigator.PageTypeGroup,
		availability.LanguageAny.Mask,
		path.Base(dir),
		availability.PlatformAny.Mask,
		0,
	))
	parent.AddChild(n)
	groups[dir] = n
	return n
}
