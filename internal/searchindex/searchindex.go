package searchindex

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	_ "github.com/marcboeker/go-duckdb"
)

// DB is the page text index: one row per archived page, holding the page's
// plain-text fold for substring search.
type DB struct {
	conn *sql.DB
}

// New opens (creating if necessary) the search index at dbPath.
func New(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	conn, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening search index: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema() error {
	queries := []string{
		`CREATE SEQUENCE IF NOT EXISTS seq_page_id START 1;`,

		`CREATE TABLE IF NOT EXISTS pages (
			id INTEGER PRIMARY KEY,
			bundle TEXT NOT NULL,
			path TEXT NOT NULL,
			title TEXT NOT NULL,
			page_type INTEGER NOT NULL,
			content TEXT NOT NULL,
			indexed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(bundle, path)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pages_bundle ON pages (bundle)`,
		`CREATE INDEX IF NOT EXISTS idx_pages_title ON pages (title)`,
	}

	for _, q := range queries {
		if _, err := db.conn.Exec(q); err != nil {
			return fmt.Errorf("executing %q: %w", q, err)
		}
	}
	return nil
}

// Page is one indexable page record.
type Page struct {
	Bundle   string
	Path     string
	Title    string
	PageType uint8
	Content  string
}

// InsertPage adds one page row.
func (db *DB) InsertPage(p Page) error {
	_, err := db.conn.Exec(
		`INSERT INTO pages (id, bundle, path, title, page_type, content)
		 VALUES (nextval('seq_page_id'), ?, ?, ?, ?, ?)`,
		p.Bundle, p.Path, p.Title, int(p.PageType), p.Content,
	)
	if err != nil {
		return fmt.Errorf("inserting page %s: %w", p.Path, err)
	}
	return nil
}

// DeleteBundle drops every page indexed for a bundle.
func (db *DB) DeleteBundle(bundle string) error {
	_, err := db.conn.Exec(`DELETE FROM pages WHERE bundle = ?`, bundle)
	return err
}

// ReplaceBundle swaps a bundle's rows for a freshly extracted set. Rebuilds
// call this so a page deleted from the bundle disappears from the index.
func (db *DB) ReplaceBundle(bundle string, pages []Page) error {
	if err := db.DeleteBundle(bundle); err != nil {
		return fmt.Errorf("clearing bundle %s: %w", bundle, err)
	}
	for _, p := range pages {
		p.Bundle = bundle
		if err := db.InsertPage(p); err != nil {
			return err
		}
	}
	return nil
}

// CountPages returns the number of rows indexed for a bundle.
func (db *DB) CountPages(bundle string) (int, error) {
	var count int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM pages WHERE bundle = ?`, bundle).Scan(&count)
	return count, err
}

// ListBundles returns the bundles present in the index, sorted.
func (db *DB) ListBundles() ([]string, error) {
	rows, err := db.conn.Query(`SELECT DISTINCT bundle FROM pages ORDER BY bundle`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bundles []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, err
		}
		bundles = append(bundles, b)
	}
	return bundles, nil
}

// SearchResult is one ranked match.
type SearchResult struct {
	Bundle   string
	Path     string
	Title    string
	PageType uint8
	Rank     int
	Snippet  string
}

// Search runs a case-insensitive substring query over titles and content.
// Exact title matches rank above title substrings, which rank above content
// matches. When bundles are given, the search is restricted to them.
func (db *DB) Search(query string, limit int, bundles ...string) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	var bundleFilter string
	pattern := escapeLike(query)
	params := []interface{}{query, pattern, pattern, pattern}
	if len(bundles) > 0 {
		placeholders := make([]string, len(bundles))
		for i, b := range bundles {
			placeholders[i] = "?"
			params = append(params, b)
		}
		bundleFilter = fmt.Sprintf(` AND bundle IN (%s)`, strings.Join(placeholders, ","))
	}
	params = append(params, limit)

	sqlQuery := fmt.Sprintf(`
		SELECT bundle, path, title, page_type, content,
		       CASE WHEN lower(title) = lower(?) THEN 3
		            WHEN title ILIKE '%%' || ? || '%%' ESCAPE '\' THEN 2
		            ELSE 1 END AS rank
		FROM pages
		WHERE (title ILIKE '%%' || ? || '%%' ESCAPE '\' OR content ILIKE '%%' || ? || '%%' ESCAPE '\')%s
		ORDER BY rank DESC, title, path
		LIMIT ?`, bundleFilter)

	rows, err := db.conn.Query(sqlQuery, params...)
	if err != nil {
		return nil, fmt.Errorf("searching pages: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var pageType int
		var content string
		if err := rows.Scan(&r.Bundle, &r.Path, &r.Title, &pageType, &content, &r.Rank); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		r.PageType = uint8(pageType)
		r.Snippet = snippet(content, query)
		results = append(results, r)
	}
	return results, nil
}

// snippetContext is how many characters of context a snippet keeps on each
// side of the first match.
const snippetContext = 60

// snippet extracts the text around the first case-insensitive occurrence of
// query in content, or the head of the content when nothing matches. Cut
// points are clamped to rune boundaries so multi-byte text never splits.
func snippet(content, query string) string {
	content = strings.ReplaceAll(content, "\n", " ")
	idx := strings.Index(strings.ToLower(content), strings.ToLower(query))
	if idx < 0 {
		if len(content) > 2*snippetContext {
			return content[:runeFloor(content, 2*snippetContext)] + "…"
		}
		return content
	}

	start := runeFloor(content, idx-snippetContext)
	end := runeCeil(content, idx+len(query)+snippetContext)

	out := content[start:end]
	if start > 0 {
		out = "…" + out
	}
	if end < len(content) {
		out += "…"
	}
	return out
}

// escapeLike neutralizes LIKE metacharacters so a query term matches them
// literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// runeFloor moves i backward to the nearest rune boundary at or before it.
func runeFloor(s string, i int) int {
	if i < 0 {
		return 0
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// runeCeil moves i forward to the nearest rune boundary at or after it.
func runeCeil(s string, i int) int {
	if i > len(s) {
		return len(s)
	}
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}
