package mcp

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/docpack/docpack/internal/archive"
	"github.com/docpack/docpack/internal/searchindex"
)

//go:embed instructions.md
var instructions string

// Server exposes compiled archives over MCP stdio: keyword search against
// the search index and page reads from the archive blobs.
type Server struct {
	mcpServer  *server.MCPServer
	db         *searchindex.DB
	archiveDir string
}

// NewServer wires a server over the archive root (one subdirectory per
// bundle identifier) and the search index database.
func NewServer(archiveDir, dbPath string) (*Server, error) {
	db, err := searchindex.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening search index: %w", err)
	}

	s := &Server{db: db, archiveDir: archiveDir}

	mcpServer := server.NewMCPServer(
		"docpack",
		"0.1.0",
		server.WithInstructions(instructions),
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerTools(mcpServer)
	s.registerResources(mcpServer)

	s.mcpServer = mcpServer
	return s, nil
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("search_docs",
			mcp.WithDescription("Keyword search across compiled documentation archives. Returns docpack:// URIs that can be read as resources. Use `bundles` to restrict the search; omit to search every indexed bundle."),
			mcp.WithString("query",
				mcp.Description("Search query (page title or keyword)"),
				mcp.Required(),
			),
			mcp.WithArray("bundles",
				mcp.Description("Optional list of bundle identifiers to search within"),
				mcp.Items(map[string]interface{}{"type": "string"}),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of results (default 20)"),
			),
		),
		s.handleSearchDocs,
	)

	mcpServer.AddTool(
		mcp.NewTool("get_page",
			mcp.WithDescription("Read one documentation page's plain text from a compiled archive."),
			mcp.WithString("bundle",
				mcp.Description("Bundle identifier (e.g., \"com.example.docs\")"),
				mcp.Required(),
			),
			mcp.WithString("path",
				mcp.Description("Page path (e.g., \"/documentation/example/session\")"),
				mcp.Required(),
			),
		),
		s.handleGetPage,
	)
}

func (s *Server) registerResources(mcpServer *server.MCPServer) {
	mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"docpack://{bundle}/{path}",
			"Documentation page",
			mcp.WithTemplateDescription("Read a specific documentation page. Search results return these URIs."),
			mcp.WithTemplateMIMEType("text/markdown"),
		),
		s.handleReadResource,
	)
}

type searchHit struct {
	URI     string `json:"uri"`
	Title   string `json:"title"`
	Bundle  string `json:"bundle"`
	Snippet string `json:"snippet,omitempty"`
}

func (s *Server) handleSearchDocs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	query, _ := args["query"].(string)
	if query == "" {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	var bundles []string
	if bundlesRaw, ok := args["bundles"]; ok {
		bundlesJSON, _ := json.Marshal(bundlesRaw)
		json.Unmarshal(bundlesJSON, &bundles)
	}
	limit := 20
	if n, ok := args["limit"].(float64); ok {
		limit = int(n)
	}

	results, err := s.db.Search(query, limit, bundles...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	hits := make([]searchHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, searchHit{
			URI:     "docpack://" + r.Bundle + r.Path,
			Title:   r.Title,
			Bundle:  r.Bundle,
			Snippet: r.Snippet,
		})
	}

	resultJSON, _ := json.MarshalIndent(hits, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (s *Server) handleGetPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	bundle, _ := args["bundle"].(string)
	path, _ := args["path"].(string)
	if bundle == "" || path == "" {
		return mcp.NewToolResultError("missing required parameters: bundle, path"), nil
	}

	text, err := s.pageText(bundle, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading page: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleReadResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	trimmed := strings.TrimPrefix(uri, "docpack://")
	bundle, path, found := strings.Cut(trimmed, "/")
	if !found || bundle == "" {
		return nil, fmt.Errorf("invalid resource URI: %s", uri)
	}

	text, err := s.pageText(bundle, "/"+path)
	if err != nil {
		return nil, fmt.Errorf("getting page: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/markdown",
			Text:     text,
		},
	}, nil
}

// pageText loads a page from the bundle's archive and folds it to text.
func (s *Server) pageText(bundle, path string) (string, error) {
	a, err := archive.Open(filepath.Join(s.archiveDir, bundle))
	if err != nil {
		return "", err
	}
	page, err := a.Page(path)
	if err != nil {
		return "", err
	}
	title := page.Metadata.Title
	body := page.PlainText()
	if title == "" {
		return body, nil
	}
	return title + "\n\n" + body, nil
}

func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) Shutdown(_ context.Context) error {
	return s.db.Close()
}
