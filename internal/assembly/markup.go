package assembly

import (
	"strings"

	gm "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	gmparser "github.com/gomarkdown/markdown/parser"

	"github.com/docpack/docpack/internal/render"
)

// ConvertMarkup parses authored markdown and converts it into the render
// block-content tree. Constructs the converter does not understand fold to
// their plain text rather than being dropped.
func ConvertMarkup(src []byte) render.BlockContents {
	doc := gm.Parse(src, gmparser.NewWithExtensions(
		gmparser.CommonExtensions|gmparser.Autolink,
	))
	return convertBlocks(doc.GetChildren())
}

func convertBlocks(nodes []ast.Node) render.BlockContents {
	var out render.BlockContents
	for _, node := range nodes {
		if block := convertBlock(node); block != nil {
			out = append(out, block)
		}
	}
	return out
}

func convertBlock(node ast.Node) render.BlockContent {
	switch n := node.(type) {
	case *ast.Heading:
		return render.Heading{Level: n.Level, Text: textOf(n), Anchor: n.HeadingID}
	case *ast.Paragraph:
		return render.Paragraph{InlineContent: convertInlines(n.GetChildren())}
	case *ast.CodeBlock:
		code := strings.Split(strings.TrimRight(string(n.Literal), "\n"), "\n")
		return render.CodeListing{Syntax: string(n.Info), Code: code}
	case *ast.List:
		children := n.GetChildren()
		items := make([]render.ListItem, 0, len(children))
		for _, child := range children {
			items = append(items, render.ListItem{Content: convertBlocks(child.GetChildren())})
		}
		if n.ListFlags&ast.ListTypeOrdered != 0 {
			return render.OrderedList{Items: items}
		}
		return render.UnorderedList{Items: items}
	case *ast.BlockQuote:
		return convertAside(n)
	case *ast.Table:
		return convertTable(n)
	case *ast.HorizontalRule:
		return render.ThematicBreak{}
	default:
		if text := textOf(node); text != "" {
			return render.Paragraph{InlineContent: render.InlineContents{render.Text{Text: text}}}
		}
		return nil
	}
}

// asideStyles maps recognized callout labels at the head of a quote to their
// aside style.
var asideStyles = map[string]string{
	"note":       "note",
	"important":  "important",
	"warning":    "warning",
	"tip":        "tip",
	"experiment": "experiment",
}

// convertAside turns a block quote into a styled callout. A leading
// "Label: ..." text whose label is a known style sets the style and is
// stripped from the content; anything else stays a plain note.
func convertAside(quote *ast.BlockQuote) render.Aside {
	content := convertBlocks(quote.GetChildren())
	aside := render.Aside{Style: "note", Content: content}

	if len(content) == 0 {
		return aside
	}
	para, ok := content[0].(render.Paragraph)
	if !ok || len(para.InlineContent) == 0 {
		return aside
	}
	text, ok := para.InlineContent[0].(render.Text)
	if !ok {
		return aside
	}
	label, rest, found := strings.Cut(text.Text, ":")
	if !found {
		return aside
	}
	style, known := asideStyles[strings.ToLower(strings.TrimSpace(label))]
	if !known {
		return aside
	}

	aside.Style = style
	aside.Name = strings.TrimSpace(label)
	para.InlineContent[0] = render.Text{Text: strings.TrimLeft(rest, " ")}
	content[0] = para
	return aside
}

func convertTable(table *ast.Table) render.Table {
	out := render.Table{Header: render.HeaderNone}

	for _, section := range table.GetChildren() {
		isHeader := false
		switch section.(type) {
		case *ast.TableHeader:
			isHeader = true
		case *ast.TableBody, *ast.TableFooter:
		default:
			continue
		}

		for _, row := range section.GetChildren() {
			var cells []render.BlockContents
			for _, cell := range row.GetChildren() {
				c, ok := cell.(*ast.TableCell)
				if !ok {
					continue
				}
				if isHeader && len(out.Rows) == 0 {
					out.Alignments = append(out.Alignments, alignmentName(c.Align))
				}
				cells = append(cells, render.BlockContents{
					render.Paragraph{InlineContent: convertInlines(c.GetChildren())},
				})
			}
			out.Rows = append(out.Rows, render.TableRow{Cells: cells})
		}
		if isHeader {
			out.Header = render.HeaderRow
		}
	}
	return out
}

func alignmentName(align ast.CellAlignFlags) string {
	switch align {
	case ast.TableAlignmentLeft:
		return "left"
	case ast.TableAlignmentRight:
		return "right"
	case ast.TableAlignmentCenter:
		return "center"
	default:
		return "unset"
	}
}

func convertInlines(nodes []ast.Node) render.InlineContents {
	var out render.InlineContents
	for _, node := range nodes {
		switch n := node.(type) {
		case *ast.Text:
			if len(n.Literal) > 0 {
				out = append(out, render.Text{Text: string(n.Literal)})
			}
		case *ast.Emph:
			out = append(out, render.Emphasis{InlineContent: convertInlines(n.GetChildren())})
		case *ast.Strong:
			out = append(out, render.Strong{InlineContent: convertInlines(n.GetChildren())})
		case *ast.Del:
			out = append(out, render.Strikethrough{InlineContent: convertInlines(n.GetChildren())})
		case *ast.Code:
			out = append(out, render.CodeVoice{Code: string(n.Literal)})
		case *ast.Link:
			out = append(out, render.Reference{
				Identifier:                   string(n.Destination),
				IsActive:                     true,
				OverridingTitleInlineContent: convertInlines(n.GetChildren()),
			})
		case *ast.Image:
			out = append(out, render.Image{Identifier: string(n.Destination)})
		case *ast.Softbreak, *ast.Hardbreak:
			out = append(out, render.Text{Text: " "})
		default:
			if text := textOf(node); text != "" {
				out = append(out, render.Text{Text: text})
			}
		}
	}
	return out
}

// textOf concatenates the literal text under a node.
func textOf(node ast.Node) string {
	var b strings.Builder
	ast.WalkFunc(node, func(n ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		if leaf := n.AsLeaf(); leaf != nil {
			b.Write(leaf.Literal)
		}
		return ast.GoToNext
	})
	return b.String()
}
