// ABOUTME: Markdown document transformer built on goldmark.
// ABOUTME: Extracts the title heading, collects image references, rewrites image sources.
package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Document is the parsed representation of a source file. Title holds the text
// of the first top-level heading, which is removed from the body so it cannot
// appear twice in the final payload. The document is rebuilt from source on
// every publish; nothing here is persisted.
type Document struct {
	Title string

	source []byte
	root   ast.Node
	md     goldmark.Markdown
	images []string
}

func newEngine() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			html.WithUnsafe(),
		),
	)
}

// Parse converts raw markdown into a Document: the first level-1 heading
// becomes the title and is dropped from the tree, and every image reference is
// recorded in document order.
func Parse(source []byte) (*Document, error) {
	md := newEngine()
	root := md.Parser().Parse(text.NewReader(source))

	d := &Document{
		source: source,
		root:   root,
		md:     md,
	}

	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		if heading, ok := child.(*ast.Heading); ok && heading.Level == 1 {
			d.Title = nodeText(heading, source)
			root.RemoveChild(root, child)
			break
		}
	}

	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if img, ok := n.(*ast.Image); ok {
				d.images = append(d.images, string(img.Destination))
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan document tree: %w", err)
	}

	return d, nil
}

// Images returns the image reference paths in document order. Duplicates are
// preserved.
func (d *Document) Images() []string {
	return d.images
}

// RewriteImages replaces the destination of every image node whose source path
// has an entry in replacements. Nodes without a matching entry are left
// untouched; nodes sharing a path are all rewritten identically.
func (d *Document) RewriteImages(replacements map[string]string) {
	_ = ast.Walk(d.root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if img, ok := n.(*ast.Image); ok {
				if target, ok := replacements[string(img.Destination)]; ok {
					img.Destination = []byte(target)
				}
			}
		}
		return ast.WalkContinue, nil
	})
}

// Render serializes the current tree to HTML.
func (d *Document) Render() (string, error) {
	var buf bytes.Buffer
	if err := d.md.Renderer().Render(&buf, d.source, d.root); err != nil {
		return "", fmt.Errorf("failed to render document: %w", err)
	}
	return buf.String(), nil
}

// nodeText collects the raw text content beneath n.
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := c.(*ast.Text); ok {
				sb.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
