// ABOUTME: Tests for the markdown document transformer.
// ABOUTME: Covers title extraction/removal, image collection order, and link rewriting.
package document

import (
	"strings"
	"testing"
)

const sample = `# Hello World

Some opening paragraph.

![first](img/a.png)

More text in between.

![second](img/b.jpg)
`

func TestParseExtractsTitle(t *testing.T) {
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if doc.Title != "Hello World" {
		t.Errorf("expected title 'Hello World', got %q", doc.Title)
	}
}

func TestParseRemovesTitleFromBody(t *testing.T) {
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	body, err := doc.Render()
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if strings.Contains(body, "<h1") {
		t.Errorf("expected no h1 in body after title removal, got: %s", body)
	}
	if strings.Contains(body, "Hello World") {
		t.Errorf("expected title text removed from body, got: %s", body)
	}
	if !strings.Contains(body, "Some opening paragraph.") {
		t.Errorf("expected body content preserved, got: %s", body)
	}
}

func TestParseOnlyFirstTopLevelHeadingIsTitle(t *testing.T) {
	src := "# First\n\ntext\n\n# Second\n"
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if doc.Title != "First" {
		t.Errorf("expected title 'First', got %q", doc.Title)
	}

	body, err := doc.Render()
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(body, "Second") {
		t.Errorf("expected later heading kept in body, got: %s", body)
	}
}

func TestParseNoTopLevelHeading(t *testing.T) {
	doc, err := Parse([]byte("## Subheading\n\ntext\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if doc.Title != "" {
		t.Errorf("expected empty title, got %q", doc.Title)
	}

	body, err := doc.Render()
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(body, "<h2") {
		t.Errorf("expected subheading preserved, got: %s", body)
	}
}

func TestParseCollectsImagesInOrder(t *testing.T) {
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	images := doc.Images()
	if len(images) != 2 {
		t.Fatalf("expected 2 images, got %d: %v", len(images), images)
	}
	if images[0] != "img/a.png" || images[1] != "img/b.jpg" {
		t.Errorf("unexpected image order: %v", images)
	}
}

func TestParseDuplicateImagePaths(t *testing.T) {
	src := "![one](img/a.png)\n\n![two](img/a.png)\n"
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(doc.Images()) != 2 {
		t.Errorf("expected duplicates preserved, got %v", doc.Images())
	}
}

func TestRewriteImages(t *testing.T) {
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	doc.RewriteImages(map[string]string{
		"img/a.png": "https://x/u/42-a.png",
		"img/b.jpg": "https://x/u/42-b.jpg",
	})

	body, err := doc.Render()
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(body, `src="https://x/u/42-a.png"`) {
		t.Errorf("expected first image rewritten, got: %s", body)
	}
	if !strings.Contains(body, `src="https://x/u/42-b.jpg"`) {
		t.Errorf("expected second image rewritten, got: %s", body)
	}
	if strings.Contains(body, `src="img/`) {
		t.Errorf("expected no local image sources left, got: %s", body)
	}
}

func TestRewriteImagesLeavesUnmatchedNodes(t *testing.T) {
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	doc.RewriteImages(map[string]string{
		"img/a.png": "https://x/u/42-a.png",
	})

	body, err := doc.Render()
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(body, `src="https://x/u/42-a.png"`) {
		t.Errorf("expected matched image rewritten, got: %s", body)
	}
	if !strings.Contains(body, `src="img/b.jpg"`) {
		t.Errorf("expected unmatched image untouched, got: %s", body)
	}
}

func TestRewriteImagesSharedPathRewrittenIdentically(t *testing.T) {
	src := "![one](img/a.png)\n\n![two](img/a.png)\n"
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	doc.RewriteImages(map[string]string{"img/a.png": "https://x/u/7-a.png"})

	body, err := doc.Render()
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if strings.Count(body, `src="https://x/u/7-a.png"`) != 2 {
		t.Errorf("expected both nodes rewritten identically, got: %s", body)
	}
}

func TestRenderMarkdownFeatures(t *testing.T) {
	src := "# T\n\nSome **bold** text and a [link](https://example.com).\n\n- item\n"
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	body, err := doc.Render()
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(body, "<strong>bold</strong>") {
		t.Errorf("expected bold rendered, got: %s", body)
	}
	if !strings.Contains(body, `<a href="https://example.com">link</a>`) {
		t.Errorf("expected link rendered, got: %s", body)
	}
	if !strings.Contains(body, "<li>item</li>") {
		t.Errorf("expected list rendered, got: %s", body)
	}
}
