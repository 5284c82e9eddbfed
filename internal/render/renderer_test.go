package render

import (
	"fmt"
	"strings"
	"testing"
)

func TestDocumentEnvelope(t *testing.T) {
	body := `<h1>Jane Doe</h1><p class="contact-info">jane@example.com</p>`
	doc := fmt.Sprintf(documentEnvelope, body)

	if !strings.Contains(doc, body) {
		t.Fatalf("body not embedded in envelope")
	}
	if !strings.Contains(doc, "@page { size: letter; margin: 0.6in; }") {
		t.Fatalf("page rule missing from envelope")
	}
	if !strings.Contains(doc, "width: 100%;") {
		t.Fatalf("percent escaping broke the stylesheet:\n%s", doc)
	}
	if strings.Contains(doc, "%!") {
		t.Fatalf("format verb leaked into document:\n%s", doc)
	}
	if got := strings.Count(doc, "<body>"); got != 1 {
		t.Fatalf("expected one body element, got %d", got)
	}
}
