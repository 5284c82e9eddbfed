// Package contact decorates the contact-info line of generated resume markup.
// It recognizes emails, phone numbers, and LinkedIn/GitHub handles inside the
// contact paragraph and wraps each in a styled span, leaving everything
// outside the paragraph untouched.
package contact

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Category identifies a recognized contact field.
type Category string

const (
	CategoryEmail    Category = "email"
	CategoryPhone    Category = "phone"
	CategoryLinkedIn Category = "linkedin"
	CategoryGitHub   Category = "github"
)

var (
	contactParagraphRe = regexp.MustCompile(`(?s)(<p class="contact-info">)(.*?)(</p>)`)

	emailRe    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe    = regexp.MustCompile(`\+?\d[\d ().\-]{6,}\d`)
	linkedinRe = regexp.MustCompile(`(?:https?://)?(?:www\.)?linkedin\.com/in/[A-Za-z0-9_\-%.]+`)
	githubRe   = regexp.MustCompile(`(?:https?://)?(?:www\.)?github\.com/[A-Za-z0-9_\-]+`)

	// Recognition order doubles as the tie-break: a substring consumed by an
	// earlier category is never re-classified by a later one.
	categoryOrder = []struct {
		cat Category
		re  *regexp.Regexp
	}{
		{CategoryEmail, emailRe},
		{CategoryPhone, phoneRe},
		{CategoryLinkedIn, linkedinRe},
		{CategoryGitHub, githubRe},
	}
)

// Classifier tags contact fields with category-specific decoration. Icon
// assets are read from AssetsDir on every call; a missing icon degrades to
// plain spans without error.
type Classifier struct {
	AssetsDir string
}

// NewClassifier constructs a Classifier reading icons from assetsDir.
func NewClassifier(assetsDir string) *Classifier {
	return &Classifier{AssetsDir: assetsDir}
}

// Classify decorates contact fields inside the contact-info paragraph.
// Markup outside the paragraph is returned unchanged; if no contact
// paragraph exists, the input is returned as-is.
func (cl *Classifier) Classify(markup string) string {
	return contactParagraphRe.ReplaceAllStringFunc(markup, func(paragraph string) string {
		parts := contactParagraphRe.FindStringSubmatch(paragraph)
		if len(parts) != 4 {
			return paragraph
		}
		return parts[1] + cl.decorate(parts[2]) + parts[3]
	})
}

type span struct {
	start, end int
	cat        Category
}

func (cl *Classifier) decorate(inner string) string {
	var spans []span
	for _, entry := range categoryOrder {
		for _, loc := range entry.re.FindAllStringIndex(inner, -1) {
			if overlaps(spans, loc[0], loc[1]) {
				continue
			}
			spans = append(spans, span{start: loc[0], end: loc[1], cat: entry.cat})
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var b strings.Builder
	prev := 0
	for _, sp := range spans {
		b.WriteString(restyleSeparators(inner[prev:sp.start]))
		b.WriteString(cl.wrap(inner[sp.start:sp.end], sp.cat))
		prev = sp.end
	}
	b.WriteString(restyleSeparators(inner[prev:]))
	return b.String()
}

// wrap decorates a single recognized field. The original text is preserved
// verbatim inside the span so that stripping markup recovers the input.
func (cl *Classifier) wrap(text string, cat Category) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf(`<span class="contact-item contact-%s">`, cat))
	if icon := cl.iconDataURI(cat); icon != "" {
		b.WriteString(fmt.Sprintf(`<img src="%s" class="contact-icon" />`, icon))
	}
	switch cat {
	case CategoryLinkedIn, CategoryGitHub:
		b.WriteString(fmt.Sprintf(`<a href="%s" class="contact-link">%s</a>`, normalizeURL(text), text))
	default:
		b.WriteString(text)
	}
	b.WriteString(`</span>`)
	return b.String()
}

// iconDataURI reads the category icon and embeds it inline. Returns "" when
// the asset is unavailable, which degrades the decoration to a plain span.
func (cl *Classifier) iconDataURI(cat Category) string {
	if cl.AssetsDir == "" {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(cl.AssetsDir, "icons", string(cat)+".png"))
	if err != nil {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}

func normalizeURL(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}

func restyleSeparators(s string) string {
	return strings.ReplaceAll(s, "|", `<span class="contact-sep">|</span>`)
}

func overlaps(spans []span, start, end int) bool {
	for _, sp := range spans {
		if start < sp.end && end > sp.start {
			return true
		}
	}
	return false
}
