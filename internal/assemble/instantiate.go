// Package assemble merges generated resume markup, an optional normalized
// photo, and contact decoration into a single placeholder-free document body.
package assemble

import (
	"fmt"
	"regexp"
	"strings"

	"resume-builder/internal/contact"
)

// PhotoPlaceholder is the literal token the generation prompt asks the model
// to embed where the candidate photo belongs.
const PhotoPlaceholder = "[[PROFILE_PHOTO]]"

var (
	codeFenceRe = regexp.MustCompile("```(?:html|HTML)?")
	thinkRe     = regexp.MustCompile(`(?s)<think>.*?</think>`)

	// The placeholder arrives inside an img element per the prompt template,
	// but the model is only loosely obedient, so the attribute order and
	// self-closing style are not guaranteed.
	placeholderImgRe = regexp.MustCompile(`<img[^>]*\[\[PROFILE_PHOTO\]\][^>]*/?>`)
	headingRe        = regexp.MustCompile(`<h1[^>]*>`)
)

// Instantiator resolves the photo placeholder and applies contact decoration.
type Instantiator struct {
	Classifier *contact.Classifier
}

// NewInstantiator constructs an Instantiator using the given classifier.
func NewInstantiator(classifier *contact.Classifier) *Instantiator {
	return &Instantiator{Classifier: classifier}
}

// Instantiate produces a final document body from untrusted generated markup.
// photoDataURI is empty when no photo was supplied. All branches are total;
// the returned markup never contains the raw placeholder token.
func (i *Instantiator) Instantiate(body string, photoDataURI string) string {
	out := StripFences(body)

	if photoDataURI != "" {
		out = injectPhoto(out, photoDataURI)
	} else {
		out = removePlaceholder(out)
	}

	if i.Classifier != nil {
		out = i.Classifier.Classify(out)
	}
	return out
}

// StripFences removes markdown code fences and chain-of-thought blocks the
// generation service sometimes wraps around the markup despite instructions.
func StripFences(raw string) string {
	out := thinkRe.ReplaceAllString(raw, "")
	out = codeFenceRe.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// injectPhoto substitutes the placeholder with the encoded photo. When the
// model forgot the placeholder, the photo is inserted immediately before the
// first top-level name heading.
func injectPhoto(body, photoDataURI string) string {
	if strings.Contains(body, PhotoPlaceholder) {
		out := strings.Replace(body, PhotoPlaceholder, photoDataURI, 1)
		// Duplicate tokens are a model mistake; drop the leftovers.
		return removePlaceholder(out)
	}

	imgTag := fmt.Sprintf(`<img src="%s" class="profile-pic" />`, photoDataURI)
	if loc := headingRe.FindStringIndex(body); loc != nil {
		return body[:loc[0]] + imgTag + body[loc[0]:]
	}
	return imgTag + body
}

// removePlaceholder strips the placeholder img element (and any bare tokens)
// so no broken image reference reaches the renderer.
func removePlaceholder(body string) string {
	out := placeholderImgRe.ReplaceAllString(body, "")
	return strings.ReplaceAll(out, PhotoPlaceholder, "")
}
