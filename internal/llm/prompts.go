package llm

import _ "embed"

var (
	//go:embed prompts/resume_html_v1.txt
	promptResumeHTMLV1 string
)

// PromptTemplate returns the prompt template text and whether the version was
// recognized. Unrecognized versions fall back to resume_html_v1.
func PromptTemplate(version string) (string, bool) {
	switch version {
	case "resume_html_v1":
		return promptResumeHTMLV1, true
	default:
		return promptResumeHTMLV1, false
	}
}
