package openai

import (
	"strings"

	"resume-builder/internal/llm"
)

// Message represents a chat message.
type Message struct {
	Role    string
	Content string
}

const systemPromptArchitect = "You are a Resume Architect. Output ONLY valid HTML code. No markdown formatting."

// BuildPrompt creates the chat messages for a resume generation request. The
// template pins the output to a fixed HTML structure including the photo
// placeholder element.
func BuildPrompt(candidateText, jobDescription string) []Message {
	template, _ := llm.PromptTemplate("resume_html_v1")
	user := strings.NewReplacer(
		"{{CANDIDATE_PROFILE}}", candidateText,
		"{{JOB_DESCRIPTION}}", jobDescription,
	).Replace(template)

	return []Message{
		{Role: "system", Content: systemPromptArchitect},
		{Role: "user", Content: user},
	}
}
