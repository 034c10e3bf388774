package gemini

import "strings"

// GenerateRequest is the body of a generateContent call
type GenerateRequest struct {
	Contents []Content `json:"contents"`
}

// Content is one turn of a conversation
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is a piece of content; only text parts are used
type Part struct {
	Text string `json:"text,omitempty"`
}

// Candidate is one generated answer
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// PromptFeedback reports why a prompt was rejected
type PromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

// GenerateResponse is the body returned by generateContent
type GenerateResponse struct {
	Candidates     []Candidate     `json:"candidates"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
}

// Text concatenates the text parts of the first candidate
func (r GenerateResponse) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var parts []string
	for _, p := range r.Candidates[0].Content.Parts {
		if p.Text != "" {
			parts = append(parts, p.Text)
		}
	}
	return strings.Join(parts, "")
}
