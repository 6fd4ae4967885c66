package models

import (
	"strings"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// ExtractText flattens the text parts of a content into a single string.
func ExtractText(content *genai.Content) string {
	if content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}

// CollectResponse drains a non-streaming generation sequence and returns the
// final text.
func CollectResponse(seq func(yield func(*model.LLMResponse, error) bool)) (string, error) {
	var resp *model.LLMResponse
	var err error
	seq(func(r *model.LLMResponse, e error) bool {
		resp = r
		err = e
		return false
	})
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", nil
	}
	return ExtractText(resp.Content), nil
}
