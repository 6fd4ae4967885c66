// Package prompt assembles the layered system prompt for backend calls.
package prompt

import (
	"bytes"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/PKM100/mnemocyte-sub001/internal/npc"
	"github.com/PKM100/mnemocyte-sub001/internal/types"
)

// Line is one attributed utterance of rolling history.
type Line struct {
	Speaker string
	Content string
}

// BuildContext contains all inputs for prompt assembly.
type BuildContext struct {
	Character   *types.Character
	Memories    []string
	History     []Line
	UserMessage string
}

// Builder assembles prompts with a bounded history window.
type Builder struct {
	historyLimit int
}

// NewBuilder creates a prompt Builder.
func NewBuilder(historyLimit int) *Builder {
	if historyLimit <= 0 {
		historyLimit = 5
	}
	return &Builder{historyLimit: historyLimit}
}

// Build assembles the system and user contents for one backend call.
func (b *Builder) Build(ctx BuildContext) ([]*genai.Content, error) {
	if ctx.Character == nil {
		return nil, fmt.Errorf("character is required")
	}

	history := ctx.History
	if len(history) > b.historyLimit {
		history = history[len(history)-b.historyLimit:]
	}

	trait, _ := npc.DominantTrait(ctx.Character.Traits)
	data := struct {
		Character     *types.Character
		DominantTrait string
		MoodWord      string
		Actions       []string
		Memories      []string
		History       []Line
	}{
		Character:     ctx.Character,
		DominantTrait: trait,
		MoodWord:      npc.MoodDescriptor(ctx.Character.CurrentMood),
		Actions:       ctx.Character.Actions,
		Memories:      ctx.Memories,
		History:       history,
	}

	var buf bytes.Buffer
	if err := systemTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	systemContent := genai.NewContentFromText(buf.String(), "system")
	userContent := genai.NewContentFromText(ctx.UserMessage, "user")
	return []*genai.Content{systemContent, userContent}, nil
}

func joinStrings(items []string, sep string) string {
	return strings.Join(items, sep)
}
