package models

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/openai/openai-go/v3"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// buildChatParams converts an adk request into OpenAI chat parameters.
func buildChatParams(req *model.LLMRequest, fallbackModel string) *openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{Model: req.Model}
	if params.Model == "" {
		params.Model = fallbackModel
	}

	if messages := contentsToMessages(req.Contents); len(messages) > 0 {
		params.Messages = messages
	}

	if req.Config != nil {
		if req.Config.Temperature != nil {
			params.Temperature = openai.Float(float64(*req.Config.Temperature))
		}
		if req.Config.MaxOutputTokens > 0 {
			params.MaxTokens = openai.Int(int64(req.Config.MaxOutputTokens))
		}
		if req.Config.TopP != nil {
			params.TopP = openai.Float(float64(*req.Config.TopP))
		}
		if len(req.Config.Tools) > 0 {
			if tools := toolsToOpenAI(req.Config.Tools); len(tools) > 0 {
				params.Tools = tools
			}
		}
	}

	return &params
}

func contentsToMessages(contents []*genai.Content) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion

	for _, content := range contents {
		if toolMessages := functionResponses(content); len(toolMessages) > 0 {
			messages = append(messages, toolMessages...)
			continue
		}

		var sb strings.Builder
		for _, part := range content.Parts {
			if part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
		text := sb.String()

		switch content.Role {
		case "system":
			messages = append(messages, openai.SystemMessage(text))
		case "model":
			messages = append(messages, openai.AssistantMessage(text))
		default:
			messages = append(messages, openai.UserMessage(text))
		}
	}

	return messages
}

func functionResponses(content *genai.Content) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion
	for _, part := range content.Parts {
		if part.FunctionResponse == nil || part.FunctionResponse.ID == "" {
			continue
		}
		payload, err := json.Marshal(part.FunctionResponse.Response)
		if err != nil {
			slog.Error("failed to marshal function response", "error", err.Error())
			continue
		}
		messages = append(messages, openai.ToolMessage(string(payload), part.FunctionResponse.ID))
	}
	return messages
}

func toolsToOpenAI(declared []*genai.Tool) []openai.ChatCompletionToolUnionParam {
	var tools []openai.ChatCompletionToolUnionParam
	for _, tool := range declared {
		for _, fn := range tool.FunctionDeclarations {
			tools = append(tools, openai.ChatCompletionToolUnionParam{
				OfFunction: &openai.ChatCompletionFunctionToolParam{
					Function: openai.FunctionDefinitionParam{
						Name:        fn.Name,
						Description: openai.String(fn.Description),
						Parameters:  functionParameters(fn),
					},
				},
			})
		}
	}
	return tools
}

// functionParameters lifts a declared parameter schema into the JSON Schema
// form the OpenAI API expects.
func functionParameters(fn *genai.FunctionDeclaration) openai.FunctionParameters {
	if fn.ParametersJsonSchema == nil {
		return nil
	}
	if schema, ok := fn.ParametersJsonSchema.(*jsonschema.Schema); ok {
		return schemaToParameters(schema)
	}
	if schemaMap, ok := fn.ParametersJsonSchema.(map[string]any); ok {
		return openai.FunctionParameters(schemaMap)
	}
	return nil
}

func schemaToParameters(schema *jsonschema.Schema) openai.FunctionParameters {
	result := make(map[string]any)

	if schema.Type != "" {
		result["type"] = string(schema.Type)
	} else {
		result["type"] = "object"
	}

	if len(schema.Properties) > 0 {
		properties := make(map[string]any)
		for name, prop := range schema.Properties {
			if prop != nil {
				properties[name] = schemaProperty(prop)
			}
		}
		if len(properties) > 0 {
			result["properties"] = properties
		}
	}

	if len(schema.Required) > 0 {
		result["required"] = schema.Required
	} else {
		result["required"] = []string{}
	}

	return openai.FunctionParameters(result)
}

func schemaProperty(schema *jsonschema.Schema) map[string]any {
	if schema == nil {
		return nil
	}

	prop := make(map[string]any)
	if len(schema.Types) > 0 {
		prop["type"] = schema.Types[0]
	} else if schema.Type != "" {
		prop["type"] = schema.Type
	}
	if schema.Description != "" {
		prop["description"] = schema.Description
	}
	if schema.Format != "" {
		prop["format"] = schema.Format
	}
	if len(schema.Enum) > 0 {
		prop["enum"] = schema.Enum
	}
	if len(schema.Default) > 0 {
		var defaultVal any
		if err := json.Unmarshal(schema.Default, &defaultVal); err == nil {
			prop["default"] = defaultVal
		}
	}
	if schema.Minimum != nil {
		prop["minimum"] = *schema.Minimum
	}
	if schema.Maximum != nil {
		prop["maximum"] = *schema.Maximum
	}
	if schema.Pattern != "" {
		prop["pattern"] = schema.Pattern
	}
	if schema.Items != nil {
		prop["items"] = schemaProperty(schema.Items)
	}
	if len(schema.Properties) > 0 {
		properties := make(map[string]any)
		for name, nested := range schema.Properties {
			if nested != nil {
				properties[name] = schemaProperty(nested)
			}
		}
		if len(properties) > 0 {
			prop["properties"] = properties
		}
	}
	if len(schema.Required) > 0 {
		prop["required"] = schema.Required
	}

	return prop
}

func parseFunctionArgs(jsonStr string) map[string]any {
	if jsonStr == "" {
		return make(map[string]any)
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &args); err != nil {
		slog.Error("failed to parse function arguments", "error", err.Error(), "json", jsonStr)
		return make(map[string]any)
	}
	return args
}
