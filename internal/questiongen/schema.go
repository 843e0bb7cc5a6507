package questiongen

import "github.com/abhisek/pastpapers/internal/llm"

// QuestionSchema defines the JSON the model must return.
var QuestionSchema = &llm.Schema{
	Name:        "exam-question",
	Description: "A single exam-style practice question with mark scheme and worked solution",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question_text": map[string]any{
				"type":        "string",
				"description": "The full question. Label parts (a), (b), (c) and sub-parts (i), (ii) when the question has several parts.",
			},
			"mark_scheme": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "One marking point per entry, each starting with its part label when the question has parts, then a mark code such as M1, A1, B1 or SC1.",
			},
			"total_marks": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"maximum":     100,
				"description": "Total marks available for the whole question",
			},
			"solution": map[string]any{
				"type":        "string",
				"description": "Step-by-step worked solution",
			},
		},
		"required":             []any{"question_text", "mark_scheme", "total_marks", "solution"},
		"additionalProperties": false,
	},
}
