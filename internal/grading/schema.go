package grading

import "github.com/abhisek/pastpapers/internal/llm"

// MarkingSchema defines the JSON schema for LLM marking responses.
var MarkingSchema = &llm.Schema{
	Name:        "answer-marking",
	Description: "Marks awarded to a student answer under a mark scheme",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"marks_awarded": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"description": "Total marks awarded",
			},
			"points_awarded": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Mark-scheme points the answer earned",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Short feedback for the student",
			},
		},
		"required":             []any{"marks_awarded", "points_awarded", "feedback"},
		"additionalProperties": false,
	},
}
