package problem

import "github.com/abhisek/datadrill/internal/llm"

// ProblemSchema is the structured output requested from the model.
var ProblemSchema = &llm.Schema{
	Name:        "problem-set",
	Description: "A data entry practice exercise with its answer key",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"instructions": map[string]any{
				"type":        "string",
				"description": "A short, clear instruction for the user on what data to enter. (in Japanese)",
			},
			"templateHeaders": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "The column headers for the input table.",
			},
			"sourceData": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"description": "The ground truth rows. Each inner array holds string values in exactly the order of templateHeaders.",
			},
			"displayData": map[string]any{
				"type":        "string",
				"description": "The source data formatted for reading, one numbered record per line. Not a markdown table.",
			},
		},
		"required":             []string{"instructions", "templateHeaders", "sourceData", "displayData"},
		"additionalProperties": false,
	},
}
