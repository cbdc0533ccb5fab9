package studyplan

import "github.com/abhisek/studyforge/internal/llm"

// PlanSchema defines the JSON schema for study plan generation responses.
var PlanSchema = &llm.Schema{
	Name:        "study-plan",
	Description: "A four day study plan with flashcards, quiz and strategy per day",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "A catchy study plan title based on the content",
			},
			"days": map[string]any{
				"type":        "array",
				"description": "Exactly 4 entries for Day 0, 1, 2 and 3",
				"minItems":    DaysInPlan,
				"maxItems":    DaysInPlan,
				"items":       daySchema,
			},
		},
		"required":             []any{"title", "days"},
		"additionalProperties": false,
	},
}

var daySchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"dayLabel": map[string]any{
			"type":        "string",
			"description": "e.g. 'Day 0: Core Concepts'",
		},
		"topicSummary": map[string]any{
			"type":        "string",
			"description": "A concise summary of what to learn this day",
		},
		"flashcards": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"front": map[string]any{
						"type":        "string",
						"description": "Question or term on the front of the card",
					},
					"back": map[string]any{
						"type":        "string",
						"description": "Answer or definition on the back of the card",
					},
				},
				"required":             []any{"front", "back"},
				"additionalProperties": false,
			},
		},
		"quiz": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"question": map[string]any{"type": "string"},
					"options": map[string]any{
						"type":     "array",
						"minItems": 2,
						"items":    map[string]any{"type": "string"},
					},
					"correctAnswerIndex": map[string]any{
						"type":        "integer",
						"minimum":     0,
						"description": "Zero-based index of the correct option",
					},
					"explanation": map[string]any{
						"type":        "string",
						"description": "Why this answer is correct",
					},
				},
				"required":             []any{"question", "options", "correctAnswerIndex", "explanation"},
				"additionalProperties": false,
			},
		},
		"strategy": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"methodName": map[string]any{
					"type":        "string",
					"description": "Name of the study technique (e.g. Memory Palace)",
				},
				"description": map[string]any{
					"type":        "string",
					"description": "How the method works",
				},
				"actionableStep": map[string]any{
					"type":        "string",
					"description": "A concrete instruction for applying it to today's topic",
				},
			},
			"required":             []any{"methodName", "description", "actionableStep"},
			"additionalProperties": false,
		},
	},
	"required":             []any{"dayLabel", "topicSummary", "flashcards", "quiz", "strategy"},
	"additionalProperties": false,
}
