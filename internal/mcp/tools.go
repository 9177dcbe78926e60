package mcp

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "omr_scan",
			Description: "Grade a bubble answer sheet image. Finds rows of four answer bubbles below the header, numbers them top to bottom, and reports the marked option (1-4, or 0 for none) and the fill percentage of every bubble. Missing trailing questions are padded with position 0 and an empty fill list.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the sheet image file",
					},
					"number_of_questions": map[string]interface{}{
						"type":        "integer",
						"description": "Number of questions on the sheet. Default 20; at most 500 unless the server sets OMR_MAX_QUESTIONS",
						"default":     20,
						"minimum":     1,
					},
					"annotate": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return a PNG overlay showing the detected bubbles and selected answers",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_load",
			Description: "Load a sheet image and return its dimensions, format, file size, and the pixel row where the answer region starts.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "omr_profile",
			Description: "Show the calibration the scanner uses: bubble aspect and area bounds, answer region, row tolerance, and fill threshold.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}
