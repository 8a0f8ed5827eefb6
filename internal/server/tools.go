package server

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
			Name:        "image_load",
			Description: "Read an image file header and return its dimensions, format and file size. Only JPEG and PNG are supported.",
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
			Name: "image_enhance",
			Description: "Enhance an underwater photograph: CLAHE on lightness followed by gray-world color balance. " +
				"Returns the result as base64-encoded PNG together with per-channel statistics before and after.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"clip_limit": map[string]interface{}{
						"type":        "number",
						"description": "CLAHE clip limit. 0 disables clipping. Default 2.0",
						"default":     2.0,
						"minimum":     0,
					},
					"tile_grid": map[string]interface{}{
						"type":        "integer",
						"description": "CLAHE tiles per axis. Default 8",
						"default":     8,
						"minimum":     1,
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to also write the enhanced image to; the extension selects the format",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_channel_stats",
			Description: "Get per-channel mean values (0-255) and the spread between the largest and smallest mean. A large spread indicates a color cast.",
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
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
