package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func readingProperties() map[string]interface{} {
	return map[string]interface{}{
		"reading": map[string]interface{}{
			"type":        "string",
			"description": "One symbol per sensor cell, cell 0 first. Must be exactly 32 symbols.",
		},
		"active": map[string]interface{}{
			"type":        "string",
			"description": "Symbols that count as an active cell, e.g. \"1\" or \"34\". Defaults to the profile's active symbols.",
		},
		"profile": map[string]interface{}{
			"type":        "string",
			"description": "Detection profile supplying defaults. Uses the configured default profile when omitted.",
		},
	}
}

func detectionProperties(props map[string]interface{}) map[string]interface{} {
	props["min_border"] = map[string]interface{}{
		"type":        "integer",
		"description": "A border must have MORE than this many inactive cells on each side of a line",
		"minimum":     0,
	}
	props["min_line"] = map[string]interface{}{
		"type":        "integer",
		"description": "A line must have MORE than this many active cells",
		"minimum":     0,
	}
	props["blur"] = blurProperty()
	return props
}

func blurProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"none", "blur", "weak", "strong"},
		"description": "Noise filter: blur fills single gaps, weak erases isolated spikes, strong also fills two-cell gaps next to a pair",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	withN := readingProperties()
	withN["n"] = map[string]interface{}{
		"type":        "integer",
		"description": "Runs of n or fewer active cells are removed",
		"minimum":     0,
	}

	withMode := readingProperties()
	withMode["mode"] = blurProperty()

	render := detectionProperties(readingProperties())
	render["cell_size"] = map[string]interface{}{
		"type":        "integer",
		"description": "Pixel size of one cell. Default 16",
		"default":     16,
	}

	sample := detectionProperties(map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file",
		},
		"row": map[string]interface{}{
			"type":        "integer",
			"description": "First row of the sampled band (0-based). Default 0",
		},
		"band": map[string]interface{}{
			"type":        "integer",
			"description": "Number of rows averaged per cell. Default: all rows from row to the bottom",
		},
		"threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Brightness level 0-255 separating light and dark cells. Default 128",
		},
		"invert": map[string]interface{}{
			"type":        "boolean",
			"description": "Treat dark cells as active (dark tape on a light floor)",
		},
		"color": map[string]interface{}{
			"type":        "string",
			"description": "Activate cells by color distance to this hex color instead of brightness",
		},
		"tolerance": map[string]interface{}{
			"type":        "number",
			"description": "Maximum CIEDE2000 distance to color for an active cell. Default 0.1",
		},
		"profile": map[string]interface{}{
			"type":        "string",
			"description": "Detection profile supplying defaults",
		},
	})

	return []Tool{
		{
			Name:        "line_find",
			Description: "Detect lines on a 32-cell sensor bar: runs of active cells longer than min_line that are flanked on both sides by more than min_border inactive cells. Runs touching either end of the bar are never reported.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": detectionProperties(readingProperties()),
				"required":   []string{"reading"},
			},
		},
		{
			Name:        "line_split",
			Description: "List every maximal run of active cells as half-open [start, end) intervals.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": readingProperties(),
				"required":   []string{"reading"},
			},
		},
		{
			Name:        "line_threshold",
			Description: "Remove every run of n or fewer active cells; longer runs are kept unchanged.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": withN,
				"required":   []string{"reading", "n"},
			},
		},
		{
			Name:        "line_blur",
			Description: "Apply a noise filter to a reading and return the filtered reading.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": withMode,
				"required":   []string{"reading", "mode"},
			},
		},
		{
			Name:        "line_sample_image",
			Description: "Sample a 32-cell bar from a band of image rows (by brightness or color) and detect lines on it.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": sample,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "line_render",
			Description: "Render a reading as a PNG strip with detected lines outlined and labelled. Returns base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": render,
				"required":   []string{"reading"},
			},
		},
		{
			Name:        "line_profiles",
			Description: "List the configured detection profiles and the default profile name.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
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
