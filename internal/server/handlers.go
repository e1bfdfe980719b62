package server

import (
	"encoding/json"
	"fmt"

	"github.com/ironsheep/line-sensor-mcp/internal/config"
	"github.com/ironsheep/line-sensor-mcp/internal/detection"
	"github.com/ironsheep/line-sensor-mcp/internal/imaging"
	"github.com/ironsheep/line-sensor-mcp/internal/sensor"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "line_find").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Info("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	case "line_find":
		return s.handleLineFind(args)
	case "line_split":
		return s.handleLineSplit(args)
	case "line_threshold":
		return s.handleLineThreshold(args)
	case "line_blur":
		return s.handleLineBlur(args)
	case "line_sample_image":
		return s.handleLineSampleImage(args)
	case "line_render":
		return s.handleLineRender(args)
	case "line_profiles":
		return s.handleLineProfiles()
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Shared argument handling ===

type readingArgs struct {
	Reading string `json:"reading"`
	Active  string `json:"active"`
	Profile string `json:"profile"`
}

type detectionArgs struct {
	MinBorder *int    `json:"min_border"`
	MinLine   *int    `json:"min_line"`
	Blur      *string `json:"blur"`
}

// word parses the reading using the explicit active symbols or the profile's.
func (a readingArgs) word(p config.Profile) (detection.Word, error) {
	active := a.Active
	if active == "" {
		active = p.Active
	}
	return sensor.Parse(a.Reading, active)
}

// detector overlays explicit arguments on the profile.
func (a detectionArgs) detector(p config.Profile) (detection.Detector, error) {
	if a.MinBorder != nil {
		p.MinBorder = *a.MinBorder
	}
	if a.MinLine != nil {
		p.MinLine = *a.MinLine
	}
	if a.Blur != nil {
		p.Blur = *a.Blur
	}
	if err := p.Validate(); err != nil {
		return detection.Detector{}, err
	}
	return p.Detector()
}

// LineView is an Interval as reported to clients.
type LineView struct {
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Length int    `json:"length"`
	Label  string `json:"label"`
}

func viewLines(lines []detection.Interval) []LineView {
	out := make([]LineView, len(lines))
	for i, l := range lines {
		out[i] = LineView{Start: l.Start, End: l.End, Length: l.Len(), Label: l.String()}
	}
	return out
}

// DetectResult is returned by line_find and line_sample_image.
type DetectResult struct {
	Input     string     `json:"input"`
	Filtered  string     `json:"filtered"`
	MinBorder int        `json:"min_border"`
	MinLine   int        `json:"min_line"`
	Blur      string     `json:"blur"`
	Lines     []LineView `json:"lines"`
	Count     int        `json:"count"`
}

func newDetectResult(d detection.Detector, res detection.Result) *DetectResult {
	return &DetectResult{
		Input:     res.Input.String(),
		Filtered:  res.Filtered.String(),
		MinBorder: d.MinBorder,
		MinLine:   d.MinLine,
		Blur:      d.Blur.String(),
		Lines:     viewLines(res.Lines),
		Count:     len(res.Lines),
	}
}

// === Detection Handlers ===

type lineFindArgs struct {
	readingArgs
	detectionArgs
}

func (s *Server) handleLineFind(args json.RawMessage) (interface{}, error) {
	var a lineFindArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	p, err := s.cfg.Profile(a.Profile)
	if err != nil {
		return nil, err
	}
	w, err := a.word(p)
	if err != nil {
		return nil, err
	}
	d, err := a.detector(p)
	if err != nil {
		return nil, err
	}

	res := d.Detect(w)
	s.logger.Debug("line_find", "input", res.Input.String(), "lines", len(res.Lines))
	return newDetectResult(d, res), nil
}

// RunsResult is returned by line_split.
type RunsResult struct {
	Input string     `json:"input"`
	Runs  []LineView `json:"runs"`
	Count int        `json:"count"`
}

func (s *Server) handleLineSplit(args json.RawMessage) (interface{}, error) {
	var a readingArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	p, err := s.cfg.Profile(a.Profile)
	if err != nil {
		return nil, err
	}
	w, err := a.word(p)
	if err != nil {
		return nil, err
	}

	runs := detection.Split(w)
	return &RunsResult{Input: w.String(), Runs: viewLines(runs), Count: len(runs)}, nil
}

// FilterResult is returned by line_threshold and line_blur.
type FilterResult struct {
	Input  string     `json:"input"`
	Output string     `json:"output"`
	Runs   []LineView `json:"runs"`
}

type lineThresholdArgs struct {
	readingArgs
	N *int `json:"n"`
}

func (s *Server) handleLineThreshold(args json.RawMessage) (interface{}, error) {
	var a lineThresholdArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.N == nil {
		return nil, fmt.Errorf("n is required")
	}
	if *a.N < 0 {
		return nil, fmt.Errorf("n must be >= 0, got %d", *a.N)
	}
	p, err := s.cfg.Profile(a.Profile)
	if err != nil {
		return nil, err
	}
	w, err := a.word(p)
	if err != nil {
		return nil, err
	}

	out := detection.RepeatFilter(w, *a.N)
	return &FilterResult{Input: w.String(), Output: out.String(), Runs: viewLines(detection.Split(out))}, nil
}

type lineBlurArgs struct {
	readingArgs
	Mode string `json:"mode"`
}

func (s *Server) handleLineBlur(args json.RawMessage) (interface{}, error) {
	var a lineBlurArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	mode, err := detection.ParseBlurMode(a.Mode)
	if err != nil {
		return nil, err
	}
	p, err := s.cfg.Profile(a.Profile)
	if err != nil {
		return nil, err
	}
	w, err := a.word(p)
	if err != nil {
		return nil, err
	}

	out := mode.Apply(w)
	return &FilterResult{Input: w.String(), Output: out.String(), Runs: viewLines(detection.Split(out))}, nil
}

// === Image Handlers ===

type lineSampleImageArgs struct {
	detectionArgs
	Path      string   `json:"path"`
	Row       int      `json:"row"`
	Band      int      `json:"band"`
	Threshold *int     `json:"threshold"`
	Invert    bool     `json:"invert"`
	Color     string   `json:"color"`
	Tolerance *float64 `json:"tolerance"`
	Profile   string   `json:"profile"`
}

// SampleResult is returned by line_sample_image.
type SampleResult struct {
	Sample *imaging.BarSample `json:"sample"`
	*DetectResult
}

func (s *Server) handleLineSampleImage(args json.RawMessage) (interface{}, error) {
	var a lineSampleImageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	opts := imaging.SampleOptions{
		Row:       a.Row,
		Band:      a.Band,
		Threshold: imaging.DefaultThreshold,
		Invert:    a.Invert,
		Color:     a.Color,
		Tolerance: 0.1,
	}
	if a.Threshold != nil {
		if *a.Threshold < 0 || *a.Threshold > 255 {
			return nil, fmt.Errorf("threshold must be 0-255, got %d", *a.Threshold)
		}
		opts.Threshold = uint8(*a.Threshold)
	}
	if a.Tolerance != nil {
		opts.Tolerance = *a.Tolerance
	}

	p, err := s.cfg.Profile(a.Profile)
	if err != nil {
		return nil, err
	}
	d, err := a.detector(p)
	if err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	sample, err := imaging.SampleBar(img, opts)
	if err != nil {
		return nil, err
	}

	return &SampleResult{Sample: sample, DetectResult: newDetectResult(d, d.Detect(sample.Word))}, nil
}

type lineRenderArgs struct {
	readingArgs
	detectionArgs
	CellSize int `json:"cell_size"`
}

func (s *Server) handleLineRender(args json.RawMessage) (interface{}, error) {
	var a lineRenderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	p, err := s.cfg.Profile(a.Profile)
	if err != nil {
		return nil, err
	}
	w, err := a.word(p)
	if err != nil {
		return nil, err
	}
	d, err := a.detector(p)
	if err != nil {
		return nil, err
	}

	res := d.Detect(w)
	return imaging.RenderBar(res.Filtered, res.Lines, imaging.RenderOptions{CellSize: a.CellSize})
}

// ProfilesResult is returned by line_profiles.
type ProfilesResult struct {
	Default  string                    `json:"default"`
	Profiles map[string]config.Profile `json:"profiles"`
}

func (s *Server) handleLineProfiles() (interface{}, error) {
	return &ProfilesResult{Default: s.cfg.DefaultProfile, Profiles: s.cfg.Profiles}, nil
}
