package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/line-sensor-mcp/internal/config"
)

const trialReading = "00011010000001010111111000000001"

// callTool runs a tools/call request and decodes the text content into out.
// It returns the JSON-RPC error, if any.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}, out interface{}) *MCPError {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		return resp.Error
	}

	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("unexpected content: %v", content)
	}
	if out != nil {
		if err := json.Unmarshal([]byte(content[0]["text"].(string)), out); err != nil {
			t.Fatalf("failed to decode tool result: %v", err)
		}
	}
	return nil
}

func TestLineFind_Defaults(t *testing.T) {
	s := New(nil, nil)

	var res DetectResult
	if err := callTool(t, s, "line_find", map[string]interface{}{"reading": trialReading}, &res); err != nil {
		t.Fatalf("line_find failed: %+v", err)
	}

	if res.MinBorder != 2 || res.MinLine != 3 || res.Blur != "none" {
		t.Errorf("default profile not applied: %+v", res)
	}
	if res.Count != 0 {
		t.Errorf("Count: got %d, want 0", res.Count)
	}
}

func TestLineFind_Blurred(t *testing.T) {
	s := New(nil, nil)

	var res DetectResult
	err := callTool(t, s, "line_find", map[string]interface{}{
		"reading":    trialReading,
		"min_border": 1,
		"min_line":   3,
		"blur":       "blur",
	}, &res)
	if err != nil {
		t.Fatalf("line_find failed: %+v", err)
	}

	if res.Count != 2 {
		t.Fatalf("Count: got %d, want 2 (%+v)", res.Count, res.Lines)
	}
	if res.Lines[0].Label != "3 <-> 7" || res.Lines[1].Label != "13 <-> 23" {
		t.Errorf("Lines: got %+v", res.Lines)
	}
	if res.Lines[1].Length != 10 {
		t.Errorf("Length: got %d", res.Lines[1].Length)
	}
	if res.Input != trialReading {
		t.Errorf("Input: got %s", res.Input)
	}
	if res.Filtered != "00011110000001111111111000000001" {
		t.Errorf("Filtered: got %s", res.Filtered)
	}
}

func TestLineFind_ZeroThresholdIsExplicit(t *testing.T) {
	s := New(nil, nil)

	var res DetectResult
	err := callTool(t, s, "line_find", map[string]interface{}{
		"reading":    "00110000000000000000000000000000",
		"min_border": 0,
		"min_line":   0,
	}, &res)
	if err != nil {
		t.Fatalf("line_find failed: %+v", err)
	}
	if res.MinBorder != 0 || res.Count != 1 {
		t.Errorf("explicit zero thresholds ignored: %+v", res)
	}
}

func TestLineFind_Profile(t *testing.T) {
	cfg := config.Default()
	cfg.Profiles["octal"] = config.Profile{MinBorder: 2, MinLine: 5, Blur: "blur", Active: "34"}
	s := New(cfg, nil)

	var res DetectResult
	err := callTool(t, s, "line_find", map[string]interface{}{
		"reading": "00034020000002130334433430000006",
		"profile": "octal",
	}, &res)
	if err != nil {
		t.Fatalf("line_find failed: %+v", err)
	}
	if res.Count != 1 || res.Lines[0].Start != 15 || res.Lines[0].End != 25 {
		t.Errorf("Lines: got %+v", res.Lines)
	}
}

func TestLineFind_Errors(t *testing.T) {
	s := New(nil, nil)

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"short reading", map[string]interface{}{"reading": "0101"}},
		{"missing reading", map[string]interface{}{}},
		{"unknown profile", map[string]interface{}{"reading": trialReading, "profile": "nope"}},
		{"bad blur", map[string]interface{}{"reading": trialReading, "blur": "gaussian"}},
		{"negative border", map[string]interface{}{"reading": trialReading, "min_border": -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := callTool(t, s, "line_find", tt.args, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Code != -32000 {
				t.Errorf("Code: got %d, want -32000", err.Code)
			}
		})
	}
}

func TestLineSplit(t *testing.T) {
	s := New(nil, nil)

	var res RunsResult
	if err := callTool(t, s, "line_split", map[string]interface{}{"reading": trialReading}, &res); err != nil {
		t.Fatalf("line_split failed: %+v", err)
	}
	if res.Count != 6 {
		t.Errorf("Count: got %d, want 6", res.Count)
	}
	if res.Runs[4].Start != 17 || res.Runs[4].End != 23 {
		t.Errorf("Runs[4]: got %+v", res.Runs[4])
	}
}

func TestLineThreshold(t *testing.T) {
	s := New(nil, nil)

	var res FilterResult
	err := callTool(t, s, "line_threshold", map[string]interface{}{"reading": trialReading, "n": 1}, &res)
	if err != nil {
		t.Fatalf("line_threshold failed: %+v", err)
	}
	if res.Output != "00011000000000000111111000000000" {
		t.Errorf("Output: got %s", res.Output)
	}
	if len(res.Runs) != 2 {
		t.Errorf("Runs: got %+v", res.Runs)
	}

	if err := callTool(t, s, "line_threshold", map[string]interface{}{"reading": trialReading}, nil); err == nil {
		t.Error("expected error when n is missing")
	}
	if err := callTool(t, s, "line_threshold", map[string]interface{}{"reading": trialReading, "n": -1}, nil); err == nil {
		t.Error("expected error for negative n")
	}
}

func TestLineBlur(t *testing.T) {
	s := New(nil, nil)

	tests := []struct {
		mode string
		want string
	}{
		{"blur", "00011110000001111111111000000001"},
		{"weak", "00011000000000010111111000000000"},
		{"none", trialReading},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			var res FilterResult
			err := callTool(t, s, "line_blur", map[string]interface{}{"reading": trialReading, "mode": tt.mode}, &res)
			if err != nil {
				t.Fatalf("line_blur failed: %+v", err)
			}
			if res.Output != tt.want {
				t.Errorf("Output:\n got %s\nwant %s", res.Output, tt.want)
			}
		})
	}

	if err := callTool(t, s, "line_blur", map[string]interface{}{"reading": trialReading, "mode": "soft"}, nil); err == nil {
		t.Error("expected error for unknown mode")
	}
}

// writeTapeImage writes a white floor with dark tape under cells [start, end).
func writeTapeImage(t *testing.T, start, end int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 64, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 64; x++ {
			if x >= 2*start && x < 2*end {
				img.Set(x, y, color.Black)
			} else {
				img.Set(x, y, color.White)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "tape.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestLineSampleImage(t *testing.T) {
	s := New(nil, nil)
	path := writeTapeImage(t, 10, 16)

	var res struct {
		Sample struct {
			Reading string `json:"reading"`
			Mode    string `json:"mode"`
		} `json:"sample"`
		Count int        `json:"count"`
		Lines []LineView `json:"lines"`
	}
	err := callTool(t, s, "line_sample_image", map[string]interface{}{"path": path, "invert": true}, &res)
	if err != nil {
		t.Fatalf("line_sample_image failed: %+v", err)
	}

	if res.Sample.Reading != "00000000001111110000000000000000" {
		t.Errorf("Reading: got %s", res.Sample.Reading)
	}
	if res.Count != 1 || res.Lines[0].Start != 10 || res.Lines[0].End != 16 {
		t.Errorf("Lines: got %+v", res.Lines)
	}
}

func TestLineSampleImage_Errors(t *testing.T) {
	s := New(nil, nil)
	path := writeTapeImage(t, 10, 16)

	if err := callTool(t, s, "line_sample_image", map[string]interface{}{"path": "/nonexistent/bar.png"}, nil); err == nil {
		t.Error("expected error for missing file")
	}
	if err := callTool(t, s, "line_sample_image", map[string]interface{}{"path": path, "threshold": 300}, nil); err == nil {
		t.Error("expected error for threshold out of range")
	}
	if err := callTool(t, s, "line_sample_image", map[string]interface{}{"path": path, "row": 10}, nil); err == nil {
		t.Error("expected error for row outside image")
	}
}

func TestLineRender(t *testing.T) {
	s := New(nil, nil)

	var res struct {
		Width       int    `json:"width"`
		LineCount   int    `json:"line_count"`
		ImageBase64 string `json:"image_base64"`
		MimeType    string `json:"mime_type"`
	}
	err := callTool(t, s, "line_render", map[string]interface{}{
		"reading":    trialReading,
		"min_border": 1,
		"blur":       "blur",
		"cell_size":  8,
	}, &res)
	if err != nil {
		t.Fatalf("line_render failed: %+v", err)
	}
	if res.Width != 256 || res.LineCount != 2 || res.MimeType != "image/png" || res.ImageBase64 == "" {
		t.Errorf("unexpected render result: width=%d lines=%d mime=%s", res.Width, res.LineCount, res.MimeType)
	}
}

func TestLineProfiles(t *testing.T) {
	s := New(nil, nil)

	var res ProfilesResult
	if err := callTool(t, s, "line_profiles", nil, &res); err != nil {
		t.Fatalf("line_profiles failed: %+v", err)
	}
	if res.Default != config.DefaultProfileName {
		t.Errorf("Default: got %s", res.Default)
	}
	if _, ok := res.Profiles[config.DefaultProfileName]; !ok {
		t.Error("default profile missing")
	}
}

func TestHandleToolsCall_UnknownTool(t *testing.T) {
	s := New(nil, nil)
	if err := callTool(t, s, "image_crop", map[string]interface{}{}, nil); err == nil {
		t.Error("expected error for unknown tool")
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New(nil, nil)
	resp := s.handleToolsCall(&MCPRequest{JSONRPC: "2.0", ID: 1, Params: json.RawMessage(`[1,2]`)})
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("expected -32602, got %+v", resp.Error)
	}
}
