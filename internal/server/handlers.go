package server

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ironsheep/aquavision/internal/enhance"
	"github.com/ironsheep/aquavision/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_enhance").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// paramsError marks a tool failure caused by the caller's arguments.
type paramsError struct {
	err error
}

func (e *paramsError) Error() string { return e.err.Error() }

func (e *paramsError) Unwrap() error { return e.err }

func invalidParams(format string, args ...interface{}) error {
	return &paramsError{err: fmt.Errorf(format, args...)}
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Bad arguments return -32602; any other tool failure returns -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		var pe *paramsError
		if errors.As(err, &pe) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		zap.S().Warnw("Tool execution failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
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
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "image_enhance":
		return s.handleImageEnhance(args)
	case "image_channel_stats":
		return s.handleImageChannelStats(args)
	default:
		return nil, invalidParams("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	resp := &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
		},
	}
	if data != "" {
		resp.Error.Data = data
	}
	return resp
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type pathArgs struct {
	Path string `json:"path"`
}

func decodePathArgs(args json.RawMessage) (pathArgs, error) {
	var a pathArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return a, err
	}
	if a.Path == "" {
		return a, invalidParams("path is required")
	}
	return a, nil
}

func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return invalidParams("missing arguments")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return &paramsError{err: err}
	}
	return nil
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	a, err := decodePathArgs(args)
	if err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(a.Path)
}

func (s *Server) handleImageChannelStats(args json.RawMessage) (interface{}, error) {
	a, err := decodePathArgs(args)
	if err != nil {
		return nil, err
	}
	img, _, err := imaging.LoadFile(a.Path, s.maxPixels)
	if err != nil {
		return nil, err
	}
	return imaging.Stats(img), nil
}

type imageEnhanceArgs struct {
	Path       string   `json:"path"`
	ClipLimit  *float64 `json:"clip_limit"`
	TileGrid   *int     `json:"tile_grid"`
	OutputPath string   `json:"output_path"`
}

// EnhanceResult is the image_enhance tool output.
type EnhanceResult struct {
	Width          int                   `json:"width"`
	Height         int                   `json:"height"`
	ImageBase64    string                `json:"image_base64"`
	MimeType       string                `json:"mime_type"`
	ProcessingTime string                `json:"processing_time"`
	Options        enhance.Options       `json:"options"`
	StatsBefore    *imaging.ChannelStats `json:"stats_before"`
	StatsAfter     *imaging.ChannelStats `json:"stats_after"`
	OutputPath     string                `json:"output_path,omitempty"`
}

func (s *Server) handleImageEnhance(args json.RawMessage) (interface{}, error) {
	var a imageEnhanceArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, invalidParams("path is required")
	}

	engine, err := s.engineFor(a.ClipLimit, a.TileGrid)
	if err != nil {
		return nil, err
	}

	img, _, err := imaging.LoadFile(a.Path, s.maxPixels)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	out, err := engine.Enhance(img)
	if err != nil {
		return nil, errors.Wrap(err, "enhancing image")
	}
	elapsed := time.Since(start)

	encoded, err := imaging.EncodePNG(out)
	if err != nil {
		return nil, err
	}

	if a.OutputPath != "" {
		if err := imaging.SaveFile(a.OutputPath, out); err != nil {
			return nil, err
		}
	}

	return &EnhanceResult{
		Width:          out.Width,
		Height:         out.Height,
		ImageBase64:    imaging.Base64(encoded),
		MimeType:       imaging.PNGMimeType,
		ProcessingTime: fmt.Sprintf("%.2fs", elapsed.Seconds()),
		Options:        engine.Options(),
		StatsBefore:    imaging.Stats(img),
		StatsAfter:     imaging.Stats(out),
		OutputPath:     a.OutputPath,
	}, nil
}

// engineFor returns the server engine, or a new one when the call
// overrides the clip limit or tile grid.
func (s *Server) engineFor(clip *float64, grid *int) (*enhance.Engine, error) {
	if clip == nil && grid == nil {
		return s.engine, nil
	}

	opts := s.engine.Options()
	if clip != nil {
		opts.ClipLimit = *clip
	}
	if grid != nil {
		opts.TileGridX, opts.TileGridY = *grid, *grid
	}

	engine, err := enhance.New(opts)
	if err != nil {
		return nil, &paramsError{err: err}
	}
	return engine, nil
}
