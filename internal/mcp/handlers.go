package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ironsheep/omr-service/internal/detection"
	"github.com/ironsheep/omr-service/internal/imaging"
	"github.com/ironsheep/omr-service/internal/omr"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "omr_scan", "image_load").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// toolResult is what a tool returns: a value rendered as JSON text, plus an
// optional image shown to the client as an image content item.
type toolResult struct {
	value interface{}
	image *imaging.OverlayResult
}

var errInvalidArguments = errors.New("invalid arguments")

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [
//	    {"type": "text", "text": "<JSON result>"},
//	    {"type": "image", "data": "<base64 PNG>", "mimeType": "image/png"}
//	  ]
//	}
//
// The image item is present only for annotated scans. Bad arguments return
// code -32602; tool execution errors return code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	log := s.log.With(zap.String("call_id", uuid.NewString()), zap.String("tool", params.Name))
	started := time.Now()

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		log.Warn("tool failed", zap.Error(err))
		if errors.Is(err, errInvalidArguments) {
			return errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		return errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	log.Info("tool finished", zap.Duration("elapsed", time.Since(started)))

	content := []map[string]interface{}{
		{
			"type": "text",
			"text": mustMarshalJSON(result.value),
		},
	}
	if result.image != nil {
		content = append(content, map[string]interface{}{
			"type":     "image",
			"data":     result.image.ImageBase64,
			"mimeType": result.image.MimeType,
		})
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": content,
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (*toolResult, error) {
	switch name {
	case "omr_scan":
		return s.handleScan(args)
	case "image_load":
		return s.handleImageLoad(args)
	case "omr_profile":
		return s.handleProfile(args)
	default:
		return nil, fmt.Errorf("%w: unknown tool: %s", errInvalidArguments, name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArguments, err)
	}
	return nil
}

// === Scanning ===

type scanArgs struct {
	Path              string `json:"path"`
	NumberOfQuestions int    `json:"number_of_questions"`
	Annotate          bool   `json:"annotate"`
}

type scanResult struct {
	Path string `json:"path"`
	*omr.Summary

	// Answered counts the answers with a selected position.
	Answered int `json:"answered"`
}

// overlayMaxSide keeps annotated images small enough for a chat client.
const overlayMaxSide = 1200

func (s *Server) handleScan(args json.RawMessage) (*toolResult, error) {
	var a scanArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidArguments)
	}
	if a.NumberOfQuestions > s.scanner.MaxQuestions() {
		return nil, fmt.Errorf("%w: number_of_questions must not exceed %d", errInvalidArguments, s.scanner.MaxQuestions())
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	summary, err := s.scanner.Scan(img, a.NumberOfQuestions)
	if err != nil {
		return nil, err
	}

	res := scanResult{Path: a.Path, Summary: summary}
	for _, answer := range summary.Answers {
		if answer.Position > 0 {
			res.Answered++
		}
	}

	out := &toolResult{value: res}
	if a.Annotate {
		overlay, err := summary.Annotate(img, overlayMaxSide)
		if err != nil {
			return nil, err
		}
		out.image = overlay
	}

	return out, nil
}

// === Image Information ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (*toolResult, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidArguments)
	}

	info, err := imaging.LoadImageInfo(s.cache, a.Path, s.scanner.Params().AnswerRegionTop)
	if err != nil {
		return nil, err
	}
	return &toolResult{value: info}, nil
}

// === Calibration ===

type profileResult struct {
	Params             detection.Params `json:"params"`
	OptionsPerQuestion int              `json:"options_per_question"`
	DefaultQuestions   int              `json:"default_questions"`
}

func (s *Server) handleProfile(args json.RawMessage) (*toolResult, error) {
	return &toolResult{value: profileResult{
		Params:             s.scanner.Params(),
		OptionsPerQuestion: detection.OptionsPerQuestion,
		DefaultQuestions:   omr.DefaultQuestions,
	}}, nil
}
