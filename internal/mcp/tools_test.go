package mcp

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expected := []string{"omr_scan", "image_load", "omr_profile"}
	if len(tools) != len(expected) {
		t.Fatalf("got %d tools, want %d", len(tools), len(expected))
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		toolMap[tool.Name] = tool
	}
	for _, name := range expected {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want object", tool.InputSchema["type"])
			}
			if _, ok := tool.InputSchema["properties"].(map[string]interface{}); !ok {
				t.Error("InputSchema properties missing")
			}
		})
	}
}

func TestToolDefinitions_RequiredPath(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		if tool.Name == "omr_profile" {
			continue
		}
		required, ok := tool.InputSchema["required"].([]string)
		if !ok || len(required) != 1 || required[0] != "path" {
			t.Errorf("%s: required = %v, want [path]", tool.Name, tool.InputSchema["required"])
		}
	}
}

func TestToolDefinitions_ScanDefaults(t *testing.T) {
	var scan Tool
	for _, tool := range GetToolDefinitions() {
		if tool.Name == "omr_scan" {
			scan = tool
		}
	}

	props := scan.InputSchema["properties"].(map[string]interface{})
	questions := props["number_of_questions"].(map[string]interface{})
	if questions["default"] != 20 {
		t.Errorf("number_of_questions default: got %v, want 20", questions["default"])
	}
	annotate := props["annotate"].(map[string]interface{})
	if annotate["type"] != "boolean" {
		t.Errorf("annotate type: got %v, want boolean", annotate["type"])
	}
}

func TestHandleToolsList(t *testing.T) {
	resp := newTestServer().handleToolsList(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	result := resp.Result.(map[string]interface{})
	if tools, ok := result["tools"].([]Tool); !ok || len(tools) != 3 {
		t.Errorf("tools: got %v", result["tools"])
	}
}
