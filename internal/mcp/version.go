package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/iposhala-portal/internal/config"
)

// versionInfo holds version fields for one component.
type versionInfo struct {
	Version string `json:"version"`
	Build   string `json:"build"`
	Commit  string `json:"commit"`
}

type backendStatus struct {
	Status    string `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// VersionTool returns the mcp.Tool definition for get_version.
func VersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get IPOshala portal version and backend status. Use this to verify connectivity."),
	)
}

// VersionToolHandler reports the portal version and whether the backend
// answers the stats endpoint.
func VersionToolHandler(l Listings) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := map[string]any{
			"iposhala_portal": versionInfo{
				Version: config.GetVersion(),
				Build:   config.GetBuild(),
				Commit:  config.GetGitCommit(),
			},
		}

		start := time.Now()
		_, err := l.Stats(ctx)
		status := backendStatus{Status: "ok", LatencyMs: time.Since(start).Milliseconds()}
		if err != nil {
			status.Status = "down"
			status.Error = err.Error()
		}
		result["backend"] = status

		return jsonResult(result)
	}
}
