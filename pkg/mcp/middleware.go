package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// journalMiddleware records every tool call in j. Journal write failures
// never affect the tool result.
func journalMiddleware(j *Journal) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := now()
			result, err := next(ctx, req)
			elapsed := time.Since(start).Milliseconds()

			var errStr *string
			if err != nil {
				msg := err.Error()
				errStr = &msg
			}

			entry := JournalEntry{
				Ts:            start.UTC().Format(time.RFC3339),
				Tool:          req.Params.Name,
				Params:        sanitizeParams(req.GetArguments()),
				DurationMs:    elapsed,
				ResponseBytes: responseBytes(result),
				IsError:       result != nil && result.IsError,
				Error:         errStr,
			}
			_ = j.Write(entry)

			return result, err
		}
	}
}
