package tool

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hupe1980/agentlayer/logging"
)

const maxResponseBytes = 64 * 1024

// BuiltinOptions configures the framework-scope builtin tools.
type BuiltinOptions struct {
	// HTTPClient used by the builtin tools. Defaults to a client with a 30s timeout.
	HTTPClient *http.Client

	// Logger for call instrumentation.
	Logger logging.Logger
}

// NewHTTPRequestTool returns the builtin "http_request" framework tool: a
// simple GET fetcher with a capped response body, for agents that need to pull
// a URL without a dedicated integration.
func NewHTTPRequestTool(optFns ...func(o *BuiltinOptions)) *FunctionTool {
	opts := builtinOptions(optFns)

	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{"type": "string", "description": "Absolute URL to fetch (http or https)"},
		},
		"required": []string{"url"},
	}

	return NewFunctionTool(
		"http_request",
		"Fetch a URL via HTTP GET and return status and body (truncated to 64KiB)",
		params,
		func(ctx context.Context, args map[string]any) (any, error) {
			raw, _ := args["url"].(string)

			parsed, err := url.Parse(raw)
			if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
				return nil, NewToolError("http_request", fmt.Sprintf("invalid url: %q", raw), "VALIDATION_ERROR")
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
			if err != nil {
				return nil, err
			}

			resp, err := opts.HTTPClient.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			if err != nil {
				return nil, err
			}

			return map[string]any{
				"status": resp.StatusCode,
				"body":   string(body),
			}, nil
		},
		WithLogger(opts.Logger),
	)
}

// NewWebSearchTool returns the builtin "web_search" framework tool backed by
// the DuckDuckGo instant answer API. It is intentionally modest: projects that
// need a real search provider replace or wrap it via an override directive.
func NewWebSearchTool(optFns ...func(o *BuiltinOptions)) *FunctionTool {
	opts := builtinOptions(optFns)

	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query":       map[string]any{"type": "string", "description": "Search query"},
			"max_results": map[string]any{"type": "integer", "description": "Maximum number of results"},
		},
		"required": []string{"query"},
	}

	return NewFunctionTool(
		"web_search",
		"Search the web and return a short list of result snippets",
		params,
		func(ctx context.Context, args map[string]any) (any, error) {
			query, _ := args["query"].(string)
			if strings.TrimSpace(query) == "" {
				return nil, NewToolError("web_search", "query must not be empty", "VALIDATION_ERROR")
			}

			endpoint := "https://api.duckduckgo.com/?format=json&no_html=1&q=" + url.QueryEscape(query)

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return nil, err
			}

			resp, err := opts.HTTPClient.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			if err != nil {
				return nil, err
			}

			if resp.StatusCode != http.StatusOK {
				return nil, NewToolError("web_search", fmt.Sprintf("search backend returned %d", resp.StatusCode), "EXECUTION_ERROR")
			}

			return map[string]any{
				"query": query,
				"raw":   string(body),
			}, nil
		},
		WithLogger(opts.Logger),
	)
}

func builtinOptions(optFns []func(o *BuiltinOptions)) BuiltinOptions {
	opts := BuiltinOptions{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Logger:     logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return opts
}
