package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewDiagnosticsMCPServer creates an MCP server with all six routing
// diagnostics tools registered.
func NewDiagnosticsMCPServer(svc *DiagnosticsService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "slideroute-diagnostics",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "audit_coverage",
		Description: "Classify in-use content blocks as covered or uncovered by the compiled routing contract and compute the coverage percentage.",
	}, svc.AuditCoverage)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_drift",
		Description: "Compare the compiled routing contract against runtime mapping tables and report pattern, slide, and uncontracted-block discrepancies.",
	}, svc.CheckDrift)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "run_doctor",
		Description: "Run a single pass/fail health check over the routing contract: compile, fallback chain integrity, slide catalog presence, drift self-consistency.",
	}, svc.RunDoctor)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_sparsity",
		Description: "Measure textual content length per contracted block and flag empty or thin entries below the sparsity threshold.",
	}, svc.CheckSparsity)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve_block",
		Description: "Resolve a content block to a concrete slide, walking the deterministic fallback chain in lenient mode or failing fast in strict mode.",
	}, svc.ResolveBlock)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_metrics",
		Description: "Snapshot the routing session metrics and failure ledger.",
	}, svc.GetMetrics)

	return server
}

// RunMCPServer starts an HTTP server exposing the diagnostics MCP tools.
func RunMCPServer(ctx context.Context, svc *DiagnosticsService, addr string) error {
	server := NewDiagnosticsMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
