package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/journey"
	"github.com/aretw0/journey/internal/logging"
	"github.com/aretw0/journey/internal/sanitize"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/ports"
	"github.com/aretw0/journey/pkg/video"
	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	catalogURI  = "journey://catalog"
	artifactURI = "journey://artifact"
)

// StepResponse is the structured result of the step tools.
type StepResponse struct {
	View     domain.StepView `json:"view" jsonschema_description:"The step under the cursor and its saved entry"`
	Cursor   string          `json:"cursor" jsonschema_description:"Step id to pass to the next call, or 'complete'"`
	EmbedURL string          `json:"embed_url,omitempty" jsonschema_description:"Embeddable video URL of the step"`
}

// CursorResponse is the structured result of transitions.
type CursorResponse struct {
	Cursor string `json:"cursor" jsonschema_description:"The new cursor: a step id or 'complete'"`
}

// Server wraps a journal and exposes it as an MCP Server.
type Server struct {
	journal   ports.Journal
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(journal ports.Journal, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		journal:   journal,
		logger:    logger,
		mcpServer: server.NewMCPServer("journey-mcp", strings.TrimSpace(journey.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("current_step",
		mcp.WithDescription("Show a step of the journey and its saved answer. Without step_id, the step under the cursor."),
		mcp.WithString("step_id", mcp.Description("Step id, or 'complete' (optional)")),
		mcp.WithOutputSchema[StepResponse](),
	), mcp.NewStructuredToolHandler(s.handleCurrent))

	s.mcpServer.AddTool(mcp.NewTool("save_answer",
		mcp.WithDescription("Save the typed answer of a step. Other steps are left untouched."),
		mcp.WithString("step_id", mcp.Required(), mcp.Description("Step id")),
		mcp.WithString("text", mcp.Required(), mcp.Description("The answer")),
		mcp.WithString("mode", mcp.Description("Entry mode: 'type' or 'ink' (optional)")),
		mcp.WithOutputSchema[domain.Entry](),
	), mcp.NewStructuredToolHandler(s.handleSave))

	s.mcpServer.AddTool(mcp.NewTool("next_step",
		mcp.WithDescription("Save the step and move forward. Returns the new cursor."),
		mcp.WithString("step_id", mcp.Required(), mcp.Description("Current step id")),
		mcp.WithString("text", mcp.Description("Final answer of the step (optional)")),
		mcp.WithOutputSchema[CursorResponse](),
	), mcp.NewStructuredToolHandler(s.handleNext))

	s.mcpServer.AddTool(mcp.NewTool("restart",
		mcp.WithDescription("Erase every answer and go back to the first step."),
		mcp.WithOutputSchema[CursorResponse](),
	), mcp.NewStructuredToolHandler(s.handleRestart))

	s.mcpServer.AddTool(mcp.NewTool("compile_ledger",
		mcp.WithDescription("Compile all answers into the plain-text ledger."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := s.journal.Compile(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("compile failed: %v", err)), nil
		}
		return mcp.NewToolResultText(text), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("get_steps",
		mcp.WithDescription("Get the full step catalog."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := json.Marshal(s.journal.Catalog())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleCurrent(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StepResponse, error) {
	stepID, _ := args["step_id"].(string)

	var view domain.StepView
	var err error
	switch stepID {
	case "":
		view, err = s.journal.Current(ctx)
	case domain.CompleteSentinel:
		total := len(s.journal.Catalog())
		view = domain.StepView{Complete: true, Total: total, Position: total}
	default:
		view, err = s.journal.Visit(ctx, stepID)
	}
	if err != nil {
		return StepResponse{}, fmt.Errorf("visit failed: %w", err)
	}

	resp := StepResponse{View: view, Cursor: domain.CompleteSentinel}
	if !view.Complete {
		resp.Cursor = view.Step.ID
		if view.Step.VideoURL != "" {
			resp.EmbedURL = video.EmbedURL(view.Step.VideoURL)
		}
	}
	return resp, nil
}

func (s *Server) handleSave(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Entry, error) {
	stepID, err := s.knownStep(args)
	if err != nil {
		return domain.Entry{}, err
	}
	text, err := sanitize.Answer(stringArg(args, "text"))
	if err != nil {
		return domain.Entry{}, err
	}

	if mode, ok := args["mode"].(string); ok && mode != "" {
		if _, err := s.journal.SetMode(ctx, stepID, domain.Mode(mode)); err != nil {
			return domain.Entry{}, fmt.Errorf("set mode failed: %w", err)
		}
	}
	entry, err := s.journal.SaveText(ctx, stepID, text, domain.SaveExplicit)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("save failed: %w", err)
	}
	return entry, nil
}

func (s *Server) handleNext(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CursorResponse, error) {
	stepID, err := s.knownStep(args)
	if err != nil {
		return CursorResponse{}, err
	}

	var text *string
	if t, ok := args["text"].(string); ok {
		clean, err := sanitize.Answer(t)
		if err != nil {
			return CursorResponse{}, err
		}
		text = &clean
	}
	cursor, err := s.journal.Next(ctx, stepID, text)
	if err != nil {
		return CursorResponse{}, fmt.Errorf("next failed: %w", err)
	}
	return CursorResponse{Cursor: cursor}, nil
}

func (s *Server) handleRestart(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CursorResponse, error) {
	cursor, err := s.journal.Restart(ctx)
	if err != nil {
		return CursorResponse{}, fmt.Errorf("restart failed: %w", err)
	}
	return CursorResponse{Cursor: cursor}, nil
}

func stringArg(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return v
}

// knownStep rejects ids outside the catalog so a typo never lands on the first step.
func (s *Server) knownStep(args map[string]interface{}) (string, error) {
	stepID, _ := args["step_id"].(string)
	if _, ok := s.journal.Catalog().Lookup(stepID); !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownStep, stepID)
	}
	return stepID, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(catalogURI, "Step Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.journal.Catalog())
		if err != nil {
			return nil, fmt.Errorf("failed to encode catalog: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      catalogURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	s.mcpServer.AddResource(mcp.NewResource(artifactURI, "Compiled Ledger",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text, err := s.journal.Compile(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to compile ledger: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      artifactURI,
				MIMEType: "text/plain",
				Text:     text,
			},
		}, nil
	})
}
