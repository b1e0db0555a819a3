package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/hornbill"
	"github.com/aretw0/hornbill/internal/logging"
	"github.com/aretw0/hornbill/internal/presentation/report"
	"github.com/aretw0/hornbill/pkg/catalog"
	"github.com/aretw0/hornbill/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// CatalogURI addresses the catalog resource.
const CatalogURI = "hornbill://catalog"

// TripResponse aligns with the HTTP API and provides a unified structure across adapters.
type TripResponse struct {
	Session *domain.Session `json:"session" jsonschema_description:"The planning session after the operation"`
	Summary domain.Summary  `json:"summary" jsonschema_description:"Derived totals, dates and progress"`
	Error   string          `json:"error,omitempty" jsonschema_description:"Why the operation was rejected, if it was"`
}

// Planner is the subset of hornbill.Planner exposed as tools.
type Planner interface {
	Catalog() *catalog.Catalog
	Start(ctx context.Context) (*domain.Session, error)
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	SelectDates(ctx context.Context, sessionID string, in domain.DateInput) (*domain.Session, error)
	SelectDestinations(ctx context.Context, sessionID string, ids []string) (*domain.Session, error)
	SelectExperiences(ctx context.Context, sessionID string, ids []string) (*domain.Session, error)
	SelectCurrency(ctx context.Context, sessionID, code string) (*domain.Session, error)
	Advance(ctx context.Context, sessionID string) (*domain.Session, error)
	Retreat(ctx context.Context, sessionID string) (*domain.Session, error)
	Submit(ctx context.Context, sessionID string, contact domain.ContactDetails) (*domain.Session, error)
	Summarize(s *domain.Session) domain.Summary
}

var _ Planner = (*hornbill.Planner)(nil)

// Server wraps the Planner and exposes it as an MCP Server.
type Server struct {
	planner   Planner
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger. Under stdio it must not write to stdout.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(p Planner, opts ...Option) *Server {
	s := &Server{
		planner:   p,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("hornbill-mcp", strings.TrimSpace(hornbill.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
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
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
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

		s.logger.Info("Shutdown signal received, shutting down MCP server")
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

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	sessionID := mcp.WithString("session_id", mcp.Required(), mcp.Description("Session returned by start_trip"))

	s.mcpServer.AddTool(mcp.NewTool("start_trip",
		mcp.WithDescription("Start planning a new trip to Nagaland. Returns the session to use with every other tool."),
		mcp.WithOutputSchema[TripResponse](),
	), mcp.NewStructuredToolHandler(s.handleStart))

	s.mcpServer.AddTool(mcp.NewTool("select_dates",
		mcp.WithDescription("Choose travel dates: a quick duration from tomorrow, an explicit range, or a festival preset."),
		sessionID,
		mcp.WithString("kind", mcp.Required(), mcp.Enum("quick", "custom", "preset"), mcp.Description("How the dates are given")),
		mcp.WithNumber("days", mcp.Description("Trip length for kind=quick (4, 7, 14 or 30 are suggested)")),
		mcp.WithString("start", mcp.Description("First day for kind=custom, YYYY-MM-DD")),
		mcp.WithString("end", mcp.Description("Last day for kind=custom, YYYY-MM-DD")),
		mcp.WithString("preset_id", mcp.Description("Festival preset for kind=preset, e.g. hornbill")),
		mcp.WithOutputSchema[TripResponse](),
	), mcp.NewStructuredToolHandler(s.handleSelectDates))

	s.mcpServer.AddTool(mcp.NewTool("select_destinations",
		mcp.WithDescription("Replace the list of destinations. During a festival preset only the host city is kept."),
		sessionID,
		mcp.WithArray("ids", mcp.Required(), mcp.Items(map[string]any{"type": "string"}), mcp.Description("Destination IDs from the catalog")),
		mcp.WithOutputSchema[TripResponse](),
	), mcp.NewStructuredToolHandler(s.handleSelectDestinations))

	s.mcpServer.AddTool(mcp.NewTool("select_experiences",
		mcp.WithDescription("Replace the list of experiences and recompute the estimated cost."),
		sessionID,
		mcp.WithArray("ids", mcp.Required(), mcp.Items(map[string]any{"type": "string"}), mcp.Description("Experience IDs from the catalog")),
		mcp.WithOutputSchema[TripResponse](),
	), mcp.NewStructuredToolHandler(s.handleSelectExperiences))

	s.mcpServer.AddTool(mcp.NewTool("select_currency",
		mcp.WithDescription("Show the estimated cost in another currency."),
		sessionID,
		mcp.WithString("code", mcp.Required(), mcp.Description("ISO 4217 code, e.g. EUR")),
		mcp.WithOutputSchema[TripResponse](),
	), mcp.NewStructuredToolHandler(s.handleSelectCurrency))

	s.mcpServer.AddTool(mcp.NewTool("advance",
		mcp.WithDescription("Move to the next step. Fails with a message when the current step is incomplete."),
		sessionID,
		mcp.WithOutputSchema[TripResponse](),
	), mcp.NewStructuredToolHandler(s.handleAdvance))

	s.mcpServer.AddTool(mcp.NewTool("retreat",
		mcp.WithDescription("Go back one step. Nothing entered is lost."),
		sessionID,
		mcp.WithOutputSchema[TripResponse](),
	), mcp.NewStructuredToolHandler(s.handleRetreat))

	s.mcpServer.AddTool(mcp.NewTool("submit_trip",
		mcp.WithDescription("Send the trip request from the review step with the traveller's contact details."),
		sessionID,
		mcp.WithString("name", mcp.Required()),
		mcp.WithString("email", mcp.Required()),
		mcp.WithString("phone", mcp.Required()),
		mcp.WithString("nationality", mcp.Required()),
		mcp.WithString("preferred_contact", mcp.Required(), mcp.Enum(domain.ContactMethods...)),
		mcp.WithString("group_size", mcp.Required(), mcp.Enum(domain.GroupSizes...)),
		mcp.WithString("arrival_details"),
		mcp.WithString("dietary_restrictions"),
		mcp.WithString("special_requests"),
		mcp.WithOutputSchema[TripResponse](),
	), mcp.NewStructuredToolHandler(s.handleSubmit))

	s.mcpServer.AddTool(mcp.NewTool("get_summary",
		mcp.WithDescription("Get a readable Markdown summary of the trip so far."),
		sessionID,
	), s.handleGetSummary)
}

// respond turns a planner result into a tool result.
// Validation failures are part of the answer; anything else is a tool error.
func (s *Server) respond(tool string, next *domain.Session, err error) (TripResponse, error) {
	if next == nil {
		s.logger.Debug("MCP tool failed", "tool", tool, "err", err)
		return TripResponse{}, err
	}
	resp := TripResponse{Session: next, Summary: s.planner.Summarize(next)}
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		resp.Error = vErr.Message
	} else if err != nil {
		return TripResponse{}, err
	}
	return resp, nil
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TripResponse, error) {
	next, err := s.planner.Start(ctx)
	return s.respond("start_trip", next, err)
}

func (s *Server) handleSelectDates(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TripResponse, error) {
	days, _ := args["days"].(float64)
	in, err := domain.ParseDateInput(stringArg(args, "kind"), int(days),
		stringArg(args, "start"), stringArg(args, "end"), stringArg(args, "preset_id"))
	if err != nil {
		return TripResponse{}, err
	}
	next, err := s.planner.SelectDates(ctx, stringArg(args, "session_id"), in)
	return s.respond("select_dates", next, err)
}

func (s *Server) handleSelectDestinations(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TripResponse, error) {
	next, err := s.planner.SelectDestinations(ctx, stringArg(args, "session_id"), stringsArg(args, "ids"))
	return s.respond("select_destinations", next, err)
}

func (s *Server) handleSelectExperiences(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TripResponse, error) {
	next, err := s.planner.SelectExperiences(ctx, stringArg(args, "session_id"), stringsArg(args, "ids"))
	return s.respond("select_experiences", next, err)
}

func (s *Server) handleSelectCurrency(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TripResponse, error) {
	next, err := s.planner.SelectCurrency(ctx, stringArg(args, "session_id"), strings.ToUpper(stringArg(args, "code")))
	return s.respond("select_currency", next, err)
}

func (s *Server) handleAdvance(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TripResponse, error) {
	next, err := s.planner.Advance(ctx, stringArg(args, "session_id"))
	return s.respond("advance", next, err)
}

func (s *Server) handleRetreat(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TripResponse, error) {
	next, err := s.planner.Retreat(ctx, stringArg(args, "session_id"))
	return s.respond("retreat", next, err)
}

func (s *Server) handleSubmit(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TripResponse, error) {
	contact := domain.ContactDetails{
		Name:                stringArg(args, "name"),
		Email:               stringArg(args, "email"),
		Phone:               stringArg(args, "phone"),
		Nationality:         stringArg(args, "nationality"),
		PreferredContact:    stringArg(args, "preferred_contact"),
		GroupSize:           stringArg(args, "group_size"),
		ArrivalDetails:      stringArg(args, "arrival_details"),
		DietaryRestrictions: stringArg(args, "dietary_restrictions"),
		SpecialRequests:     stringArg(args, "special_requests"),
	}
	next, err := s.planner.Submit(ctx, stringArg(args, "session_id"), contact)
	return s.respond("submit_trip", next, err)
}

func (s *Server) handleGetSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.planner.Get(ctx, request.GetString("session_id", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}
	return mcp.NewToolResultText(report.Session(sess, s.planner.Summarize(sess), s.planner.Catalog())), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(CatalogURI, "Nagaland Travel Catalog",
		mcp.WithResourceDescription("Destinations, experiences, festival presets and supported currencies"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.planner.Catalog())
		if err != nil {
			return nil, fmt.Errorf("failed to encode catalog: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      CatalogURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func stringArg(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}

// stringsArg accepts a JSON array or a comma separated string.
func stringsArg(args map[string]interface{}, key string) []string {
	switch v := args[key].(type) {
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	case string:
		return strings.Split(v, ",")
	default:
		return []string{}
	}
}
