// Package sandbox hosts a local stand-in for the managed tool gateway: a
// token endpoint issuing throwaway bearers and a JSON-RPC surface serving
// the customer-context tool from the seeded store. It exists so the agent
// can run end to end without the managed deployment; it is not a real
// authorization server.
package sandbox

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/supportlab/triage-agent/agent/contract"
	customerx "github.com/supportlab/triage-agent/agent/customer"
)

// ToolName is the registered name of the one tool the sandbox serves,
// carrying a target prefix the way managed deployments do.
const ToolName = "support-sandbox___get_customer_context"

// CustomerSource is the record lookup behind tools/call.
type CustomerSource interface {
	Get(ctx context.Context, customerID string) (*customerx.CustomerContext, error)
}

type Server struct {
	app       *fiber.App
	customers CustomerSource
}

func New(customers CustomerSource) (*Server, error) {
	if customers == nil {
		return nil, errors.New("customer source is required")
	}

	s := &Server{
		app:       fiber.New(fiber.Config{DisableStartupMessage: true}),
		customers: customers,
	}
	s.app.Post("/oauth2/token", s.handleToken)
	s.app.Post("/mcp", s.handleRPC)
	return s, nil
}

func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleToken(c *fiber.Ctx) error {
	if c.FormValue("grant_type") != "client_credentials" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unsupported_grant_type"})
	}
	if c.FormValue("client_id") == "" || c.FormValue("client_secret") == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_client"})
	}

	return c.JSON(fiber.Map{
		"access_token": uuid.NewString(),
		"token_type":   "Bearer",
		"expires_in":   3600,
	})
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	} `json:"params"`
}

func (s *Server) handleRPC(c *fiber.Ctx) error {
	if !strings.HasPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
	}

	var req rpcRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return rpcError(c, "", -32700, "parse error")
	}

	switch req.Method {
	case "tools/list":
		return rpcResult(c, req.ID, fiber.Map{
			"tools": []contractx.ToolDescriptor{{Name: ToolName}},
		})
	case "tools/call":
		return s.handleToolCall(c, req)
	default:
		return rpcError(c, req.ID, -32601, "method not found: "+req.Method)
	}
}

func (s *Server) handleToolCall(c *fiber.Ctx, req rpcRequest) error {
	if req.Params.Name != ToolName {
		return rpcError(c, req.ID, -32602, "unknown tool: "+req.Params.Name)
	}

	customerID, _ := req.Params.Arguments["customer_id"].(string)
	record, err := s.customers.Get(c.UserContext(), customerID)
	if err != nil {
		if errors.Is(err, customerx.ErrNotFound) {
			return rpcResult(c, req.ID, fiber.Map{
				"customer_id": customerID,
				"found":       false,
			})
		}
		log.Error().Err(err).Str("customer_id", customerID).Msg("customer lookup failed")
		return rpcError(c, req.ID, -32000, "customer lookup failed")
	}

	return rpcResult(c, req.ID, record)
}

func rpcResult(c *fiber.Ctx, id string, result any) error {
	return c.JSON(fiber.Map{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	})
}

func rpcError(c *fiber.Ctx, id string, code int, message string) error {
	return c.JSON(fiber.Map{
		"jsonrpc": "2.0",
		"id":      id,
		"error":   fiber.Map{"code": code, "message": message},
	})
}
