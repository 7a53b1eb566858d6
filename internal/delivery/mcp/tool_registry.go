package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/FreePeak/cortex/pkg/server"
	"github.com/FreePeak/cortex/pkg/tools"
	"github.com/FreePeak/cortex/pkg/types"

	"github.com/shopmcp/shopify-mcp-server/internal/catalog"
	"github.com/shopmcp/shopify-mcp-server/internal/logger"
)

// ToolRegistry registers the tool catalog with the MCP server.
type ToolRegistry struct {
	mcpServer  *server.MCPServer
	dispatcher *Dispatcher
}

// NewToolRegistry creates a new tool registry.
func NewToolRegistry(mcpServer *server.MCPServer, dispatcher *Dispatcher) *ToolRegistry {
	return &ToolRegistry{
		mcpServer:  mcpServer,
		dispatcher: dispatcher,
	}
}

// RegisterAllTools registers every catalog operation with the server. Each
// cortex handler delegates to the dispatcher, so the envelope is the only
// result shape a client ever sees.
func (tr *ToolRegistry) RegisterAllTools(ctx context.Context) error {
	registrationErrors := 0
	for _, def := range tr.dispatcher.Definitions() {
		tool := buildTool(def)
		name := def.Name
		err := tr.mcpServer.AddTool(ctx, tool, func(ctx context.Context, request server.ToolCallRequest) (interface{}, error) {
			return tr.dispatcher.Dispatch(ctx, request.Name, request.Parameters), nil
		})
		if err != nil {
			logger.Error("Error registering tool %s: %v", name, err)
			registrationErrors++
			continue
		}
		logger.Debug("Registered tool %s", name)
	}

	if registrationErrors > 0 {
		return fmt.Errorf("errors occurred while registering %d tools", registrationErrors)
	}
	logger.Info("Registered %d tools", len(tr.dispatcher.Definitions()))
	return nil
}

// buildTool converts one catalog definition into a cortex tool schema.
func buildTool(def catalog.OperationDefinition) *types.Tool {
	opts := []tools.ToolOption{tools.WithDescription(def.Description)}

	for _, p := range def.Parameters {
		propOpts := []tools.ParameterOption{tools.Description(paramDescription(p))}
		if p.Required {
			propOpts = append(propOpts, tools.Required())
		}

		switch p.Type {
		case catalog.TypeInteger:
			opts = append(opts, tools.WithNumber(p.Name, propOpts...))
		default:
			opts = append(opts, tools.WithString(p.Name, propOpts...))
		}
	}

	return tools.NewTool(def.Name, opts...)
}

// paramDescription folds the enum and default into the description so MCP
// clients see the closed set without a custom schema extension.
func paramDescription(p catalog.Parameter) string {
	desc := p.Description
	if len(p.Enum) > 0 {
		desc += fmt.Sprintf(" (one of: %s)", strings.Join(p.Enum, ", "))
	}
	if p.Default != nil {
		desc += fmt.Sprintf(" (default %v)", p.Default)
	}
	return desc
}
