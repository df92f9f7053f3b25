package triage

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	nodex "github.com/supportlab/triage-agent/agent/nodes"
)

// compileTriageGraph wires the strictly-sequential pipeline:
// classify -> fetch_context -> compose. No branching, no loops; each stage
// contains its own failures so the graph always reaches compose.
func (s *Service) compileTriageGraph(ctx context.Context) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("prepare",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.PipelineState, error) {
			return nodex.Prepare(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node prepare: %w", err)
	}

	if err := graph.AddLambdaNode("classify",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.PipelineState) (*nodex.PipelineState, error) {
			return nodex.Classify(ctx, in, s.model)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node classify: %w", err)
	}

	if err := graph.AddLambdaNode("fetch_context",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.PipelineState) (*nodex.PipelineState, error) {
			return nodex.FetchContext(ctx, in, s.tools, s.toolName)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node fetch_context: %w", err)
	}

	if err := graph.AddLambdaNode("compose",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.PipelineState) (nodex.GraphOutput, error) {
			return nodex.Compose(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node compose: %w", err)
	}

	edges := [][2]string{
		{compose.START, "prepare"},
		{"prepare", "classify"},
		{"classify", "fetch_context"},
		{"fetch_context", "compose"},
		{"compose", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("triage.handle_request"))
	if err != nil {
		return nil, fmt.Errorf("compile triage graph: %w", err)
	}
	return runner, nil
}
