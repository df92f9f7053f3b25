package nodes

import (
	"context"
	"errors"
	"testing"
)

type fakeGateway struct {
	result map[string]any
	err    error

	names []string
	args  []map[string]any
}

func (f *fakeGateway) CallTool(ctx context.Context, name string, arguments map[string]any) (map[string]any, error) {
	f.names = append(f.names, name)
	f.args = append(f.args, arguments)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func TestFetchContextSuccess(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{result: map[string]any{"account_status": "ACTIVE"}}
	in := &PipelineState{UserMessage: "help", CustomerID: "C1005"}

	out, err := FetchContext(context.Background(), in, gw, "get_customer_context")
	if err != nil {
		t.Fatalf("FetchContext() error = %v", err)
	}
	if out.MCPResult["account_status"] != "ACTIVE" {
		t.Fatalf("unexpected result: %v", out.MCPResult)
	}
	if len(gw.names) != 1 || gw.names[0] != "get_customer_context" {
		t.Fatalf("unexpected tool names: %v", gw.names)
	}
	if gw.args[0]["customer_id"] != "C1005" {
		t.Fatalf("unexpected arguments: %v", gw.args[0])
	}
}

func TestFetchContextMissingCustomerIDUsesSentinel(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{result: map[string]any{}}
	in := &PipelineState{UserMessage: "help"}

	if _, err := FetchContext(context.Background(), in, gw, "get_customer_context"); err != nil {
		t.Fatalf("FetchContext() error = %v", err)
	}
	if gw.args[0]["customer_id"] != UnknownCustomerID {
		t.Fatalf("customer_id = %v, want %s", gw.args[0]["customer_id"], UnknownCustomerID)
	}
}

func TestFetchContextFailureIsContained(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{err: errors.New("token endpoint unreachable")}
	in := &PipelineState{UserMessage: "help", CustomerID: "C1002"}

	out, err := FetchContext(context.Background(), in, gw, "get_customer_context")
	if err != nil {
		t.Fatalf("FetchContext() must never propagate, got error = %v", err)
	}

	gatewayErr, ok := out.MCPResult["gateway_error"].(string)
	if !ok || gatewayErr == "" {
		t.Fatalf("expected gateway_error in result, got %v", out.MCPResult)
	}
	args, ok := out.MCPResult["arguments"].(map[string]any)
	if !ok || args["customer_id"] != "C1002" {
		t.Fatalf("expected original arguments echoed, got %v", out.MCPResult["arguments"])
	}
}

func TestFetchContextNilResultBecomesEmptyMap(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{}
	in := &PipelineState{CustomerID: "C1001"}

	out, err := FetchContext(context.Background(), in, gw, "get_customer_context")
	if err != nil {
		t.Fatalf("FetchContext() error = %v", err)
	}
	if out.MCPResult == nil || len(out.MCPResult) != 0 {
		t.Fatalf("expected empty map result, got %v", out.MCPResult)
	}
}
