package generate

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bufbuild/connect-go"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/rpc"
	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/rpc/connectjson"
)

func TestConnectHandlerStreamsEvents(t *testing.T) {
	runner := fakeRunner{events: []rpc.GenerateEvent{
		{Type: "token", Token: "Paris"},
		{Type: "result", Result: &rpc.GenerateResponse{Success: true, Text: "Paris", ModelUsed: "offline"}},
		{Type: "done", Done: true},
	}}
	path, handler := NewConnectHandler(runner, nil)
	mux := http.NewServeMux()
	mux.Handle(path, handler)

	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot open listener in sandbox: %v", err)
	}

	server := httptest.NewUnstartedServer(h2c.NewHandler(mux, &http2.Server{}))
	server.Listener = ln
	server.Start()
	t.Cleanup(server.Close)

	client := connect.NewClient[rpc.GenerateStreamRequest, rpc.GenerateEvent](
		&http.Client{
			Transport: &http2.Transport{
				AllowHTTP: true,
				DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
					var d net.Dialer
					return d.DialContext(ctx, network, addr)
				},
			},
		},
		server.URL+path,
		connect.WithCodec(connectjson.Codec{}),
	)

	stream := client.CallBidiStream(context.Background())
	require.NoError(t, stream.Send(&rpc.GenerateStreamRequest{
		Run: &rpc.GenerateRequest{RequestID: "conn-1", Prompt: "capital of France", TokenBudget: 100},
	}))
	require.NoError(t, stream.CloseRequest())

	var resultSeen bool
	for {
		evt, err := stream.Receive()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		if evt.Type == "result" {
			resultSeen = true
			require.NotNil(t, evt.Result)
			require.Equal(t, "Paris", evt.Result.Text)
		}
	}
	require.NoError(t, stream.CloseResponse())
	require.True(t, resultSeen)
}

func TestConnectHandlerRequiresRunPayload(t *testing.T) {
	path, handler := NewConnectHandler(fakeRunner{}, nil)
	mux := http.NewServeMux()
	mux.Handle(path, handler)

	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot open listener in sandbox: %v", err)
	}

	server := httptest.NewUnstartedServer(h2c.NewHandler(mux, &http2.Server{}))
	server.Listener = ln
	server.Start()
	t.Cleanup(server.Close)

	client := connect.NewClient[rpc.GenerateStreamRequest, rpc.GenerateEvent](
		&http.Client{
			Transport: &http2.Transport{
				AllowHTTP: true,
				DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
					var d net.Dialer
					return d.DialContext(ctx, network, addr)
				},
			},
		},
		server.URL+path,
		connect.WithCodec(connectjson.Codec{}),
	)

	stream := client.CallBidiStream(context.Background())
	require.NoError(t, stream.Send(&rpc.GenerateStreamRequest{Cancel: true}))
	require.NoError(t, stream.CloseRequest())

	_, err = stream.Receive()
	require.Error(t, err)
	require.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}
