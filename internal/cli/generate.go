package cli

import (
	"bufio"
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bufbuild/connect-go"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"

	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/rpc"
	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/rpc/connectjson"
	genrpc "github.com/kvr06-ai/hf-ai-thinking-sim/internal/rpc/generate"
)

// NewGenerateCmd wires the generate command to stream events from the daemon.
func NewGenerateCmd(opts *Options) *cobra.Command {
	var budget int
	var caseName string
	var candidates []string

	cmd := &cobra.Command{
		Use:   "generate [\"<prompt>\"]",
		Short: "Send a prompt with a token budget and stream the response",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			prompt := ""
			if len(args) == 1 {
				prompt = strings.TrimSpace(args[0])
			}
			if prompt == "" && caseName == "" {
				return fmt.Errorf("provide a prompt argument or --case")
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			reqBody := rpc.GenerateRequest{
				RequestID:   fmt.Sprintf("cli-%d", time.Now().UnixNano()),
				Prompt:      prompt,
				Case:        caseName,
				TokenBudget: budget,
				Candidates:  candidates,
			}

			baseURL := daemonURL(cfg.Server.Addr)
			switch strings.ToLower(strings.TrimSpace(cfg.Server.Transport)) {
			case "ndjson":
				return generateNDJSON(ctx, cmd, baseURL+"/api/generate/stream", reqBody)
			default:
				return generateConnect(ctx, cmd, baseURL+genrpc.ConnectGenerateProcedure, reqBody)
			}
		},
	}

	cmd.Flags().IntVar(&budget, "budget", 0, "Token budget for the generation (default: configured default_budget)")
	cmd.Flags().StringVar(&caseName, "case", "", "Run a named case study instead of a free prompt")
	cmd.Flags().StringSliceVar(&candidates, "candidates", nil, "Override the candidate model chain (repeatable or comma-separated)")
	return cmd
}

func daemonURL(addr string) string {
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return addr
	}
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

func generateNDJSON(ctx context.Context, cmd *cobra.Command, url string, reqBody rpc.GenerateRequest) error {
	data, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("daemon returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		var evt rpc.GenerateEvent
		if err := json.Unmarshal(scanner.Bytes(), &evt); err != nil {
			return fmt.Errorf("decode event: %w", err)
		}
		if err := renderEvent(cmd, evt); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func generateConnect(ctx context.Context, cmd *cobra.Command, url string, reqBody rpc.GenerateRequest) error {
	client := connect.NewClient[rpc.GenerateStreamRequest, rpc.GenerateEvent](buildH2CClient(), url, connect.WithCodec(connectjson.Codec{}))
	stream := client.CallBidiStream(ctx)

	if err := stream.Send(&rpc.GenerateStreamRequest{Run: &reqBody}); err != nil {
		return err
	}

	// propagate cancellation to the daemon.
	go func() {
		<-ctx.Done()
		_ = stream.Send(&rpc.GenerateStreamRequest{Cancel: true, RequestID: reqBody.RequestID})
		_ = stream.CloseRequest()
	}()

	for {
		evt, err := stream.Receive()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if err := renderEvent(cmd, *evt); err != nil {
			return err
		}
	}
	_ = stream.CloseRequest()
	return stream.CloseResponse()
}

func renderEvent(cmd *cobra.Command, evt rpc.GenerateEvent) error {
	out := cmd.OutOrStdout()
	switch evt.Type {
	case "token":
		fmt.Fprint(out, evt.Token)
	case "message":
		fmt.Fprintf(out, "[%s]\n", evt.Message)
	case "result":
		if evt.Result != nil {
			r := evt.Result
			fmt.Fprintf(out, "\n\nAnswer: %s\n", r.Text)
			fmt.Fprintf(out, "Model: %s, tokens: %d / %d budget\n", r.ModelUsed, r.Usage.CompletionTokens, r.TokenBudget)
		}
	case "done":
		fmt.Fprintln(out, "\n[done]")
	case "error":
		return fmt.Errorf("daemon error: %s", evt.Error)
	}
	return nil
}

func buildH2CClient() *http.Client {
	return &http.Client{
		Transport: &http2.Transport{
			AllowHTTP: true,
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, network, addr)
			},
		},
	}
}
