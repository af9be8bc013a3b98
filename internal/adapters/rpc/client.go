package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/tidwall/gjson"
	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
	"github.com/trebuchet-org/treb-soroban/internal/domain/models"
	"github.com/trebuchet-org/treb-soroban/internal/usecase"
	"golang.org/x/time/rate"
)

const defaultTimeout = 30 * time.Second

// MetaDecoder extracts the invocation return value from a transaction's
// result meta. Older RPC servers only report the meta.
type MetaDecoder interface {
	ReturnValue(ctx context.Context, resultMetaXDR string) (string, error)
}

// Client is a rate-limited Soroban JSON-RPC client
type Client struct {
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
	meta       MetaDecoder
	log        *slog.Logger
	nextID     atomic.Uint64
}

// NewClient creates a client for url. meta may be nil.
func NewClient(url string, cfg config.RPCConfig, meta MetaDecoder, log *slog.Logger) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
		meta:       meta,
		log:        log.With("component", "rpc"),
	}
}

// NewClientAdapter creates the client for the active network
func NewClientAdapter(cfg *config.RuntimeConfig, meta MetaDecoder, log *slog.Logger) *Client {
	return NewClient(cfg.Network.RPCURL, cfg.RPC, meta, log)
}

type request struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      uint64      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// Error is a JSON-RPC error object returned by the server
type Error struct {
	Code    int64
	Message string
	Data    string
}

func (e *Error) Error() string {
	if e.Data != "" {
		return fmt.Sprintf("rpc error %d: %s (%s)", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// call performs one JSON-RPC request and returns the raw result member.
// Transport failures that are worth retrying are wrapped in ErrTransient.
func (c *Client) call(ctx context.Context, method string, params interface{}) (gjson.Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return gjson.Result{}, fmt.Errorf("%s: rate limiter: %w", method, err)
	}

	body, err := json.Marshal(request{JSONRPC: "2.0", ID: c.nextID.Add(1), Method: method, Params: params})
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%s: marshal request: %w", method, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%w: %s: create request: %v", domain.ErrConfig, method, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return gjson.Result{}, classifyTransportError(ctx, method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, classifyTransportError(ctx, method, err)
	}
	c.log.Debug("rpc call", "method", method, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return gjson.Result{}, fmt.Errorf("%w: %s: http %d", domain.ErrTransient, method, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("%s: unexpected http status %d", method, resp.StatusCode)
	}
	if !gjson.ValidBytes(respBody) {
		return gjson.Result{}, fmt.Errorf("%s: response is not valid JSON", method)
	}

	parsed := gjson.ParseBytes(respBody)
	if rpcErr := parsed.Get("error"); rpcErr.Exists() && rpcErr.Type != gjson.Null {
		return gjson.Result{}, fmt.Errorf("%s: %w", method, &Error{
			Code:    rpcErr.Get("code").Int(),
			Message: rpcErr.Get("message").String(),
			Data:    rpcErr.Get("data").String(),
		})
	}

	result := parsed.Get("result")
	if !result.Exists() {
		return gjson.Result{}, fmt.Errorf("%s: response has no result", method)
	}
	return result, nil
}

func classifyTransportError(ctx context.Context, method string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", method, ctxErr)
	}

	var netErr net.Error
	switch {
	case errors.As(err, &netErr) && netErr.Timeout(),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, io.EOF):
		return fmt.Errorf("%w: %s: %v", domain.ErrTransient, method, err)
	}
	return fmt.Errorf("%s: %w", method, err)
}

func stringArray(result gjson.Result) []string {
	if !result.IsArray() {
		return nil
	}
	var out []string
	for _, item := range result.Array() {
		out = append(out, item.String())
	}
	return out
}

// SimulateTransaction runs the envelope against current ledger state
func (c *Client) SimulateTransaction(ctx context.Context, envelope string) (*models.Simulation, error) {
	result, err := c.call(ctx, "simulateTransaction", map[string]string{"transaction": envelope})
	if err != nil {
		return nil, err
	}

	return &models.Simulation{
		ResultXDR:      result.Get("results.0.xdr").String(),
		MinResourceFee: result.Get("minResourceFee").String(),
		Error:          result.Get("error").String(),
		EventsXDR:      stringArray(result.Get("events")),
		LatestLedger:   uint32(result.Get("latestLedger").Uint()),
	}, nil
}

// SendTransaction submits a signed envelope
func (c *Client) SendTransaction(ctx context.Context, envelope string) (*models.Submission, error) {
	result, err := c.call(ctx, "sendTransaction", map[string]string{"transaction": envelope})
	if err != nil {
		return nil, err
	}

	submission := &models.Submission{
		Hash:                result.Get("hash").String(),
		Status:              models.SendStatus(result.Get("status").String()),
		ErrorResultXDR:      result.Get("errorResultXdr").String(),
		DiagnosticEventsXDR: stringArray(result.Get("diagnosticEventsXdr")),
	}
	if submission.Status == "" {
		return nil, errors.New("sendTransaction: response has no status")
	}
	return submission, nil
}

// GetTransaction reports the status of a submitted transaction
func (c *Client) GetTransaction(ctx context.Context, hash string) (*models.TransactionInfo, error) {
	result, err := c.call(ctx, "getTransaction", map[string]string{"hash": hash})
	if err != nil {
		return nil, err
	}

	info := &models.TransactionInfo{
		Hash:           hash,
		Status:         models.TransactionStatus(result.Get("status").String()),
		Ledger:         uint32(result.Get("ledger").Uint()),
		ResultXDR:      result.Get("resultXdr").String(),
		ReturnValueXDR: result.Get("returnValue").String(),
	}

	diagnostics := result.Get("diagnosticEventsXdr")
	if !diagnostics.Exists() {
		diagnostics = result.Get("events.diagnosticEventsXdr")
	}
	info.DiagnosticEventsXDR = stringArray(diagnostics)

	if info.Status == models.TransactionStatusSuccess && info.ReturnValueXDR == "" && c.meta != nil {
		if meta := result.Get("resultMetaXdr").String(); meta != "" {
			value, err := c.meta.ReturnValue(ctx, meta)
			if err != nil {
				c.log.Warn("could not extract return value from result meta", "hash", hash, "error", err)
			} else {
				info.ReturnValueXDR = value
			}
		}
	}

	return info, nil
}

// GetHealth reports whether the RPC server is in sync
func (c *Client) GetHealth(ctx context.Context) (*models.NetworkHealth, error) {
	result, err := c.call(ctx, "getHealth", nil)
	if err != nil {
		return nil, err
	}

	return &models.NetworkHealth{
		Status:              result.Get("status").String(),
		LatestLedger:        uint32(result.Get("latestLedger").Uint()),
		OldestLedger:        uint32(result.Get("oldestLedger").Uint()),
		LedgerRetentionSize: uint32(result.Get("ledgerRetentionWindow").Uint()),
	}, nil
}

var _ usecase.RPCClient = (*Client)(nil)
