package rpc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
	"github.com/trebuchet-org/treb-soroban/internal/usecase"
)

// Friendbot funds accounts through a network's friendbot endpoint
type Friendbot struct {
	url        string
	httpClient *http.Client
	log        *slog.Logger
}

// NewFriendbot creates a faucet for the friendbot at endpoint
func NewFriendbot(endpoint string, cfg config.RPCConfig, log *slog.Logger) *Friendbot {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Friendbot{
		url:        endpoint,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With("component", "friendbot"),
	}
}

// NewFriendbotAdapter creates the faucet for the active network
func NewFriendbotAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *Friendbot {
	return NewFriendbot(cfg.Network.FriendbotURL, cfg.RPC, log)
}

// Fund asks friendbot to create and fund address. An account that already
// exists counts as funded.
func (f *Friendbot) Fund(ctx context.Context, address string) error {
	if f.url == "" {
		return fmt.Errorf("%w: no friendbot configured", domain.ErrConfig)
	}

	endpoint, err := url.Parse(f.url)
	if err != nil {
		return fmt.Errorf("%w: invalid friendbot url: %v", domain.ErrConfig, err)
	}
	query := endpoint.Query()
	query.Set("addr", address)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("%w: create friendbot request: %v", domain.ErrConfig, err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(ctx, "friendbot", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransportError(ctx, "friendbot", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		f.log.Debug("account funded", "address", address)
		return nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("%w: friendbot: http %d", domain.ErrTransient, resp.StatusCode)
	case alreadyFunded(body):
		f.log.Debug("account already funded", "address", address)
		return nil
	}

	detail := gjson.GetBytes(body, "detail").String()
	if detail == "" {
		detail = strings.TrimSpace(string(body))
	}
	return fmt.Errorf("friendbot: http %d: %s", resp.StatusCode, detail)
}

func alreadyFunded(body []byte) bool {
	text := strings.ToLower(string(body))
	return strings.Contains(text, "createaccountalreadyexist") ||
		strings.Contains(text, "op_already_exists") ||
		strings.Contains(text, "already funded") ||
		strings.Contains(text, "account already exists")
}

var _ usecase.Faucet = (*Friendbot)(nil)
