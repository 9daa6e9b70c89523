// Package credits establishes per-account generation quota before any
// prompt is spent on an account.
//
// http_oracle.go implements the HTTPOracle molecule that probes the
// commerce credit endpoint with an account's session credential.
package credits

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/LinkuDev/dreamina/account"
	"github.com/LinkuDev/dreamina/logging"
)

// creditPath is the commerce endpoint serving an account's balance.
const creditPath = "/commerce/v1/benefits/user_credit"

// HTTPOracle probes the commerce credit endpoint for each account.
//
// An account's balance is the sum of its gift, purchase, and VIP credits.
// Transport errors and 5xx/429 responses get a bounded internal retry;
// deterministic failures (auth rejection, malformed body) do not.
//
// Thread Safety: HTTPOracle is safe for concurrent use. Each probe creates
// its own HTTP request.
type HTTPOracle struct {
	baseURL     string
	client      *http.Client
	logger      *logging.Logger
	maxAttempts int
	retryDelay  time.Duration
}

// HTTPOracleConfig holds configuration for the HTTP oracle.
type HTTPOracleConfig struct {
	// BaseURL is the API root, e.g. https://api.dreamina.com (required).
	BaseURL string

	// HTTPClient is the client for probe requests (optional).
	// If nil, a default client with a 30s timeout is used.
	HTTPClient *http.Client

	// MaxAttempts bounds the internal retry. Default: 2.
	MaxAttempts int

	// RetryDelay is the pause between retryable attempts. Default: 500ms.
	RetryDelay time.Duration
}

// NewHTTPOracle creates an HTTPOracle for the given API root.
func NewHTTPOracle(cfg HTTPOracleConfig, logger *logging.Logger) (*HTTPOracle, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("credits: base URL is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("credits: logger is required")
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 2
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 500 * time.Millisecond
	}

	return &HTTPOracle{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		client:      client,
		logger:      logger.Named("credit-oracle"),
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
	}, nil
}

// creditResponse mirrors the commerce endpoint's body. Credits arrive split
// into three buckets that all spend the same.
type creditResponse struct {
	Data struct {
		Credit struct {
			GiftCredit     int `json:"gift_credit"`
			PurchaseCredit int `json:"purchase_credit"`
			VipCredit      int `json:"vip_credit"`
		} `json:"credit"`
	} `json:"data"`
}

// Probe fetches the account's current balance. Never returns an error:
// failures become Unavailable results.
func (o *HTTPOracle) Probe(ctx context.Context, acct *account.Account) QuotaResult {
	if acct == nil {
		return Unavailable("no account")
	}

	var last QuotaResult
	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		result, retryable := o.probeOnce(ctx, acct)
		if result.Available {
			o.logger.Debug("Credit probe succeeded",
				zap.String(logging.FieldAccount, acct.Name),
				zap.Int("units", result.Units),
				zap.Int("attempt", attempt),
			)
			return result
		}
		if !retryable {
			o.logger.Warn("Credit probe failed",
				zap.String(logging.FieldAccount, acct.Name),
				zap.String("reason", result.Reason),
			)
			return result
		}
		last = result

		// Don't sleep after the last attempt
		if attempt < o.maxAttempts {
			select {
			case <-ctx.Done():
				return Unavailable("probe cancelled: " + ctx.Err().Error())
			case <-time.After(o.retryDelay):
			}
		}
	}

	o.logger.Warn("Credit probe failed after retries",
		zap.String(logging.FieldAccount, acct.Name),
		zap.String("reason", last.Reason),
		zap.Int("attempts", o.maxAttempts),
	)
	return last
}

// probeOnce performs a single probe request. The second return reports
// whether the failure merits another attempt.
func (o *HTTPOracle) probeOnce(ctx context.Context, acct *account.Account) (QuotaResult, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+creditPath, nil)
	if err != nil {
		return Unavailable("build credit request: " + err.Error()), false
	}
	req.Header.Set("Authorization", "Bearer "+acct.SessionCredential)
	if header := acct.CookieHeader(); header != "" {
		req.Header.Set("Cookie", header)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return Unavailable("credit probe failed: " + err.Error()), true
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return Unavailable(fmt.Sprintf("credit probe returned status %d", resp.StatusCode)), retryable
	}

	var parsed creditResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Unavailable("malformed credit response: " + err.Error()), false
	}

	credit := parsed.Data.Credit
	return Available(credit.GiftCredit + credit.PurchaseCredit + credit.VipCredit), false
}

// Ensure HTTPOracle implements Oracle at compile time.
var _ Oracle = (*HTTPOracle)(nil)
