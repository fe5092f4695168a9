package soroban

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/0xGeorgii/interstellar/internal/utils/config"
	"github.com/0xGeorgii/interstellar/internal/utils/logger"
)

const maxRetries = 3

type client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

func New(cfg *config.AppConfig, logger *logger.Logger) IClient {
	return &client{
		baseURL:    cfg.Stellar.SorobanRPCURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

func (c *client) GetHealth(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.call(ctx, "getHealth", nil, &out); err != nil {
		return err
	}
	if out.Status != "healthy" {
		return fmt.Errorf("soroban rpc unhealthy: %s", out.Status)
	}
	return nil
}

func (c *client) GetLatestLedger(ctx context.Context) (*LatestLedger, error) {
	var out LatestLedger
	if err := c.call(ctx, "getLatestLedger", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) SimulateTransaction(ctx context.Context, txBase64 string) (*SimulateResult, error) {
	var out SimulateResult
	params := map[string]string{"transaction": txBase64}
	if err := c.call(ctx, "simulateTransaction", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) SendTransaction(ctx context.Context, txBase64 string) (*SendResult, error) {
	var out SendResult
	params := map[string]string{"transaction": txBase64}
	if err := c.call(ctx, "sendTransaction", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) GetTransaction(ctx context.Context, hash string) (*TransactionResult, error) {
	var out TransactionResult
	params := map[string]string{"hash": hash}
	if err := c.call(ctx, "getTransaction", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) call(ctx context.Context, method string, params, result interface{}) error {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return errors.Wrap(err, "failed to marshal rpc request")
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
		if err != nil {
			return errors.Wrap(err, "failed to create request")
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = errors.Wrapf(err, "failed to call %s", method)
			c.logger.Error("[call][client.Do]", map[string]string{
				"method":  method,
				"error":   err.Error(),
				"attempt": strconv.Itoa(attempt),
			})
			if !sleepCtx(ctx, time.Duration(attempt)*time.Second) {
				return ctx.Err()
			}
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = errors.Wrap(err, "failed to read response")
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("status code: %d, body: %s", resp.StatusCode, string(body))
			c.logger.Error("[call] rpc error status", map[string]string{
				"method":     method,
				"statusCode": strconv.Itoa(resp.StatusCode),
				"attempt":    strconv.Itoa(attempt),
			})
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return lastErr
			}
			if !sleepCtx(ctx, time.Duration(attempt)*time.Second) {
				return ctx.Err()
			}
			continue
		}

		var rpcResp rpcResponse
		if err := json.Unmarshal(body, &rpcResp); err != nil {
			lastErr = errors.Wrap(err, "failed to decode rpc response")
			continue
		}
		if rpcResp.Error != nil {
			return fmt.Errorf("rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
		}

		if result == nil {
			return nil
		}
		return errors.Wrap(json.Unmarshal(rpcResp.Result, result), "failed to decode rpc result")
	}

	return lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
