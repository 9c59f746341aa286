package monerorpc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Client is an immutable handle to one daemon or wallet RPC server.
// It is safe for concurrent use.
type Client struct {
	logger     *logrus.Logger
	httpClient *http.Client
	baseURL    string
	username   string
	password   string
}

// New validates cfg and builds a Client. It never touches the network.
// A nil logger discards all output.
func New(logger *logrus.Logger, cfg Config) (*Client, error) {
	baseURL, err := cfg.validate()
	if err != nil {
		return nil, err
	}

	httpClient, err := cfg.httpClient()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	return &Client{
		logger:     logger,
		httpClient: httpClient,
		baseURL:    baseURL.String(),
		username:   cfg.Username,
		password:   cfg.Password,
	}, nil
}

// Daemon returns the monerod JSON-RPC methods.
func (c *Client) Daemon() Daemon {
	return Daemon{c: c}
}

// Regtest returns the monerod methods available on a regtest network.
func (c *Client) Regtest() Regtest {
	return Regtest{Daemon: c.Daemon()}
}

// DaemonRPC returns the monerod methods served on their own paths instead of /json_rpc.
func (c *Client) DaemonRPC() DaemonRPC {
	return DaemonRPC{c: c}
}

// Wallet returns the monero-wallet-rpc methods.
func (c *Client) Wallet() Wallet {
	return Wallet{c: c}
}

// call performs one round trip and decodes the result into T.
func call[T any](ctx context.Context, c *Client, kind endpointKind, method string, params any) (*T, error) {
	return callChecked[T](ctx, c, kind, method, params, nil)
}

// callChecked is call with check run on the decoded result. A failed check is counted as a rejected call.
func callChecked[T any](ctx context.Context, c *Client, kind endpointKind, method string, params any, check func(*T) error) (_ *T, err error) {
	start := time.Now()
	defer func() {
		requestsTotal.WithLabelValues(kind.String(), method, outcomeOf(err)).Inc()
		requestDuration.WithLabelValues(kind.String(), method).Observe(time.Since(start).Seconds())
	}()

	result, err := c.invoke(ctx, kind, method, params)
	if err != nil {
		return nil, err
	}

	var out T
	err = json.Unmarshal(result, &out)
	if err != nil {
		return nil, &DecodingError{Method: method, Err: err}
	}

	if check != nil {
		err = check(&out)
		if err != nil {
			return nil, err
		}
	}

	return &out, nil
}
