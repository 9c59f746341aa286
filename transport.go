package monerorpc

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
)

// post sends body to path on the configured server and returns the response body.
// It makes exactly one attempt.
func (c *Client) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("could not make new request with context: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(fmt.Errorf("read response body: %w", err))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.WithField("status", resp.Status).WithField("response", truncate(data, 512)).Debug("Received unexpected http status from rpc server")
		return nil, &TransportError{
			Kind:       TransportStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("received unexpected status: %s", resp.Status),
		}
	}

	return data, nil
}

func classifyTransportError(err error) *TransportError {
	var (
		netErr         net.Error
		certErr        *tls.CertificateVerificationError
		recordErr      tls.RecordHeaderError
		alertErr       tls.AlertError
		unknownAuthErr x509.UnknownAuthorityError
		hostnameErr    x509.HostnameError
		invalidCertErr x509.CertificateInvalidError
	)

	kind := TransportConnection
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = TransportTimeout
	case errors.As(err, &certErr),
		errors.As(err, &recordErr),
		errors.As(err, &alertErr),
		errors.As(err, &unknownAuthErr),
		errors.As(err, &hostnameErr),
		errors.As(err, &invalidCertErr):
		kind = TransportTLS
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = TransportTimeout
	}

	return &TransportError{Kind: kind, Err: err}
}

func truncate(data []byte, n int) string {
	if len(data) <= n {
		return string(data)
	}
	return string(data[:n]) + "..."
}
