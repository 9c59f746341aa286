package monerorpc

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultTimeout bounds every call when Config.Timeout is left at zero.
	DefaultTimeout = 30 * time.Second
)

// Config describes how to reach a daemon or wallet RPC server.
type Config struct {
	// URL is the origin of the RPC server, e.g. http://localhost:18081.
	URL string `validate:"required,http_url"`
	// ProxyURL routes every request through a forward proxy.
	ProxyURL string `validate:"omitempty,url"`
	// Username and Password enable HTTP basic authentication.
	Username string `validate:"required_with=Password"`
	Password string
	// Timeout bounds a whole call. Zero means DefaultTimeout.
	Timeout time.Duration `validate:"gte=0"`
	TLS     TLSConfig
}

// TLSConfig configures server verification and the optional client identity used for mutual TLS.
// The identity comes either from PEM files or from an already loaded certificate, never both.
type TLSConfig struct {
	CertFile string `validate:"required_with=KeyFile"`
	KeyFile  string `validate:"required_with=CertFile"`
	// Certificate is an in-memory client identity.
	Certificate *tls.Certificate `validate:"-"`
	// RootCAFile is a PEM bundle used instead of the system roots.
	RootCAFile string
	// RootCAs is an in-memory alternative to RootCAFile.
	RootCAs            *x509.CertPool `validate:"-"`
	InsecureSkipVerify bool
}

func (t TLSConfig) isSet() bool {
	return t.CertFile != "" || t.Certificate != nil || t.RootCAFile != "" || t.RootCAs != nil || t.InsecureSkipVerify
}

// validate checks cfg without touching the network or the file system.
func (cfg Config) validate() (*url.URL, error) {
	err := validator.New().Struct(cfg)
	if err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			fields := make([]string, 0, len(validationErrs))
			for _, fieldErr := range validationErrs {
				fields = append(fields, fmt.Sprintf("%s failed %q", fieldErr.Namespace(), fieldErr.Tag()))
			}
			return nil, fmt.Errorf("%w: %s", ErrConfiguration, strings.Join(fields, ", "))
		}
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	if cfg.TLS.Certificate != nil && cfg.TLS.CertFile != "" {
		return nil, fmt.Errorf("%w: tls client certificate given both in memory and as files", ErrConfiguration)
	}
	if cfg.TLS.RootCAs != nil && cfg.TLS.RootCAFile != "" {
		return nil, fmt.Errorf("%w: tls root cas given both in memory and as a file", ErrConfiguration)
	}

	baseURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: parse url: %w", ErrConfiguration, err)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, fmt.Errorf("%w: url scheme must be http or https, got %q", ErrConfiguration, baseURL.Scheme)
	}
	if baseURL.Host == "" {
		return nil, fmt.Errorf("%w: url %q has no host", ErrConfiguration, cfg.URL)
	}
	if baseURL.Scheme == "http" && cfg.TLS.isSet() {
		return nil, fmt.Errorf("%w: tls options given for plain http url %q", ErrConfiguration, cfg.URL)
	}
	baseURL.Path = strings.TrimSuffix(baseURL.Path, "/")

	return baseURL, nil
}

func (cfg Config) httpClient() (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("%w: parse proxy url: %w", ErrConfiguration, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	if cfg.TLS.isSet() {
		tlsConfig, err := cfg.TLS.build()
		if err != nil {
			return nil, err
		}
		transport.TLSClientConfig = tlsConfig
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}, nil
}

func (t TLSConfig) build() (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: t.InsecureSkipVerify, //nolint:gosec // opt-in for self-signed wallet rpc certificates
		RootCAs:            t.RootCAs,
	}

	switch {
	case t.Certificate != nil:
		tlsConfig.Certificates = []tls.Certificate{*t.Certificate}
	case t.CertFile != "":
		cert, err := tls.LoadX509KeyPair(t.CertFile, t.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("%w: load client certificate: %w", ErrConfiguration, err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	if t.RootCAFile != "" {
		pem, err := os.ReadFile(t.RootCAFile)
		if err != nil {
			return nil, fmt.Errorf("%w: read root ca file: %w", ErrConfiguration, err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("%w: no certificates found in %q", ErrConfiguration, t.RootCAFile)
		}
		tlsConfig.RootCAs = pool
	}

	return tlsConfig, nil
}
