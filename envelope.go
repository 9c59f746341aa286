package monerorpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const jsonRPCPath = "/json_rpc"

type endpointKind int

const (
	// endpointJSONRPC wraps the call in an envelope posted to /json_rpc.
	endpointJSONRPC endpointKind = iota
	// endpointRaw posts the params as the whole body to /<method>.
	endpointRaw
)

func (k endpointKind) String() string {
	switch k {
	case endpointJSONRPC:
		return "json_rpc"
	case endpointRaw:
		return "raw"
	default:
		return "unknown"
	}
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RemoteError    `json:"error"`
}

func encodeRequest(id, method string, params any) ([]byte, error) {
	data, err := json.Marshal(request{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("could not marshal payload: %w", err)
	}
	return data, nil
}

// decodeResponse unwraps a /json_rpc response body into its result.
func decodeResponse(body []byte) (json.RawMessage, error) {
	var resp response
	err := json.Unmarshal(body, &resp)
	if err != nil {
		return nil, &ProtocolError{Err: err, Body: body}
	}

	if resp.Error != nil {
		return nil, resp.Error
	}

	if len(resp.Result) == 0 || bytes.Equal(resp.Result, []byte("null")) {
		return nil, &ProtocolError{Err: errors.New("response has neither result nor error"), Body: body}
	}

	return resp.Result, nil
}

// checkStatus fails when result is an object whose status field is anything but "OK".
func checkStatus(method string, result json.RawMessage) error {
	trimmed := bytes.TrimLeft(result, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var probe struct {
		Status *string `json:"status"`
	}
	if json.Unmarshal(result, &probe) != nil || probe.Status == nil {
		return nil
	}
	if *probe.Status != "OK" {
		return &StatusError{Method: method, Status: *probe.Status}
	}

	return nil
}

// invoke performs a single round trip and returns the undecoded result.
func (c *Client) invoke(ctx context.Context, kind endpointKind, method string, params any) (json.RawMessage, error) {
	logger := c.logger.WithFields(logrus.Fields{
		"endpoint": kind.String(),
		"method":   method,
	})

	var (
		path string
		body []byte
		err  error
	)
	switch kind {
	case endpointJSONRPC:
		id := uuid.NewString()
		logger = logger.WithField("id", id)
		path = jsonRPCPath
		body, err = encodeRequest(id, method, params)
	case endpointRaw:
		path = "/" + method
		body = []byte("{}")
		if params != nil {
			body, err = json.Marshal(params)
		}
	default:
		return nil, fmt.Errorf("unknown endpoint kind %d", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", method, err)
	}

	logger.Debug("Sending rpc request")
	data, err := c.post(ctx, path, body)
	if err != nil {
		logger.WithError(err).Debug("Rpc request failed")
		return nil, err
	}

	var result json.RawMessage
	switch kind {
	case endpointJSONRPC:
		result, err = decodeResponse(data)
		if err != nil {
			logger.WithError(err).Debug("Rpc call returned an error")
			return nil, err
		}
	case endpointRaw:
		if !json.Valid(data) {
			return nil, &ProtocolError{Err: errors.New("response body is not valid json"), Body: data}
		}
		result = data
	}

	err = checkStatus(method, result)
	if err != nil {
		logger.WithError(err).Debug("Rpc call reported a failed status")
		return nil, err
	}

	logger.Debug("Received rpc result")
	return result, nil
}
