// Package rpc talks JSON-RPC 2.0 to the ledger gateway that builds,
// simulates and submits contract transactions.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"petworld/internal/adapter/upstream"
	"petworld/internal/app/ports"
	"petworld/internal/scval"
)

// Contract panics raised by reads of ids that do not exist.
var notFoundMarkers = []string{"UnreachableCodeReached", "InvalidAction", "WasmVm", "HostError"}

var ErrRPC = errors.New("ledger rpc error")

type Transport struct {
	client *upstream.Client
	nextID atomic.Uint64
}

func New(client *upstream.Client) *Transport {
	return &Transport{client: client}
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type invocationParams struct {
	Invocation ports.Invocation `json:"invocation"`
}

type simulateResult struct {
	Error  string          `json:"error"`
	Retval json.RawMessage `json:"retval"`
}

type prepareResult struct {
	Transaction string `json:"transaction"`
}

type sendResult struct {
	Hash        string `json:"hash"`
	Status      string `json:"status"`
	ErrorResult string `json:"errorResult"`
}

func (t *Transport) Simulate(ctx context.Context, inv ports.Invocation) (scval.Value, error) {
	var res simulateResult
	if err := t.call(ctx, "simulateTransaction", invocationParams{Invocation: inv}, &res); err != nil {
		return nil, err
	}
	if res.Error != "" {
		simErr := &ports.SimulationError{Method: inv.Method, Message: res.Error}
		if isNotFound(res.Error) {
			return nil, fmt.Errorf("%w: %w", ports.ErrNotFound, simErr)
		}
		return nil, simErr
	}
	if len(res.Retval) == 0 {
		return scval.Unknown{}, nil
	}
	return scval.FromJSON(res.Retval), nil
}

func (t *Transport) Prepare(ctx context.Context, inv ports.Invocation) (string, error) {
	var res prepareResult
	if err := t.call(ctx, "prepareTransaction", invocationParams{Invocation: inv}, &res); err != nil {
		return "", err
	}
	if res.Transaction == "" {
		return "", fmt.Errorf("%w: prepareTransaction returned no envelope", ErrRPC)
	}
	return res.Transaction, nil
}

func (t *Transport) Send(ctx context.Context, signedEnvelope string) (string, error) {
	var res sendResult
	if err := t.call(ctx, "sendTransaction", map[string]string{"transaction": signedEnvelope}, &res); err != nil {
		return "", err
	}
	if res.Status == "ERROR" {
		return res.Hash, fmt.Errorf("%w: send rejected: %s", ErrRPC, res.ErrorResult)
	}
	if res.Hash == "" {
		return "", fmt.Errorf("%w: sendTransaction returned no hash", ErrRPC)
	}
	return res.Hash, nil
}

func (t *Transport) GetTransaction(ctx context.Context, hash string) (ports.Transaction, error) {
	var res struct {
		Status string `json:"status"`
	}
	if err := t.call(ctx, "getTransaction", map[string]string{"hash": hash}, &res); err != nil {
		return ports.Transaction{}, err
	}
	return ports.Transaction{Hash: hash, Status: ports.TxStatus(res.Status)}, nil
}

func (t *Transport) call(ctx context.Context, method string, params, out any) error {
	req := request{JSONRPC: "2.0", ID: t.nextID.Add(1), Method: method, Params: params}
	var resp response
	if err := t.client.JSON(ctx, http.MethodPost, "", req, &resp); err != nil {
		return err
	}
	if resp.Error != nil {
		return fmt.Errorf("%w %d on %s: %s", ErrRPC, resp.Error.Code, method, resp.Error.Message)
	}
	if out == nil || len(resp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("%w: decode %s result: %w", ErrRPC, method, err)
	}
	return nil
}

func isNotFound(msg string) bool {
	for _, m := range notFoundMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
