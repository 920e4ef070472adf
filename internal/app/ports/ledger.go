package ports

import (
	"context"
	"strconv"

	"petworld/internal/scval"
)

// Arg is one typed contract argument as the RPC gateway expects it.
type Arg struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func U128Arg(v uint64) Arg {
	return Arg{Type: "u128", Value: strconv.FormatUint(v, 10)}
}

func StringArg(v string) Arg {
	return Arg{Type: "string", Value: v}
}

func AddressArg(v string) Arg {
	return Arg{Type: "address", Value: v}
}

type Invocation struct {
	Contract string `json:"contract"`
	Method   string `json:"method"`
	Args     []Arg  `json:"args"`
	Source   string `json:"source"`
}

type TxStatus string

const (
	TxSuccess  TxStatus = "SUCCESS"
	TxFailed   TxStatus = "FAILED"
	TxNotFound TxStatus = "NOT_FOUND"
)

type Transaction struct {
	Hash   string   `json:"hash"`
	Status TxStatus `json:"status"`
}

type LedgerTransport interface {
	Simulate(ctx context.Context, inv Invocation) (scval.Value, error)
	Prepare(ctx context.Context, inv Invocation) (string, error)
	Send(ctx context.Context, signedEnvelope string) (string, error)
	GetTransaction(ctx context.Context, hash string) (Transaction, error)
}

type SignOptions struct {
	Address           string `json:"address"`
	NetworkPassphrase string `json:"network_passphrase"`
}

// Signer signs a prepared transaction envelope. Key material never enters
// this service; signing happens in the wallet or a signing service.
type Signer interface {
	Sign(ctx context.Context, envelope string, opts SignOptions) (string, error)
}
