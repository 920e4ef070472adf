// Package signer forwards prepared envelopes to a remote signing service.
package signer

import (
	"context"
	"errors"
	"net/http"

	"petworld/internal/adapter/upstream"
	"petworld/internal/app/ports"
)

var ErrEmptySignature = errors.New("signing service returned no transaction")

type Remote struct {
	client *upstream.Client
}

func New(client *upstream.Client) *Remote {
	return &Remote{client: client}
}

type signRequest struct {
	XDR               string `json:"xdr"`
	Address           string `json:"address"`
	NetworkPassphrase string `json:"network_passphrase"`
}

type signResponse struct {
	SignedTxXDR string `json:"signed_tx_xdr"`
}

func (r *Remote) Sign(ctx context.Context, envelope string, opts ports.SignOptions) (string, error) {
	var out signResponse
	err := r.client.JSON(ctx, http.MethodPost, "/sign", signRequest{
		XDR:               envelope,
		Address:           opts.Address,
		NetworkPassphrase: opts.NetworkPassphrase,
	}, &out)
	if err != nil {
		return "", err
	}
	if out.SignedTxXDR == "" {
		return "", ErrEmptySignature
	}
	return out.SignedTxXDR, nil
}
