// Package gateway wraps the Midtrans payment gateway behind a small interface
// so the payment and refund services never see the wire client directly.
package gateway

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

type CreateTransactionInput struct {
	OrderID       string
	Amount        int64
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	ItemID        string
	ItemName      string
	FinishURL     string
}

type TransactionSession struct {
	Token       string
	RedirectURL string
}

type PaymentGateway interface {
	CreateTransaction(ctx context.Context, input CreateTransactionInput) (*TransactionSession, error)
	RefundTransaction(ctx context.Context, orderID string, amount int64, reason string) error
}

type MidtransGateway struct {
	snap      snap.Client
	core      coreapi.Client
	serverKey string
}

func NewMidtransGateway(serverKey, clientKey string, production bool, timeout time.Duration) *MidtransGateway {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}

	midtrans.ClientKey = clientKey
	midtrans.DefaultGoHttpClient = &http.Client{Timeout: timeout}

	g := &MidtransGateway{serverKey: serverKey}
	g.snap.New(serverKey, env)
	g.core.New(serverKey, env)
	return g
}

func buildSnapRequest(input CreateTransactionInput) *snap.Request {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  input.OrderID,
			GrossAmt: input.Amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: input.CustomerName,
			Email: input.CustomerEmail,
			Phone: input.CustomerPhone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    input.ItemID,
				Name:  input.ItemName,
				Price: input.Amount,
				Qty:   1,
			},
		},
	}
	if input.FinishURL != "" {
		req.Callbacks = &snap.Callbacks{Finish: input.FinishURL}
	}
	return req
}

func (g *MidtransGateway) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*TransactionSession, error) {
	resp, err := g.snap.CreateTransaction(buildSnapRequest(input))
	if err != nil {
		return nil, fmt.Errorf("midtrans create transaction %s: %w", input.OrderID, err)
	}

	return &TransactionSession{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

func (g *MidtransGateway) RefundTransaction(ctx context.Context, orderID string, amount int64, reason string) error {
	req := &coreapi.RefundReq{
		RefundKey: fmt.Sprintf("refund-%s-%d", orderID, time.Now().Unix()),
		Amount:    amount,
		Reason:    reason,
	}

	if _, err := g.core.RefundTransaction(orderID, req); err != nil {
		return fmt.Errorf("midtrans refund %s: %w", orderID, err)
	}
	return nil
}

// VerifySignature checks the webhook signature: the hex SHA-512 digest of
// order_id + status_code + gross_amount + server key, per the Midtrans
// notification contract.
func VerifySignature(orderID, statusCode, grossAmount, serverKey, signatureKey string) bool {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:]) == signatureKey
}

var _ PaymentGateway = (*MidtransGateway)(nil)
