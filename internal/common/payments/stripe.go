// internal/common/payments/stripe.go
package payments

import (
	"context"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"eventapp-functions/internal/common/config"
)

// Gateway wraps the payments processor client. All calls are opaque
// pass-throughs; the processor's semantics are not re-specified here.
type Gateway struct {
	api             *client.API
	defaultCurrency string
}

func NewGateway(cfg config.StripeConfig) *Gateway {
	api := &client.API{}
	api.Init(cfg.APIKey, nil)
	return &Gateway{api: api, defaultCurrency: cfg.DefaultCurrency}
}

// DefaultCurrency returns the configured fallback currency code.
func (g *Gateway) DefaultCurrency() string {
	return g.defaultCurrency
}

func (g *Gateway) CreateAccount(ctx context.Context, email, country string) (*stripe.Account, error) {
	params := &stripe.AccountParams{
		Type:    stripe.String(string(stripe.AccountTypeExpress)),
		Email:   stripe.String(email),
		Country: stripe.String(country),
		Capabilities: &stripe.AccountCapabilitiesParams{
			Transfers: &stripe.AccountCapabilitiesTransfersParams{
				Requested: stripe.Bool(true),
			},
		},
	}
	params.Context = ctx
	return g.api.Accounts.New(params)
}

func (g *Gateway) UpdateAccount(ctx context.Context, accountID, email string) (*stripe.Account, error) {
	params := &stripe.AccountParams{
		Email: stripe.String(email),
	}
	params.Context = ctx
	return g.api.Accounts.Update(accountID, params)
}

// AttachExternalAccount attaches a tokenized card or bank account to a
// connected account.
func (g *Gateway) AttachExternalAccount(ctx context.Context, accountID, token string) (*stripe.BankAccount, error) {
	params := &stripe.BankAccountParams{
		Account: stripe.String(accountID),
		Token:   stripe.String(token),
	}
	params.Context = ctx
	return g.api.BankAccounts.New(params)
}

func (g *Gateway) CreateTransfer(ctx context.Context, amount int64, currency, destination string) (*stripe.Transfer, error) {
	if currency == "" {
		currency = g.defaultCurrency
	}
	params := &stripe.TransferParams{
		Amount:      stripe.Int64(amount),
		Currency:    stripe.String(currency),
		Destination: stripe.String(destination),
	}
	params.Context = ctx
	return g.api.Transfers.New(params)
}

func (g *Gateway) CreatePayout(ctx context.Context, accountID string, amount int64, currency string) (*stripe.Payout, error) {
	if currency == "" {
		currency = g.defaultCurrency
	}
	params := &stripe.PayoutParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	params.SetStripeAccount(accountID)
	return g.api.Payouts.New(params)
}

func (g *Gateway) CreatePaymentIntent(ctx context.Context, amount int64, currency, paymentMethod string) (*stripe.PaymentIntent, error) {
	if currency == "" {
		currency = g.defaultCurrency
	}
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
	}
	if paymentMethod != "" {
		params.PaymentMethod = stripe.String(paymentMethod)
	}
	params.Context = ctx
	return g.api.PaymentIntents.New(params)
}

func (g *Gateway) ConfirmPaymentIntent(ctx context.Context, intentID, paymentMethod string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentConfirmParams{}
	if paymentMethod != "" {
		params.PaymentMethod = stripe.String(paymentMethod)
	}
	params.Context = ctx
	return g.api.PaymentIntents.Confirm(intentID, params)
}
