// internal/functions/payments/handler.go
package payments

import (
	"context"
	"net/http"

	stripe "github.com/stripe/stripe-go/v79"

	apperrors "eventapp-functions/internal/common/errors"
	"eventapp-functions/internal/common/httpx"
	"eventapp-functions/internal/common/logger"
)

// PaymentsAPI is the processor surface the handlers need. *payments.Gateway
// from internal/common/payments satisfies it.
type PaymentsAPI interface {
	CreateAccount(ctx context.Context, email, country string) (*stripe.Account, error)
	UpdateAccount(ctx context.Context, accountID, email string) (*stripe.Account, error)
	AttachExternalAccount(ctx context.Context, accountID, token string) (*stripe.BankAccount, error)
	CreateTransfer(ctx context.Context, amount int64, currency, destination string) (*stripe.Transfer, error)
	CreatePayout(ctx context.Context, accountID string, amount int64, currency string) (*stripe.Payout, error)
	CreatePaymentIntent(ctx context.Context, amount int64, currency, paymentMethod string) (*stripe.PaymentIntent, error)
	ConfirmPaymentIntent(ctx context.Context, intentID, paymentMethod string) (*stripe.PaymentIntent, error)
}

type Handler struct {
	api PaymentsAPI
	log logger.Logger
}

func NewHandler(api PaymentsAPI, log logger.Logger) *Handler {
	return &Handler{
		api: api,
		log: log.WithFields(map[string]interface{}{"component": "payments"}),
	}
}

// CreateAccount opens a connected account for an event host.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req CreateAccountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if req.Email == "" || req.Country == "" {
		httpx.WriteError(w, apperrors.NewBadRequestError("The email and country of the account are required"))
		return
	}

	acct, err := h.api.CreateAccount(r.Context(), req.Email, req.Country)
	if err != nil {
		h.log.Error("account creation failed", map[string]interface{}{"error": err})
		httpx.WriteError(w, apperrors.NewInternalError("Error creating payment account", err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, AccountResponse{AccountID: acct.ID})
}

// UpdateAccount changes the contact email on a connected account.
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req UpdateAccountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if req.AccountID == "" || req.Email == "" {
		httpx.WriteError(w, apperrors.NewBadRequestError("The accountId and email of the account are required"))
		return
	}

	acct, err := h.api.UpdateAccount(r.Context(), req.AccountID, req.Email)
	if err != nil {
		httpx.WriteError(w, apperrors.NewInternalError("Error updating payment account", err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, AccountResponse{AccountID: acct.ID})
}

// AttachBankAccount links a tokenized bank account for payouts.
func (h *Handler) AttachBankAccount(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req AttachBankAccountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if req.AccountID == "" || req.Token == "" {
		httpx.WriteError(w, apperrors.NewBadRequestError("The accountId and token of the bank account are required"))
		return
	}

	bank, err := h.api.AttachExternalAccount(r.Context(), req.AccountID, req.Token)
	if err != nil {
		httpx.WriteError(w, apperrors.NewInternalError("Error attaching bank account", err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, BankAccountResponse{
		BankAccountID: bank.ID,
		Last4:         bank.Last4,
	})
}

// CreateTransfer moves platform funds to a host's connected account.
func (h *Handler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req TransferRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if req.Amount <= 0 || req.Destination == "" {
		httpx.WriteError(w, apperrors.NewBadRequestError("The amount and destination of the transfer are required"))
		return
	}

	tr, err := h.api.CreateTransfer(r.Context(), req.Amount, req.Currency, req.Destination)
	if err != nil {
		h.log.Error("transfer failed", map[string]interface{}{
			"destination": req.Destination,
			"error":       err,
		})
		httpx.WriteError(w, apperrors.NewInternalError("Error creating transfer", err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, TransferResponse{TransferID: tr.ID})
}

// CreatePayout pays a connected account's balance out to its bank.
func (h *Handler) CreatePayout(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req PayoutRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if req.AccountID == "" || req.Amount <= 0 {
		httpx.WriteError(w, apperrors.NewBadRequestError("The accountId and amount of the payout are required"))
		return
	}

	payout, err := h.api.CreatePayout(r.Context(), req.AccountID, req.Amount, req.Currency)
	if err != nil {
		httpx.WriteError(w, apperrors.NewInternalError("Error creating payout", err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, PayoutResponse{PayoutID: payout.ID})
}

// CreatePaymentIntent starts a ticket purchase.
func (h *Handler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req PaymentIntentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if req.Amount <= 0 {
		httpx.WriteError(w, apperrors.NewBadRequestError("The amount of the payment is required"))
		return
	}

	intent, err := h.api.CreatePaymentIntent(r.Context(), req.Amount, req.Currency, req.PaymentMethod)
	if err != nil {
		httpx.WriteError(w, apperrors.NewInternalError("Error creating payment intent", err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, PaymentIntentResponse{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       string(intent.Status),
	})
}

// ConfirmPaymentIntent confirms a previously created intent.
func (h *Handler) ConfirmPaymentIntent(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req ConfirmIntentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if req.IntentID == "" {
		httpx.WriteError(w, apperrors.NewBadRequestError("The intentId of the payment is required"))
		return
	}

	intent, err := h.api.ConfirmPaymentIntent(r.Context(), req.IntentID, req.PaymentMethod)
	if err != nil {
		httpx.WriteError(w, apperrors.NewInternalError("Error confirming payment intent", err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, PaymentIntentResponse{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       string(intent.Status),
	})
}
