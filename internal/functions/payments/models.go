// internal/functions/payments/models.go
package payments

// CreateAccountRequest opens a connected account for an event host.
type CreateAccountRequest struct {
	Email   string `json:"email"`
	Country string `json:"country"`
}

type UpdateAccountRequest struct {
	AccountID string `json:"accountId"`
	Email     string `json:"email"`
}

type AccountResponse struct {
	AccountID string `json:"accountId"`
}

// AttachBankAccountRequest links a tokenized bank account to a connected
// account so payouts have somewhere to land.
type AttachBankAccountRequest struct {
	AccountID string `json:"accountId"`
	Token     string `json:"token"`
}

type BankAccountResponse struct {
	BankAccountID string `json:"bankAccountId"`
	Last4         string `json:"last4"`
}

// TransferRequest moves funds from the platform balance to a connected
// account. Amount is in the currency's smallest unit.
type TransferRequest struct {
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Destination string `json:"destination"`
}

type TransferResponse struct {
	TransferID string `json:"transferId"`
}

// PayoutRequest pays a connected account's balance out to its bank.
type PayoutRequest struct {
	AccountID string `json:"accountId"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

type PayoutResponse struct {
	PayoutID string `json:"payoutId"`
}

// PaymentIntentRequest starts a ticket purchase.
type PaymentIntentRequest struct {
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	PaymentMethod string `json:"paymentMethod"`
}

// ConfirmIntentRequest confirms a previously created intent.
type ConfirmIntentRequest struct {
	IntentID      string `json:"intentId"`
	PaymentMethod string `json:"paymentMethod"`
}

type PaymentIntentResponse struct {
	IntentID     string `json:"intentId"`
	ClientSecret string `json:"clientSecret"`
	Status       string `json:"status"`
}
