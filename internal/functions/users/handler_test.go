// internal/functions/users/handler_test.go
package users

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventapp-functions/internal/common/logger"
)

// ==========================
// Mock Implementations
// ==========================

type MockProvider struct {
	EmailExistsFunc func(ctx context.Context, email string) (bool, error)
	DeleteUserFunc  func(ctx context.Context, uid string) error
	ListUsersFunc   func(ctx context.Context) ([]*auth.ExportedUserRecord, error)
}

func (m *MockProvider) EmailExists(ctx context.Context, email string) (bool, error) {
	return m.EmailExistsFunc(ctx, email)
}

func (m *MockProvider) DeleteUser(ctx context.Context, uid string) error {
	return m.DeleteUserFunc(ctx, uid)
}

func (m *MockProvider) ListUsers(ctx context.Context) ([]*auth.ExportedUserRecord, error) {
	return m.ListUsersFunc(ctx)
}

func postJSON(t *testing.T, handler http.HandlerFunc, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func userWithLastLogin(ms int64) *auth.ExportedUserRecord {
	return &auth.ExportedUserRecord{
		UserRecord: &auth.UserRecord{
			UserMetadata: &auth.UserMetadata{LastLogInTimestamp: ms},
		},
	}
}

// ==========================
// CheckEmail
// ==========================

func TestCheckEmail(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		exists         bool
		providerErr    error
		expectedStatus int
		expectedExists bool
	}{
		{
			name:           "existing account",
			body:           `{"email":"ana@example.com"}`,
			exists:         true,
			expectedStatus: http.StatusOK,
			expectedExists: true,
		},
		{
			name:           "unknown email is a normal response",
			body:           `{"email":"nobody@example.com"}`,
			exists:         false,
			expectedStatus: http.StatusOK,
			expectedExists: false,
		},
		{
			name:           "missing email",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "provider failure",
			body:           `{"email":"ana@example.com"}`,
			providerErr:    errors.New("provider timeout"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &MockProvider{
				EmailExistsFunc: func(context.Context, string) (bool, error) {
					return tt.exists, tt.providerErr
				},
			}
			h := NewHandler(provider, logger.NewTestLogger(t))

			rec := postJSON(t, h.CheckEmail, http.MethodPost, tt.body)
			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedStatus == http.StatusOK {
				var resp CheckEmailResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedExists, resp.Exists)
			}
		})
	}
}

func TestCheckEmail_WrongMethod(t *testing.T) {
	h := NewHandler(&MockProvider{}, logger.NewTestLogger(t))
	rec := postJSON(t, h.CheckEmail, http.MethodGet, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// ==========================
// DeleteUser
// ==========================

func TestDeleteUser(t *testing.T) {
	deleted := ""
	provider := &MockProvider{
		DeleteUserFunc: func(_ context.Context, uid string) error {
			deleted = uid
			return nil
		},
	}
	h := NewHandler(provider, logger.NewTestLogger(t))

	rec := postJSON(t, h.DeleteUser, http.MethodDelete, `{"uid":"user-1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", deleted)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestDeleteUser_Preflight(t *testing.T) {
	h := NewHandler(&MockProvider{}, logger.NewTestLogger(t))
	rec := postJSON(t, h.DeleteUser, http.MethodOptions, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))
}

func TestDeleteUser_MissingUID(t *testing.T) {
	h := NewHandler(&MockProvider{}, logger.NewTestLogger(t))
	rec := postJSON(t, h.DeleteUser, http.MethodDelete, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var env map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "bad-request", env["error"])
}

func TestDeleteUser_ProviderFailure(t *testing.T) {
	provider := &MockProvider{
		DeleteUserFunc: func(context.Context, string) error {
			return errors.New("provider down")
		},
	}
	h := NewHandler(provider, logger.NewTestLogger(t))

	rec := postJSON(t, h.DeleteUser, http.MethodDelete, `{"uid":"user-1"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var env map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "internal", env["error"])
	assert.NotEmpty(t, env["details"])
}

// ==========================
// UsersByLoginDate
// ==========================

func TestUsersByLoginDate(t *testing.T) {
	// Three users: one before, one inside, one after the window.
	provider := &MockProvider{
		ListUsersFunc: func(context.Context) ([]*auth.ExportedUserRecord, error) {
			return []*auth.ExportedUserRecord{
				userWithLastLogin(1700000000000), // 2023-11-14
				userWithLastLogin(1717200000000), // 2024-06-01
				userWithLastLogin(1735689600000), // 2025-01-01
			}, nil
		},
	}
	h := NewHandler(provider, logger.NewTestLogger(t))

	rec := postJSON(t, h.UsersByLoginDate, http.MethodPost,
		`{"startDate":"2024-01-01","endDate":"2024-12-01"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginDateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
}

func TestUsersByLoginDate_MissingDates(t *testing.T) {
	h := NewHandler(&MockProvider{}, logger.NewTestLogger(t))
	rec := postJSON(t, h.UsersByLoginDate, http.MethodPost, `{"startDate":"2024-01-01"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUsersByLoginDate_UsersWithoutMetadataSkipped(t *testing.T) {
	provider := &MockProvider{
		ListUsersFunc: func(context.Context) ([]*auth.ExportedUserRecord, error) {
			return []*auth.ExportedUserRecord{
				{UserRecord: &auth.UserRecord{}},
				userWithLastLogin(1717200000000),
			}, nil
		},
	}
	h := NewHandler(provider, logger.NewTestLogger(t))

	rec := postJSON(t, h.UsersByLoginDate, http.MethodPost,
		`{"startDate":"2024-01-01","endDate":"2024-12-01"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginDateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
}
