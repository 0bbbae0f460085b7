package api

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prasetyowira/qrcodes/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock session store for testing
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) ShopForToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *MockSessionStore) DeleteSessionsByShop(ctx context.Context, shop string) error {
	args := m.Called(ctx, shop)
	return args.Error(0)
}

const webhookSecret = "hush"

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func newWebhookRequest(topic, shop string, body []byte, signature string) *http.Request {
	req := httptest.NewRequest("POST", "/webhooks", bytes.NewReader(body))
	req.Header.Set(constant.HeaderWebhookTopic, topic)
	req.Header.Set(constant.HeaderWebhookShop, shop)
	req.Header.Set(constant.HeaderWebhookHMAC, signature)
	return req
}

func TestWebhook_AppUninstalled_PurgesSessions(t *testing.T) {
	// Arrange
	sessions := new(MockSessionStore)
	sessions.On("DeleteSessionsByShop", mock.Anything, "s.myshopify.com").Return(nil)
	handler := NewWebhookHandler(sessions, webhookSecret)

	body := []byte(`{}`)
	req := newWebhookRequest(constant.TopicAppUninstalled, "s.myshopify.com", body, sign(body))
	w := httptest.NewRecorder()

	// Act
	handler.Handle(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	sessions.AssertExpectations(t)
}

func TestWebhook_OrdersCreate_Acknowledged(t *testing.T) {
	// Arrange
	sessions := new(MockSessionStore)
	handler := NewWebhookHandler(sessions, webhookSecret)

	body := []byte(`{"id": 42, "line_items": []}`)
	req := newWebhookRequest(constant.TopicOrdersCreate, "s.myshopify.com", body, sign(body))
	w := httptest.NewRecorder()

	// Act
	handler.Handle(w, req)

	// Assert - logged and acknowledged, no session mutation
	assert.Equal(t, http.StatusOK, w.Code)
	sessions.AssertNotCalled(t, "DeleteSessionsByShop")
}

func TestWebhook_UnknownTopic(t *testing.T) {
	// Arrange
	sessions := new(MockSessionStore)
	handler := NewWebhookHandler(sessions, webhookSecret)

	body := []byte(`{}`)
	req := newWebhookRequest("products/update", "s.myshopify.com", body, sign(body))
	w := httptest.NewRecorder()

	// Act
	handler.Handle(w, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWebhook_BadSignature(t *testing.T) {
	// Arrange
	sessions := new(MockSessionStore)
	handler := NewWebhookHandler(sessions, webhookSecret)

	body := []byte(`{}`)
	forged := base64.StdEncoding.EncodeToString([]byte("not the real mac"))
	req := newWebhookRequest(constant.TopicAppUninstalled, "s.myshopify.com", body, forged)
	w := httptest.NewRecorder()

	// Act
	handler.Handle(w, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	sessions.AssertNotCalled(t, "DeleteSessionsByShop")
}

func TestWebhook_MissingSignature(t *testing.T) {
	// Arrange
	sessions := new(MockSessionStore)
	handler := NewWebhookHandler(sessions, webhookSecret)

	body := []byte(`{}`)
	req := newWebhookRequest(constant.TopicAppUninstalled, "s.myshopify.com", body, "")
	w := httptest.NewRecorder()

	// Act
	handler.Handle(w, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
