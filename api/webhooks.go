package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"

	"github.com/prasetyowira/qrcodes/constant"
	appLogger "github.com/prasetyowira/qrcodes/infrastructure/logger"
)

// WebhookHandler receives tenant lifecycle and order events from the
// platform. Payloads are authenticated with an HMAC-SHA256 signature over
// the raw body.
type WebhookHandler struct {
	sessions SessionStore
	secret   string
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(sessions SessionStore, secret string) *WebhookHandler {
	return &WebhookHandler{
		sessions: sessions,
		secret:   secret,
	}
}

// Handle processes one webhook delivery.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteJSONError(w, "Failed to read webhook body", http.StatusBadRequest)
		return
	}

	if !h.verify(body, r.Header.Get(constant.HeaderWebhookHMAC)) {
		appLogger.CtxWarn(ctx, "Rejected webhook with bad signature", appLogger.LoggerInfo{
			ContextFunction: constant.CtxWebhooks,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAPIBadWebhook,
				Message: "signature mismatch",
				Type:    constant.ErrTypeAPI,
			},
		})
		WriteJSONError(w, "Invalid webhook signature", http.StatusUnauthorized)
		return
	}

	topic := r.Header.Get(constant.HeaderWebhookTopic)
	shop := r.Header.Get(constant.HeaderWebhookShop)

	appLogger.CtxInfo(ctx, constant.MsgWebhookReceived, appLogger.LoggerInfo{
		ContextFunction: constant.CtxWebhooks,
		Data: map[string]interface{}{
			constant.DataTopic: topic,
			constant.DataShop:  shop,
		},
	})

	switch topic {
	case constant.TopicAppUninstalled:
		if err := h.sessions.DeleteSessionsByShop(ctx, shop); err != nil {
			WriteJSONError(w, "Failed to process webhook", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)

	case constant.TopicOrdersCreate:
		appLogger.CtxInfo(ctx, "Order created", appLogger.LoggerInfo{
			ContextFunction: constant.CtxWebhooks,
			Data: map[string]interface{}{
				constant.DataShop:    shop,
				constant.DataPayload: string(body),
			},
		})
		w.WriteHeader(http.StatusOK)

	default:
		appLogger.CtxWarn(ctx, constant.MsgUnhandledWebhookTopic, appLogger.LoggerInfo{
			ContextFunction: constant.CtxWebhooks,
			Data: map[string]interface{}{
				constant.DataTopic: topic,
			},
		})
		WriteJSONError(w, "Unhandled webhook topic", http.StatusNotFound)
	}
}

// verify checks the base64 HMAC-SHA256 signature the platform attaches to
// every delivery.
func (h *WebhookHandler) verify(body []byte, signature string) bool {
	if signature == "" {
		return false
	}

	expected, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)

	return hmac.Equal(mac.Sum(nil), expected)
}
