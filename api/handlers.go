package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prasetyowira/qrcodes/constant"
	"github.com/prasetyowira/qrcodes/domain/qrcode"
	appLogger "github.com/prasetyowira/qrcodes/infrastructure/logger"
)

// QRCodeService is the domain surface the handlers depend on.
type QRCodeService interface {
	GetByID(ctx context.Context, id uint) (*qrcode.Details, error)
	ListForShop(ctx context.Context, shop string) ([]*qrcode.Details, error)
	Create(ctx context.Context, in *qrcode.Input) (*qrcode.QRCode, error)
	Update(ctx context.Context, id uint, in *qrcode.Input) (*qrcode.QRCode, error)
	Delete(ctx context.Context, id uint) error
	Scan(ctx context.Context, id uint) (string, error)
	Display(ctx context.Context, id uint) (string, string, error)
}

// Handler contains service dependencies for API handlers
type Handler struct {
	service QRCodeService
}

// NewHandler creates a new API handler
func NewHandler(service QRCodeService) *Handler {
	return &Handler{
		service: service,
	}
}

// SaveQRCodeRequest is the request body for create and update
type SaveQRCodeRequest struct {
	Title            string `json:"title"`
	ProductID        string `json:"product_id"`
	ProductVariantID string `json:"product_variant_id"`
	ProductHandle    string `json:"product_handle"`
	Destination      string `json:"destination"`
}

// DisplayResponse is the public display payload for one QR code
type DisplayResponse struct {
	Title string `json:"title"`
	Image string `json:"image"`
}

// ValidationErrorResponse carries the field-error map back to the admin form
type ValidationErrorResponse struct {
	Errors qrcode.FieldErrors `json:"errors"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// parseID parses the {id} route parameter. The literal "new" is handled by
// the save handler before this runs.
func parseID(r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// ListQRCodes returns every record for the session's shop, enriched.
func (h *Handler) ListQRCodes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shop := ShopFromContext(ctx)

	details, err := h.service.ListForShop(ctx, shop)
	if err != nil {
		appLogger.CtxError(ctx, "Error listing QR codes", appLogger.LoggerInfo{
			ContextFunction: constant.CtxAPI,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAPIServiceError,
				Message: err.Error(),
				Type:    constant.ErrTypeAPI,
			},
			Data: map[string]interface{}{
				constant.DataShop: shop,
			},
		})
		WriteJSONError(w, "Failed to list QR codes", http.StatusInternalServerError)
		return
	}

	WriteJSON(w, details, http.StatusOK)
}

// GetQRCode returns one enriched record for the admin detail view.
func (h *Handler) GetQRCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := parseID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	details, err := h.service.GetByID(ctx, id)
	if err != nil {
		if err.Error() == constant.ErrQRCodeNotFound {
			http.NotFound(w, r)
			return
		}

		appLogger.CtxError(ctx, "Error retrieving QR code", appLogger.LoggerInfo{
			ContextFunction: constant.CtxAPI,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAPIServiceError,
				Message: err.Error(),
				Type:    constant.ErrTypeAPI,
			},
			Data: map[string]interface{}{
				constant.DataQRCodeID: id,
			},
		})
		WriteJSONError(w, "Failed to retrieve QR code", http.StatusInternalServerError)
		return
	}

	WriteJSON(w, details, http.StatusOK)
}

// SaveQRCode creates or updates a record. The admin surface addresses a new
// record with the literal id "new" and an existing one with its numeric id.
func (h *Handler) SaveQRCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shop := ShopFromContext(ctx)

	var req SaveQRCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		appLogger.CtxWarn(ctx, "Error decoding request body", appLogger.LoggerInfo{
			ContextFunction: constant.CtxAPI,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAPIDecodeRequest,
				Message: err.Error(),
				Type:    constant.ErrTypeAPI,
			},
		})
		WriteJSONError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	in := &qrcode.Input{
		Shop:             shop,
		Title:            req.Title,
		ProductID:        req.ProductID,
		ProductVariantID: qrcode.VariantGID(req.ProductVariantID),
		ProductHandle:    req.ProductHandle,
		Destination:      qrcode.Destination(req.Destination),
	}

	rawID := chi.URLParam(r, "id")
	if rawID == "new" {
		qr, err := h.service.Create(ctx, in)
		if err != nil {
			h.writeSaveError(ctx, w, err)
			return
		}
		WriteJSON(w, qr, http.StatusCreated)
		return
	}

	id, ok := parseID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	qr, err := h.service.Update(ctx, id, in)
	if err != nil {
		if err.Error() == constant.ErrQRCodeNotFound {
			http.NotFound(w, r)
			return
		}
		h.writeSaveError(ctx, w, err)
		return
	}

	WriteJSON(w, qr, http.StatusOK)
}

// writeSaveError maps a create/update failure to the right response:
// validation failures carry the field-error map with a client-error status.
func (h *Handler) writeSaveError(ctx context.Context, w http.ResponseWriter, err error) {
	var verr *qrcode.ValidationError
	if errors.As(err, &verr) {
		WriteJSON(w, ValidationErrorResponse{Errors: verr.Fields}, http.StatusUnprocessableEntity)
		return
	}

	appLogger.CtxError(ctx, "Error saving QR code", appLogger.LoggerInfo{
		ContextFunction: constant.CtxAPI,
		Error: &appLogger.CustomError{
			Code:    constant.ErrCodeAPIServiceError,
			Message: err.Error(),
			Type:    constant.ErrTypeAPI,
		},
	})
	WriteJSONError(w, "Failed to save QR code", http.StatusInternalServerError)
}

// DeleteQRCode removes a record. Deleting a missing id is a no-op.
func (h *Handler) DeleteQRCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := parseID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		appLogger.CtxError(ctx, "Error deleting QR code", appLogger.LoggerInfo{
			ContextFunction: constant.CtxAPI,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAPIServiceError,
				Message: err.Error(),
				Type:    constant.ErrTypeAPI,
			},
			Data: map[string]interface{}{
				constant.DataQRCodeID: id,
			},
		})
		WriteJSONError(w, "Failed to delete QR code", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ScanQRCode is the public scan endpoint: it increments the scan counter and
// redirects to the resolved destination.
func (h *Handler) ScanQRCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := parseID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	target, err := h.service.Scan(ctx, id)
	if err != nil {
		if err.Error() == constant.ErrQRCodeNotFound {
			http.NotFound(w, r)
			return
		}

		appLogger.CtxError(ctx, "Error processing scan", appLogger.LoggerInfo{
			ContextFunction: constant.CtxAPI,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAPIServiceError,
				Message: err.Error(),
				Type:    constant.ErrTypeAPI,
			},
			Data: map[string]interface{}{
				constant.DataQRCodeID: id,
			},
		})
		WriteJSONError(w, "Failed to process scan", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}

// DisplayQRCode is the public display endpoint: title and image only.
func (h *Handler) DisplayQRCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := parseID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	title, image, err := h.service.Display(ctx, id)
	if err != nil {
		if err.Error() == constant.ErrQRCodeNotFound {
			http.NotFound(w, r)
			return
		}

		appLogger.CtxError(ctx, "Error rendering QR code", appLogger.LoggerInfo{
			ContextFunction: constant.CtxAPI,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAPIServiceError,
				Message: err.Error(),
				Type:    constant.ErrTypeAPI,
			},
			Data: map[string]interface{}{
				constant.DataQRCodeID: id,
			},
		})
		WriteJSONError(w, "Failed to render QR code", http.StatusInternalServerError)
		return
	}

	WriteJSON(w, DisplayResponse{Title: title, Image: image}, http.StatusOK)
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		return
	}
}

// WriteJSONError writes a JSON error response
func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	WriteJSON(w, ErrorResponse{
		Error: message,
		Code:  statusCode,
	}, statusCode)
}
