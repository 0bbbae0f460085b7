package qrcode

import (
	"context"
	"time"

	"github.com/prasetyowira/qrcodes/constant"
	"github.com/prasetyowira/qrcodes/infrastructure/logger"
	"golang.org/x/sync/errgroup"
)

// Service represents the domain service for QR-code records
type Service struct {
	repo    Repository
	catalog Catalog
	encoder ImageEncoder
}

// NewService creates a new QR-code service
func NewService(repo Repository, catalog Catalog, encoder ImageEncoder) *Service {
	logger.Debug("Creating qr code service", logger.LoggerInfo{
		ContextFunction: constant.CtxDomain,
		Data: map[string]interface{}{
			constant.DataService: "qrcode",
		},
	})

	return &Service{
		repo:    repo,
		catalog: catalog,
		encoder: encoder,
	}
}

// GetByID returns the enriched record for one QR code
func (s *Service) GetByID(ctx context.Context, id uint) (*Details, error) {
	qr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		logger.CtxWarn(ctx, "Failed to find QR code", logger.LoggerInfo{
			ContextFunction: constant.CtxGetByID,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeQRCodeNotFound,
				Message: err.Error(),
				Type:    constant.ErrTypeRetrieval,
			},
			Data: map[string]interface{}{
				constant.DataQRCodeID: id,
			},
		})
		return nil, err
	}

	return s.enrich(ctx, qr)
}

// ListForShop returns all records for the tenant, newest id first, each
// enriched. Per-record enrichment is independent and runs concurrently.
func (s *Service) ListForShop(ctx context.Context, shop string) ([]*Details, error) {
	qrs, err := s.repo.FindByShop(ctx, shop)
	if err != nil {
		logger.CtxError(ctx, "Failed to list QR codes", logger.LoggerInfo{
			ContextFunction: constant.CtxListForShop,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeStorageFailure,
				Message: err.Error(),
				Type:    constant.ErrTypeStorage,
			},
			Data: map[string]interface{}{
				constant.DataShop: shop,
			},
		})
		return nil, err
	}

	details := make([]*Details, len(qrs))
	g, gctx := errgroup.WithContext(ctx)
	for i, qr := range qrs {
		i, qr := i, qr
		g.Go(func() error {
			d, err := s.enrich(gctx, qr)
			if err != nil {
				return err
			}
			details[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "QR codes listed", logger.LoggerInfo{
		ContextFunction: constant.CtxListForShop,
		Data: map[string]interface{}{
			constant.DataShop:  shop,
			constant.DataCount: len(details),
		},
	})

	return details, nil
}

// Create validates the input and persists a new record. The store assigns
// the id; scans start at zero.
func (s *Service) Create(ctx context.Context, in *Input) (*QRCode, error) {
	if verr := in.Validate(); verr != nil {
		logger.CtxWarn(ctx, "QR code input rejected", logger.LoggerInfo{
			ContextFunction: constant.CtxCreate,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeValidationFailed,
				Message: verr.Error(),
				Type:    constant.ErrTypeValidation,
			},
			Data: map[string]interface{}{
				constant.DataFields: verr.Fields,
			},
		})
		return nil, verr
	}

	qr := &QRCode{
		Shop:             in.Shop,
		Title:            in.Title,
		ProductID:        in.ProductID,
		ProductVariantID: in.ProductVariantID,
		ProductHandle:    in.ProductHandle,
		Destination:      in.Destination,
		Scans:            0,
		CreatedAt:        time.Now(),
	}

	if err := s.repo.Create(ctx, qr); err != nil {
		logger.CtxError(ctx, "Failed to store QR code", logger.LoggerInfo{
			ContextFunction: constant.CtxCreate,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeStorageFailure,
				Message: err.Error(),
				Type:    constant.ErrTypeStorage,
			},
			Data: map[string]interface{}{
				constant.DataShop:  in.Shop,
				constant.DataTitle: in.Title,
			},
		})
		return nil, err
	}

	logger.CtxInfo(ctx, "QR code created", logger.LoggerInfo{
		ContextFunction: constant.CtxCreate,
		Data: map[string]interface{}{
			constant.DataQRCodeID:    qr.ID,
			constant.DataShop:        qr.Shop,
			constant.DataTitle:       qr.Title,
			constant.DataDestination: string(qr.Destination),
		},
	})

	return qr, nil
}

// Update validates the input and overwrites the merchant-editable fields on
// an existing record. Scans, creation time and owning shop are untouched.
func (s *Service) Update(ctx context.Context, id uint, in *Input) (*QRCode, error) {
	if verr := in.Validate(); verr != nil {
		logger.CtxWarn(ctx, "QR code input rejected", logger.LoggerInfo{
			ContextFunction: constant.CtxUpdate,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeValidationFailed,
				Message: verr.Error(),
				Type:    constant.ErrTypeValidation,
			},
			Data: map[string]interface{}{
				constant.DataQRCodeID: id,
				constant.DataFields:   verr.Fields,
			},
		})
		return nil, verr
	}

	qr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		logger.CtxWarn(ctx, "Failed to find QR code", logger.LoggerInfo{
			ContextFunction: constant.CtxUpdate,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeQRCodeNotFound,
				Message: err.Error(),
				Type:    constant.ErrTypeRetrieval,
			},
			Data: map[string]interface{}{
				constant.DataQRCodeID: id,
			},
		})
		return nil, err
	}

	qr.Title = in.Title
	qr.ProductID = in.ProductID
	qr.ProductVariantID = in.ProductVariantID
	qr.ProductHandle = in.ProductHandle
	qr.Destination = in.Destination

	if err := s.repo.Update(ctx, qr); err != nil {
		logger.CtxError(ctx, "Failed to update QR code", logger.LoggerInfo{
			ContextFunction: constant.CtxUpdate,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeStorageFailure,
				Message: err.Error(),
				Type:    constant.ErrTypeStorage,
			},
			Data: map[string]interface{}{
				constant.DataQRCodeID: id,
			},
		})
		return nil, err
	}

	logger.CtxInfo(ctx, "QR code updated", logger.LoggerInfo{
		ContextFunction: constant.CtxUpdate,
		Data: map[string]interface{}{
			constant.DataQRCodeID: qr.ID,
			constant.DataShop:     qr.Shop,
		},
	})

	return qr, nil
}

// Delete removes the record. A missing id is a no-op; the store decides.
func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		logger.CtxError(ctx, "Failed to delete QR code", logger.LoggerInfo{
			ContextFunction: constant.CtxDelete,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeStorageFailure,
				Message: err.Error(),
				Type:    constant.ErrTypeStorage,
			},
			Data: map[string]interface{}{
				constant.DataQRCodeID: id,
			},
		})
		return err
	}

	s.encoder.Invalidate(id)

	logger.CtxInfo(ctx, "QR code deleted", logger.LoggerInfo{
		ContextFunction: constant.CtxDelete,
		Data: map[string]interface{}{
			constant.DataQRCodeID: id,
		},
	})

	return nil
}

// Scan resolves the destination URL for a public scan and atomically
// increments the scan counter. The URL is resolved before the increment so a
// malformed record never bumps the counter.
func (s *Service) Scan(ctx context.Context, id uint) (string, error) {
	qr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		logger.CtxWarn(ctx, "Scan for unknown QR code", logger.LoggerInfo{
			ContextFunction: constant.CtxScan,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeQRCodeNotFound,
				Message: err.Error(),
				Type:    constant.ErrTypeRetrieval,
			},
			Data: map[string]interface{}{
				constant.DataQRCodeID: id,
			},
		})
		return "", err
	}

	target, err := DestinationURL(qr)
	if err != nil {
		logger.CtxError(ctx, "Failed to resolve destination", logger.LoggerInfo{
			ContextFunction: constant.CtxScan,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeBadDestination,
				Message: err.Error(),
				Type:    constant.ErrTypeRetrieval,
			},
			Data: map[string]interface{}{
				constant.DataQRCodeID: id,
			},
		})
		return "", err
	}

	if err := s.repo.IncrementScans(ctx, id); err != nil {
		logger.CtxError(ctx, "Failed to increment scan count", logger.LoggerInfo{
			ContextFunction: constant.CtxScan,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeIncrementScans,
				Message: err.Error(),
				Type:    constant.ErrTypeStats,
			},
			Data: map[string]interface{}{
				constant.DataQRCodeID: id,
			},
		})
		return "", err
	}

	logger.CtxInfo(ctx, "QR code scanned", logger.LoggerInfo{
		ContextFunction: constant.CtxScan,
		Data: map[string]interface{}{
			constant.DataQRCodeID: id,
			constant.DataTarget:   target,
		},
	})

	return target, nil
}

// Display returns just the title and QR image for the public display page.
// No catalog call is made on this path.
func (s *Service) Display(ctx context.Context, id uint) (string, string, error) {
	qr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		logger.CtxWarn(ctx, "Display for unknown QR code", logger.LoggerInfo{
			ContextFunction: constant.CtxDisplay,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeQRCodeNotFound,
				Message: err.Error(),
				Type:    constant.ErrTypeRetrieval,
			},
			Data: map[string]interface{}{
				constant.DataQRCodeID: id,
			},
		})
		return "", "", err
	}

	image, err := s.encoder.DataURI(qr.ID)
	if err != nil {
		logger.CtxError(ctx, "Failed to encode QR image", logger.LoggerInfo{
			ContextFunction: constant.CtxDisplay,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeImageEncode,
				Message: err.Error(),
				Type:    constant.ErrTypeImage,
			},
			Data: map[string]interface{}{
				constant.DataQRCodeID: id,
			},
		})
		return "", "", err
	}

	return qr.Title, image, nil
}

// enrich composes a stored record with live catalog data, the resolved
// destination URL and the QR image. ProductDeleted is true iff the catalog
// no longer returns a title for the product.
func (s *Service) enrich(ctx context.Context, qr *QRCode) (*Details, error) {
	product, err := s.catalog.ProductByID(ctx, qr.ProductID)
	if err != nil {
		logger.CtxError(ctx, "Product lookup failed", logger.LoggerInfo{
			ContextFunction: constant.CtxEnrich,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeEnrichFailure,
				Message: err.Error(),
				Type:    constant.ErrTypeEnrichment,
			},
			Data: map[string]interface{}{
				constant.DataQRCodeID:  qr.ID,
				constant.DataProductID: qr.ProductID,
			},
		})
		return nil, err
	}

	target, err := DestinationURL(qr)
	if err != nil {
		return nil, err
	}

	image, err := s.encoder.DataURI(qr.ID)
	if err != nil {
		logger.CtxError(ctx, "Failed to encode QR image", logger.LoggerInfo{
			ContextFunction: constant.CtxEnrich,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeImageEncode,
				Message: err.Error(),
				Type:    constant.ErrTypeImage,
			},
			Data: map[string]interface{}{
				constant.DataQRCodeID: qr.ID,
			},
		})
		return nil, err
	}

	d := &Details{
		QRCode:         *qr,
		DestinationURL: target,
		Image:          image,
	}

	if product == nil || product.Title == "" {
		d.ProductDeleted = true
		return d, nil
	}

	d.ProductTitle = product.Title
	d.ProductImage = product.ImageURL
	d.ProductAlt = product.ImageAlt

	return d, nil
}
