package qrcode

import (
	"context"
	"time"
)

// QRCode is the persisted record mapping a scannable code to a product or
// cart destination owned by one shop.
type QRCode struct {
	ID               uint        `json:"id"`
	Shop             string      `json:"shop"`
	Title            string      `json:"title"`
	ProductID        string      `json:"product_id"`
	ProductVariantID VariantGID  `json:"product_variant_id"`
	ProductHandle    string      `json:"product_handle"`
	Destination      Destination `json:"destination"`
	Scans            uint        `json:"scans"`
	CreatedAt        time.Time   `json:"created_at"`
}

// Details is a QRCode augmented at read time with live catalog data, the
// resolved destination URL and the embeddable QR image. None of these fields
// are ever persisted, so they always reflect current catalog state.
type Details struct {
	QRCode
	ProductTitle   string `json:"product_title,omitempty"`
	ProductImage   string `json:"product_image,omitempty"`
	ProductAlt     string `json:"product_alt,omitempty"`
	ProductDeleted bool   `json:"product_deleted"`
	DestinationURL string `json:"destination_url"`
	Image          string `json:"image"`
}

// Product is the subset of catalog data used for enrichment.
type Product struct {
	Title    string
	ImageURL string
	ImageAlt string
}

// Repository defines the interface for data persistence operations
type Repository interface {
	Create(ctx context.Context, qr *QRCode) error
	FindByID(ctx context.Context, id uint) (*QRCode, error)
	FindByShop(ctx context.Context, shop string) ([]*QRCode, error)
	Update(ctx context.Context, qr *QRCode) error
	Delete(ctx context.Context, id uint) error
	IncrementScans(ctx context.Context, id uint) error
}

// Catalog looks up live product data. A nil product with a nil error means
// the product no longer exists upstream.
type Catalog interface {
	ProductByID(ctx context.Context, productID string) (*Product, error)
}

// ImageEncoder renders the public scan URL for a QR code id as an embeddable
// image data URI. Invalidate drops any memoized payload for a deleted record.
type ImageEncoder interface {
	DataURI(id uint) (string, error)
	Invalidate(id uint)
}
