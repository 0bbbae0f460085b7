package qrcode

import (
	"errors"
	"fmt"
	"strings"

	"github.com/prasetyowira/qrcodes/constant"
)

// Destination is the kind of page a scan redirects to.
type Destination string

const (
	DestinationProduct Destination = "product"
	DestinationCart    Destination = "cart"
)

// VariantGID is an opaque catalog identifier of the form
// gid://<vendor>/ProductVariant/<digits>.
type VariantGID string

// TrailingID returns the numeric segment after the last slash. It fails
// explicitly on malformed input instead of passing the raw identifier
// through to a URL.
func (g VariantGID) TrailingID() (string, error) {
	s := string(g)
	i := strings.LastIndexByte(s, '/')
	if i < 0 || i == len(s)-1 {
		return "", errors.New(constant.ErrMalformedVariantID)
	}

	tail := s[i+1:]
	for _, r := range tail {
		if r < '0' || r > '9' {
			return "", errors.New(constant.ErrMalformedVariantID)
		}
	}

	return tail, nil
}

// DestinationURL resolves the fully-qualified URL a scan of the record
// redirects to. Pure function of the record's fields.
func DestinationURL(qr *QRCode) (string, error) {
	if qr.Destination == DestinationProduct {
		return fmt.Sprintf("https://%s/products/%s", qr.Shop, qr.ProductHandle), nil
	}

	variant, err := qr.ProductVariantID.TrailingID()
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("https://%s/cart/%s:1", qr.Shop, variant), nil
}
