package qrimage

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/prasetyowira/qrcodes/constant"
	"github.com/prasetyowira/qrcodes/infrastructure/cache"
	"github.com/skip2/go-qrcode"
)

// Generator encodes public scan URLs as embeddable QR images.
type Generator struct {
	baseURL string
	size    int
	cache   *cache.NamespaceLRU
}

// NewGenerator creates a new QR image generator. The generated payload is a
// pure function of the id and base URL, so data URIs are memoized in the
// cache.
func NewGenerator(baseURL string, size int, lru *cache.NamespaceLRU) *Generator {
	return &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
		size:    size,
		cache:   lru,
	}
}

// ScanURL returns the canonical public scan URL for a QR code id.
func (g *Generator) ScanURL(id uint) string {
	return fmt.Sprintf("%s/qrcodes/%d/scan", g.baseURL, id)
}

// DataURI encodes the scan URL as a QR bitmap and returns it as a
// base64-embedded PNG data URI. Encoder failure propagates; no retry.
func (g *Generator) DataURI(id uint) (string, error) {
	key := strconv.FormatUint(uint64(id), 10)
	if uri, found := g.cache.Get(constant.QRImageNamespace, key); found {
		return uri, nil
	}

	png, err := qrcode.Encode(g.ScanURL(id), qrcode.Medium, g.size)
	if err != nil {
		return "", err
	}

	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	g.cache.Set(constant.QRImageNamespace, key, uri)

	return uri, nil
}

// Invalidate drops the memoized image for an id, used when the record is
// deleted.
func (g *Generator) Invalidate(id uint) {
	g.cache.Invalidate(constant.QRImageNamespace, strconv.FormatUint(uint64(id), 10))
}
