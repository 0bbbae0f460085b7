package qrimage

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/prasetyowira/qrcodes/constant"
	"github.com/prasetyowira/qrcodes/infrastructure/cache"
	"github.com/stretchr/testify/assert"
)

func newTestGenerator() *Generator {
	return NewGenerator("https://app.example.com/", 256, cache.NewNamespaceLRU(10))
}

func TestScanURL(t *testing.T) {
	// Arrange
	generator := newTestGenerator()

	// Act
	url := generator.ScanURL(42)

	// Assert - trailing slash on the base URL is normalized away
	assert.Equal(t, "https://app.example.com/qrcodes/42/scan", url)
}

func TestDataURI(t *testing.T) {
	// Arrange
	generator := newTestGenerator()

	// Act
	uri, err := generator.DataURI(42)

	// Assert
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	payload := strings.TrimPrefix(uri, "data:image/png;base64,")
	raw, err := base64.StdEncoding.DecodeString(payload)
	assert.NoError(t, err)
	assert.NotEmpty(t, raw)
}

func TestDataURI_DeterministicPerID(t *testing.T) {
	// Arrange
	generator := newTestGenerator()

	// Act
	first, err1 := generator.DataURI(42)
	second, err2 := generator.DataURI(42)
	other, err3 := generator.DataURI(43)

	// Assert - the payload is a pure function of the id
	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.NoError(t, err3)
	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
}

func TestDataURI_Memoized(t *testing.T) {
	// Arrange
	lru := cache.NewNamespaceLRU(10)
	generator := NewGenerator("https://app.example.com", 256, lru)

	// Act
	uri, err := generator.DataURI(7)

	// Assert - the encoded payload lands in the cache under the image namespace
	assert.NoError(t, err)
	cached, found := lru.Get(constant.QRImageNamespace, "7")
	assert.True(t, found)
	assert.Equal(t, uri, cached)

	// Act - invalidation drops the entry
	generator.Invalidate(7)
	_, found = lru.Get(constant.QRImageNamespace, "7")
	assert.False(t, found)
}
