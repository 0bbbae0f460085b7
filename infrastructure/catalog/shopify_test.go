package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prasetyowira/qrcodes/constant"
	"github.com/stretchr/testify/assert"
)

func TestProductByID(t *testing.T) {
	// Arrange
	var gotToken string
	var gotBody graphqlRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get(constant.HeaderAccessToken)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": {
				"product": {
					"title": "Widget",
					"images": {
						"nodes": [{"altText": "A widget", "url": "https://cdn.example.com/w.png"}]
					}
				}
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "shpat_test")

	// Act
	product, err := client.ProductByID(context.Background(), "gid://shopify/Product/111")

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, product)
	assert.Equal(t, "Widget", product.Title)
	assert.Equal(t, "https://cdn.example.com/w.png", product.ImageURL)
	assert.Equal(t, "A widget", product.ImageAlt)
	assert.Equal(t, "shpat_test", gotToken)
	assert.Equal(t, "gid://shopify/Product/111", gotBody.Variables["id"])
	assert.Contains(t, gotBody.Query, "product(id: $id)")
}

func TestProductByID_NoImages(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"product": {"title": "Widget", "images": {"nodes": []}}}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")

	// Act
	product, err := client.ProductByID(context.Background(), "gid://shopify/Product/111")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "Widget", product.Title)
	assert.Empty(t, product.ImageURL)
	assert.Empty(t, product.ImageAlt)
}

func TestProductByID_DeletedProduct(t *testing.T) {
	// Arrange - the catalog answers null for a product that is gone
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"product": null}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "shpat_test")

	// Act
	product, err := client.ProductByID(context.Background(), "gid://shopify/Product/999")

	// Assert - nil product, nil error signals the deletion
	assert.NoError(t, err)
	assert.Nil(t, product)
}

func TestProductByID_UpstreamError(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "shpat_test")

	// Act
	product, err := client.ProductByID(context.Background(), "gid://shopify/Product/111")

	// Assert - failures propagate, no retry
	assert.Error(t, err)
	assert.Equal(t, constant.ErrCatalogStatus, err.Error())
	assert.Nil(t, product)
}
