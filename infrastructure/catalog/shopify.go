package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prasetyowira/qrcodes/constant"
	"github.com/prasetyowira/qrcodes/domain/qrcode"
	appLogger "github.com/prasetyowira/qrcodes/infrastructure/logger"
)

// Client implements qrcode.Catalog against the shop admin GraphQL endpoint.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
}

const productQuery = `query qrCodeProduct($id: ID!) {
  product(id: $id) {
    title
    images(first: 1) {
      nodes {
        altText
        url
      }
    }
  }
}`

// NewClient creates a new catalog client
func NewClient(endpoint, token string) *Client {
	return &Client{
		endpoint: endpoint,
		token:    token,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type productResponse struct {
	Data struct {
		Product *struct {
			Title  string `json:"title"`
			Images struct {
				Nodes []struct {
					AltText string `json:"altText"`
					URL     string `json:"url"`
				} `json:"nodes"`
			} `json:"images"`
		} `json:"product"`
	} `json:"data"`
}

// ProductByID fetches the product's title and first image. A nil product
// with a nil error means the product was deleted upstream.
func (c *Client) ProductByID(ctx context.Context, productID string) (*qrcode.Product, error) {
	body, err := json.Marshal(graphqlRequest{
		Query: productQuery,
		Variables: map[string]interface{}{
			"id": productID,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set(constant.HeaderAccessToken, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		appLogger.CtxError(ctx, "Catalog request failed", appLogger.LoggerInfo{
			ContextFunction: constant.CtxCatalog,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeCatalogRequest,
				Message: err.Error(),
				Type:    constant.ErrTypeCatalog,
			},
			Data: map[string]interface{}{
				constant.DataProductID: productID,
				constant.DataEndpoint:  c.endpoint,
			},
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		appLogger.CtxError(ctx, "Catalog returned unexpected status", appLogger.LoggerInfo{
			ContextFunction: constant.CtxCatalog,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeCatalogRequest,
				Message: resp.Status,
				Type:    constant.ErrTypeCatalog,
			},
			Data: map[string]interface{}{
				constant.DataProductID: productID,
				constant.DataStatus:    resp.StatusCode,
			},
		})
		return nil, errors.New(constant.ErrCatalogStatus)
	}

	var out productResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		appLogger.CtxError(ctx, "Failed to decode catalog response", appLogger.LoggerInfo{
			ContextFunction: constant.CtxCatalog,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeCatalogDecode,
				Message: err.Error(),
				Type:    constant.ErrTypeCatalog,
			},
			Data: map[string]interface{}{
				constant.DataProductID: productID,
			},
		})
		return nil, err
	}

	if out.Data.Product == nil {
		appLogger.CtxDebug(ctx, "Product no longer exists in catalog", appLogger.LoggerInfo{
			ContextFunction: constant.CtxCatalog,
			Data: map[string]interface{}{
				constant.DataProductID: productID,
			},
		})
		return nil, nil
	}

	product := &qrcode.Product{
		Title: out.Data.Product.Title,
	}
	if nodes := out.Data.Product.Images.Nodes; len(nodes) > 0 {
		product.ImageURL = nodes[0].URL
		product.ImageAlt = nodes[0].AltText
	}

	return product, nil
}
