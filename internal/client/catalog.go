package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

// CatalogClient is the catalog.Provider backed by the storefront API.
type CatalogClient struct {
	base *Client
}

func NewCatalogClient(base *Client) *CatalogClient {
	return &CatalogClient{base: base}
}

func (c *CatalogClient) List(ctx context.Context, category string) ([]catalog.Product, error) {
	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}

	var body struct {
		Products []catalog.Product `json:"products"`
	}
	if err := c.base.doJSON(ctx, http.MethodGet, "/products", q.Encode(), nil, nil, &body); err != nil {
		return nil, err
	}
	return body.Products, nil
}

func (c *CatalogClient) Get(ctx context.Context, id string) (catalog.Product, []catalog.Product, error) {
	var body struct {
		Product         catalog.Product   `json:"product"`
		RelatedProducts []catalog.Product `json:"relatedProducts"`
	}
	err := c.base.doJSON(ctx, http.MethodGet, "/products/"+url.PathEscape(id), "", nil, nil, &body)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return catalog.Product{}, nil, catalog.ErrNotFound
		}
		return catalog.Product{}, nil, err
	}
	return body.Product, body.RelatedProducts, nil
}
