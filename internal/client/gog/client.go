package gog

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"gamecompare/internal/client/storefront"
)

const (
	defaultHost  = "https://api.gog.com"
	defaultLimit = 50
	maxLimit     = 100
)

type Client struct {
	host      string
	transport *storefront.Client
}

func NewClient(transport *storefront.Client, host string) *Client {
	if host == "" {
		host = defaultHost
	}
	return &Client{host: strings.TrimRight(host, "/"), transport: transport}
}

func (c *Client) Catalog(ctx context.Context, params SearchParams) (SearchPage, error) {
	page := params.Page
	if page <= 0 {
		page = 1
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	if s := strings.TrimSpace(params.Search); s != "" {
		query.Set("search", s)
	}
	if params.Order != "" {
		query.Set("order", params.Order)
	}
	var resp catalogResponse
	if err := c.transport.GetJSON(ctx, c.host+"/v2/catalog?"+query.Encode(), &resp); err != nil {
		return SearchPage{}, err
	}
	return SearchPage{
		Products:   resp.Embedded.Items,
		Total:      resp.Page.TotalElements,
		TotalPages: resp.Page.TotalPages,
	}, nil
}

// GetProduct returns nil when the product does not exist.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	id = strings.TrimSpace(id)
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		return nil, nil
	}
	var product Product
	if err := c.transport.GetJSON(ctx, c.host+"/v2/games/"+id, &product); err != nil {
		if storefront.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if product.ID == 0 && product.Title == "" {
		return nil, nil
	}
	return &product, nil
}
