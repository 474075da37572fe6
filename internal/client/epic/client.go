package epic

import (
	"context"
	"fmt"
	"strings"

	"gamecompare/internal/client/storefront"
)

const (
	defaultHost   = "https://store.epicgames.com"
	gameCategory  = "games/edition/base|bundles/games|games/edition|editors|addons|games/demo|software/edition/base"
	defaultCount  = 50
	maxCount      = 100
	defaultSortBy = "relevancy"
)

type Client struct {
	host      string
	country   string
	locale    string
	transport *storefront.Client
}

func NewClient(transport *storefront.Client, host, country, locale string) *Client {
	if host == "" {
		host = defaultHost
	}
	if country == "" {
		country = "US"
	}
	if locale == "" {
		locale = "en-US"
	}
	return &Client{
		host:      strings.TrimRight(host, "/"),
		country:   country,
		locale:    locale,
		transport: transport,
	}
}

func (c *Client) SearchStore(ctx context.Context, params SearchParams) (SearchPage, error) {
	count := params.Count
	if count <= 0 {
		count = defaultCount
	}
	if count > maxCount {
		count = maxCount
	}
	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = defaultSortBy
	}
	sortDir := strings.ToUpper(params.SortDir)
	if sortDir != "ASC" {
		sortDir = "DESC"
	}
	vars := map[string]any{
		"allowCountries": c.country,
		"category":       gameCategory,
		"count":          count,
		"country":        c.country,
		"keywords":       params.Keywords,
		"locale":         c.locale,
		"sortBy":         sortBy,
		"sortDir":        sortDir,
		"start":          max(params.Start, 0),
		"withPrice":      true,
	}
	if params.OnSale {
		vars["onSale"] = true
	}
	var resp searchResponse
	if err := c.transport.PostJSON(ctx, c.host+"/graphql", graphQLRequest{Query: searchStoreQuery, Variables: vars}, &resp); err != nil {
		return SearchPage{}, err
	}
	if err := graphQLErr(resp.Errors); err != nil {
		return SearchPage{}, err
	}
	store := resp.Data.Catalog.SearchStore
	return SearchPage{Elements: store.Elements, Total: store.Paging.Total}, nil
}

// GetOffer loads one offer by "<namespace>:<id>"; nil when the store has none.
func (c *Client) GetOffer(ctx context.Context, platformID string) (*Element, error) {
	namespace, id, ok := SplitID(platformID)
	if !ok {
		return nil, fmt.Errorf("invalid epic offer id %q", platformID)
	}
	vars := map[string]any{
		"namespace": namespace,
		"id":        id,
		"country":   c.country,
		"locale":    c.locale,
	}
	var resp searchResponse
	if err := c.transport.PostJSON(ctx, c.host+"/graphql", graphQLRequest{Query: catalogOfferQuery, Variables: vars}, &resp); err != nil {
		return nil, err
	}
	if err := graphQLErr(resp.Errors); err != nil {
		return nil, err
	}
	return resp.Data.Catalog.CatalogOffer, nil
}

// JoinID builds the stable offer identifier stored as the platform id.
func JoinID(namespace, id string) string {
	if namespace == "" {
		return id
	}
	return namespace + ":" + id
}

func SplitID(platformID string) (string, string, bool) {
	namespace, id, ok := strings.Cut(strings.TrimSpace(platformID), ":")
	if !ok || namespace == "" || id == "" {
		return "", "", false
	}
	return namespace, id, true
}

func graphQLErr(errs []graphQLError) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return fmt.Errorf("epic graphql: %s", strings.Join(msgs, "; "))
}
