package steam

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"gamecompare/internal/client/storefront"
)

const (
	defaultAPIHost   = "https://api.steampowered.com"
	defaultStoreHost = "https://store.steampowered.com"
	ImageHost        = "https://steamcdn-a.akamaihd.net/steam/apps"
)

type Client struct {
	api       string
	store     string
	country   string
	language  string
	transport *storefront.Client
}

func NewClient(transport *storefront.Client, apiHost, storeHost, country, language string) *Client {
	if apiHost == "" {
		apiHost = defaultAPIHost
	}
	if storeHost == "" {
		storeHost = defaultStoreHost
	}
	return &Client{
		api:       strings.TrimRight(apiHost, "/"),
		store:     strings.TrimRight(storeHost, "/"),
		country:   country,
		language:  language,
		transport: transport,
	}
}

func (c *Client) StoreHost() string {
	return c.store
}

// GetAppList returns the full id+name list. Prices need GetAppDetails.
func (c *Client) GetAppList(ctx context.Context) ([]App, error) {
	var resp appListResponse
	if err := c.transport.GetJSON(ctx, c.api+"/ISteamApps/GetAppList/v2/", &resp); err != nil {
		return nil, err
	}
	return resp.AppList.Apps, nil
}

// GetAppDetails returns nil when the store reports no data for appID.
func (c *Client) GetAppDetails(ctx context.Context, appID string) (*AppDetails, error) {
	appID = strings.TrimSpace(appID)
	if _, err := strconv.ParseInt(appID, 10, 64); err != nil {
		return nil, fmt.Errorf("invalid steam app id %q", appID)
	}
	query := url.Values{}
	query.Set("appids", appID)
	if c.country != "" {
		query.Set("cc", c.country)
	}
	if c.language != "" {
		query.Set("l", c.language)
	}
	var resp map[string]appDetailsEnvelope
	if err := c.transport.GetJSON(ctx, c.store+"/api/appdetails?"+query.Encode(), &resp); err != nil {
		return nil, err
	}
	env, ok := resp[appID]
	if !ok || !env.Success || env.Data == nil {
		return nil, nil
	}
	return env.Data, nil
}
