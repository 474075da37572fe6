package steam

import (
	"strings"
	"time"
)

type appListResponse struct {
	AppList struct {
		Apps []App `json:"apps"`
	} `json:"applist"`
}

type App struct {
	AppID int64  `json:"appid"`
	Name  string `json:"name"`
}

type appDetailsEnvelope struct {
	Success bool        `json:"success"`
	Data    *AppDetails `json:"data"`
}

type AppDetails struct {
	Type             string          `json:"type"`
	Name             string          `json:"name"`
	SteamAppID       int64           `json:"steam_appid"`
	IsFree           bool            `json:"is_free"`
	ShortDescription string          `json:"short_description"`
	HeaderImage      string          `json:"header_image"`
	Developers       []string        `json:"developers"`
	Publishers       []string        `json:"publishers"`
	Genres           []Description   `json:"genres"`
	Categories       []Description   `json:"categories"`
	ReleaseDate      *ReleaseDate    `json:"release_date"`
	PriceOverview    *PriceOverview  `json:"price_overview"`
	Metacritic       *Metacritic     `json:"metacritic"`
	Platforms        map[string]bool `json:"platforms"`
}

type Description struct {
	Description string `json:"description"`
}

type ReleaseDate struct {
	ComingSoon bool   `json:"coming_soon"`
	Date       string `json:"date"`
}

// PriceOverview amounts are in minor units.
type PriceOverview struct {
	Currency        string `json:"currency"`
	Initial         int64  `json:"initial"`
	Final           int64  `json:"final"`
	DiscountPercent int    `json:"discount_percent"`
}

type Metacritic struct {
	Score int    `json:"score"`
	URL   string `json:"url"`
}

var releaseLayouts = []string{
	"2 Jan, 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"2 January, 2006",
	"Jan 2006",
	"2006",
}

// Time parses the store's human-formatted release date; unknown formats yield nil.
func (r *ReleaseDate) Time() *time.Time {
	if r == nil {
		return nil
	}
	raw := strings.TrimSpace(r.Date)
	if raw == "" {
		return nil
	}
	for _, layout := range releaseLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
