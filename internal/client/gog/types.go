package gog

import (
	"bytes"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

type catalogResponse struct {
	Page struct {
		TotalElements int `json:"totalElements"`
		TotalPages    int `json:"totalPages"`
		Number        int `json:"number"`
	} `json:"_page"`
	Embedded struct {
		Items []Product `json:"items"`
	} `json:"_embedded"`
}

type Product struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Overview    string     `json:"overview"`
	Description string     `json:"description"`
	Developer   string     `json:"developer"`
	Publisher   string     `json:"publisher"`
	ReleaseDate string     `json:"releaseDate"`
	Genre       StringList `json:"genre"`
	Tags        StringList `json:"tags"`
	Images      *Images    `json:"images"`
	Price       *Price     `json:"price"`
	IsDRMFree   *bool      `json:"isDRMFree"`
	IsAvailable *bool      `json:"isAvailableForSale"`
}

type Images struct {
	Logo        string `json:"logo"`
	BoxArtImage string `json:"boxArtImage"`
	Background  string `json:"background"`
}

// Price amounts are in major units and may arrive as strings or numbers.
type Price struct {
	FinalAmount     *decimal.Decimal `json:"finalAmount"`
	OriginalAmount  *decimal.Decimal `json:"originalAmount"`
	DiscountPercent *int             `json:"discountPercent"`
	Currency        string           `json:"currency"`
}

// StringList accepts ["a","b"], [{"name":"a"}] or "a".
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = splitNonEmpty(s)
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
			continue
		}
		var named struct {
			Name  string `json:"name"`
			Title string `json:"title"`
		}
		if err := json.Unmarshal(item, &named); err != nil {
			continue
		}
		if v := strings.TrimSpace(named.Name + named.Title); v != "" {
			out = append(out, v)
		}
	}
	*l = out
	return nil
}

func splitNonEmpty(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type SearchParams struct {
	Search string
	Page   int
	Limit  int
	Order  string
}

type SearchPage struct {
	Products   []Product
	Total      int
	TotalPages int
}
