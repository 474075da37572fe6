package platform

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gamecompare/internal/client/epic"
	"gamecompare/internal/client/gog"
	"gamecompare/internal/client/steam"
	"gamecompare/internal/models"
)

const defaultCurrency = "USD"

// NormalizeSteam maps app details onto the common model. When details is nil
// only the app-list name is known and availability stays unknown.
func NormalizeSteam(appID int64, fallbackName string, details *steam.AppDetails, storeURL string) NormalizedGame {
	id := strconv.FormatInt(appID, 10)
	image := steam.ImageHost + "/" + id + "/header.jpg"
	g := NormalizedGame{
		Name:       strings.TrimSpace(fallbackName),
		CoverImage: strPtr(image),
		Genres:     []string{},
		Tags:       []string{},
		Offer: Offer{
			Platform:    Steam,
			PlatformID:  id,
			Currency:    defaultCurrency,
			URL:         strPtr(strings.TrimRight(storeURL, "/") + "/app/" + id),
			ImageURL:    strPtr(image),
			IsAvailable: models.TriUnknown,
			DRMFree:     models.TriUnknown,
		},
	}
	if details == nil {
		return g
	}
	if name := strings.TrimSpace(details.Name); name != "" {
		g.Name = name
	}
	g.Description = strings.TrimSpace(details.ShortDescription)
	if details.HeaderImage != "" {
		g.CoverImage = strPtr(details.HeaderImage)
	}
	for _, d := range details.Genres {
		if v := strings.TrimSpace(d.Description); v != "" {
			g.Genres = append(g.Genres, v)
		}
	}
	for _, d := range details.Categories {
		if v := strings.TrimSpace(d.Description); v != "" {
			g.Tags = append(g.Tags, v)
		}
	}
	if len(details.Developers) > 0 {
		g.Developer = strPtr(details.Developers[0])
	}
	if len(details.Publishers) > 0 {
		g.Publisher = strPtr(details.Publishers[0])
	}
	g.ReleaseDate = details.ReleaseDate.Time()
	if details.Metacritic != nil && details.Metacritic.Score > 0 {
		score := details.Metacritic.Score
		g.MetacriticScore = &score
	}

	switch {
	case details.PriceOverview != nil:
		po := details.PriceOverview
		price := decimal.New(po.Final, -2)
		orig := decimal.New(po.Initial, -2)
		g.Offer.Price = &price
		g.Offer.OriginalPrice = &orig
		g.Offer.DiscountPercent = po.DiscountPercent
		if po.Currency != "" {
			g.Offer.Currency = strings.ToUpper(po.Currency)
		}
	case details.IsFree:
		zero := decimal.Zero
		g.Offer.Price = &zero
		g.Offer.OriginalPrice = &zero
	}

	g.Offer.IsAvailable = models.TriTrue
	if details.ReleaseDate != nil && details.ReleaseDate.ComingSoon {
		g.Offer.IsAvailable = models.TriFalse
	}
	g.Offer.Metadata = map[string]any{
		"type":    details.Type,
		"is_free": details.IsFree,
	}
	if len(details.Platforms) > 0 {
		g.Offer.Metadata["os"] = details.Platforms
	}
	return g
}

// NormalizeEpic maps a catalog offer. Prices arrive in minor units and the
// discount is derived from them.
func NormalizeEpic(el epic.Element, storeURL string) NormalizedGame {
	g := NormalizedGame{
		Name:        strings.TrimSpace(el.Title),
		Description: firstNonEmpty(el.ShortDescription, el.Description),
		CoverImage:  epicImage(el.KeyImages),
		Genres:      []string{},
		Tags:        []string{},
		Developer:   strPtr(firstNonEmpty(el.DeveloperDisplayName, epicAttr(el, "developerName"))),
		Publisher:   strPtr(firstNonEmpty(el.PublisherDisplayName, epicAttr(el, "publisherName"), sellerName(el.Seller))),
		ReleaseDate: epicDate(firstNonEmpty(el.ReleaseDate, el.EffectiveDate)),
		Offer: Offer{
			Platform:    Epic,
			PlatformID:  epic.JoinID(el.Namespace, el.ID),
			Currency:    defaultCurrency,
			IsAvailable: models.TriTrue,
			DRMFree:     models.TriUnknown,
		},
	}
	for _, t := range el.Tags {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			continue
		}
		if strings.EqualFold(t.GroupName, "genre") {
			g.Genres = append(g.Genres, name)
		}
		g.Tags = append(g.Tags, name)
	}
	g.Offer.ImageURL = g.CoverImage

	slug := epicSlug(el)
	if slug != "" {
		g.Offer.URL = strPtr(strings.TrimRight(storeURL, "/") + "/p/" + slug)
	}

	if el.Price != nil && el.Price.TotalPrice != nil {
		tp := el.Price.TotalPrice
		decimals := int32(2)
		if tp.CurrencyInfo != nil && tp.CurrencyInfo.Decimals > 0 {
			decimals = int32(tp.CurrencyInfo.Decimals)
		}
		if tp.CurrencyCode != "" {
			g.Offer.Currency = strings.ToUpper(tp.CurrencyCode)
		}
		if tp.OriginalPrice != nil {
			v := decimal.New(*tp.OriginalPrice, -decimals)
			g.Offer.OriginalPrice = &v
		}
		if tp.DiscountPrice != nil {
			v := decimal.New(*tp.DiscountPrice, -decimals)
			g.Offer.Price = &v
		}
		if tp.OriginalPrice != nil && tp.DiscountPrice != nil {
			g.Offer.DiscountPercent = EpicDiscount(*tp.OriginalPrice, *tp.DiscountPrice)
		}
	}
	g.Offer.Metadata = map[string]any{
		"namespace": el.Namespace,
		"offer_id":  el.ID,
		"slug":      slug,
	}
	return g
}

// EpicDiscount is round((original-discounted)/original*100), 0 when original is 0.
func EpicDiscount(original, discounted int64) int {
	if original <= 0 {
		return 0
	}
	pct := int(math.Round(float64(original-discounted) * 100 / float64(original)))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// NormalizeGOG maps a catalog product. Amounts are already major units and
// the upstream discount is kept as is.
func NormalizeGOG(p gog.Product, storeURL string) NormalizedGame {
	id := strconv.FormatInt(p.ID, 10)
	g := NormalizedGame{
		Name:        strings.TrimSpace(p.Title),
		Description: firstNonEmpty(p.Overview, p.Description),
		Genres:      append([]string{}, p.Genre...),
		Tags:        append([]string{}, p.Tags...),
		Developer:   strPtr(p.Developer),
		Publisher:   strPtr(p.Publisher),
		ReleaseDate: gogDate(p.ReleaseDate),
		Offer: Offer{
			Platform:    GOG,
			PlatformID:  id,
			Currency:    defaultCurrency,
			IsAvailable: models.TriTrue,
			DRMFree:     models.TriFromPtr(p.IsDRMFree),
		},
	}
	if p.IsAvailable != nil {
		g.Offer.IsAvailable = models.TriFromBool(*p.IsAvailable)
	}
	if p.Images != nil {
		g.CoverImage = strPtr(absURL(firstNonEmpty(p.Images.Logo, p.Images.BoxArtImage)))
		g.Offer.ImageURL = g.CoverImage
	}
	if p.Slug != "" {
		g.Offer.URL = strPtr(strings.TrimRight(storeURL, "/") + "/game/" + p.Slug)
	}
	if p.Price != nil {
		g.Offer.Price = p.Price.FinalAmount
		g.Offer.OriginalPrice = p.Price.OriginalAmount
		if p.Price.DiscountPercent != nil {
			g.Offer.DiscountPercent = *p.Price.DiscountPercent
		}
		if p.Price.Currency != "" {
			g.Offer.Currency = strings.ToUpper(p.Price.Currency)
		}
	}
	g.Offer.Metadata = map[string]any{"slug": p.Slug}
	if p.IsDRMFree != nil {
		g.Offer.Metadata["is_drm_free"] = *p.IsDRMFree
	}
	return g
}

func epicImage(images []epic.KeyImage) *string {
	for _, want := range []string{"Thumbnail", "DieselGameBox"} {
		for _, img := range images {
			if img.Type == want && img.URL != "" {
				return strPtr(img.URL)
			}
		}
	}
	for _, img := range images {
		if img.URL != "" {
			return strPtr(img.URL)
		}
	}
	return nil
}

func epicAttr(el epic.Element, key string) string {
	for _, a := range el.CustomAttributes {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

func epicSlug(el epic.Element) string {
	candidates := []string{el.ProductSlug}
	for _, m := range el.OfferMappings {
		candidates = append(candidates, m.PageSlug)
	}
	if el.CatalogNs != nil {
		for _, m := range el.CatalogNs.Mappings {
			candidates = append(candidates, m.PageSlug)
		}
	}
	candidates = append(candidates, el.URLSlug)
	for _, c := range candidates {
		c = strings.TrimSuffix(strings.TrimSpace(c), "/home")
		if c != "" && c != "[]" {
			return c
		}
	}
	return ""
}

func sellerName(s *epic.Seller) string {
	if s == nil {
		return ""
	}
	return s.Name
}

// epicDate drops the far-future placeholder used for unannounced dates.
func epicDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil || t.Year() >= 2099 {
		return nil
	}
	t = t.UTC()
	return &t
}

func gogDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-0700", "2006-01-02", "2006.01.02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func absURL(u string) string {
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
