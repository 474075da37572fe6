package epic

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type searchResponse struct {
	Data struct {
		Catalog struct {
			SearchStore struct {
				Elements []Element `json:"elements"`
				Paging   Paging    `json:"paging"`
			} `json:"searchStore"`
			CatalogOffer *Element `json:"catalogOffer"`
		} `json:"Catalog"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type Paging struct {
	Count int `json:"count"`
	Total int `json:"total"`
}

// Element is one catalog offer as returned by the store GraphQL endpoint.
type Element struct {
	ID                   string            `json:"id"`
	Namespace            string            `json:"namespace"`
	Title                string            `json:"title"`
	Description          string            `json:"description"`
	ShortDescription     string            `json:"shortDescription"`
	EffectiveDate        string            `json:"effectiveDate"`
	ReleaseDate          string            `json:"releaseDate"`
	ProductSlug          string            `json:"productSlug"`
	URLSlug              string            `json:"urlSlug"`
	DeveloperDisplayName string            `json:"developerDisplayName"`
	PublisherDisplayName string            `json:"publisherDisplayName"`
	Seller               *Seller           `json:"seller"`
	KeyImages            []KeyImage        `json:"keyImages"`
	Categories           []Category        `json:"categories"`
	Tags                 []Tag             `json:"tags"`
	CustomAttributes     []CustomAttribute `json:"customAttributes"`
	OfferMappings        []PageMapping     `json:"offerMappings"`
	CatalogNs            *CatalogNs        `json:"catalogNs"`
	Price                *Price            `json:"price"`
}

type Seller struct {
	Name string `json:"name"`
}

type KeyImage struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type Category struct {
	Path string `json:"path"`
}

type Tag struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	GroupName string `json:"groupName"`
}

type CustomAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type PageMapping struct {
	PageSlug string `json:"pageSlug"`
	PageType string `json:"pageType"`
}

type CatalogNs struct {
	Mappings []PageMapping `json:"mappings"`
}

type Price struct {
	TotalPrice *TotalPrice `json:"totalPrice"`
}

// TotalPrice amounts are in minor units; CurrencyInfo.Decimals says how many.
type TotalPrice struct {
	DiscountPrice *int64        `json:"discountPrice"`
	OriginalPrice *int64        `json:"originalPrice"`
	CurrencyCode  string        `json:"currencyCode"`
	CurrencyInfo  *CurrencyInfo `json:"currencyInfo"`
}

type CurrencyInfo struct {
	Decimals int `json:"decimals"`
}

// SearchParams mirrors the searchStore variables.
type SearchParams struct {
	Keywords string
	Count    int
	Start    int
	SortBy   string
	SortDir  string
	OnSale   bool
}

type SearchPage struct {
	Elements []Element
	Total    int
}
