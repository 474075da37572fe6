package epic

const elementFields = `
	id
	namespace
	title
	description
	effectiveDate
	releaseDate
	productSlug
	urlSlug
	developerDisplayName
	publisherDisplayName
	seller { name }
	keyImages { type url }
	categories { path }
	tags { id name groupName }
	customAttributes { key value }
	offerMappings { pageSlug pageType }
	catalogNs { mappings(pageType: "productHome") { pageSlug pageType } }
	price(country: $country) {
		totalPrice {
			discountPrice
			originalPrice
			currencyCode
			currencyInfo { decimals }
		}
	}
`

const searchStoreQuery = `query searchStoreQuery(
	$allowCountries: String
	$category: String
	$count: Int
	$country: String!
	$keywords: String
	$locale: String
	$sortBy: String
	$sortDir: String
	$start: Int
	$onSale: Boolean
	$withPrice: Boolean = true
) {
	Catalog {
		searchStore(
			allowCountries: $allowCountries
			category: $category
			count: $count
			country: $country
			keywords: $keywords
			locale: $locale
			sortBy: $sortBy
			sortDir: $sortDir
			start: $start
			onSale: $onSale
			withPrice: $withPrice
		) {
			elements {` + elementFields + `}
			paging { count total }
		}
	}
}`

const catalogOfferQuery = `query catalogOfferQuery(
	$namespace: String!
	$id: String!
	$country: String!
	$locale: String
) {
	Catalog {
		catalogOffer(namespace: $namespace, id: $id, locale: $locale) {` + elementFields + `}
	}
}`
