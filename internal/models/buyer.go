package models

// RawBuyerRecord is one inquiry/contact row as stored. The same person may
// appear under several buyer numbers (repeat inquiries), so raw records are
// consolidated by normalized email before matching.
type RawBuyerRecord struct {
	BuyerNumber string `json:"buyer_number"`
	Email       string `json:"email"`

	// DesiredZones is the wire format: zone symbols concatenated without a
	// separator, in no guaranteed order.
	DesiredZones string `json:"desired_zones"`

	// DesiredPropertyTypes is free text, a list joined with Japanese
	// separators (、 ・ / ,), e.g. "戸建・土地".
	DesiredPropertyTypes string `json:"desired_property_types"`

	// Price-range text per property category, in the spreadsheet's
	// free-text notation, e.g. "1000万円～3000万円" or "指定なし".
	PriceRangeHouse     string `json:"price_range_house"`
	PriceRangeApartment string `json:"price_range_apartment"`
	PriceRangeLand      string `json:"price_range_land"`
	PriceRangeOther     string `json:"price_range_other"`

	StatusCode       string `json:"status_code"`
	DistributionFlag string `json:"distribution_flag"`
}

// PriceRangeText returns the raw price-range text for the given category.
func (r *RawBuyerRecord) PriceRangeText(t PropertyType) string {
	switch t {
	case PropertyTypeHouse:
		return r.PriceRangeHouse
	case PropertyTypeApartment:
		return r.PriceRangeApartment
	case PropertyTypeLand:
		return r.PriceRangeLand
	default:
		return r.PriceRangeOther
	}
}

// ConsolidatedBuyer is the merged view of every raw record sharing one
// normalized email. It is recomputed from the raw snapshot on each matching
// run and never persisted.
type ConsolidatedBuyer struct {
	Email        string   `json:"email"`
	BuyerNumbers []string `json:"buyer_numbers"`

	// DesiredZones is the canonical union of the group's zone symbols.
	DesiredZones string `json:"desired_zones"`

	// DesiredPropertyTypes is the union of the group's type tokens, sorted.
	DesiredPropertyTypes []string `json:"desired_property_types"`

	// PriceRanges keeps every distinct non-empty text per category. When
	// duplicates conflict, a buyer matches if any text matches.
	PriceRanges map[PropertyType][]string `json:"price_ranges"`

	// StatusCode is the most-eligible status present in the group.
	StatusCode string `json:"status_code"`

	// DistributionEligible is true when any record in the group carries an
	// eligible distribution flag.
	DistributionEligible bool `json:"distribution_eligible"`
}
