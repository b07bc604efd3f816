package consolidate

import (
	"sort"
	"strconv"
	"strings"

	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/models"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/zone"
)

// typeSeparators are the list separators the sheet mixes freely in the
// desired-property-types column.
func isTypeSeparator(r rune) bool {
	switch r {
	case '、', '・', '/', ',':
		return true
	}
	return false
}

// NormalizeEmail is the identity key: trimmed, lowercased email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SplitPropertyTypes tokenizes a desired-property-types cell.
func SplitPropertyTypes(text string) []string {
	fields := strings.FieldsFunc(text, isTypeSeparator)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Consolidate groups raw buyer records by normalized email into one logical
// identity each. Records with an empty email never merge; each stays its own
// singleton identity. Within a group every attribute resolves
// most-permissive-wins: zones and type tokens union, the most-eligible
// status wins, one eligible distribution flag makes the identity eligible,
// and conflicting price texts are all retained.
func Consolidate(records []models.RawBuyerRecord) []models.ConsolidatedBuyer {
	groups := make(map[string][]models.RawBuyerRecord)
	var keys []string

	addGroup := func(key string, rec models.RawBuyerRecord) {
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], rec)
	}

	for i, rec := range records {
		email := NormalizeEmail(rec.Email)
		if email == "" {
			// Singleton key that cannot collide with a real address.
			addGroup("\x00"+rec.BuyerNumber+"\x00"+strconv.Itoa(i), rec)
			continue
		}
		addGroup(email, rec)
	}

	out := make([]models.ConsolidatedBuyer, 0, len(keys))
	for _, key := range keys {
		out = append(out, merge(groups[key]))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

func merge(group []models.RawBuyerRecord) models.ConsolidatedBuyer {
	buyer := models.ConsolidatedBuyer{
		Email:       NormalizeEmail(group[0].Email),
		PriceRanges: make(map[models.PropertyType][]string),
	}

	zones := make(zone.SymbolSet)
	numbers := make(map[string]struct{})
	types := make(map[string]struct{})
	var statuses []string

	for _, rec := range group {
		if rec.BuyerNumber != "" {
			if _, seen := numbers[rec.BuyerNumber]; !seen {
				numbers[rec.BuyerNumber] = struct{}{}
				buyer.BuyerNumbers = append(buyer.BuyerNumbers, rec.BuyerNumber)
			}
		}
		zones.Union(zone.Decompose(rec.DesiredZones))
		for _, tok := range SplitPropertyTypes(rec.DesiredPropertyTypes) {
			if _, seen := types[tok]; !seen {
				types[tok] = struct{}{}
				buyer.DesiredPropertyTypes = append(buyer.DesiredPropertyTypes, tok)
			}
		}
		statuses = append(statuses, rec.StatusCode)
		if FlagEligible(rec.DistributionFlag) {
			buyer.DistributionEligible = true
		}
		for _, t := range []models.PropertyType{
			models.PropertyTypeHouse,
			models.PropertyTypeApartment,
			models.PropertyTypeLand,
			models.PropertyTypeOther,
		} {
			addPriceText(&buyer, t, rec.PriceRangeText(t))
		}
	}

	buyer.DesiredZones = zones.Canonical()
	buyer.StatusCode = ResolveStatus(statuses)
	sort.Strings(buyer.BuyerNumbers)
	sort.Strings(buyer.DesiredPropertyTypes)
	return buyer
}

func addPriceText(buyer *models.ConsolidatedBuyer, t models.PropertyType, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	for _, existing := range buyer.PriceRanges[t] {
		if existing == text {
			return
		}
	}
	buyer.PriceRanges[t] = append(buyer.PriceRanges[t], text)
}
