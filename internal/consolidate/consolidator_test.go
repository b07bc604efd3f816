package consolidate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/models"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "x@example.com", NormalizeEmail("  X@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestSplitPropertyTypes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"Ideographic comma", "戸建、土地", []string{"戸建", "土地"}},
		{"Middle dot", "戸建・マンション", []string{"戸建", "マンション"}},
		{"Slash", "土地/戸建", []string{"土地", "戸建"}},
		{"ASCII comma", "土地,マンション", []string{"土地", "マンション"}},
		{"Mixed separators with spaces", "戸建、 土地・マンション", []string{"戸建", "土地", "マンション"}},
		{"Empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitPropertyTypes(tt.input))
		})
	}
}

func TestConsolidate_GroupsByNormalizedEmail(t *testing.T) {
	records := []models.RawBuyerRecord{
		{BuyerNumber: "B001", Email: "X@example.com", DesiredZones: "⑨", StatusCode: StatusActive, DistributionFlag: FlagRequired},
		{BuyerNumber: "B002", Email: " x@example.com ", DesiredZones: "⑩", StatusCode: StatusActive, DistributionFlag: ""},
		{BuyerNumber: "B003", Email: "other@example.com", DesiredZones: "①", StatusCode: StatusActive, DistributionFlag: FlagMail},
	}

	buyers := Consolidate(records)
	assert.Len(t, buyers, 2)

	var merged *models.ConsolidatedBuyer
	for i := range buyers {
		if buyers[i].Email == "x@example.com" {
			merged = &buyers[i]
		}
	}
	assert.NotNil(t, merged)
	assert.Equal(t, []string{"B001", "B002"}, merged.BuyerNumbers)
	assert.Equal(t, "⑨⑩", merged.DesiredZones)
	assert.True(t, merged.DistributionEligible)
}

func TestConsolidate_EmptyEmailsStaySingletons(t *testing.T) {
	records := []models.RawBuyerRecord{
		{BuyerNumber: "B001", Email: ""},
		{BuyerNumber: "B002", Email: "   "},
		{BuyerNumber: "B003", Email: ""},
	}

	buyers := Consolidate(records)
	assert.Len(t, buyers, 3)
	for _, b := range buyers {
		assert.Len(t, b.BuyerNumbers, 1)
	}
}

func TestConsolidate_StatusPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		expected string
	}{
		{"Active beats purchased", []string{StatusPurchased, StatusActive}, StatusActive},
		{"Active beats disqualified", []string{StatusDisqualified, StatusActive}, StatusActive},
		{"Negotiating beats dormant", []string{StatusDormant, StatusNegotiating}, StatusNegotiating},
		{"Dormant beats unknown token", []string{"謎ステータス", StatusDormant}, StatusDormant},
		{"Unknown token beats purchased", []string{StatusPurchased, "謎ステータス"}, "謎ステータス"},
		{"Order independent", []string{StatusActive, StatusPurchased}, StatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := make([]models.RawBuyerRecord, len(tt.statuses))
			for i, s := range tt.statuses {
				records[i] = models.RawBuyerRecord{
					BuyerNumber: "B00" + string(rune('1'+i)),
					Email:       "x@example.com",
					StatusCode:  s,
				}
			}
			buyers := Consolidate(records)
			assert.Len(t, buyers, 1)
			assert.Equal(t, tt.expected, buyers[0].StatusCode)
		})
	}
}

func TestFlagEligible(t *testing.T) {
	tests := []struct {
		name     string
		flag     string
		eligible bool
	}{
		{"Required", FlagRequired, true},
		{"Mail", FlagMail, true},
		{"Transition marker inside flag", "不要→要", true},
		{"Not required", "不要", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.eligible, FlagEligible(tt.flag))
		})
	}
}

func TestConsolidate_DistributionFlagAnyRecordWins(t *testing.T) {
	records := []models.RawBuyerRecord{
		{BuyerNumber: "B001", Email: "x@example.com", DistributionFlag: "不要"},
		{BuyerNumber: "B002", Email: "x@example.com", DistributionFlag: FlagRequired},
	}

	buyers := Consolidate(records)
	assert.Len(t, buyers, 1)
	assert.True(t, buyers[0].DistributionEligible)
}

func TestConsolidate_PriceTextsRetainAllVariants(t *testing.T) {
	records := []models.RawBuyerRecord{
		{BuyerNumber: "B001", Email: "x@example.com", PriceRangeHouse: "1000万円～2000万円"},
		{BuyerNumber: "B002", Email: "x@example.com", PriceRangeHouse: "3000万円以下"},
		{BuyerNumber: "B003", Email: "x@example.com", PriceRangeHouse: "1000万円～2000万円"}, // duplicate
		{BuyerNumber: "B004", Email: "x@example.com", PriceRangeLand: "500万円以上"},
	}

	buyers := Consolidate(records)
	assert.Len(t, buyers, 1)
	assert.ElementsMatch(t,
		[]string{"1000万円～2000万円", "3000万円以下"},
		buyers[0].PriceRanges[models.PropertyTypeHouse])
	assert.Equal(t, []string{"500万円以上"}, buyers[0].PriceRanges[models.PropertyTypeLand])
	assert.Empty(t, buyers[0].PriceRanges[models.PropertyTypeApartment])
}

func TestConsolidate_Idempotent(t *testing.T) {
	records := []models.RawBuyerRecord{
		{BuyerNumber: "B001", Email: "x@example.com", DesiredZones: "⑩⑨", DesiredPropertyTypes: "戸建、土地", StatusCode: StatusPurchased, DistributionFlag: "不要"},
		{BuyerNumber: "B002", Email: "X@example.com", DesiredZones: "⑨", DesiredPropertyTypes: "マンション", StatusCode: StatusActive, DistributionFlag: FlagRequired},
	}

	once := Consolidate(records)
	assert.Len(t, once, 1)

	// Re-feed the consolidated view as singleton raw records.
	refed := make([]models.RawBuyerRecord, 0, len(once))
	for _, b := range once {
		flag := ""
		if b.DistributionEligible {
			flag = FlagRequired
		}
		refed = append(refed, models.RawBuyerRecord{
			BuyerNumber:          b.BuyerNumbers[0],
			Email:                b.Email,
			DesiredZones:         b.DesiredZones,
			DesiredPropertyTypes: strings.Join(b.DesiredPropertyTypes, "、"),
			StatusCode:           b.StatusCode,
			DistributionFlag:     flag,
		})
	}

	twice := Consolidate(refed)
	assert.Len(t, twice, 1)
	assert.Equal(t, once[0].DesiredZones, twice[0].DesiredZones)
	assert.Equal(t, once[0].DesiredPropertyTypes, twice[0].DesiredPropertyTypes)
	assert.Equal(t, once[0].StatusCode, twice[0].StatusCode)
	assert.Equal(t, once[0].DistributionEligible, twice[0].DistributionEligible)
}
