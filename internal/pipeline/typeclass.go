package pipeline

import (
	"strings"

	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/models"
)

// typeClass maps the spellings buyers actually write to the property
// category they mean. Near-synonyms collapse into one class so "戸建" and
// "一戸建て" count as the same preference.
var typeClass = map[string]models.PropertyType{
	"戸建":    models.PropertyTypeHouse,
	"戸建て":   models.PropertyTypeHouse,
	"一戸建":   models.PropertyTypeHouse,
	"一戸建て":  models.PropertyTypeHouse,
	"中古戸建":  models.PropertyTypeHouse,
	"マンション": models.PropertyTypeApartment,
	"区分マンション": models.PropertyTypeApartment,
	"中古マンション": models.PropertyTypeApartment,
	"土地":    models.PropertyTypeLand,
	"売地":    models.PropertyTypeLand,
	"更地":    models.PropertyTypeLand,
	"その他":   models.PropertyTypeOther,
}

// ClassOf resolves a desired-type token to its category. Unknown tokens
// resolve to nothing: they state a preference we cannot honor, so they never
// satisfy the type stage.
func ClassOf(token string) (models.PropertyType, bool) {
	t, ok := typeClass[strings.TrimSpace(token)]
	return t, ok
}

// typeCompatible reports whether any of the buyer's desired-type tokens is
// equivalent to the property's category.
func typeCompatible(desired []string, propertyType models.PropertyType) bool {
	for _, tok := range desired {
		if t, ok := ClassOf(tok); ok && t == propertyType {
			return true
		}
	}
	return false
}
