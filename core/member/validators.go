package member

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"github.com/trezcool/koperasi/core"
)

var (
	provinceTag  = "province"
	provinceText = "{0} must be an Indonesian province"

	// Provinces of Indonesia, in display order.
	Provinces = []string{
		"Aceh", "Sumatera Utara", "Sumatera Barat", "Riau", "Kepulauan Riau",
		"Jambi", "Sumatera Selatan", "Bangka Belitung", "Bengkulu", "Lampung",
		"DKI Jakarta", "Jawa Barat", "Jawa Tengah", "DI Yogyakarta", "Jawa Timur",
		"Banten", "Bali", "Nusa Tenggara Barat", "Nusa Tenggara Timur",
		"Kalimantan Barat", "Kalimantan Tengah", "Kalimantan Selatan",
		"Kalimantan Timur", "Kalimantan Utara", "Sulawesi Utara", "Sulawesi Tengah",
		"Sulawesi Selatan", "Sulawesi Tenggara", "Gorontalo", "Sulawesi Barat",
		"Maluku", "Maluku Utara", "Papua", "Papua Barat",
	}
)

func IsProvince(s string) bool {
	return lo.Contains(Provinces, s)
}

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(provinceTag, func(fl validator.FieldLevel) bool {
		return IsProvince(fl.Field().String())
	})
	core.RegisterCustomTranslation(validate, translator, provinceTag, provinceText)
}
