package profile

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/mealmatch/mealmatch/core"
)

var (
	eduEmailTag  = "eduemail"
	eduEmailText = "a %s email address is required"

	classLevelTag  = "classlevel"
	classLevelText = "must be one of: " + strings.Join(ClassLevels, ", ")

	mealTimesTag  = "mealtimes"
	mealTimesText = "days and meals must come from the fixed vocabulary"
)

// InitValidators registers the sign-up specific validation tags.
// eduDomain is the institutional email domain (e.g. "brandeis.edu").
func InitValidators(validate *validator.Validate, translator ut.Translator, eduDomain string) {
	suffix := "@" + strings.ToLower(eduDomain)
	_ = validate.RegisterValidation(eduEmailTag, func(fl validator.FieldLevel) bool {
		return strings.HasSuffix(strings.ToLower(fl.Field().String()), suffix)
	})
	core.RegisterCustomTranslation(validate, translator, eduEmailTag,
		strings.Replace(eduEmailText, "%s", eduDomain, 1))

	_ = validate.RegisterValidation(classLevelTag, classLevelValidation)
	core.RegisterCustomTranslation(validate, translator, classLevelTag, classLevelText)

	_ = validate.RegisterValidation(mealTimesTag, mealTimesValidation)
	core.RegisterCustomTranslation(validate, translator, mealTimesTag, mealTimesText)
}

func classLevelValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, lvl := range ClassLevels {
		if val == lvl {
			return true
		}
	}
	return false
}

func mealTimesValidation(fl validator.FieldLevel) bool {
	mt, ok := fl.Field().Interface().(MealTimes)
	if !ok {
		return false
	}
	for day, meals := range mt {
		if !contains(Days, day) {
			return false
		}
		for meal, slots := range meals {
			if !contains(Meals, meal) {
				return false
			}
			for _, slot := range slots {
				if strings.TrimSpace(slot) == "" {
					return false
				}
			}
		}
	}
	return true
}

func contains(vocab []string, s string) bool {
	for _, v := range vocab {
		if v == s {
			return true
		}
	}
	return false
}
