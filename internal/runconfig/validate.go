package runconfig

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError 검증 실패 (실행 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report yaml paths (pricing.risk_free_rate) instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks struct constraints, then cross-field rules.
// The first failure is returned as a ValidationError.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return ValidationError{
				Field:   fieldPath(fe.Namespace()),
				Message: describe(fe),
			}
		}
		return err
	}

	if cfg.ToDate().Before(cfg.FromDate()) {
		return ValidationError{"meta.to", "must not be before meta.from"}
	}

	for field, v := range map[string]float64{
		"pricing.risk_free_rate":         cfg.Pricing.RiskFreeRate,
		"pricing.time_to_maturity_years": cfg.Pricing.TimeToMaturityYears,
		"pricing.strike_multiplier":      cfg.Pricing.StrikeMultiplier,
		"sentiment.alpha":                cfg.Sentiment.Alpha,
		"chain.moneyness_tolerance":      cfg.Chain.MoneynessTolerance,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ValidationError{field, "must be finite"}
		}
	}

	return nil
}

// RequireHistoricalInputs checks that the historical path has a price file to read
func RequireHistoricalInputs(cfg *Config) error {
	if cfg.Data.PriceSource == SourceCSV && cfg.Data.PricesFile == "" {
		return ValidationError{"data.prices_file", "required when price_source is csv"}
	}
	return requireNews(cfg)
}

// RequireOptionInputs checks that the option path has a chain file to read
func RequireOptionInputs(cfg *Config) error {
	if cfg.Data.ChainFile == "" {
		return ValidationError{"data.chain_file", "required"}
	}
	return requireNews(cfg)
}

func requireNews(cfg *Config) error {
	if cfg.Data.NewsSource == SourceCSV && cfg.Data.NewsFile == "" {
		return ValidationError{"data.news_file", "required when news_source is csv"}
	}
	return nil
}

// fieldPath strips the root struct name: "Config.pricing.alpha" → "pricing.alpha"
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "datetime":
		return fmt.Sprintf("must be a date in %s form", fe.Param())
	case "gtefield":
		return fmt.Sprintf("must be >= %s", strings.ToLower(fe.Param()))
	default:
		return fmt.Sprintf("must be %s %s", fe.Tag(), fe.Param())
	}
}
