package ingest

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// dimensions are stored as INTEGER.
type dimensions struct {
	ScreenWidth  int `validate:"gt=0,lte=2147483647"`
	ScreenHeight int `validate:"gt=0,lte=2147483647"`
}

// Validate checks a page view and reports the first violation, scanning links in order.
func Validate(pv domain.PageView) error {
	if err := validate.Struct(dimensions{ScreenWidth: pv.ScreenWidth, ScreenHeight: pv.ScreenHeight}); err != nil {
		return dimensionError(err)
	}

	if len(pv.Links) == 0 {
		return domain.ErrValidation("empty_link_data", "linkData", "non_empty", "linkData array cannot be empty")
	}

	for i, l := range pv.Links {
		if err := validateLink(i, l); err != nil {
			return err
		}
	}
	return nil
}

func validateLink(i int, l domain.LinkInput) error {
	if validate.Var(l.Href, "required,url") != nil {
		return domain.ErrLinkItem("invalid_link_href_format", i, "href", "url",
			fmt.Sprintf(`linkData item at index %d: "href" must be a valid URL`, i))
	}
	if validate.Var(l.Text, "notblank") != nil {
		return domain.ErrLinkItem("empty_link_text", i, "text", "not_empty",
			fmt.Sprintf(`linkData item at index %d: "text" cannot be empty`, i))
	}
	if validate.Var(l.Href, fmt.Sprintf("max=%d", domain.MaxLinkHrefLen)) != nil {
		return domain.ErrLinkItem("link_href_too_long", i, "href", "max",
			fmt.Sprintf(`linkData item at index %d: "href" must be at most %d characters`, i, domain.MaxLinkHrefLen))
	}
	return nil
}

func dimensionError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return domain.ErrInternal(err)
	}

	fe := verrs[0]
	rule := "positive_integer"
	if fe.Tag() == "lte" {
		rule = "max"
	}
	if fe.Field() == "ScreenHeight" {
		return ErrInvalidScreenHeight(rule)
	}
	return ErrInvalidScreenWidth(rule)
}

func ErrInvalidScreenWidth(rule string) error {
	return domain.ErrValidation("invalid_screen_width", "screenWidth", rule, "Screen width must be a positive integer")
}

func ErrInvalidScreenHeight(rule string) error {
	return domain.ErrValidation("invalid_screen_height", "screenHeight", rule, "Screen height must be a positive integer")
}
