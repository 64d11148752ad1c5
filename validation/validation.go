package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator"
	"github.com/meghashyamc/encarta/logger"
)

type Validator struct {
	validator                *validator.Validate
	logger                   logger.Logger
	tagValidationDetailsOnce sync.Once
	tagValidationDetailsMap  map[string]tagValidationDetails
}

type tagValidationDetails struct {
	validatorFunc validator.Func
	err           error
}

func New(logger logger.Logger) (*Validator, error) {
	validator := &Validator{validator: validator.New(), logger: logger}
	validator.validator.RegisterTagNameFunc(useJSONFieldNames)
	if err := validator.registerCustomValidatorsForTags(); err != nil {
		return nil, err
	}

	return validator, nil
}

func (v *Validator) Validate(i any) error {

	if err := v.validator.Struct(i); err != nil {
		v.logger.Warn("validation failed", "err", err.Error())
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {

			tagValidationDetails, ok := v.getTagValidationDetails()[validationErrs[0].Tag()]
			if ok {
				return tagValidationDetails.err
			}

			switch validationErrs[0].Tag() {
			case "required":
				return fmt.Errorf("missing required field '%s'", validationErrs[0].Field())

			case "min", "max":
				return fmt.Errorf("value or length of field '%s' is not in the expected range", validationErrs[0].Field())

			case "oneof":
				return fmt.Errorf("field '%s' has an unsupported value", validationErrs[0].Field())
			}
		}
		return err
	}
	return nil
}

func (v *Validator) getTagValidationDetails() map[string]tagValidationDetails {
	v.tagValidationDetailsOnce.Do(func() {
		v.tagValidationDetailsMap = map[string]tagValidationDetails{
			"valid_category":    {validatorFunc: v.isValidCategory, err: errors.New("invalid category")},
			"valid_document_id": {validatorFunc: v.isValidDocumentID, err: errors.New("invalid document id")},
			"valid_link":        {validatorFunc: v.isValidLink, err: errors.New("invalid link")},
		}
	})
	return v.tagValidationDetailsMap
}

func (v *Validator) registerCustomValidatorsForTags() error {

	tagValidationDetailsMap := v.getTagValidationDetails()

	for tag, tagValidationDetails := range tagValidationDetailsMap {
		if err := v.validator.RegisterValidation(tag, tagValidationDetails.validatorFunc); err != nil {
			v.logger.Error("failed to register custom validator function", "err", err.Error())
			return err
		}
	}
	return nil
}

func useJSONFieldNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// Categories are sent comma-joined, so a comma inside one would split it.
func (v *Validator) isValidCategory(fl validator.FieldLevel) bool {
	category := fl.Field().String()
	if strings.TrimSpace(category) == "" {
		v.logger.Warn("category is empty", "category", category)
		return false
	}

	if strings.Contains(category, ",") {
		v.logger.Warn("category contains a comma", "category", category)
		return false
	}

	return true
}

func (v *Validator) isValidDocumentID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	if strings.TrimSpace(id) == "" {
		v.logger.Warn("document id is empty", "id", id)
		return false
	}

	if strings.ContainsAny(id, "/\x00") {
		v.logger.Warn("document id has a forbidden character", "id", id)
		return false
	}

	return true
}

// Empty links are allowed; documents without a link are still resolvable.
func (v *Validator) isValidLink(fl validator.FieldLevel) bool {
	link := fl.Field().String()
	if len(link) == 0 {
		return true
	}

	if strings.TrimSpace(link) == "" || strings.Contains(link, "\x00") {
		v.logger.Warn("link is blank or has null byte", "link", link)
		return false
	}

	return true
}
