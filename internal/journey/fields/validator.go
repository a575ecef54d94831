package fields

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator runs struct-tag validation with the journey's field rules
// registered as tags: pan, otp, bankaccount, ifsc and upi.
type Validator struct {
	validate *validator.Validate
}

var tagRules = map[string]func(string) Result{
	"pan":         ValidatePAN,
	"otp":         ValidateOTP,
	"bankaccount": ValidateAccountNumber,
	"ifsc":        ValidateIFSC,
	"upi":         ValidateUPI,
}

func NewValidator() *Validator {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	for tag, rule := range tagRules {
		rule := rule
		validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return rule(fl.Field().String()).Valid
		})
	}

	return &Validator{validate: validate}
}

// Struct validates s and returns one failing Result per offending field.
// Reasons for journey tags come from the matching field rule.
func (v *Validator) Struct(s interface{}) []Result {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []Result{fail("", err.Error())}
	}

	out := make([]Result, 0, len(validationErrors))
	for _, fe := range validationErrors {
		if rule, ok := tagRules[fe.Tag()]; ok {
			r := rule(stringValue(fe.Value()))
			r.Field = fe.Field()
			out = append(out, r)
			continue
		}
		out = append(out, fail(fe.Field(), describeTag(fe)))
	}
	return out
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "oneof":
		return "Must be one of: " + fe.Param()
	default:
		return "Failed the " + fe.Tag() + " check"
	}
}

func stringValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
