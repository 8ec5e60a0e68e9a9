package apifault

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/apifault/apifault/failure"
	"github.com/apifault/apifault/validate"
)

// convertFieldErrors converts binding rule violations into property
// failures, preserving their order and logging each one.
func (t *Translator) convertFieldErrors(ruleErrs validator.ValidationErrors) []failure.PropertyFailure {
	failures := make([]failure.PropertyFailure, 0, len(ruleErrs))
	for _, e := range ruleErrs {
		f := toPropertyFailure(e)
		t.config.Logger.Error("invalid request field",
			zap.String("namespace", e.Namespace()),
			zap.String("field", f.Field),
			zap.Any("rejected_value", f.RejectedValue),
			zap.String("message", f.Message),
		)
		failures = append(failures, f)
	}
	return failures
}

// toPropertyFailure maps a single field error onto the response shape.
// The rejected value is carried untransformed.
func toPropertyFailure(e validator.FieldError) failure.PropertyFailure {
	return failure.NewPropertyFailure(validate.Message(e), e.Field(), failureCode(e), e.Value())
}

// failureCode derives the machine-readable code from the violated rule.
// Rules that reject missing or blank values map to "empty"; every other
// rule carries no code.
func failureCode(e validator.FieldError) string {
	for _, tag := range []string{e.Tag(), e.ActualTag()} {
		if strings.Contains(tag, "required") {
			return failure.CodeEmpty
		}
	}
	for _, tag := range []string{e.Tag(), e.ActualTag()} {
		if strings.Contains(tag, "notblank") {
			return failure.CodeEmpty
		}
	}
	return ""
}
