package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton tag validator.
var validate = validator.New()

// MaxWorkers bounds the batch pool size; anything larger is a config
// mistake, not a throughput request.
const MaxWorkers = 4096

// Validate checks per-field constraints via struct tags, then cross-field
// rules via the collecting validator. All violations are reported at
// once.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatTagError(err)
	}

	cv := newConfigValidator("Config")
	cv.maxInt("workers", c.Workers, MaxWorkers)
	if c.StepBudget > 0 && c.StepBudget < c.MaxRefinementRounds {
		cv.fail("step_budget", fmt.Sprintf(
			"budget %d cannot cover even one node per round at %d rounds", c.StepBudget, c.MaxRefinementRounds))
	}
	return cv.err()
}

// configValidator collects cross-field violations instead of failing on
// the first, matching the tag validator's all-at-once reporting.
type configValidator struct {
	name   string
	errors []error
}

func newConfigValidator(name string) *configValidator {
	return &configValidator{name: name}
}

func (cv *configValidator) maxInt(field string, value, max int) {
	if value > max {
		cv.fail(field, fmt.Sprintf("value %d exceeds maximum %d", value, max))
	}
}

func (cv *configValidator) fail(field, msg string) {
	cv.errors = append(cv.errors, fmt.Errorf("%s.%s: %s", cv.name, field, msg))
}

func (cv *configValidator) err() error {
	if len(cv.errors) == 0 {
		return nil
	}
	return errors.Join(cv.errors...)
}

// formatTagError rewrites validator's tag errors into config-file terms.
func formatTagError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s: required", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s: must be one of [%s]", fe.Field(), fe.Param()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s: below minimum %s", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s: above maximum %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: invalid (%s)", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
