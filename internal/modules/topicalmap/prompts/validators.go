package prompts

import (
	"fmt"
	"strings"
)

type Validator func(Input) error

func RequireNonEmpty(field string, get func(Input) string) Validator {
	return func(in Input) error {
		if get == nil {
			return fmt.Errorf("validator for %s: getter is nil", field)
		}
		if strings.TrimSpace(get(in)) == "" {
			return fmt.Errorf("%s required", field)
		}
		return nil
	}
}

func RequirePresent(field string, has func(Input) bool) Validator {
	return func(in Input) error {
		if has == nil {
			return fmt.Errorf("validator for %s: predicate is nil", field)
		}
		if !has(in) {
			return fmt.Errorf("%s required", field)
		}
		return nil
	}
}
