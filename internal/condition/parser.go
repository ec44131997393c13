package condition

import (
	"github.com/NikitaCOEUR/termsuggest/internal/config"
)

// Parse converts a config.When into a Condition. A nil when yields a nil
// Condition, which callers treat as always true.
func Parse(when *config.When) (Condition, error) {
	if when == nil {
		return nil, nil
	}
	if err := when.Validate(); err != nil {
		return nil, err
	}
	return build(when), nil
}

// Holds evaluates c, treating a nil Condition as met.
func Holds(c Condition, env Env) (bool, error) {
	if c == nil {
		return true, nil
	}
	return c.Evaluate(env)
}

// build assumes when has been validated
func build(when *config.When) Condition {
	switch {
	case len(when.All) > 0:
		return AllCondition{Conditions: buildEach(when.All)}
	case len(when.Any) > 0:
		return AnyCondition{Conditions: buildEach(when.Any)}
	}

	conditions := atomic(when)
	if len(conditions) == 1 {
		return conditions[0]
	}
	return AllCondition{Conditions: conditions}
}

func buildEach(whens []config.When) []Condition {
	out := make([]Condition, len(whens))
	for i := range whens {
		out[i] = build(&whens[i])
	}
	return out
}

func atomic(when *config.When) []Condition {
	var conditions []Condition
	if when.File != "" {
		conditions = append(conditions, FileCondition{Path: when.File})
	}
	if when.Dir != "" {
		conditions = append(conditions, DirCondition{Path: when.Dir})
	}
	if when.Var != "" {
		conditions = append(conditions, VarCondition{Name: when.Var})
	}
	if when.Command != "" {
		conditions = append(conditions, CommandCondition{Name: when.Command})
	}
	return conditions
}
