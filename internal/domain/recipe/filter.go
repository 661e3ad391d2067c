package recipe

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"larder/internal/core/apperror"
)

// Discovery filters are CEL expressions evaluated against recipe
// attributes, e.g. `tags.exists(t, t == "vegan") && servings >= 4`.
// Keeping the filter data-driven means new discovery surfaces need no code
// changes, only a new expression.

var (
	filterEnvOnce sync.Once
	filterEnv     *cel.Env
	filterEnvErr  error
)

func env() (*cel.Env, error) {
	filterEnvOnce.Do(func() {
		filterEnv, filterEnvErr = cel.NewEnv(
			cel.Variable("name", cel.StringType),
			cel.Variable("tags", cel.ListType(cel.StringType)),
			cel.Variable("servings", cel.IntType),
			cel.Variable("ingredient_count", cel.IntType),
		)
	})
	return filterEnv, filterEnvErr
}

// Filter is a compiled recipe discovery expression.
type Filter struct {
	source  string
	program cel.Program
}

// CompileFilter compiles a CEL expression into a Filter. A bad expression
// is a configuration error surfaced to the caller, never silently ignored.
func CompileFilter(expr string) (*Filter, error) {
	environment, err := env()
	if err != nil {
		return nil, fmt.Errorf("build filter environment: %w", err)
	}

	ast, issues := environment.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, apperror.NewInvalidConfig("invalid recipe filter expression").
			WithDetail("expression", expr).
			WithDetail("error", issues.Err().Error())
	}

	if ast.OutputType() != cel.BoolType {
		return nil, apperror.NewInvalidConfig("recipe filter must evaluate to a boolean").
			WithDetail("expression", expr).
			WithDetail("outputType", ast.OutputType().String())
	}

	program, err := environment.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build filter program: %w", err)
	}

	return &Filter{source: expr, program: program}, nil
}

// Source returns the original expression.
func (f *Filter) Source() string {
	return f.source
}

// Matches evaluates the filter against one recipe.
func (f *Filter) Matches(r *Recipe) (bool, error) {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}

	out, _, err := f.program.Eval(map[string]any{
		"name":             r.Name,
		"tags":             tags,
		"servings":         r.Servings,
		"ingredient_count": len(r.Ingredients),
	})
	if err != nil {
		return false, fmt.Errorf("evaluate filter: %w", err)
	}

	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter returned %T, want bool", out.Value())
	}
	return matched, nil
}
