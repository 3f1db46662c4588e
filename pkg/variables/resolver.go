// Package variables provides {{dot.path}} placeholder resolution against
// trigger contexts for dynamic action parameters.
package variables

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{([^{}]*)\}\}`)

// Resolve substitutes every {{dot.path}} placeholder in value against ctx.
// Strings are substituted occurrence by occurrence, slices element-wise and
// maps value-wise; any other type is returned unchanged. A placeholder whose
// path does not resolve is left literal so that missing data stays visible
// instead of being silently blanked. The input is never mutated and Resolve
// never fails.
func Resolve(value any, ctx map[string]any) any {
	switch v := value.(type) {
	case string:
		return resolveString(v, ctx)
	case []any:
		resolved := make([]any, len(v))
		for i, item := range v {
			resolved[i] = Resolve(item, ctx)
		}

		return resolved
	case map[string]any:
		resolved := make(map[string]any, len(v))
		for key, item := range v {
			resolved[key] = Resolve(item, ctx)
		}

		return resolved
	default:
		return value
	}
}

// ResolveParams resolves every value of an action's params map.
func ResolveParams(params map[string]any, ctx map[string]any) map[string]any {
	if params == nil {
		return map[string]any{}
	}

	resolved, _ := Resolve(params, ctx).(map[string]any)

	return resolved
}

func resolveString(s string, ctx map[string]any) string {
	return placeholderPattern.ReplaceAllStringFunc(s, func(placeholder string) string {
		path := strings.TrimSpace(placeholder[2 : len(placeholder)-2])

		value, ok := Lookup(ctx, path)
		if !ok {
			return placeholder
		}

		return fmt.Sprintf("%v", value)
	})
}

// Lookup walks ctx along the dot-separated path. It reports false when any
// segment is missing, non-traversable or resolves to nil.
func Lookup(ctx map[string]any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}

	var current any = ctx

	for _, segment := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		current, ok = node[segment]
		if !ok {
			return nil, false
		}
	}

	if current == nil {
		return nil, false
	}

	return current, true
}
