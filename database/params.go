package database

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/spanddl/spanddl/util"
)

// Parameter is a single resolved name/value pair in native form, ephemeral
// per query call.
type Parameter struct {
	Name  string
	Value any
}

// EscapeQueryWithParameters rewrites SQL containing :name and :...name
// placeholders into the native @name syntax. Array values spread into
// @name0..@nameN-1 with a comma-joined placeholder list; func() string
// values are invoked and their text spliced directly into the SQL with no
// parameter added; native parameters pass through first, as-is.
//
// Known limitation: the rewrite is textual, so placeholder tokens are
// matched anywhere in the SQL text, including inside string literals.
// Changing that would change observable query text, so it stays.
func EscapeQueryWithParameters(sql string, named map[string]any, native map[string]any) (string, []Parameter) {
	var parameters []Parameter
	if len(native) > 0 {
		for name, value := range util.CanonicalMapIter(native) {
			parameters = append(parameters, Parameter{Name: name, Value: value})
		}
	}
	if len(named) == 0 {
		return sql, parameters
	}

	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	// Longest name first so overlapping names can't partially match.
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	pattern := regexp.MustCompile(
		`:(\.\.\.)?(` + strings.Join(util.TransformSlice(names, regexp.QuoteMeta), "|") + `)\b`,
	)

	rewritten := pattern.ReplaceAllStringFunc(sql, func(match string) string {
		name := strings.TrimPrefix(strings.TrimPrefix(match, ":"), "...")
		value := named[name]

		if fn, ok := value.(func() string); ok {
			return fn()
		}
		if elements, ok := sliceElements(value); ok {
			placeholders := make([]string, len(elements))
			for i, element := range elements {
				spread := fmt.Sprintf("%s%d", name, i)
				parameters = append(parameters, Parameter{Name: spread, Value: element})
				placeholders[i] = "@" + spread
			}
			return strings.Join(placeholders, ", ")
		}

		parameters = append(parameters, Parameter{Name: name, Value: value})
		return "@" + name
	})

	return rewritten, parameters
}

// sliceElements unpacks slice and array values for spreading. []byte is a
// scalar (a BYTES value), not a spread.
func sliceElements(value any) ([]any, bool) {
	if value == nil {
		return nil, false
	}
	if _, ok := value.([]byte); ok {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	elements := make([]any, rv.Len())
	for i := range elements {
		elements[i] = rv.Index(i).Interface()
	}
	return elements, true
}
