package naming

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	pluralizer "github.com/gertd/go-pluralize"
)

// Naming conventions for accessor methods and entities.
// Accessor names follow the Get/Is/Set convention; entity and collection
// names are derived from type names for binding-layer consumers.

// Accessor name prefixes recognized by the convention.
const (
	GetPrefix = "Get"
	IsPrefix  = "Is"
	SetPrefix = "Set"
)

// pluralizeClient is a singleton instance for consistent pluralization behavior.
var pluralizeClient = pluralizer.NewClient()

// =========================================================================
// Accessor Name Convention
// =========================================================================

// IsGetterName reports whether name is a value query ("GetX") or a
// boolean query ("IsX"). The name must extend past the prefix.
func IsGetterName(name string) bool {
	if strings.HasPrefix(name, GetPrefix) && len(name) > len(GetPrefix) {
		return true
	}
	return strings.HasPrefix(name, IsPrefix) && len(name) > len(IsPrefix)
}

// IsBooleanQueryName reports whether name uses the boolean-query spelling.
func IsBooleanQueryName(name string) bool {
	return strings.HasPrefix(name, IsPrefix) && len(name) > len(IsPrefix)
}

// IsSetterName reports whether name is a value assignment ("SetX").
func IsSetterName(name string) bool {
	return strings.HasPrefix(name, SetPrefix) && len(name) > len(SetPrefix)
}

// PropertyName converts an accessor method name to its property name:
// the convention prefix is stripped and the remainder decapitalized.
// It fails for names that do not follow the accessor convention.
func PropertyName(method string) (string, error) {
	var stem string
	switch {
	case strings.HasPrefix(method, IsPrefix) && len(method) > len(IsPrefix):
		stem = method[len(IsPrefix):]
	case strings.HasPrefix(method, GetPrefix) && len(method) > len(GetPrefix):
		stem = method[len(GetPrefix):]
	case strings.HasPrefix(method, SetPrefix) && len(method) > len(SetPrefix):
		stem = method[len(SetPrefix):]
	default:
		return "", fmt.Errorf("naming: %q does not follow the Get/Is/Set accessor convention", method)
	}
	return Decapitalize(stem), nil
}

// FieldProperty converts a raw field name to its property name so that
// field-backed and method-backed properties share one naming scheme.
func FieldProperty(field string) string {
	return Decapitalize(field)
}

// Decapitalize lowers the first rune of s unless the second rune is
// already upper case: "FirstName" becomes "firstName", "ID" stays "ID".
func Decapitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	if len(r) == 1 || !unicode.IsUpper(r[1]) {
		r[0] = unicode.ToLower(r[0])
	}
	return string(r)
}

// =========================================================================
// Entity Naming
// =========================================================================

// EntityName returns the bare type name of t, unwrapping pointers.
// Unnamed types yield an empty string.
func EntityName(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}

// CollectionName returns the pluralized snake_case name of t,
// e.g. BlogPost -> blog_posts.
func CollectionName(t reflect.Type) string {
	name := EntityName(t)
	if name == "" {
		return ""
	}
	return pluralizeClient.Plural(SnakeCase(name))
}

// SnakeCase converts a CamelCase identifier to snake_case, keeping
// initialism runs together: "UserID" -> "user_id", "HTTPServer" -> "http_server".
func SnakeCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (!unicode.IsUpper(runes[i-1]) || (i+1 < len(runes) && !unicode.IsUpper(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
