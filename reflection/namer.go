package reflection

import (
	"fmt"
	"strings"

	"github.com/Konsultn-Engineering/propmeta/typeinfo"
)

// Bean naming rules. Prefixes match with either case of their first letter, so
// both getName and GetName are getters.

func hasPrefix(name, prefix string) bool {
	if len(name) <= len(prefix) {
		return false
	}
	if strings.HasPrefix(name, prefix) {
		return true
	}
	return strings.HasPrefix(name, strings.ToUpper(prefix[:1])+prefix[1:])
}

// IsGetter reports whether name is getter-shaped: getX or isX.
func IsGetter(name string) bool {
	return hasPrefix(name, "get") || hasPrefix(name, "is")
}

// IsSetter reports whether name is setter-shaped: setX.
func IsSetter(name string) bool {
	return hasPrefix(name, "set")
}

// IsProperty reports whether name is getter- or setter-shaped.
func IsProperty(name string) bool {
	return IsGetter(name) || IsSetter(name)
}

// MethodToProperty derives the property name from a getter or setter name.
func MethodToProperty(name string) (string, error) {
	switch {
	case hasPrefix(name, "is"):
		name = name[2:]
	case hasPrefix(name, "get"), hasPrefix(name, "set"):
		name = name[3:]
	default:
		return "", fmt.Errorf("error parsing property name %q: didn't start with 'is', 'get' or 'set'", name)
	}
	return typeinfo.Decapitalize(name), nil
}

func isValidPropertyName(name string) bool {
	return !(strings.HasPrefix(name, "$") || name == "serialVersionUID" || name == "class")
}

// isGetterMethod: zero arguments and getX, or isX returning bool.
func isGetterMethod(m *typeinfo.Method) bool {
	if len(m.Params) != 0 {
		return false
	}
	if hasPrefix(m.Name, "get") {
		return true
	}
	return hasPrefix(m.Name, "is") && m.Return == typeinfo.Bool
}

func isSetterMethod(m *typeinfo.Method) bool {
	return len(m.Params) == 1 && IsSetter(m.Name)
}
