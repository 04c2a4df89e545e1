package typeinfo

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// DefaultTagName is the struct tag consulted by the Go adapter.
const DefaultTagName = "prop"

// ParsedTag is the parsed form of a property struct tag.
type ParsedTag struct {
	Name     string // property name (explicit or derived from the field name)
	Skip     bool   // prop:"-"
	ReadOnly bool   // field is final: writes need suppressed access checks
}

// TagParser parses property struct tags and caches the results.
//
// Supported syntax:
//
//	`prop:"userName"`          // explicit property name
//	`prop:"name:userName"`     // explicit property name, option form
//	`prop:"readonly"`          // derived name, final field
//	`prop:"name:id;readonly"`  // combined
//	`prop:"-"`                 // not a property
type TagParser struct {
	tagName string
	cache   map[string]*ParsedTag
	cacheMu sync.RWMutex
}

// NewTagParser creates a parser reading the given tag key.
func NewTagParser(tagName string) *TagParser {
	if tagName == "" {
		tagName = DefaultTagName
	}
	return &TagParser{
		tagName: tagName,
		cache:   make(map[string]*ParsedTag, 64),
	}
}

// ParseTag parses the tag of the struct field named fieldName.
func (p *TagParser) ParseTag(fieldName string, tag reflect.StructTag) (*ParsedTag, error) {
	value, ok := tag.Lookup(p.tagName)
	if !ok || value == "" {
		return &ParsedTag{Name: Decapitalize(fieldName)}, nil
	}

	key := fieldName + ":" + value
	p.cacheMu.RLock()
	if cached, exists := p.cache[key]; exists {
		p.cacheMu.RUnlock()
		return cached, nil
	}
	p.cacheMu.RUnlock()

	parsed, err := p.parseValue(fieldName, value)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", fieldName, err)
	}

	p.cacheMu.Lock()
	p.cache[key] = parsed
	p.cacheMu.Unlock()
	return parsed, nil
}

func (p *TagParser) parseValue(fieldName, value string) (*ParsedTag, error) {
	if value == "-" {
		return &ParsedTag{Skip: true}, nil
	}

	parsed := &ParsedTag{Name: Decapitalize(fieldName)}
	if !strings.ContainsAny(value, ";:") && value != "readonly" {
		parsed.Name = value
		return parsed, nil
	}

	for _, option := range strings.Split(value, ";") {
		option = strings.TrimSpace(option)
		if option == "" {
			continue
		}
		if idx := strings.IndexByte(option, ':'); idx != -1 {
			k, v := strings.TrimSpace(option[:idx]), strings.TrimSpace(option[idx+1:])
			switch k {
			case "name":
				if v == "" {
					return nil, fmt.Errorf("empty property name in tag %q", value)
				}
				parsed.Name = v
			default:
				// unknown keys are ignored
			}
			continue
		}
		if option == "readonly" {
			parsed.ReadOnly = true
		}
	}
	return parsed, nil
}

// Decapitalize applies the bean naming rule: the first letter is lower-cased
// unless the second one is upper case, so "UserName" becomes "userName" while
// "URL" stays "URL".
func Decapitalize(name string) string {
	first, size := utf8.DecodeRuneInString(name)
	if first == utf8.RuneError {
		return name
	}
	if size < len(name) {
		second, _ := utf8.DecodeRuneInString(name[size:])
		if unicode.IsUpper(second) {
			return name
		}
	}
	return string(unicode.ToLower(first)) + name[size:]
}
