package core

import (
	"fmt"
	"strconv"
)

// Params are the query values a page was opened with, such as ?tab=npm or
// ?step=2.
type Params map[string]string

func (p Params) Get(key string) string { return p[key] }

// GetDefault returns def when key is missing or empty.
func (p Params) GetDefault(key, def string) string {
	if v := p[key]; v != "" {
		return v
	}
	return def
}

// Int returns key parsed as an int, or def when missing or malformed.
func (p Params) Int(key string, def int) int {
	if n, err := strconv.Atoi(p[key]); err == nil {
		return n
	}
	return def
}

// Session carries request data the page may read, such as the theme
// cookie.
type Session map[string]any

func (s Session) Get(key string) any { return s[key] }

// GetString returns "" when key is missing or not a string.
func (s Session) GetString(key string) string {
	v, _ := s[key].(string)
	return v
}

// PayloadString reads key from an event payload. Numbers and booleans are
// formatted; a missing key yields "".
func PayloadString(payload map[string]any, key string) string {
	switch v := payload[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// PayloadBool reads key as a boolean. Strings are parsed; anything else is
// false.
func PayloadBool(payload map[string]any, key string) bool {
	switch v := payload[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}
