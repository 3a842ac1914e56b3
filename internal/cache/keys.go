package cache

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// BuildKey derives a cache key from a prefix and a filter/pagination parameter set.
//
// Parameters that are nil, nil pointers or empty strings mean "no filter" and
// are dropped, and the rest are encoded as a JSON object with sorted names, so
// parameter order and blank query-string values never split one logical query
// across several keys. With nothing left the key is the bare prefix.
func BuildKey(prefix string, params map[string]interface{}) string {
	names := make([]string, 0, len(params))
	for name, value := range params {
		if isEmptyParam(value) {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return prefix
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(":{")
	for i, name := range names {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(encodeParam(name))
		b.WriteByte(':')
		b.WriteString(encodeParam(params[name]))
	}
	b.WriteByte('}')

	return b.String()
}

// PrefixOf returns the key family: everything before the first ':'
func PrefixOf(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}

func isEmptyParam(value interface{}) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return s == ""
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return true
		}
		if v.Kind() == reflect.Ptr && v.Elem().Kind() == reflect.String {
			return v.Elem().String() == ""
		}
	}
	return false
}

func encodeParam(value interface{}) string {
	data, err := json.Marshal(value)
	if err != nil {
		// Values JSON cannot express still need a stable textual form
		data, _ = json.Marshal(fmt.Sprintf("%v", value))
	}
	return string(data)
}
