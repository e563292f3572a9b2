package engine

import (
	"strconv"

	"github.com/junipermd/storefront/libs/errors"
)

// dataMap wraps the generic map produced by json unmarshalling with typed
// accessors used by the populate functions.
type dataMap map[string]interface{}

func getDataMap(v interface{}) (dataMap, error) {
	switch m := v.(type) {
	case dataMap:
		return m, nil
	case map[string]interface{}:
		return dataMap(m), nil
	}
	return nil, errors.Errorf("expected a map but got %T", v)
}

func (d dataMap) exists(key string) bool {
	_, ok := d[key]
	return ok
}

// requiredKeys returns an error naming the object type if any of the keys
// are missing from the map.
func (d dataMap) requiredKeys(typeName string, keys ...string) error {
	for _, key := range keys {
		if !d.exists(key) {
			return errors.Errorf("required key %q missing for %s", key, typeName)
		}
	}
	return nil
}

// mustGetString returns the string value for the key, or the empty string if
// the key is absent or not a string.
func (d dataMap) mustGetString(key string) string {
	s, _ := d[key].(string)
	return s
}

// mustGetBool returns the bool value for the key, or false if the key is
// absent or not a bool.
func (d dataMap) mustGetBool(key string) bool {
	b, _ := d[key].(bool)
	return b
}

// getFloat64 reads a json number, accepting a numeric string for clients
// that send numbers as text.
func (d dataMap) getFloat64(key string) (float64, bool, error) {
	v, ok := d[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	switch n := v.(type) {
	case float64:
		return n, true, nil
	case string:
		if n == "" {
			return 0, false, nil
		}
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false, errors.Errorf("key %q is not a number: %q", key, n)
		}
		return f, true, nil
	}
	return 0, false, errors.Errorf("key %q is not a number but %T", key, v)
}

func (d dataMap) getInterfaceSlice(key string) ([]interface{}, error) {
	v, ok := d[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.([]interface{})
	if !ok {
		return nil, errors.Errorf("key %q is not a list but %T", key, v)
	}
	return s, nil
}

// getStringSlice reads a list of strings. A bare string value is treated as
// a single element list.
func (d dataMap) getStringSlice(key string) ([]string, error) {
	v, ok := d[key]
	if !ok || v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok {
		return []string{s}, nil
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil, errors.Errorf("key %q is not a list but %T", key, v)
	}
	ss := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, errors.Errorf("key %q item %d is not a string but %T", key, i, item)
		}
		ss[i] = s
	}
	return ss, nil
}

func indentAtDepth(indent string, depth int) string {
	var s string
	for i := 0; i < depth; i++ {
		s += indent
	}
	return s
}
