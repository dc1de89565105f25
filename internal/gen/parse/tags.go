package parse

import (
	"strconv"
	"strings"
)

// tagPair is one key:"value" entry of a struct tag.
type tagPair struct {
	key   string
	value string
}

// splitTag splits a raw struct tag (without backquotes) into its entries,
// preserving order. Malformed trailing content is dropped, mirroring the
// lenient behavior of reflect.StructTag.
func splitTag(raw string) []tagPair {
	var pairs []tagPair

	for raw != "" {
		i := 0
		for i < len(raw) && raw[i] == ' ' {
			i++
		}
		raw = raw[i:]
		if raw == "" {
			break
		}

		i = 0
		for i < len(raw) && raw[i] > ' ' && raw[i] != ':' && raw[i] != '"' && raw[i] != 0x7f {
			i++
		}
		if i == 0 || i+1 >= len(raw) || raw[i] != ':' || raw[i+1] != '"' {
			break
		}
		key := raw[:i]
		raw = raw[i+1:]

		i = 1
		for i < len(raw) && raw[i] != '"' {
			if raw[i] == '\\' {
				i++
			}
			i++
		}
		if i >= len(raw) {
			break
		}
		quoted := raw[:i+1]
		raw = raw[i+1:]

		value, err := strconv.Unquote(quoted)
		if err != nil {
			continue
		}
		pairs = append(pairs, tagPair{key, value})
	}

	return pairs
}

// joinTag renders tag entries back into a raw struct tag.
func joinTag(pairs []tagPair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i != 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p.key)
		b.WriteByte(':')
		b.WriteString(strconv.Quote(p.value))
	}
	return b.String()
}

// tagValue returns the value of the given key in a raw struct tag.
func tagValue(raw, key string) (string, bool) {
	for _, p := range splitTag(raw) {
		if p.key == key {
			return p.value, true
		}
	}
	return "", false
}

// dropTag removes the given keys from a raw struct tag.
func dropTag(raw string, keys ...string) string {
	pairs := splitTag(raw)
	kept := pairs[:0]
	for _, p := range pairs {
		drop := false
		for _, key := range keys {
			if p.key == key {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, p)
		}
	}
	return joinTag(kept)
}
