package tplparser

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"

	"github.com/samcharles93/promptlens/internal/chat"
)

// hubJSON serializes values with the layout Hub chat templates emit: ", " and
// ": " separators without indentation, "," and ": " with it. Any indent,
// zero included, puts each member on its own line. chat.Object members keep
// their order; Go maps have none, so their keys are sorted.
type hubJSON struct {
	ensureASCII bool
	pretty      bool
	indent      int
}

func (e hubJSON) encode(v any) (string, error) {
	var b strings.Builder
	if err := e.write(&b, v, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (e hubJSON) write(b *strings.Builder, v any, depth int) error {
	switch t := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		b.WriteString(strconv.FormatBool(t))
	case string:
		e.writeString(b, t)
	case json.Number:
		b.WriteString(t.String())
	case int:
		b.WriteString(strconv.Itoa(t))
	case int64:
		b.WriteString(strconv.FormatInt(t, 10))
	case int32:
		b.WriteString(strconv.FormatInt(int64(t), 10))
	case uint64:
		b.WriteString(strconv.FormatUint(t, 10))
	case float64:
		b.WriteString(shortestFloat(t))
	case float32:
		b.WriteString(shortestFloat(float64(t)))
	case chat.Object:
		return e.writeObject(b, t, depth)
	case map[string]any:
		return e.writeObject(b, sortedMembers(t), depth)
	case []any:
		return e.writeArray(b, len(t), func(i int) any { return t[i] }, depth)
	case []string:
		return e.writeArray(b, len(t), func(i int) any { return t[i] }, depth)
	case []chat.ToolDefinition:
		return e.writeArray(b, len(t), func(i int) any { return t[i] }, depth)
	default:
		return e.writeReflect(b, v, depth)
	}
	return nil
}

func (e hubJSON) writeObject(b *strings.Builder, members []chat.Member, depth int) error {
	if len(members) == 0 {
		b.WriteString("{}")
		return nil
	}
	b.WriteByte('{')
	for i, m := range members {
		e.separate(b, i, depth+1)
		e.writeString(b, m.Key)
		b.WriteString(": ")
		if err := e.write(b, m.Value, depth+1); err != nil {
			return err
		}
	}
	e.close(b, depth)
	b.WriteByte('}')
	return nil
}

func sortedMembers(m map[string]any) []chat.Member {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]chat.Member, len(keys))
	for i, k := range keys {
		out[i] = chat.Member{Key: k, Value: m[k]}
	}
	return out
}

func (e hubJSON) writeArray(b *strings.Builder, n int, at func(int) any, depth int) error {
	if n == 0 {
		b.WriteString("[]")
		return nil
	}
	b.WriteByte('[')
	for i := 0; i < n; i++ {
		e.separate(b, i, depth+1)
		if err := e.write(b, at(i), depth+1); err != nil {
			return err
		}
	}
	e.close(b, depth)
	b.WriteByte(']')
	return nil
}

func (e hubJSON) separate(b *strings.Builder, i, depth int) {
	if !e.pretty {
		if i > 0 {
			b.WriteString(", ")
		}
		return
	}
	if i > 0 {
		b.WriteByte(',')
	}
	e.newline(b, depth)
}

func (e hubJSON) close(b *strings.Builder, depth int) {
	if e.pretty {
		e.newline(b, depth)
	}
}

func (e hubJSON) newline(b *strings.Builder, depth int) {
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", max(e.indent, 0)*depth))
}

// writeReflect handles the remaining kinds: other numeric types, typed maps
// and slices, and structs (via a JSON round trip).
func (e hubJSON) writeReflect(b *strings.Builder, v any, depth int) error {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		b.WriteString(strconv.FormatInt(rv.Int(), 10))
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		b.WriteString(strconv.FormatUint(rv.Uint(), 10))
		return nil
	case reflect.Pointer:
		if rv.IsNil() {
			b.WriteString("null")
			return nil
		}
		return e.write(b, rv.Elem().Interface(), depth)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			b.WriteString("null")
			return nil
		}
		return e.writeArray(b, rv.Len(), func(i int) any { return rv.Index(i).Interface() }, depth)
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			m := make(map[string]any, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				m[iter.Key().String()] = iter.Value().Interface()
			}
			return e.writeObject(b, sortedMembers(m), depth)
		}
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("tojson: %T is not serializable: %w", v, err)
	}
	generic, err := chat.DecodeJSONValue(raw)
	if err != nil {
		return fmt.Errorf("tojson: %T: %w", v, err)
	}
	return e.write(b, generic, depth)
}

func (e hubJSON) writeString(b *strings.Builder, s string) {
	const hex = "0123456789abcdef"
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			switch {
			case r < 0x20 || (e.ensureASCII && r >= 0x7f):
				if r > 0xffff {
					r -= 0x10000
					hi, lo := 0xd800+(r>>10), 0xdc00+(r&0x3ff)
					for _, u := range []rune{hi, lo} {
						b.WriteString(`\u`)
						b.WriteByte(hex[u>>12&0xf])
						b.WriteByte(hex[u>>8&0xf])
						b.WriteByte(hex[u>>4&0xf])
						b.WriteByte(hex[u&0xf])
					}
					continue
				}
				b.WriteString(`\u`)
				b.WriteByte(hex[r>>12&0xf])
				b.WriteByte(hex[r>>8&0xf])
				b.WriteByte(hex[r>>4&0xf])
				b.WriteByte(hex[r&0xf])
			default:
				var buf [utf8.UTFMax]byte
				n := utf8.EncodeRune(buf[:], r)
				b.Write(buf[:n])
			}
		}
	}
	b.WriteByte('"')
}

// shortestFloat formats f as the shortest round-tripping decimal, keeping a
// trailing ".0" on integral values and exponents from 1e16.
func shortestFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}
	abs := math.Abs(f)
	if abs >= 1e-4 && abs < 1e16 {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	return strconv.FormatFloat(f, 'e', -1, 64)
}
