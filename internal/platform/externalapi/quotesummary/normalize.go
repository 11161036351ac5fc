// Package quotesummary normalizes Yahoo-style quote-summary payloads, whose
// leaves are {raw, fmt} wrappers, into FundamentalsSnapshot fields.
// The RapidAPI and Yahoo adapters share it.
package quotesummary

import (
	"github.com/tidwall/gjson"

	"stock_insights/internal/feature/marketdata/domain/entity"
)

// Modules are the top-level sections copied into the snapshot.
var Modules = []string{"price", "summaryDetail", "calendarEvents", "financialData", "defaultKeyStatistics"}

// Normalize flattens every module under root into dotted field paths such as
// "summaryDetail.marketCap". ok is false when the price module is absent,
// which providers use to signal an unknown or empty symbol.
func Normalize(root gjson.Result) (fields map[string]entity.Field, ok bool) {
	if !root.Get("price").IsObject() {
		return nil, false
	}
	fields = make(map[string]entity.Field)
	for _, m := range Modules {
		mod := root.Get(m)
		if !mod.IsObject() {
			continue
		}
		walk(m, mod, fields)
	}
	return fields, true
}

func walk(prefix string, obj gjson.Result, out map[string]entity.Field) {
	obj.ForEach(func(key, value gjson.Result) bool {
		path := prefix + "." + key.String()
		if value.IsObject() && !isWrapper(value) {
			walk(path, value, out)
			return true
		}
		if f, ok := ToField(value); ok {
			out[path] = f
		}
		return true
	})
}

// isWrapper reports whether v is a {raw, fmt} leaf rather than a nested section.
func isWrapper(v gjson.Result) bool {
	return v.Get("raw").Exists() || v.Get("fmt").Exists()
}

// ToField converts one JSON leaf into a Field. Empty wrappers such as {}
// and nulls are reported as missing.
func ToField(v gjson.Result) (entity.Field, bool) {
	switch {
	case v.IsArray():
		var items []entity.Field
		v.ForEach(func(_, item gjson.Result) bool {
			if f, ok := ToField(item); ok {
				items = append(items, f)
			}
			return true
		})
		if len(items) == 0 {
			return entity.Field{}, false
		}
		return entity.Field{Items: items}, true
	case v.IsObject():
		var f entity.Field
		if raw := v.Get("raw"); raw.Type == gjson.Number {
			n := raw.Float()
			f.Raw = &n
		}
		f.Fmt = v.Get("fmt").String()
		if f.Raw == nil && f.Fmt == "" {
			return entity.Field{}, false
		}
		return f, true
	case v.Type == gjson.Number:
		return entity.Number(v.Float()), true
	case v.Type == gjson.String && v.String() != "":
		return entity.Text(v.String()), true
	}
	return entity.Field{}, false
}
