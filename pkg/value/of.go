package value

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Of converts a native Go value into a Value. The conversion is total:
// inputs with no dedicated variant fall back to Unknown carrying their
// fmt representation. nil and nil pointers become Null.
//
// Note that rune is an alias of int32 and therefore maps to Int32; build a
// Char explicitly when a single character is meant.
func Of(v any) Value {
	switch v := v.(type) {
	case nil:
		return Null{}
	case Value:
		return v
	case bool:
		return Boolean{Bool: v, Valid: true}
	case int8:
		return Int8{Int8: v, Valid: true}
	case int16:
		return Int16{Int16: v, Valid: true}
	case int32:
		return Int32{Int32: v, Valid: true}
	case int64:
		return Int64{Int64: v, Valid: true}
	case int:
		return Int64{Int64: int64(v), Valid: true}
	case uint8:
		return Uint8{Uint8: v, Valid: true}
	case uint16:
		return Uint16{Uint16: v, Valid: true}
	case uint32:
		return Uint32{Uint32: v, Valid: true}
	case uint64:
		return Uint64{Uint64: v, Valid: true}
	case uint:
		return Uint64{Uint64: uint64(v), Valid: true}
	case *big.Int:
		if v == nil {
			return Int128{}
		}
		return Int128{Big: new(big.Int).Set(v), Valid: true}
	case float32:
		return Float32{Float32: v, Valid: true}
	case float64:
		return Float64{Float64: v, Valid: true}
	case decimal.Decimal:
		return Decimal{Decimal: v, Valid: true}
	case string:
		return Varchar{String: v, Valid: true}
	case []byte:
		return Blob{Bytes: v, Valid: true}
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return Int64{Int64: i, Valid: true}
		}
		if f, err := v.Float64(); err == nil {
			return Float64{Float64: f, Valid: true}
		}
		return Unknown{String: v.String(), Valid: true}
	case time.Time:
		return TimestampTZ{Time: v, Valid: true}
	case time.Duration:
		return Interval{Nanos: int64(v), Valid: true}
	case uuid.UUID:
		return Uuid{UUID: v, Valid: true}
	case json.RawMessage:
		j, err := FromJSON(v)
		if err != nil {
			return Unknown{String: string(v), Valid: true}
		}
		return j
	}
	return ofReflected(reflect.ValueOf(v))
}

func ofReflected(r reflect.Value) Value {
	switch r.Kind() {
	case reflect.Pointer, reflect.Interface:
		if r.IsNil() {
			return Null{}
		}
		return Of(r.Elem().Interface())
	case reflect.Bool:
		return Boolean{Bool: r.Bool(), Valid: true}
	case reflect.Int8:
		return Int8{Int8: int8(r.Int()), Valid: true}
	case reflect.Int16:
		return Int16{Int16: int16(r.Int()), Valid: true}
	case reflect.Int32:
		return Int32{Int32: int32(r.Int()), Valid: true}
	case reflect.Int, reflect.Int64:
		return Int64{Int64: r.Int(), Valid: true}
	case reflect.Uint8:
		return Uint8{Uint8: uint8(r.Uint()), Valid: true}
	case reflect.Uint16:
		return Uint16{Uint16: uint16(r.Uint()), Valid: true}
	case reflect.Uint32:
		return Uint32{Uint32: uint32(r.Uint()), Valid: true}
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return Uint64{Uint64: r.Uint(), Valid: true}
	case reflect.Float32:
		return Float32{Float32: float32(r.Float()), Valid: true}
	case reflect.Float64:
		return Float64{Float64: r.Float(), Valid: true}
	case reflect.String:
		return Varchar{String: r.String(), Valid: true}
	case reflect.Slice:
		if r.Type().Elem().Kind() == reflect.Uint8 {
			return Blob{Bytes: r.Bytes(), Valid: true}
		}
		return List{
			Values: ofElements(r),
			Elem:   ofElemType(r),
			Valid:  true,
		}
	case reflect.Array:
		return Array{
			Values: ofElements(r),
			Elem:   ofElemType(r),
			Size:   uint32(r.Len()),
			Valid:  true,
		}
	case reflect.Map:
		return ofMap(r)
	case reflect.Struct:
		return ofStruct(r)
	}
	return Unknown{String: fmt.Sprint(r.Interface()), Valid: true}
}

func ofElements(r reflect.Value) []Value {
	out := make([]Value, r.Len())
	for i := range out {
		out[i] = Of(r.Index(i).Interface())
	}
	return out
}

// ofElemType derives the element type identity from the first element, or
// from the static Go element type when the container is empty.
func ofElemType(r reflect.Value) Value {
	if r.Len() > 0 {
		return Of(r.Index(0).Interface()).TypedNull()
	}
	return Of(reflect.Zero(r.Type().Elem()).Interface()).TypedNull()
}

// ofMap converts a Go map. Go maps have no iteration order, so entries are
// sorted by the textual form of their keys to keep rendering deterministic.
func ofMap(r reflect.Value) Value {
	keys := r.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})
	entries := make([]MapEntry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, MapEntry{
			Key:   Of(k.Interface()),
			Value: Of(r.MapIndex(k).Interface()),
		})
	}
	m := Map{Entries: entries, Valid: true}
	if len(entries) > 0 {
		m.Key = entries[0].Key.TypedNull()
		m.Elem = entries[0].Value.TypedNull()
	} else {
		m.Key = Of(reflect.Zero(r.Type().Key()).Interface()).TypedNull()
		m.Elem = Of(reflect.Zero(r.Type().Elem()).Interface()).TypedNull()
	}
	return m
}

func ofStruct(r reflect.Value) Value {
	t := r.Type()
	fields := make([]StructField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		fields = append(fields, StructField{
			Name:  f.Name,
			Value: Of(r.Field(i).Interface()),
		})
	}
	return Struct{Name: t.Name(), Fields: fields, Valid: true}
}
