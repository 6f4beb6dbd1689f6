// Package value defines the dynamic value model shared by every backend:
// a closed union of nullable variants covering booleans, integers up to 128
// bits, floats, decimals, text, binary, temporal types, UUIDs, containers
// and generic JSON.
//
// The zero value of any variant is its null representative: an instance that
// carries the type identity (including parameters such as decimal width or
// array element type) but no payload. Null representatives compare type-equal
// to populated instances of the same variant, which lets schema descriptions
// and data share one representation.
package value

import (
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind discriminates the variants of Value.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindInt128
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindUint128
	KindFloat32
	KindFloat64
	KindDecimal
	KindChar
	KindVarchar
	KindBlob
	KindDate
	KindTime
	KindTimestamp
	KindTimestampTZ
	KindInterval
	KindUuid
	KindArray
	KindList
	KindMap
	KindStruct
	KindJson
	KindUnknown
)

// String returns the lowercase variant name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindInt8:
		return "int8"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindInt128:
		return "int128"
	case KindUint8:
		return "uint8"
	case KindUint16:
		return "uint16"
	case KindUint32:
		return "uint32"
	case KindUint64:
		return "uint64"
	case KindUint128:
		return "uint128"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindDecimal:
		return "decimal"
	case KindChar:
		return "char"
	case KindVarchar:
		return "varchar"
	case KindBlob:
		return "blob"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	case KindTimestamp:
		return "timestamp"
	case KindTimestampTZ:
		return "timestamptz"
	case KindInterval:
		return "interval"
	case KindUuid:
		return "uuid"
	case KindArray:
		return "array"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindStruct:
		return "struct"
	case KindJson:
		return "json"
	case KindUnknown:
		return "unknown"
	}
	return "invalid"
}

// Value is one variant of the closed union. Implementations live in this
// package only.
type Value interface {
	// Kind identifies the variant.
	Kind() Kind
	// IsNull reports whether the payload is absent.
	IsNull() bool
	// TypedNull returns the null representative of this value: same variant,
	// same type parameters, no payload.
	TypedNull() Value

	value()
}

// SameType reports whether two values are the same variant. Payloads and
// nullability are not compared; a null representative is type-equal to any
// populated value of its variant.
func SameType(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Kind() == b.Kind()
}

// Null is the untyped null.
type Null struct{}

// Boolean holds a bool.
type Boolean struct {
	Bool  bool
	Valid bool
}

// Int8 holds a signed 8-bit integer.
type Int8 struct {
	Int8  int8
	Valid bool
}

// Int16 holds a signed 16-bit integer.
type Int16 struct {
	Int16 int16
	Valid bool
}

// Int32 holds a signed 32-bit integer.
type Int32 struct {
	Int32 int32
	Valid bool
}

// Int64 holds a signed 64-bit integer.
type Int64 struct {
	Int64 int64
	Valid bool
}

// Int128 holds a signed 128-bit integer. Big may exceed 64 bits but must fit
// in 128; constructors and conversions enforce the range.
type Int128 struct {
	Big   *big.Int
	Valid bool
}

// Uint8 holds an unsigned 8-bit integer.
type Uint8 struct {
	Uint8 uint8
	Valid bool
}

// Uint16 holds an unsigned 16-bit integer.
type Uint16 struct {
	Uint16 uint16
	Valid  bool
}

// Uint32 holds an unsigned 32-bit integer.
type Uint32 struct {
	Uint32 uint32
	Valid  bool
}

// Uint64 holds an unsigned 64-bit integer.
type Uint64 struct {
	Uint64 uint64
	Valid  bool
}

// Uint128 holds an unsigned 128-bit integer.
type Uint128 struct {
	Big   *big.Int
	Valid bool
}

// Float32 holds a 32-bit float.
type Float32 struct {
	Float32 float32
	Valid   bool
}

// Float64 holds a 64-bit float.
type Float64 struct {
	Float64 float64
	Valid   bool
}

// Decimal holds an arbitrary-precision decimal. Width and Scale describe the
// declared column type and are part of the type identity; zero values mean
// unspecified.
type Decimal struct {
	Decimal decimal.Decimal
	Width   uint8
	Scale   uint8
	Valid   bool
}

// Char holds a single character.
type Char struct {
	Char  rune
	Valid bool
}

// Varchar holds variable-length text.
type Varchar struct {
	String string
	Valid  bool
}

// Blob holds binary data.
type Blob struct {
	Bytes []byte
	Valid bool
}

// Date holds a calendar date. Year follows astronomical numbering: year 0 is
// 1 BC, year -1 is 2 BC.
type Date struct {
	Year  int32
	Month uint8
	Day   uint8
	Valid bool
}

// Time holds a time of day as the elapsed duration since midnight.
type Time struct {
	Duration time.Duration
	Valid    bool
}

// Timestamp holds a date and time of day without a timezone. The payload is
// stored in time.UTC purely as a container; no zone meaning is attached.
type Timestamp struct {
	Time  time.Time
	Valid bool
}

// TimestampTZ holds a date and time of day with a UTC offset.
type TimestampTZ struct {
	Time  time.Time
	Valid bool
}

// Interval holds a calendar-aware duration in three independently signed
// components. Months and days do not normalize into each other because their
// lengths vary.
type Interval struct {
	Months int32
	Days   int32
	Nanos  int64
	Valid  bool
}

// Uuid holds a universally unique identifier.
type Uuid struct {
	UUID  uuid.UUID
	Valid bool
}

// Array holds a fixed-size sequence. Elem is the null representative of the
// element type and Size the declared length; both are part of the type
// identity.
type Array struct {
	Values []Value
	Elem   Value
	Size   uint32
	Valid  bool
}

// List holds a variable-size sequence. Elem is the null representative of
// the element type.
type List struct {
	Values []Value
	Elem   Value
	Valid  bool
}

// MapEntry is one key/value pair of a Map.
type MapEntry struct {
	Key   Value
	Value Value
}

// Map holds key/value pairs in insertion order. Key and Elem are the null
// representatives of the key and value types.
type Map struct {
	Entries []MapEntry
	Key     Value
	Elem    Value
	Valid   bool
}

// StructField is one named field of a Struct.
type StructField struct {
	Name  string
	Value Value
}

// Struct holds named fields in declaration order. Name is the type identity
// of the struct.
type Struct struct {
	Name   string
	Fields []StructField
	Valid  bool
}

// Json holds a decoded JSON document: nil, bool, json.Number, string,
// []any or map[string]any.
type Json struct {
	Data  any
	Valid bool
}

// Unknown holds text whose type was not determined at the source; consumers
// re-parse it on demand.
type Unknown struct {
	String string
	Valid  bool
}

func (Null) Kind() Kind        { return KindNull }
func (Boolean) Kind() Kind     { return KindBoolean }
func (Int8) Kind() Kind        { return KindInt8 }
func (Int16) Kind() Kind       { return KindInt16 }
func (Int32) Kind() Kind       { return KindInt32 }
func (Int64) Kind() Kind       { return KindInt64 }
func (Int128) Kind() Kind      { return KindInt128 }
func (Uint8) Kind() Kind       { return KindUint8 }
func (Uint16) Kind() Kind      { return KindUint16 }
func (Uint32) Kind() Kind      { return KindUint32 }
func (Uint64) Kind() Kind      { return KindUint64 }
func (Uint128) Kind() Kind     { return KindUint128 }
func (Float32) Kind() Kind     { return KindFloat32 }
func (Float64) Kind() Kind     { return KindFloat64 }
func (Decimal) Kind() Kind     { return KindDecimal }
func (Char) Kind() Kind        { return KindChar }
func (Varchar) Kind() Kind     { return KindVarchar }
func (Blob) Kind() Kind        { return KindBlob }
func (Date) Kind() Kind        { return KindDate }
func (Time) Kind() Kind        { return KindTime }
func (Timestamp) Kind() Kind   { return KindTimestamp }
func (TimestampTZ) Kind() Kind { return KindTimestampTZ }
func (Interval) Kind() Kind    { return KindInterval }
func (Uuid) Kind() Kind        { return KindUuid }
func (Array) Kind() Kind       { return KindArray }
func (List) Kind() Kind        { return KindList }
func (Map) Kind() Kind         { return KindMap }
func (Struct) Kind() Kind      { return KindStruct }
func (Json) Kind() Kind        { return KindJson }
func (Unknown) Kind() Kind     { return KindUnknown }

func (Null) IsNull() bool          { return true }
func (v Boolean) IsNull() bool     { return !v.Valid }
func (v Int8) IsNull() bool        { return !v.Valid }
func (v Int16) IsNull() bool       { return !v.Valid }
func (v Int32) IsNull() bool       { return !v.Valid }
func (v Int64) IsNull() bool       { return !v.Valid }
func (v Int128) IsNull() bool      { return !v.Valid }
func (v Uint8) IsNull() bool       { return !v.Valid }
func (v Uint16) IsNull() bool      { return !v.Valid }
func (v Uint32) IsNull() bool      { return !v.Valid }
func (v Uint64) IsNull() bool      { return !v.Valid }
func (v Uint128) IsNull() bool     { return !v.Valid }
func (v Float32) IsNull() bool     { return !v.Valid }
func (v Float64) IsNull() bool     { return !v.Valid }
func (v Decimal) IsNull() bool     { return !v.Valid }
func (v Char) IsNull() bool        { return !v.Valid }
func (v Varchar) IsNull() bool     { return !v.Valid }
func (v Blob) IsNull() bool        { return !v.Valid }
func (v Date) IsNull() bool        { return !v.Valid }
func (v Time) IsNull() bool        { return !v.Valid }
func (v Timestamp) IsNull() bool   { return !v.Valid }
func (v TimestampTZ) IsNull() bool { return !v.Valid }
func (v Interval) IsNull() bool    { return !v.Valid }
func (v Uuid) IsNull() bool        { return !v.Valid }
func (v Array) IsNull() bool       { return !v.Valid }
func (v List) IsNull() bool        { return !v.Valid }
func (v Map) IsNull() bool         { return !v.Valid }
func (v Struct) IsNull() bool      { return !v.Valid }
func (v Json) IsNull() bool        { return !v.Valid }
func (v Unknown) IsNull() bool     { return !v.Valid }

func (Null) TypedNull() Value      { return Null{} }
func (Boolean) TypedNull() Value   { return Boolean{} }
func (Int8) TypedNull() Value      { return Int8{} }
func (Int16) TypedNull() Value     { return Int16{} }
func (Int32) TypedNull() Value     { return Int32{} }
func (Int64) TypedNull() Value     { return Int64{} }
func (Int128) TypedNull() Value    { return Int128{} }
func (Uint8) TypedNull() Value     { return Uint8{} }
func (Uint16) TypedNull() Value    { return Uint16{} }
func (Uint32) TypedNull() Value    { return Uint32{} }
func (Uint64) TypedNull() Value    { return Uint64{} }
func (Uint128) TypedNull() Value   { return Uint128{} }
func (Float32) TypedNull() Value   { return Float32{} }
func (Float64) TypedNull() Value   { return Float64{} }
func (v Decimal) TypedNull() Value {
	return Decimal{Width: v.Width, Scale: v.Scale}
}
func (Char) TypedNull() Value        { return Char{} }
func (Varchar) TypedNull() Value     { return Varchar{} }
func (Blob) TypedNull() Value        { return Blob{} }
func (Date) TypedNull() Value        { return Date{} }
func (Time) TypedNull() Value        { return Time{} }
func (Timestamp) TypedNull() Value   { return Timestamp{} }
func (TimestampTZ) TypedNull() Value { return TimestampTZ{} }
func (Interval) TypedNull() Value    { return Interval{} }
func (Uuid) TypedNull() Value        { return Uuid{} }
func (v Array) TypedNull() Value {
	return Array{Elem: v.Elem, Size: v.Size}
}
func (v List) TypedNull() Value {
	return List{Elem: v.Elem}
}
func (v Map) TypedNull() Value {
	return Map{Key: v.Key, Elem: v.Elem}
}
func (v Struct) TypedNull() Value {
	fields := make([]StructField, len(v.Fields))
	for i, f := range v.Fields {
		elem := f.Value
		if elem != nil {
			elem = elem.TypedNull()
		}
		fields[i] = StructField{Name: f.Name, Value: elem}
	}
	return Struct{Name: v.Name, Fields: fields}
}
func (Json) TypedNull() Value    { return Json{} }
func (Unknown) TypedNull() Value { return Unknown{} }

func (Null) value()        {}
func (Boolean) value()     {}
func (Int8) value()        {}
func (Int16) value()       {}
func (Int32) value()       {}
func (Int64) value()       {}
func (Int128) value()      {}
func (Uint8) value()       {}
func (Uint16) value()      {}
func (Uint32) value()      {}
func (Uint64) value()      {}
func (Uint128) value()     {}
func (Float32) value()     {}
func (Float64) value()     {}
func (Decimal) value()     {}
func (Char) value()        {}
func (Varchar) value()     {}
func (Blob) value()        {}
func (Date) value()        {}
func (Time) value()        {}
func (Timestamp) value()   {}
func (TimestampTZ) value() {}
func (Interval) value()    {}
func (Uuid) value()        {}
func (Array) value()       {}
func (List) value()        {}
func (Map) value()         {}
func (Struct) value()      {}
func (Json) value()        {}
func (Unknown) value()     {}
