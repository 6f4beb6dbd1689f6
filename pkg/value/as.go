package value

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// As converts a Value into the native Go type T. Conversions are strict:
// integers narrow only when the value survives a round trip through the
// target width, fractional numbers never silently lose their fraction, and
// parse failures surface as ParseError. Null inputs do not convert to
// non-Value targets; use the Value variants themselves when null matters.
func As[T any](v Value) (T, error) {
	var out T
	if v == nil {
		v = Null{}
	}
	if cast, ok := any(v).(T); ok {
		return cast, nil
	}
	var err error
	switch p := any(&out).(type) {
	case *Value:
		*p = v
	case *bool:
		*p, err = asBool(v)
	case *int8:
		*p, err = narrowSigned[int8](v, "int8")
	case *int16:
		*p, err = narrowSigned[int16](v, "int16")
	case *int32:
		*p, err = narrowSigned[int32](v, "int32")
	case *int64:
		*p, err = narrowSigned[int64](v, "int64")
	case *int:
		*p, err = narrowSigned[int](v, "int")
	case *uint8:
		*p, err = narrowUnsigned[uint8](v, "uint8")
	case *uint16:
		*p, err = narrowUnsigned[uint16](v, "uint16")
	case *uint32:
		*p, err = narrowUnsigned[uint32](v, "uint32")
	case *uint64:
		*p, err = narrowUnsigned[uint64](v, "uint64")
	case *uint:
		*p, err = narrowUnsigned[uint](v, "uint")
	case *float32:
		*p, err = asFloat32(v)
	case *float64:
		*p, err = asFloat64(v)
	case *string:
		*p, err = asString(v)
	case *[]byte:
		*p, err = asBytes(v)
	case **big.Int:
		*p, err = asBigInt(v)
	case *decimal.Decimal:
		*p, err = asDecimal(v)
	case *time.Time:
		*p, err = asTime(v)
	case *time.Duration:
		*p, err = asDuration(v)
	case *uuid.UUID:
		*p, err = asUUID(v)
	default:
		err = asReflected(reflect.ValueOf(&out).Elem(), v)
	}
	return out, err
}

type signed interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int
}

type unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// narrowSigned converts to int64 first, then casts down and promotes back;
// a mismatch means the value does not fit the target width.
func narrowSigned[T signed](v Value, target string) (T, error) {
	wide, err := asInt64(v, target)
	if err != nil {
		return 0, err
	}
	out := T(wide)
	if int64(out) != wide {
		return 0, RangeError{Value: strconv.FormatInt(wide, 10), From: v.Kind(), To: target}
	}
	return out, nil
}

func narrowUnsigned[T unsigned](v Value, target string) (T, error) {
	wide, err := asUint64(v, target)
	if err != nil {
		return 0, err
	}
	out := T(wide)
	if uint64(out) != wide {
		return 0, RangeError{Value: strconv.FormatUint(wide, 10), From: v.Kind(), To: target}
	}
	return out, nil
}

func asInt64(v Value, target string) (int64, error) {
	switch v := v.(type) {
	case Int8:
		if v.Valid {
			return int64(v.Int8), nil
		}
	case Int16:
		if v.Valid {
			return int64(v.Int16), nil
		}
	case Int32:
		if v.Valid {
			return int64(v.Int32), nil
		}
	case Int64:
		if v.Valid {
			return v.Int64, nil
		}
	case Int128:
		if v.Valid {
			if v.Big.IsInt64() {
				return v.Big.Int64(), nil
			}
			return 0, RangeError{Value: Clip(v.Big.String()), From: v.Kind(), To: target}
		}
	case Uint8:
		if v.Valid {
			return int64(v.Uint8), nil
		}
	case Uint16:
		if v.Valid {
			return int64(v.Uint16), nil
		}
	case Uint32:
		if v.Valid {
			return int64(v.Uint32), nil
		}
	case Uint64:
		if v.Valid {
			if v.Uint64 > math.MaxInt64 {
				return 0, RangeError{Value: strconv.FormatUint(v.Uint64, 10), From: v.Kind(), To: target}
			}
			return int64(v.Uint64), nil
		}
	case Uint128:
		if v.Valid {
			if v.Big.IsInt64() {
				return v.Big.Int64(), nil
			}
			return 0, RangeError{Value: Clip(v.Big.String()), From: v.Kind(), To: target}
		}
	case Float32:
		if v.Valid {
			return floatToInt64(float64(v.Float32), v.Kind(), target)
		}
	case Float64:
		if v.Valid {
			return floatToInt64(v.Float64, v.Kind(), target)
		}
	case Decimal:
		if v.Valid {
			if !v.Decimal.IsInteger() {
				return 0, TypeMismatchError{From: v.Kind(), To: target}
			}
			b := v.Decimal.BigInt()
			if !b.IsInt64() {
				return 0, RangeError{Value: Clip(b.String()), From: v.Kind(), To: target}
			}
			return b.Int64(), nil
		}
	case Boolean:
		if v.Valid {
			if v.Bool {
				return 1, nil
			}
			return 0, nil
		}
	case Varchar:
		if v.Valid {
			return parseInt64(v.String, v.Kind(), target)
		}
	case Unknown:
		if v.Valid {
			return parseInt64(v.String, v.Kind(), target)
		}
	case Json:
		if v.Valid {
			return jsonToInt64(v, target)
		}
	default:
		return 0, TypeMismatchError{From: v.Kind(), To: target}
	}
	return 0, TypeMismatchError{From: v.Kind(), To: target}
}

func asUint64(v Value, target string) (uint64, error) {
	switch v := v.(type) {
	case Uint8:
		if v.Valid {
			return uint64(v.Uint8), nil
		}
	case Uint16:
		if v.Valid {
			return uint64(v.Uint16), nil
		}
	case Uint32:
		if v.Valid {
			return uint64(v.Uint32), nil
		}
	case Uint64:
		if v.Valid {
			return v.Uint64, nil
		}
	case Uint128:
		if v.Valid {
			if v.Big.IsUint64() {
				return v.Big.Uint64(), nil
			}
			return 0, RangeError{Value: Clip(v.Big.String()), From: v.Kind(), To: target}
		}
	case Int128:
		if v.Valid {
			if v.Big.IsUint64() {
				return v.Big.Uint64(), nil
			}
			return 0, RangeError{Value: Clip(v.Big.String()), From: v.Kind(), To: target}
		}
	case Varchar:
		if v.Valid {
			return parseUint64(v.String, v.Kind(), target)
		}
	case Unknown:
		if v.Valid {
			return parseUint64(v.String, v.Kind(), target)
		}
	default:
		i, err := asInt64(v, target)
		if err != nil {
			return 0, err
		}
		if i < 0 {
			return 0, RangeError{Value: strconv.FormatInt(i, 10), From: v.Kind(), To: target}
		}
		return uint64(i), nil
	}
	return 0, TypeMismatchError{From: v.Kind(), To: target}
}

// floatToInt64 truncates only when the fractional part is zero.
func floatToInt64(f float64, from Kind, target string) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, RangeError{Value: strconv.FormatFloat(f, 'g', -1, 64), From: from, To: target}
	}
	if math.Trunc(f) != f {
		return 0, TypeMismatchError{From: from, To: target}
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, RangeError{Value: strconv.FormatFloat(f, 'g', -1, 64), From: from, To: target}
	}
	return int64(f), nil
}

func parseInt64(s string, from Kind, target string) (int64, error) {
	i, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return i, nil
	}
	if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
		return 0, RangeError{Value: Clip(s), From: from, To: target}
	}
	f, ferr := strconv.ParseFloat(s, 64)
	if ferr == nil {
		return floatToInt64(f, from, target)
	}
	return 0, ParseError{Input: s, Target: target}
}

func parseUint64(s string, from Kind, target string) (uint64, error) {
	u, err := strconv.ParseUint(s, 10, 64)
	if err == nil {
		return u, nil
	}
	if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
		return 0, RangeError{Value: Clip(s), From: from, To: target}
	}
	i, ierr := parseInt64(s, from, target)
	if ierr != nil {
		return 0, ierr
	}
	if i < 0 {
		return 0, RangeError{Value: strconv.FormatInt(i, 10), From: from, To: target}
	}
	return uint64(i), nil
}

// jsonToInt64 tries the exact integer reading of a JSON number first and
// falls back to the float rules otherwise.
func jsonToInt64(v Json, target string) (int64, error) {
	switch data := v.Data.(type) {
	case jsonNumber:
		if i, err := data.Int64(); err == nil {
			return i, nil
		}
		f, err := data.Float64()
		if err != nil {
			return 0, ParseError{Input: data.String(), Target: target}
		}
		return floatToInt64(f, v.Kind(), target)
	case float64:
		return floatToInt64(data, v.Kind(), target)
	case string:
		return parseInt64(data, v.Kind(), target)
	}
	return 0, TypeMismatchError{From: v.Kind(), To: target}
}

func asFloat64(v Value) (float64, error) {
	const target = "float64"
	switch v := v.(type) {
	case Float32:
		if v.Valid {
			return float64(v.Float32), nil
		}
	case Float64:
		if v.Valid {
			return v.Float64, nil
		}
	case Decimal:
		if v.Valid {
			return v.Decimal.InexactFloat64(), nil
		}
	case Int128:
		if v.Valid {
			f, _ := new(big.Float).SetInt(v.Big).Float64()
			return f, nil
		}
	case Uint128:
		if v.Valid {
			f, _ := new(big.Float).SetInt(v.Big).Float64()
			return f, nil
		}
	case Varchar:
		if v.Valid {
			return parseFloat64(v.String, target)
		}
	case Unknown:
		if v.Valid {
			return parseFloat64(v.String, target)
		}
	case Json:
		if v.Valid {
			switch data := v.Data.(type) {
			case jsonNumber:
				f, err := data.Float64()
				if err != nil {
					return 0, ParseError{Input: data.String(), Target: target}
				}
				return f, nil
			case float64:
				return data, nil
			case string:
				return parseFloat64(data, target)
			}
			return 0, TypeMismatchError{From: v.Kind(), To: target}
		}
	default:
		i, err := asInt64(v, target)
		if err != nil {
			return 0, err
		}
		return float64(i), nil
	}
	return 0, TypeMismatchError{From: v.Kind(), To: target}
}

func asFloat32(v Value) (float32, error) {
	f, err := asFloat64(v)
	if err != nil {
		return 0, err
	}
	out := float32(f)
	if math.IsInf(float64(out), 0) && !math.IsInf(f, 0) {
		return 0, RangeError{Value: strconv.FormatFloat(f, 'g', -1, 64), From: v.Kind(), To: "float32"}
	}
	return out, nil
}

func parseFloat64(s string, target string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ParseError{Input: s, Target: target}
	}
	return f, nil
}

func asBool(v Value) (bool, error) {
	const target = "bool"
	switch v := v.(type) {
	case Boolean:
		if v.Valid {
			return v.Bool, nil
		}
	case Varchar:
		if v.Valid {
			return parseBool(v.String)
		}
	case Unknown:
		if v.Valid {
			return parseBool(v.String)
		}
	case Json:
		if v.Valid {
			if b, ok := v.Data.(bool); ok {
				return b, nil
			}
			return false, TypeMismatchError{From: v.Kind(), To: target}
		}
	default:
		i, err := asInt64(v, target)
		if err != nil {
			return false, err
		}
		switch i {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
		return false, RangeError{Value: strconv.FormatInt(i, 10), From: v.Kind(), To: target}
	}
	return false, TypeMismatchError{From: v.Kind(), To: target}
}

func parseBool(s string) (bool, error) {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, ParseError{Input: s, Target: "bool"}
	}
	return b, nil
}

func asString(v Value) (string, error) {
	const target = "string"
	switch v := v.(type) {
	case Char:
		if v.Valid {
			return string(v.Char), nil
		}
	case Varchar:
		if v.Valid {
			return v.String, nil
		}
	case Unknown:
		if v.Valid {
			return v.String, nil
		}
	case Json:
		if v.Valid {
			if s, ok := v.Data.(string); ok {
				return s, nil
			}
		}
	case Uuid:
		if v.Valid {
			return v.UUID.String(), nil
		}
	}
	return "", TypeMismatchError{From: v.Kind(), To: target}
}

func asBytes(v Value) ([]byte, error) {
	switch v := v.(type) {
	case Blob:
		if v.Valid {
			return v.Bytes, nil
		}
	case Varchar:
		if v.Valid {
			return []byte(v.String), nil
		}
	case Uuid:
		if v.Valid {
			b := v.UUID
			return b[:], nil
		}
	}
	return nil, TypeMismatchError{From: v.Kind(), To: "[]byte"}
}

func asBigInt(v Value) (*big.Int, error) {
	const target = "*big.Int"
	switch v := v.(type) {
	case Int128:
		if v.Valid {
			return new(big.Int).Set(v.Big), nil
		}
	case Uint128:
		if v.Valid {
			return new(big.Int).Set(v.Big), nil
		}
	case Decimal:
		if v.Valid {
			if !v.Decimal.IsInteger() {
				return nil, TypeMismatchError{From: v.Kind(), To: target}
			}
			return v.Decimal.BigInt(), nil
		}
	case Varchar:
		if v.Valid {
			b, ok := new(big.Int).SetString(v.String, 10)
			if !ok {
				return nil, ParseError{Input: v.String, Target: target}
			}
			return b, nil
		}
	case Uint64:
		if v.Valid {
			return new(big.Int).SetUint64(v.Uint64), nil
		}
	default:
		i, err := asInt64(v, target)
		if err != nil {
			return nil, err
		}
		return big.NewInt(i), nil
	}
	return nil, TypeMismatchError{From: v.Kind(), To: target}
}

func asDecimal(v Value) (decimal.Decimal, error) {
	const target = "decimal.Decimal"
	switch v := v.(type) {
	case Decimal:
		if v.Valid {
			return v.Decimal, nil
		}
	case Float32:
		if v.Valid {
			return decimal.NewFromFloat32(v.Float32), nil
		}
	case Float64:
		if v.Valid {
			return decimal.NewFromFloat(v.Float64), nil
		}
	case Int128:
		if v.Valid {
			return decimal.NewFromBigInt(v.Big, 0), nil
		}
	case Uint128:
		if v.Valid {
			return decimal.NewFromBigInt(v.Big, 0), nil
		}
	case Uint64:
		if v.Valid {
			return decimal.NewFromBigInt(new(big.Int).SetUint64(v.Uint64), 0), nil
		}
	case Varchar:
		if v.Valid {
			d, err := decimal.NewFromString(v.String)
			if err != nil {
				return decimal.Decimal{}, ParseError{Input: v.String, Target: target}
			}
			return d, nil
		}
	case Unknown:
		if v.Valid {
			d, err := decimal.NewFromString(v.String)
			if err != nil {
				return decimal.Decimal{}, ParseError{Input: v.String, Target: target}
			}
			return d, nil
		}
	case Json:
		if v.Valid {
			if n, ok := v.Data.(jsonNumber); ok {
				d, err := decimal.NewFromString(n.String())
				if err != nil {
					return decimal.Decimal{}, ParseError{Input: n.String(), Target: target}
				}
				return d, nil
			}
		}
	default:
		i, err := asInt64(v, target)
		if err != nil {
			return decimal.Decimal{}, err
		}
		return decimal.NewFromInt(i), nil
	}
	return decimal.Decimal{}, TypeMismatchError{From: v.Kind(), To: target}
}

func asTime(v Value) (time.Time, error) {
	const target = "time.Time"
	switch v := v.(type) {
	case Date:
		if v.Valid {
			return v.Time(), nil
		}
	case Timestamp:
		if v.Valid {
			return v.Time, nil
		}
	case TimestampTZ:
		if v.Valid {
			return v.Time, nil
		}
	case Varchar:
		if v.Valid {
			ts, err := ParseTimestampTZ(v.String)
			if err != nil {
				return time.Time{}, err
			}
			return ts.Time, nil
		}
	case Unknown:
		if v.Valid {
			ts, err := ParseTimestampTZ(v.String)
			if err != nil {
				return time.Time{}, err
			}
			return ts.Time, nil
		}
	}
	return time.Time{}, TypeMismatchError{From: v.Kind(), To: target}
}

func asDuration(v Value) (time.Duration, error) {
	const target = "time.Duration"
	switch v := v.(type) {
	case Time:
		if v.Valid {
			return v.Duration, nil
		}
	case Interval:
		if v.Valid {
			return intervalDuration(v)
		}
	case Varchar:
		if v.Valid {
			iv, err := ParseInterval(v.String)
			if err != nil {
				return 0, err
			}
			return intervalDuration(iv)
		}
	case Unknown:
		if v.Valid {
			iv, err := ParseInterval(v.String)
			if err != nil {
				return 0, err
			}
			return intervalDuration(iv)
		}
	}
	return 0, TypeMismatchError{From: v.Kind(), To: target}
}

// intervalDuration rejects month components because months have no fixed
// length in nanoseconds.
func intervalDuration(v Interval) (time.Duration, error) {
	if v.Months != 0 {
		return 0, TypeMismatchError{From: v.Kind(), To: "time.Duration"}
	}
	return time.Duration(v.Days)*24*time.Hour + time.Duration(v.Nanos), nil
}

func asUUID(v Value) (uuid.UUID, error) {
	const target = "uuid.UUID"
	switch v := v.(type) {
	case Uuid:
		if v.Valid {
			return v.UUID, nil
		}
	case Varchar:
		if v.Valid {
			u, err := uuid.Parse(v.String)
			if err != nil {
				return uuid.UUID{}, ParseError{Input: v.String, Target: target}
			}
			return u, nil
		}
	case Unknown:
		if v.Valid {
			u, err := uuid.Parse(v.String)
			if err != nil {
				return uuid.UUID{}, ParseError{Input: v.String, Target: target}
			}
			return u, nil
		}
	case Blob:
		if v.Valid {
			u, err := uuid.FromBytes(v.Bytes)
			if err != nil {
				return uuid.UUID{}, ParseError{Input: Clip(string(v.Bytes)), Target: target}
			}
			return u, nil
		}
	}
	return uuid.UUID{}, TypeMismatchError{From: v.Kind(), To: target}
}

// asReflected handles container and struct targets plus named scalar types
// that the typed fast paths do not cover.
func asReflected(dst reflect.Value, v Value) error {
	switch dst.Kind() {
	case reflect.Bool:
		b, err := asBool(v)
		if err != nil {
			return err
		}
		dst.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := asInt64(v, dst.Type().String())
		if err != nil {
			return err
		}
		if dst.OverflowInt(i) {
			return RangeError{Value: strconv.FormatInt(i, 10), From: v.Kind(), To: dst.Type().String()}
		}
		dst.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := asUint64(v, dst.Type().String())
		if err != nil {
			return err
		}
		if dst.OverflowUint(u) {
			return RangeError{Value: strconv.FormatUint(u, 10), From: v.Kind(), To: dst.Type().String()}
		}
		dst.SetUint(u)
	case reflect.Float32:
		f, err := asFloat32(v)
		if err != nil {
			return err
		}
		dst.SetFloat(float64(f))
	case reflect.Float64:
		f, err := asFloat64(v)
		if err != nil {
			return err
		}
		dst.SetFloat(f)
	case reflect.String:
		s, err := asString(v)
		if err != nil {
			return err
		}
		dst.SetString(s)
	case reflect.Pointer:
		if v.IsNull() {
			dst.SetZero()
			return nil
		}
		elem := reflect.New(dst.Type().Elem())
		if err := asReflected(elem.Elem(), v); err != nil {
			return err
		}
		dst.Set(elem)
	case reflect.Slice:
		return asSlice(dst, v)
	case reflect.Array:
		return asArray(dst, v)
	case reflect.Map:
		return asMap(dst, v)
	case reflect.Struct:
		return asStruct(dst, v)
	default:
		return TypeMismatchError{From: v.Kind(), To: dst.Type().String()}
	}
	return nil
}

func elements(v Value) ([]Value, bool) {
	switch v := v.(type) {
	case Array:
		if v.Valid {
			return v.Values, true
		}
	case List:
		if v.Valid {
			return v.Values, true
		}
	case Json:
		if v.Valid {
			if arr, ok := v.Data.([]any); ok {
				out := make([]Value, len(arr))
				for i, e := range arr {
					out[i] = Json{Data: e, Valid: true}
				}
				return out, true
			}
		}
	}
	return nil, false
}

func asSlice(dst reflect.Value, v Value) error {
	if dst.Type().Elem().Kind() == reflect.Uint8 {
		b, err := asBytes(v)
		if err != nil {
			return err
		}
		dst.SetBytes(b)
		return nil
	}
	elems, ok := elements(v)
	if !ok {
		return TypeMismatchError{From: v.Kind(), To: dst.Type().String()}
	}
	out := reflect.MakeSlice(dst.Type(), len(elems), len(elems))
	for i, e := range elems {
		if err := asReflected(out.Index(i), e); err != nil {
			return err
		}
	}
	dst.Set(out)
	return nil
}

// asArray requires the element count to match the fixed target length.
func asArray(dst reflect.Value, v Value) error {
	elems, ok := elements(v)
	if !ok {
		return TypeMismatchError{From: v.Kind(), To: dst.Type().String()}
	}
	if len(elems) != dst.Len() {
		return RangeError{Value: strconv.Itoa(len(elems)), From: v.Kind(), To: dst.Type().String()}
	}
	for i, e := range elems {
		if err := asReflected(dst.Index(i), e); err != nil {
			return err
		}
	}
	return nil
}

func asMap(dst reflect.Value, v Value) error {
	var entries []MapEntry
	switch v := v.(type) {
	case Map:
		if !v.Valid {
			return TypeMismatchError{From: v.Kind(), To: dst.Type().String()}
		}
		entries = v.Entries
	case Json:
		if obj, ok := v.Data.(map[string]any); v.Valid && ok {
			entries = make([]MapEntry, 0, len(obj))
			for k, e := range obj {
				entries = append(entries, MapEntry{
					Key:   Varchar{String: k, Valid: true},
					Value: Json{Data: e, Valid: true},
				})
			}
			break
		}
		return TypeMismatchError{From: v.Kind(), To: dst.Type().String()}
	default:
		return TypeMismatchError{From: v.Kind(), To: dst.Type().String()}
	}
	out := reflect.MakeMapWithSize(dst.Type(), len(entries))
	for _, entry := range entries {
		k := reflect.New(dst.Type().Key()).Elem()
		if err := asReflected(k, entry.Key); err != nil {
			return err
		}
		e := reflect.New(dst.Type().Elem()).Elem()
		if err := asReflected(e, entry.Value); err != nil {
			return err
		}
		out.SetMapIndex(k, e)
	}
	dst.Set(out)
	return nil
}

// asStruct fills exported target fields by name from a Struct value or a
// JSON object; fields with no matching entry keep their zero value.
func asStruct(dst reflect.Value, v Value) error {
	if dst.Type() == reflect.TypeOf(time.Time{}) {
		t, err := asTime(v)
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(t))
		return nil
	}
	if dst.Type() == reflect.TypeOf(decimal.Decimal{}) {
		d, err := asDecimal(v)
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(d))
		return nil
	}
	byName := map[string]Value{}
	switch v := v.(type) {
	case Struct:
		if !v.Valid {
			return TypeMismatchError{From: v.Kind(), To: dst.Type().String()}
		}
		for _, f := range v.Fields {
			byName[f.Name] = f.Value
		}
	case Json:
		if obj, ok := v.Data.(map[string]any); v.Valid && ok {
			for k, e := range obj {
				byName[k] = Json{Data: e, Valid: true}
			}
			break
		}
		return TypeMismatchError{From: v.Kind(), To: dst.Type().String()}
	default:
		return TypeMismatchError{From: v.Kind(), To: dst.Type().String()}
	}
	t := dst.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		fv, ok := byName[f.Name]
		if !ok || fv.IsNull() {
			continue
		}
		if err := asReflected(dst.Field(i), fv); err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
	}
	return nil
}
