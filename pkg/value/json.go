package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type jsonNumber = json.Number

// FromJSON decodes a raw JSON document into a Json value. Numbers are kept
// as json.Number so integer precision survives the round trip.
func FromJSON(raw []byte) (Json, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		return Json{}, ParseError{Input: Clip(string(raw)), Target: "json", Reason: err.Error()}
	}
	if dec.More() {
		return Json{}, ParseError{Input: Clip(string(raw)), Target: "json", Reason: "trailing input"}
	}
	return Json{Data: data, Valid: true}, nil
}

// ToJSON maps a Value onto the encoding/json object model: nil, bool,
// json.Number, float64, string, []any and map[string]any. Temporal values
// become their textual forms; intervals have no JSON shape and fail.
func ToJSON(v Value) (any, error) {
	if v == nil || v.IsNull() {
		return nil, nil
	}
	switch v := v.(type) {
	case Boolean:
		return v.Bool, nil
	case Int8:
		return json.Number(fmt.Sprint(v.Int8)), nil
	case Int16:
		return json.Number(fmt.Sprint(v.Int16)), nil
	case Int32:
		return json.Number(fmt.Sprint(v.Int32)), nil
	case Int64:
		return json.Number(fmt.Sprint(v.Int64)), nil
	case Int128:
		return json.Number(v.Big.String()), nil
	case Uint8:
		return json.Number(fmt.Sprint(v.Uint8)), nil
	case Uint16:
		return json.Number(fmt.Sprint(v.Uint16)), nil
	case Uint32:
		return json.Number(fmt.Sprint(v.Uint32)), nil
	case Uint64:
		return json.Number(fmt.Sprint(v.Uint64)), nil
	case Uint128:
		return json.Number(v.Big.String()), nil
	case Float32:
		return float64(v.Float32), nil
	case Float64:
		return v.Float64, nil
	case Decimal:
		return json.Number(v.Decimal.String()), nil
	case Char:
		return string(v.Char), nil
	case Varchar:
		return v.String, nil
	case Blob:
		out := make([]any, len(v.Bytes))
		for i, b := range v.Bytes {
			out[i] = json.Number(fmt.Sprint(b))
		}
		return out, nil
	case Date:
		return fmt.Sprintf("%04d-%02d-%02d", v.Year, v.Month, v.Day), nil
	case Time:
		return ClockString(v.Clock()), nil
	case Timestamp:
		return timestampJSON(v.Time, false), nil
	case TimestampTZ:
		return timestampJSON(v.Time, true), nil
	case Interval:
		return nil, TypeMismatchError{From: v.Kind(), To: "json"}
	case Uuid:
		return v.UUID.String(), nil
	case Array:
		return elementsJSON(v.Values)
	case List:
		return elementsJSON(v.Values)
	case Map:
		out := make(map[string]any, len(v.Entries))
		for _, entry := range v.Entries {
			key, err := asString(entry.Key)
			if err != nil {
				return nil, fmt.Errorf("map key: %w", err)
			}
			elem, err := ToJSON(entry.Value)
			if err != nil {
				return nil, err
			}
			out[key] = elem
		}
		return out, nil
	case Struct:
		out := make(map[string]any, len(v.Fields))
		for _, f := range v.Fields {
			elem, err := ToJSON(f.Value)
			if err != nil {
				return nil, err
			}
			out[f.Name] = elem
		}
		return out, nil
	case Json:
		return v.Data, nil
	case Unknown:
		return v.String, nil
	}
	return nil, TypeMismatchError{From: v.Kind(), To: "json"}
}

func elementsJSON(values []Value) (any, error) {
	out := make([]any, len(values))
	for i, e := range values {
		elem, err := ToJSON(e)
		if err != nil {
			return nil, err
		}
		out[i] = elem
	}
	return out, nil
}

// timestampJSON renders "YYYY-MM-DD HH:MM:SS.f", with the UTC offset
// appended for zoned timestamps.
func timestampJSON(t time.Time, withZone bool) string {
	h, m, s := t.Clock()
	out := fmt.Sprintf("%04d-%02d-%02d %s",
		t.Year(), int(t.Month()), t.Day(),
		ClockString(int64(h), int64(m), int64(s), int64(t.Nanosecond())))
	if withZone {
		out += t.Format(" -07:00")
	}
	return out
}
