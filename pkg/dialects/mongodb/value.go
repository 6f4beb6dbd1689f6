package mongodb

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/TankHQ/tank/pkg/value"
	"github.com/TankHQ/tank/pkg/writer"
)

// BSON binary subtypes used by the mapping.
const (
	binarySubtypeGeneric byte = 0x00
	binarySubtypeUUID    byte = 0x04
)

// ValueToBSON converts a value into its BSON form. Narrow integers widen
// to int32, wider ones to int64; an unsigned 64-bit value beyond the
// int64 range does not fit. Dates and timestamps become millisecond
// datetimes, times of day become clock strings, decimals become
// Decimal128. Intervals and 128-bit integers have no BSON form.
func ValueToBSON(v value.Value) (any, error) {
	if v == nil || v.IsNull() {
		return nil, nil
	}
	switch v := v.(type) {
	case value.Boolean:
		return v.Bool, nil
	case value.Int8:
		return int32(v.Int8), nil
	case value.Int16:
		return int32(v.Int16), nil
	case value.Int32:
		return v.Int32, nil
	case value.Int64:
		return v.Int64, nil
	case value.Uint8:
		return int32(v.Uint8), nil
	case value.Uint16:
		return int32(v.Uint16), nil
	case value.Uint32:
		return int64(v.Uint32), nil
	case value.Uint64:
		if v.Uint64 > math.MaxInt64 {
			return nil, value.RangeError{
				Value: strconv.FormatUint(v.Uint64, 10),
				From:  value.KindUint64,
				To:    "int64",
			}
		}
		return int64(v.Uint64), nil
	case value.Float32:
		return float64(v.Float32), nil
	case value.Float64:
		return v.Float64, nil
	case value.Decimal:
		d, err := bson.ParseDecimal128(v.Decimal.String())
		if err != nil {
			return nil, fmt.Errorf("decimal %s does not fit Decimal128: %w", v.Decimal, err)
		}
		return d, nil
	case value.Char:
		return string(v.Char), nil
	case value.Varchar:
		return v.String, nil
	case value.Blob:
		return bson.Binary{Subtype: binarySubtypeGeneric, Data: v.Bytes}, nil
	case value.Date:
		return bson.NewDateTimeFromTime(v.Time()), nil
	case value.Time:
		h, m, s, ns := v.Clock()
		return value.ClockString(h, m, s, ns), nil
	case value.Timestamp:
		return bson.NewDateTimeFromTime(v.Time), nil
	case value.TimestampTZ:
		return bson.NewDateTimeFromTime(v.Time), nil
	case value.Uuid:
		return bson.Binary{Subtype: binarySubtypeUUID, Data: v.UUID[:]}, nil
	case value.Array:
		return sequenceToBSON(v.Values)
	case value.List:
		return sequenceToBSON(v.Values)
	case value.Map:
		out := make(bson.D, 0, len(v.Entries))
		for _, entry := range v.Entries {
			key, err := value.As[string](entry.Key)
			if err != nil {
				return nil, fmt.Errorf("map key is not a document key: %w", err)
			}
			elem, err := ValueToBSON(entry.Value)
			if err != nil {
				return nil, err
			}
			out = append(out, bson.E{Key: key, Value: elem})
		}
		return out, nil
	case value.Struct:
		out := make(bson.D, 0, len(v.Fields))
		for _, field := range v.Fields {
			elem, err := ValueToBSON(field.Value)
			if err != nil {
				return nil, err
			}
			out = append(out, bson.E{Key: field.Name, Value: elem})
		}
		return out, nil
	case value.Json:
		return jsonToBSON(v.Data), nil
	case value.Unknown:
		return v.String, nil
	}
	return nil, writer.UnsupportedValueError{Backend: "mongodb", Kind: v.Kind()}
}

func sequenceToBSON(values []value.Value) (bson.A, error) {
	out := make(bson.A, 0, len(values))
	for _, v := range values {
		elem, err := ValueToBSON(v)
		if err != nil {
			return nil, err
		}
		out = append(out, elem)
	}
	return out, nil
}

// jsonToBSON maps decoded JSON onto BSON. Object keys are sorted so the
// output is deterministic; json.Number collapses to int64 when it fits
// and float64 otherwise.
func jsonToBSON(data any) any {
	switch data := data.(type) {
	case map[string]any:
		keys := make([]string, 0, len(data))
		for k := range data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(bson.D, 0, len(keys))
		for _, k := range keys {
			out = append(out, bson.E{Key: k, Value: jsonToBSON(data[k])})
		}
		return out
	case []any:
		out := make(bson.A, 0, len(data))
		for _, elem := range data {
			out = append(out, jsonToBSON(elem))
		}
		return out
	case json.Number:
		if i, err := data.Int64(); err == nil {
			return i
		}
		if f, err := data.Float64(); err == nil {
			return f
		}
		return data.String()
	}
	return data
}

// BSONToValue converts a decoded BSON element back into a value.
// Sequences derive their element type from the first element, documents
// become maps with string keys, UUID-subtype binaries become Uuid values
// and object ids become their unsigned 128-bit integer reading.
func BSONToValue(raw any) (value.Value, error) {
	switch raw := raw.(type) {
	case nil:
		return value.Null{}, nil
	case bool:
		return value.Boolean{Bool: raw, Valid: true}, nil
	case int32:
		return value.Int32{Int32: raw, Valid: true}, nil
	case int64:
		return value.Int64{Int64: raw, Valid: true}, nil
	case float64:
		return value.Float64{Float64: raw, Valid: true}, nil
	case string:
		return value.Varchar{String: raw, Valid: true}, nil
	case bson.Decimal128:
		d, err := decimal.NewFromString(raw.String())
		if err != nil {
			return nil, fmt.Errorf("Decimal128 %s: %w", raw, err)
		}
		return value.Decimal{Decimal: d, Valid: true}, nil
	case bson.Binary:
		if raw.Subtype == binarySubtypeUUID && len(raw.Data) == 16 {
			id, err := uuid.FromBytes(raw.Data)
			if err != nil {
				return nil, err
			}
			return value.Uuid{UUID: id, Valid: true}, nil
		}
		return value.Blob{Bytes: raw.Data, Valid: true}, nil
	case bson.DateTime:
		return value.Timestamp{Time: raw.Time().UTC(), Valid: true}, nil
	case bson.A:
		values := make([]value.Value, 0, len(raw))
		for _, elem := range raw {
			v, err := BSONToValue(elem)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		elem := value.Value(value.Null{})
		if len(values) > 0 {
			elem = values[0].TypedNull()
		}
		return value.Array{Values: values, Elem: elem, Size: uint32(len(values)), Valid: true}, nil
	case bson.D:
		entries := make([]value.MapEntry, 0, len(raw))
		for _, e := range raw {
			v, err := BSONToValue(e.Value)
			if err != nil {
				return nil, err
			}
			entries = append(entries, value.MapEntry{
				Key:   value.Varchar{String: e.Key, Valid: true},
				Value: v,
			})
		}
		elem := value.Value(value.Null{})
		if len(entries) > 0 {
			elem = entries[0].Value.TypedNull()
		}
		return value.Map{Entries: entries, Key: value.Varchar{}, Elem: elem, Valid: true}, nil
	case bson.M:
		keys := make([]string, 0, len(raw))
		for k := range raw {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		doc := make(bson.D, 0, len(keys))
		for _, k := range keys {
			doc = append(doc, bson.E{Key: k, Value: raw[k]})
		}
		return BSONToValue(doc)
	case bson.ObjectID:
		return value.Uint128{Big: new(big.Int).SetBytes(raw[:]), Valid: true}, nil
	}
	return nil, fmt.Errorf("BSON value of type %T has no value form", raw)
}
