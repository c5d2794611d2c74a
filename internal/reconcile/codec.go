package reconcile

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/solarsync/internal/realtime"
)

var (
	uuidType    = reflect.TypeOf(uuid.UUID{})
	timeType    = reflect.TypeOf(time.Time{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
)

// Codec converts change-event rows into T. T must be a struct whose
// exported fields carry json tags naming the table columns.
type Codec[T any] struct {
	fields map[string]int
	hook   mapstructure.DecodeHookFunc
}

// NewCodec builds the column index of T. It panics if T is not a struct.
func NewCodec[T any]() *Codec[T] {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("reconcile: codec target %s is not a struct", t))
	}

	fields := make(map[string]int, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		fields[name] = i
	}

	return &Codec[T]{
		fields: fields,
		hook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.DecodeHookFuncType(columnHook),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	}
}

// Decode builds a T from a full row. Unknown columns are ignored.
func (c *Codec[T]) Decode(row realtime.Row) (T, error) {
	var zero T
	return c.Patch(zero, row)
}

// Patch returns a copy of base with every column present in row written
// over it. A JSON null clears the field; absent columns keep base's value.
// base is never modified.
func (c *Codec[T]) Patch(base T, row realtime.Row) (T, error) {
	out := base
	v := reflect.ValueOf(&out).Elem()

	for column, raw := range row {
		idx, ok := c.fields[column]
		if !ok {
			continue
		}
		field := v.Field(idx)

		if raw == nil {
			field.Set(reflect.Zero(field.Type()))
			continue
		}

		// Decode into a fresh value so pointer fields never share storage
		// with base.
		fresh := reflect.New(field.Type())
		if err := c.decodeValue(raw, fresh.Interface()); err != nil {
			var zero T
			return zero, fmt.Errorf("column %s: %w", column, err)
		}
		field.Set(fresh.Elem())
	}
	return out, nil
}

func (c *Codec[T]) decodeValue(raw any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       c.hook,
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           target,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// columnHook converts the JSON forms Postgres emits for uuid, timestamp,
// date and numeric columns.
func columnHook(_ reflect.Type, t reflect.Type, data any) (any, error) {
	switch t {
	case uuidType:
		switch v := data.(type) {
		case string:
			return uuid.Parse(v)
		case []byte:
			return uuid.ParseBytes(v)
		}
	case timeType:
		if s, ok := data.(string); ok {
			return parseTime(s)
		}
	case decimalType:
		switch v := data.(type) {
		case string:
			return decimal.NewFromString(v)
		case json.Number:
			return decimal.NewFromString(v.String())
		case float64:
			return decimal.NewFromFloat(v), nil
		case float32:
			return decimal.NewFromFloat32(v), nil
		case int:
			return decimal.NewFromInt(int64(v)), nil
		case int64:
			return decimal.NewFromInt(v), nil
		}
	}
	return data, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999-07",
	time.DateOnly,
}

// parseTime accepts RFC 3339 (to_jsonb of timestamptz), timestamp without
// zone (read as UTC) and date columns.
func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}
