package meter

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"
	"github.com/fxamacker/cbor/v2"
)

// ErrUnhashable is returned for values that have no deterministic encoding
// (channels, funcs, ...) or that hold unexported struct fields the encoding
// would silently skip.
var ErrUnhashable = errors.New("value cannot be content hashed")

// encMode uses Core Deterministic Encoding: sorted map keys and shortest
// integer forms, so equal values always encode to identical bytes.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("meter: CBOR encoder initialization failed: " + err.Error())
	}
}

// contentHash returns the 64-bit content hash of v.
func contentHash(v any) (int64, error) {
	if err := checkVisible(reflect.ValueOf(v), 0); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnhashable, err)
	}
	b, err := encMode.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnhashable, err)
	}
	return int64(xxhash.Sum64(b)), nil
}

var (
	cborMarshalerType   = reflect.TypeOf((*cbor.Marshaler)(nil)).Elem()
	binaryMarshalerType = reflect.TypeOf((*encoding.BinaryMarshaler)(nil)).Elem()
)

// marshalsItself reports types the encoder hands to their own marshaler,
// like time.Time, so their unexported fields are covered.
func marshalsItself(t reflect.Type) bool {
	return t.Implements(cborMarshalerType) || t.Implements(binaryMarshalerType) ||
		reflect.PointerTo(t).Implements(cborMarshalerType) || reflect.PointerTo(t).Implements(binaryMarshalerType)
}

// maxDepth bounds the walk; deeper values, cyclic ones included, are rejected.
const maxDepth = 64

// checkVisible fails when v holds a struct with unexported fields, whose
// state would not take part in the hash.
func checkVisible(v reflect.Value, depth int) error {
	if !v.IsValid() {
		return nil
	}
	if depth > maxDepth {
		return fmt.Errorf("%s nested deeper than %d levels", v.Type(), maxDepth)
	}
	if marshalsItself(v.Type()) {
		return nil
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return checkVisible(v.Elem(), depth+1)
	case reflect.Slice, reflect.Array:
		if isScalar(v.Type().Elem()) {
			return nil
		}
		for i := 0; i < v.Len(); i++ {
			if err := checkVisible(v.Index(i), depth+1); err != nil {
				return err
			}
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if err := checkVisible(iter.Key(), depth+1); err != nil {
				return err
			}
			if err := checkVisible(iter.Value(), depth+1); err != nil {
				return err
			}
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() && !promotesFields(f) {
				return fmt.Errorf("%s has unexported field %s", t, f.Name)
			}
			if err := checkVisible(v.Field(i), depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// promotesFields reports an embedded struct value whose exported fields the encoder inlines.
func promotesFields(f reflect.StructField) bool {
	return f.Anonymous && f.Type.Kind() == reflect.Struct
}

func isScalar(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}
