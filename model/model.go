// Package model contains core measurement types for the project.
package model

import (
	"reflect"
	"sort"
)

// Measurement is anything carrying a scalar measure: a Datum or a Data tree node.
type Measurement interface {
	Measure() int64
}

// Datum is a single immutable scalar measurement.
// The unit (microseconds, bytes, count, hash) is set by the producer.
type Datum struct {
	measure int64
}

// NewDatum wraps v into a Datum.
func NewDatum(v int64) Datum { return Datum{measure: v} }

// Measure returns the wrapped value.
func (d Datum) Measure() int64 { return d.measure }

// Data is a Datum extended with keyed child measurements.
// Children may themselves be Data, so a Data value is a tree node.
// The root measure is independent of the children.
type Data struct {
	Datum
	points map[int]Measurement
}

// NewData builds a snapshot tree node. The points map is copied and nil
// children, typed nil pointers included, are dropped, so a present key
// always resolves to a usable measurement.
func NewData(root int64, points map[int]Measurement) Data {
	cp := make(map[int]Measurement, len(points))
	for k, v := range points {
		if isNil(v) {
			continue
		}
		cp[k] = v
	}
	return Data{Datum: NewDatum(root), points: cp}
}

func isNil(m Measurement) bool {
	if m == nil {
		return true
	}
	rv := reflect.ValueOf(m)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// Point returns the child stored under key.
// ok is false when the key was not measured; that is not the same as zero.
func (d Data) Point(key int) (m Measurement, ok bool) {
	m, ok = d.points[key]
	return m, ok
}

// Points returns a copy of the children.
func (d Data) Points() map[int]Measurement {
	res := make(map[int]Measurement, len(d.points))
	for k, v := range d.points {
		res[k] = v
	}
	return res
}

// Keys returns the measured keys in ascending order.
func (d Data) Keys() []int {
	keys := make([]int, 0, len(d.points))
	for k := range d.points {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Len returns the number of children.
func (d Data) Len() int { return len(d.points) }

// With returns a copy of d with m stored under key.
func (d Data) With(key int, m Measurement) Data {
	pts := d.Points()
	pts[key] = m
	return NewData(d.Measure(), pts)
}

// Lookup walks nested Data nodes along path.
// An empty path returns d itself.
func (d Data) Lookup(path ...int) (Measurement, bool) {
	var cur Measurement = d
	for _, key := range path {
		node, ok := cur.(Data)
		if !ok {
			return nil, false
		}
		cur, ok = node.Point(key)
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Quantifiable is implemented by subsystems that can report their meters as one Data tree.
type Quantifiable interface {
	TakeMeasurement() Data
}
