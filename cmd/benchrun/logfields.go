package main

import (
	"strconv"

	"go.uber.org/zap/zapcore"

	"github.com/and161185/telemetry-core/model"
)

// dataObject logs a Data tree as nested objects keyed by child key.
type dataObject struct {
	d model.Data
}

func (o dataObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt64("measure", o.d.Measure())
	for _, k := range o.d.Keys() {
		m, _ := o.d.Point(k)
		name := strconv.Itoa(k)
		if child, ok := m.(model.Data); ok {
			if err := enc.AddObject(name, dataObject{child}); err != nil {
				return err
			}
			continue
		}
		enc.AddInt64(name, m.Measure())
	}
	return nil
}
