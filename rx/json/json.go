// Package json provides stream sources and sinks for JSON using jsoniter.
//
// Decoding sources read a sequence of concatenated JSON values, such as
// newline-delimited JSON, and emit one item per value. Encode writes a Many
// back out as newline-delimited JSON.
package json

import (
	"context"
	"errors"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/lguimbarda/reagent/rx/core"
)

// API is the jsoniter configuration used by this package. It behaves like
// encoding/json.
var API = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultBufferSize is the read buffer used by Decode.
const DefaultBufferSize = 4096

// ErrSyntax is returned when the input holds something other than a JSON value
// where one is expected.
var ErrSyntax = errors.New("json: invalid value")

// Decode creates a Many that decodes consecutive JSON values from r.
// The reader is consumed by the first subscription; later subscriptions see
// only what remains.
func Decode[T any](r io.Reader) core.Many[T] {
	return core.ManyFunc[T](func(s core.ManySubscriber[T]) {
		emitValues(s, jsoniter.Parse(API, r, DefaultBufferSize))
	})
}

// DecodeBytes creates a Many that decodes consecutive JSON values from data.
// Every subscription decodes data from the start.
func DecodeBytes[T any](data []byte) core.Many[T] {
	return core.ManyFunc[T](func(s core.ManySubscriber[T]) {
		emitValues(s, jsoniter.ParseBytes(API, data))
	})
}

// Unmarshal creates a One that decodes data as a single JSON value.
func Unmarshal[T any](data []byte) core.One[T] {
	return core.OneFunc[T](func(s core.OneSubscriber[T]) {
		d := core.NewDisposable()
		s.OnSubscribe(d)
		if d.IsDisposed() {
			return
		}

		var item T
		err := API.Unmarshal(data, &item)
		if d.IsDisposed() {
			return
		}
		if err != nil {
			s.OnError(err)
			return
		}
		s.OnItem(item)
	})
}

// Encode writes every item of in to w as newline-delimited JSON and returns
// once in completes. A write or encoding error disposes in and is returned.
func Encode[T any](ctx context.Context, w io.Writer, in core.Many[T]) error {
	enc := API.NewEncoder(w)
	return core.ForEach(ctx, in, func(item T) error {
		if err := enc.Encode(item); err != nil {
			return fmt.Errorf("encode item: %w", err)
		}
		return nil
	})
}

func emitValues[T any](s core.ManySubscriber[T], iter *jsoniter.Iterator) {
	d := core.NewDisposable()
	s.OnSubscribe(d)

	for !d.IsDisposed() {
		if iter.WhatIsNext() == jsoniter.InvalidValue {
			if d.IsDisposed() {
				return
			}
			switch {
			case errors.Is(iter.Error, io.EOF):
				s.OnComplete()
			case iter.Error != nil:
				s.OnError(iter.Error)
			default:
				s.OnError(ErrSyntax)
			}
			return
		}

		var item T
		iter.ReadVal(&item)
		if d.IsDisposed() {
			return
		}
		// io.EOF here means the value ended exactly at the end of input.
		if err := iter.Error; err != nil && !errors.Is(err, io.EOF) {
			s.OnError(err)
			return
		}
		s.OnNext(item)
	}
}
