// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package streamio pools the zstd encoders/decoders objstore's Loose
// backend reads and writes every object through, the same sync.Pool
// pattern the rest of the zeta tool family uses to avoid allocating a
// fresh codec per object.
package streamio

import (
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var (
	zstdReader = sync.Pool{
		New: func() any {
			d, _ := zstd.NewReader(nil)
			return &ZstdDecoder{Decoder: d}
		},
	}
	zstdWriter = sync.Pool{
		New: func() any {
			e, _ := zstd.NewWriter(nil)
			return &ZstdEncoder{Encoder: e}
		},
	}
)

type ZstdDecoder struct {
	*zstd.Decoder
}

// GetZstdReader returns a ZstdDecoder managed by a sync.Pool, reset to
// read from r. After use, return it with PutZstdReader.
func GetZstdReader(r io.Reader) (*ZstdDecoder, error) {
	z := zstdReader.Get().(*ZstdDecoder)
	if err := z.Reset(r); err != nil {
		return nil, err
	}
	return z, nil
}

// PutZstdReader puts z back into its sync.Pool.
func PutZstdReader(z *ZstdDecoder) {
	zstdReader.Put(z)
}

type ZstdEncoder struct {
	*zstd.Encoder
}

// GetZstdWriter returns a *ZstdEncoder managed by a sync.Pool, reset to
// write to w. After use, return it with PutZstdWriter.
func GetZstdWriter(w io.Writer) *ZstdEncoder {
	z := zstdWriter.Get().(*ZstdEncoder)
	z.Reset(w)
	return z
}

// PutZstdWriter closes z (flushing its trailing frame) and puts it back
// into its sync.Pool.
func PutZstdWriter(z *ZstdEncoder) {
	z.Encoder.Close()
	zstdWriter.Put(z)
}
