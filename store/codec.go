// This file is part of intcode - https://github.com/db47h/intcode
//
// Copyright 2019 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package store

import (
	"github.com/db47h/intcode/vm"
	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/zeebo/blake3"
)

var (
	encMode cbor.EncMode
	zenc    *zstd.Encoder
	zdec    *zstd.Decoder
)

func init() {
	opts := cbor.CanonicalEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	em, err := opts.EncMode()
	if err != nil {
		panic(errors.Wrap(err, "store: cbor encoding mode"))
	}
	encMode = em
	// EncodeAll and DecodeAll are safe for concurrent use.
	if zenc, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault)); err != nil {
		panic(errors.Wrap(err, "store: zstd encoder"))
	}
	if zdec, err = zstd.NewReader(nil); err != nil {
		panic(errors.Wrap(err, "store: zstd decoder"))
	}
}

// Fingerprint returns a short identifier for a program: the base58 form of
// the BLAKE3-256 digest of its comma separated text form.
func Fingerprint(p vm.Program) string {
	sum := blake3.Sum256([]byte(p.String()))
	return base58.Encode(sum[:])
}

// EncodeSnapshot encodes s as canonical CBOR, compressed with zstd.
func EncodeSnapshot(s *vm.Snapshot) ([]byte, error) {
	if s == nil {
		return nil, errors.Wrap(vm.ErrBadSnapshot, "nil snapshot")
	}
	data, err := encMode.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "encode snapshot")
	}
	return zenc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// DecodeSnapshot is the reverse of EncodeSnapshot.
func DecodeSnapshot(data []byte) (*vm.Snapshot, error) {
	raw, err := zdec.DecodeAll(data, nil)
	if err != nil {
		return nil, errors.Wrap(err, "decompress snapshot")
	}
	var s vm.Snapshot
	if err = cbor.Unmarshal(raw, &s); err != nil {
		return nil, errors.Wrap(err, "decode snapshot")
	}
	return &s, nil
}

func marshal(v interface{}) ([]byte, error) {
	return encMode.Marshal(v)
}

func unmarshal(data []byte, v interface{}) error {
	return cbor.Unmarshal(data, v)
}
