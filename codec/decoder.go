// Copyright 2025 The amqpd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package codec

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/amqpd/amqpd/errs"
	"github.com/amqpd/amqpd/types"
)

// Decoder AMQP 1.0 解码器
//
// 解码严格消费属于当前值的字节并推进游标 任何畸形输入均以
// decoding 错误终止 长度前缀在分配内存前先与剩余字节数核对
type Decoder struct {
	buf []byte
	off int
}

// NewDecoder 创建解码器
func NewDecoder(b []byte) *Decoder {
	return &Decoder{buf: b}
}

// Remaining 剩余未消费字节数
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.off
}

// HasRemaining 是否还有未消费字节
func (d *Decoder) HasRemaining() bool {
	return d.Remaining() > 0
}

// readN 消费 n 字节 返回的切片直接引用底层缓冲 不可修改
func (d *Decoder) readN(n int) ([]byte, error) {
	if d.Remaining() < n {
		return nil, errs.Decodingf("unexpected end of data: need %d bytes, remaining %d", n, d.Remaining())
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *Decoder) readUint16() (uint16, error) {
	b, err := d.readN(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (d *Decoder) readUint32() (uint32, error) {
	b, err := d.readN(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (d *Decoder) readUint64() (uint64, error) {
	b, err := d.readN(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// DecodeValue 解码单个 Value
func (d *Decoder) DecodeValue() (types.Value, error) {
	code, err := d.readN(1)
	if err != nil {
		return nil, errs.Decodingf("no data to decode")
	}

	switch code[0] {
	case codeNull:
		return types.Null{}, nil
	case codeBoolTrue:
		return types.Bool(true), nil
	case codeBoolFalse:
		return types.Bool(false), nil
	case codeBool:
		b, err := d.readN(1)
		if err != nil {
			return nil, err
		}
		return types.Bool(b[0] != 0), nil
	case codeUbyte:
		b, err := d.readN(1)
		if err != nil {
			return nil, err
		}
		return types.Ubyte(b[0]), nil
	case codeUshort:
		v, err := d.readUint16()
		if err != nil {
			return nil, err
		}
		return types.Ushort(v), nil
	case codeUint:
		v, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		return types.Uint(v), nil
	case codeUlong:
		v, err := d.readUint64()
		if err != nil {
			return nil, err
		}
		return types.Ulong(v), nil
	case codeByte:
		b, err := d.readN(1)
		if err != nil {
			return nil, err
		}
		return types.Byte(b[0]), nil
	case codeShort:
		v, err := d.readUint16()
		if err != nil {
			return nil, err
		}
		return types.Short(v), nil
	case codeInt:
		v, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		return types.Int(v), nil
	case codeLong:
		v, err := d.readUint64()
		if err != nil {
			return nil, err
		}
		return types.Long(v), nil
	case codeFloat:
		v, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		return types.Float(math.Float32frombits(v)), nil
	case codeDouble:
		v, err := d.readUint64()
		if err != nil {
			return nil, err
		}
		return types.Double(math.Float64frombits(v)), nil
	case codeDecimal32:
		v, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		return types.Decimal32(v), nil
	case codeDecimal64:
		v, err := d.readUint64()
		if err != nil {
			return nil, err
		}
		return types.Decimal64(v), nil
	case codeDecimal128:
		b, err := d.readN(16)
		if err != nil {
			return nil, err
		}
		var dec types.Decimal128
		copy(dec[:], b)
		return dec, nil
	case codeChar:
		v, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		// 拒绝代理区与超出 Unicode 范围的标量
		if v > utf8.MaxRune || !utf8.ValidRune(rune(v)) {
			return nil, errs.Decodingf("invalid unicode code point: 0x%08x", v)
		}
		return types.Char(v), nil
	case codeTimestamp:
		v, err := d.readUint64()
		if err != nil {
			return nil, err
		}
		return types.Timestamp(v), nil
	case codeUUID:
		b, err := d.readN(16)
		if err != nil {
			return nil, err
		}
		var u uuid.UUID
		copy(u[:], b)
		return types.UUID(u), nil
	case codeBinary8, codeBinary32:
		b, err := d.readVariable(code[0] == codeBinary32)
		if err != nil {
			return nil, err
		}
		return types.Binary(append([]byte{}, b...)), nil
	case codeString8, codeString32:
		b, err := d.readVariable(code[0] == codeString32)
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(b) {
			return nil, errs.Decodingf("invalid utf-8 string")
		}
		return types.String(b), nil
	case codeSymbol8, codeSymbol32:
		b, err := d.readVariable(code[0] == codeSymbol32)
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(b) {
			return nil, errs.Decodingf("invalid utf-8 symbol")
		}
		return types.Symbol(b), nil
	case codeList0:
		return types.List{}, nil
	case codeList8, codeList32:
		count, err := d.readCount(code[0] == codeList32)
		if err != nil {
			return nil, err
		}
		return d.decodeList(count)
	case codeMap8, codeMap32:
		count, err := d.readCount(code[0] == codeMap32)
		if err != nil {
			return nil, err
		}
		return d.decodeMap(count)
	case codeArray8, codeArray32:
		return d.decodeArray(code[0] == codeArray32)
	}

	return nil, errs.Decodingf("unknown type code: 0x%02x", code[0])
}

// readVariable 读取带长度前缀的载荷 长度先于分配做边界检查
func (d *Decoder) readVariable(wide bool) ([]byte, error) {
	var n int
	if wide {
		v, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		n = int(v)
	} else {
		b, err := d.readN(1)
		if err != nil {
			return nil, err
		}
		n = int(b[0])
	}
	return d.readN(n)
}

func (d *Decoder) readCount(wide bool) (int, error) {
	if wide {
		v, err := d.readUint32()
		if err != nil {
			return 0, err
		}
		return int(v), nil
	}
	b, err := d.readN(1)
	if err != nil {
		return 0, err
	}
	return int(b[0]), nil
}

func (d *Decoder) decodeList(count int) (types.Value, error) {
	list := make(types.List, 0, minInt(count, d.Remaining()))
	for i := 0; i < count; i++ {
		item, err := d.DecodeValue()
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}
	return list, nil
}

func (d *Decoder) decodeMap(count int) (types.Value, error) {
	m := make(types.Map, minInt(count, d.Remaining()))
	for i := 0; i < count; i++ {
		key, err := d.DecodeSymbol()
		if err != nil {
			return nil, err
		}
		value, err := d.DecodeValue()
		if err != nil {
			return nil, err
		}
		m[key] = value
	}
	return m, nil
}

func (d *Decoder) decodeArray(wide bool) (types.Value, error) {
	size, err := d.readCount(wide)
	if err != nil {
		return nil, err
	}
	count, err := d.readCount(wide)
	if err != nil {
		return nil, err
	}

	if d.Remaining() < size {
		return nil, errs.Decodingf("truncated array: need %d bytes, remaining %d", size, d.Remaining())
	}

	array := make(types.Array, 0, minInt(count, d.Remaining()))
	for i := 0; i < count; i++ {
		item, err := d.DecodeValue()
		if err != nil {
			return nil, err
		}
		array = append(array, item)
	}
	return array, nil
}

// DecodeSymbol 解码一个 Symbol 多用于 Map 键
func (d *Decoder) DecodeSymbol() (types.Symbol, error) {
	v, err := d.DecodeValue()
	if err != nil {
		return "", err
	}
	s, ok := v.(types.Symbol)
	if !ok {
		return "", errs.Decodingf("expected symbol value, got %T", v)
	}
	return s, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
