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

// Package codec 实现 AMQP 1.0 的二进制编解码
//
// 编码为自描述格式 1 字节类型码后跟载荷 变长类型必须选择最短的
// 长度前缀形式 8 位长度覆盖 ≤255 字节 否则使用 32 位
//
// List/Map 的编码为 count-only 布局 类型码后直接跟元素数量
// 与标准 AMQP 1.0 的 size+count 布局存在差异 同族 codec 之间
// 自洽 与外部兼容实现的互通不在保证范围内
package codec

import (
	"encoding/binary"
	"math"

	"github.com/amqpd/amqpd/errs"
	"github.com/amqpd/amqpd/types"
)

// Encoder AMQP 1.0 编码器 逐值追加至内部缓冲
type Encoder struct {
	buf []byte
}

// NewEncoder 创建编码器
func NewEncoder() *Encoder {
	return &Encoder{}
}

// NewEncoderSize 创建预分配容量的编码器
func NewEncoderSize(n int) *Encoder {
	return &Encoder{buf: make([]byte, 0, n)}
}

// Finish 返回编码结果
func (e *Encoder) Finish() []byte {
	return e.buf
}

// Len 当前已编码字节数
func (e *Encoder) Len() int {
	return len(e.buf)
}

// Reset 复位缓冲 复用底层内存
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// EncodeValue 编码单个 Value
func (e *Encoder) EncodeValue(v types.Value) error {
	switch val := v.(type) {
	case nil, types.Null:
		e.buf = append(e.buf, codeNull)
	case types.Bool:
		if val {
			e.buf = append(e.buf, codeBoolTrue)
		} else {
			e.buf = append(e.buf, codeBoolFalse)
		}
	case types.Ubyte:
		e.buf = append(e.buf, codeUbyte, byte(val))
	case types.Ushort:
		e.buf = append(e.buf, codeUshort)
		e.putUint16(uint16(val))
	case types.Uint:
		e.buf = append(e.buf, codeUint)
		e.putUint32(uint32(val))
	case types.Ulong:
		e.buf = append(e.buf, codeUlong)
		e.putUint64(uint64(val))
	case types.Byte:
		e.buf = append(e.buf, codeByte, byte(val))
	case types.Short:
		e.buf = append(e.buf, codeShort)
		e.putUint16(uint16(val))
	case types.Int:
		e.buf = append(e.buf, codeInt)
		e.putUint32(uint32(val))
	case types.Long:
		e.buf = append(e.buf, codeLong)
		e.putUint64(uint64(val))
	case types.Float:
		// 比特位原样写入 不做 NaN 规范化
		e.buf = append(e.buf, codeFloat)
		e.putUint32(math.Float32bits(float32(val)))
	case types.Double:
		e.buf = append(e.buf, codeDouble)
		e.putUint64(math.Float64bits(float64(val)))
	case types.Decimal32:
		e.buf = append(e.buf, codeDecimal32)
		e.putUint32(uint32(val))
	case types.Decimal64:
		e.buf = append(e.buf, codeDecimal64)
		e.putUint64(uint64(val))
	case types.Decimal128:
		e.buf = append(e.buf, codeDecimal128)
		e.buf = append(e.buf, val[:]...)
	case types.Char:
		e.buf = append(e.buf, codeChar)
		e.putUint32(uint32(val))
	case types.Timestamp:
		e.buf = append(e.buf, codeTimestamp)
		e.putUint64(uint64(val))
	case types.UUID:
		e.buf = append(e.buf, codeUUID)
		e.buf = append(e.buf, val[:]...)
	case types.Binary:
		return e.encodeVariable(codeBinary8, codeBinary32, val)
	case types.String:
		return e.encodeVariable(codeString8, codeString32, []byte(val))
	case types.Symbol:
		return e.EncodeSymbol(val)
	case types.List:
		return e.encodeList(val)
	case types.Map:
		return e.encodeMap(val)
	case types.Array:
		return e.encodeArray(val)
	default:
		return errs.Encodingf("unsupported value type %T", v)
	}
	return nil
}

// EncodeSymbol 编码 Symbol
func (e *Encoder) EncodeSymbol(s types.Symbol) error {
	return e.encodeVariable(codeSymbol8, codeSymbol32, []byte(s))
}

// encodeVariable 编码变长载荷 必须选择最短长度前缀
func (e *Encoder) encodeVariable(code8, code32 byte, data []byte) error {
	switch {
	case len(data) <= math.MaxUint8:
		e.buf = append(e.buf, code8, byte(len(data)))
	case len(data) <= math.MaxUint32:
		e.buf = append(e.buf, code32)
		e.putUint32(uint32(len(data)))
	default:
		return errs.Encodingf("payload too large: %d bytes", len(data))
	}
	e.buf = append(e.buf, data...)
	return nil
}

// encodeList 编码列表 空列表单字节 0x45 其余为 count-only 布局
func (e *Encoder) encodeList(list types.List) error {
	switch {
	case len(list) == 0:
		e.buf = append(e.buf, codeList0)
		return nil
	case len(list) <= math.MaxUint8:
		e.buf = append(e.buf, codeList8, byte(len(list)))
	default:
		e.buf = append(e.buf, codeList32)
		e.putUint32(uint32(len(list)))
	}

	for _, item := range list {
		if err := e.EncodeValue(item); err != nil {
			return err
		}
	}
	return nil
}

// encodeMap 编码映射 空映射为 0xc1 0x00
func (e *Encoder) encodeMap(m types.Map) error {
	switch {
	case len(m) <= math.MaxInt8:
		e.buf = append(e.buf, codeMap8, byte(len(m)))
	default:
		e.buf = append(e.buf, codeMap32)
		e.putUint32(uint32(len(m)))
	}

	for key, value := range m {
		if err := e.EncodeSymbol(key); err != nil {
			return err
		}
		if err := e.EncodeValue(value); err != nil {
			return err
		}
	}
	return nil
}

// encodeArray 编码数组 布局为 size + count + 元素载荷
//
// size 为元素载荷的字节长度 需先编码出元素才能确定
func (e *Encoder) encodeArray(array types.Array) error {
	inner := NewEncoder()
	for _, item := range array {
		if err := inner.EncodeValue(item); err != nil {
			return err
		}
	}

	payload := inner.Finish()
	switch {
	case len(payload) <= math.MaxUint8:
		e.buf = append(e.buf, codeArray8, byte(len(payload)), byte(len(array)))
	case len(payload) <= math.MaxUint32:
		e.buf = append(e.buf, codeArray32)
		e.putUint32(uint32(len(payload)))
		e.putUint32(uint32(len(array)))
	default:
		return errs.Encodingf("array payload too large: %d bytes", len(payload))
	}
	e.buf = append(e.buf, payload...)
	return nil
}

func (e *Encoder) putUint16(v uint16) {
	e.buf = binary.BigEndian.AppendUint16(e.buf, v)
}

func (e *Encoder) putUint32(v uint32) {
	e.buf = binary.BigEndian.AppendUint32(e.buf, v)
}

func (e *Encoder) putUint64(v uint64) {
	e.buf = binary.BigEndian.AppendUint64(e.buf, v)
}
