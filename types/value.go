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

package types

import (
	"bytes"

	"github.com/google/uuid"
)

// Value AMQP 1.0 值类型 为一个封闭的和类型
//
// AMQP 1.0 类型系统由规范固定 共 24 种变体 新增类型意味着扩展
// 此接口以及 codec 的分发逻辑 实现集合:
//
//   - Null / Bool
//   - Ubyte / Ushort / Uint / Ulong
//   - Byte / Short / Int / Long
//   - Float / Double
//   - Decimal32 / Decimal64 / Decimal128
//   - Char / Timestamp / UUID
//   - Binary / String / Symbol
//   - List / Map / Array
type Value interface {
	isValue()
}

// Null 无载荷的空值
type Null struct{}

// Bool 布尔值
type Bool bool

// Ubyte 8 位无符号整数
type Ubyte uint8

// Ushort 16 位无符号整数
type Ushort uint16

// Uint 32 位无符号整数
type Uint uint32

// Ulong 64 位无符号整数
type Ulong uint64

// Byte 8 位有符号整数
type Byte int8

// Short 16 位有符号整数
type Short int16

// Int 32 位有符号整数
type Int int32

// Long 64 位有符号整数
type Long int64

// Float IEEE-754 单精度浮点 比特位保持原样 不做 NaN 规范化
type Float float32

// Double IEEE-754 双精度浮点 比特位保持原样
type Double float64

// Decimal32 32 位十进制数 载荷为不透明比特位 不承载运算语义
type Decimal32 uint32

// Decimal64 64 位十进制数 载荷为不透明比特位
type Decimal64 uint64

// Decimal128 128 位十进制数 网络字节序的不透明比特位
type Decimal128 [16]byte

// Char 32 位 Unicode 标量 非法标量在解码时报错
type Char rune

// Timestamp 自 Unix epoch 起的毫秒数 有符号 64 位
type Timestamp int64

// UUID 16 字节 网络字节序
type UUID uuid.UUID

// Binary 变长二进制数据
type Binary []byte

// String 变长 UTF-8 字符串 解码时校验编码合法性
type String string

// Symbol ASCII 标识符 约定而非强制 用于在线路上反复出现的名字
type Symbol string

// List 有序的值列表
type List []Value

// Map Symbol 到 Value 的映射 插入顺序无关
type Map map[Symbol]Value

// Array 同构数组 所有元素共享同一个类型码
type Array []Value

func (Null) isValue()       {}
func (Bool) isValue()       {}
func (Ubyte) isValue()      {}
func (Ushort) isValue()     {}
func (Uint) isValue()       {}
func (Ulong) isValue()      {}
func (Byte) isValue()       {}
func (Short) isValue()      {}
func (Int) isValue()        {}
func (Long) isValue()       {}
func (Float) isValue()      {}
func (Double) isValue()     {}
func (Decimal32) isValue()  {}
func (Decimal64) isValue()  {}
func (Decimal128) isValue() {}
func (Char) isValue()       {}
func (Timestamp) isValue()  {}
func (UUID) isValue()       {}
func (Binary) isValue()     {}
func (String) isValue()     {}
func (Symbol) isValue()     {}
func (List) isValue()       {}
func (Map) isValue()        {}
func (Array) isValue()      {}

// Sym 构建 Symbol
func Sym(s string) Symbol {
	return Symbol(s)
}

func (s Symbol) String() string {
	return string(s)
}

func (u UUID) String() string {
	return uuid.UUID(u).String()
}

// Equal 判断两个 Value 是否相等
//
// Map 比较与顺序无关 List/Array 逐元素比较
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Binary:
		bv, ok := b.(Binary)
		return ok && bytes.Equal(av, bv)
	case List:
		bv, ok := b.(List)
		return ok && equalValues(av, bv)
	case Array:
		bv, ok := b.(Array)
		return ok && equalValues(av, bv)
	case Map:
		bv, ok := b.(Map)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			other, ok := bv[k]
			if !ok || !Equal(v, other) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

func equalValues(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
