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

// Plain 将 Value 展开为原生 Go 值
//
// 用于日志输出 JSON 序列化以及 mapstructure 解码等场景
// Decimal 系列保持不透明比特位原样返回
func Plain(v Value) any {
	switch val := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(val)
	case Ubyte:
		return uint8(val)
	case Ushort:
		return uint16(val)
	case Uint:
		return uint32(val)
	case Ulong:
		return uint64(val)
	case Byte:
		return int8(val)
	case Short:
		return int16(val)
	case Int:
		return int32(val)
	case Long:
		return int64(val)
	case Float:
		return float32(val)
	case Double:
		return float64(val)
	case Decimal32:
		return uint32(val)
	case Decimal64:
		return uint64(val)
	case Decimal128:
		return val[:]
	case Char:
		return rune(val)
	case Timestamp:
		return int64(val)
	case UUID:
		return val.String()
	case Binary:
		return []byte(val)
	case String:
		return string(val)
	case Symbol:
		return string(val)
	case List:
		return plainSlice(val)
	case Array:
		return plainSlice(val)
	case Map:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[string(k)] = Plain(item)
		}
		return m
	}
	return nil
}

func plainSlice(vals []Value) []any {
	lst := make([]any, 0, len(vals))
	for _, item := range vals {
		lst = append(lst, Plain(item))
	}
	return lst
}

// PlainMap 将 Map 展开为 map[string]any
func PlainMap(m Map) map[string]any {
	if m == nil {
		return nil
	}
	return Plain(m).(map[string]any)
}
