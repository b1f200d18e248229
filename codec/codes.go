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

// AMQP 1.0 类型码 每个值编码为 1 字节类型码 + 载荷
//
// 载荷长度由类型码固定 或由长度前缀推导
const (
	// codeDescribed 描述符前缀 用于消息 Section 的标记
	codeDescribed = 0x00

	codeNull = 0x40

	codeBoolTrue  = 0x41
	codeBoolFalse = 0x42
	codeBool      = 0x56

	codeUbyte  = 0x50
	codeUshort = 0x60
	codeUint   = 0x70
	codeUlong  = 0x80

	codeByte  = 0x51
	codeShort = 0x61
	codeInt   = 0x71
	codeLong  = 0x81

	codeFloat  = 0x72
	codeDouble = 0x82

	codeDecimal32  = 0x74
	codeDecimal64  = 0x84
	codeDecimal128 = 0x94

	codeChar      = 0x73
	codeTimestamp = 0x83
	codeUUID      = 0x98

	codeBinary8  = 0xa0
	codeBinary32 = 0xb0

	codeString8  = 0xa1
	codeString32 = 0xb1

	codeSymbol8  = 0xa3
	codeSymbol32 = 0xb3

	codeList0  = 0x45
	codeList8  = 0xc0
	codeList32 = 0xd0

	codeMap8  = 0xc1
	codeMap32 = 0xd1

	codeArray8  = 0xe0
	codeArray32 = 0xf0
)
