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

package bufpool

import (
	"github.com/valyala/bytebufferpool"
)

// Buffer 池化的字节缓冲 仅在 Acquire/Release 周期内有效
type Buffer = bytebufferpool.ByteBuffer

// Acquire 从池中获取一个空 Buffer
func Acquire() *Buffer {
	return bytebufferpool.Get()
}

// Release 归还 Buffer 归还后不允许再持有其字节切片
func Release(buf *Buffer) {
	bytebufferpool.Put(buf)
}
