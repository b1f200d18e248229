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

package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameHeaderEncodeDecode(t *testing.T) {
	header := NewFrameHeader(128, FrameAMQP, 5)
	assert.Equal(t, uint8(2), header.DataOffset)

	b := header.Encode()
	require.Equal(t, 8, len(b))
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x80, 0x02, 0x00, 0x00, 0x05}, b)

	got, err := DecodeFrameHeader(b)
	require.NoError(t, err)
	assert.Equal(t, header, got)
}

func TestFrameHeaderDecodeShort(t *testing.T) {
	_, err := DecodeFrameHeader([]byte{0x00, 0x01})
	require.Error(t, err)
}

func TestFrameEncodeDecode(t *testing.T) {
	payload := []byte{0xde, 0xad, 0xbe, 0xef}
	frame := NewFrame(FrameSASL, 3, payload)

	// Size 为 Payload 字节数 不含 8 字节帧头
	assert.Equal(t, uint32(4), frame.Header.Size)
	assert.Equal(t, uint8(FrameSASL), frame.Header.Type)

	b := frame.Encode()
	require.Equal(t, 12, len(b))

	got, err := DecodeFrame(b)
	require.NoError(t, err)
	assert.Equal(t, frame.Header, got.Header)
	assert.Equal(t, payload, got.Payload)
}

func TestFrameDecodeTruncated(t *testing.T) {
	frame := NewFrame(FrameAMQP, 0, []byte{1, 2, 3, 4})
	b := frame.Encode()

	_, err := DecodeFrame(b[:10])
	require.Error(t, err)
}
