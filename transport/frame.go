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
	"encoding/binary"

	"github.com/amqpd/amqpd/common"
	"github.com/amqpd/amqpd/errs"
)

// FrameType 帧类型
type FrameType uint8

const (
	// FrameAMQP AMQP 数据帧
	FrameAMQP FrameType = 0x00

	// FrameSASL SASL 协商帧
	FrameSASL FrameType = 0x01
)

// FrameHeader AMQP 帧头 固定 8 字节 内存布局如下:
//
// ┌────────────────────────── AMQP Frame Header ────────────────────────┐
// │ 0                   1                   2                   3       │
// │ 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1    │
// ├─────────────────────────────────────────────────────────────────────┤
// │                    Payload Size (Big-Endian)                        │
// ├───────────────┬───────────────┬─────────────────────────────────────┤
// │ Data Offset   │ Frame Type    │        Channel (Big-Endian)         │
// │ (固定为 2)     │ (0x00/0x01)  │                                     │
// └───────────────┴───────────────┴─────────────────────────────────────┘
//
// * Size (4 Bytes): Payload 字节数 不含帧头本身
//   标准 AMQP 1.0 将 size 定义为含帧头的总长度 本实现沿用
//   载荷长度语义 同族实现之间自洽 互通性差异在此记录
// * Data Offset (1 Byte): 恒为 2 保留给扩展帧头
// * Frame Type (1 Byte): 0x00 AMQP / 0x01 SASL
// * Channel (2 Bytes): 会话通道号 连接级帧固定使用 0
type FrameHeader struct {
	Size       uint32
	DataOffset uint8
	Type       uint8
	Channel    uint16
}

// NewFrameHeader 创建帧头 doff 固定为 2
func NewFrameHeader(size uint32, frameType FrameType, channel uint16) FrameHeader {
	return FrameHeader{
		Size:       size,
		DataOffset: 2,
		Type:       uint8(frameType),
		Channel:    channel,
	}
}

// Encode 编码为 8 字节
func (h FrameHeader) Encode() []byte {
	b := make([]byte, common.FrameHeaderLength)
	binary.BigEndian.PutUint32(b[0:4], h.Size)
	b[4] = h.DataOffset
	b[5] = h.Type
	binary.BigEndian.PutUint16(b[6:8], h.Channel)
	return b
}

// DecodeFrameHeader 从字节流解码帧头
func DecodeFrameHeader(b []byte) (FrameHeader, error) {
	if len(b) < common.FrameHeaderLength {
		return FrameHeader{}, errs.Decodingf("insufficient data for frame header: %d bytes", len(b))
	}

	return FrameHeader{
		Size:       binary.BigEndian.Uint32(b[0:4]),
		DataOffset: b[4],
		Type:       b[5],
		Channel:    binary.BigEndian.Uint16(b[6:8]),
	}, nil
}

// Frame 帧头加变长 Payload
type Frame struct {
	Header  FrameHeader
	Payload []byte
}

// NewFrame 以 Payload 构建帧 Size 取 Payload 长度
func NewFrame(frameType FrameType, channel uint16, payload []byte) Frame {
	return Frame{
		Header:  NewFrameHeader(uint32(len(payload)), frameType, channel),
		Payload: payload,
	}
}

// Encode 编码完整帧
func (f Frame) Encode() []byte {
	b := make([]byte, 0, common.FrameHeaderLength+len(f.Payload))
	b = append(b, f.Header.Encode()...)
	b = append(b, f.Payload...)
	return b
}

// DecodeFrame 从字节流解码完整帧
func DecodeFrame(b []byte) (Frame, error) {
	header, err := DecodeFrameHeader(b)
	if err != nil {
		return Frame{}, err
	}

	payload := b[common.FrameHeaderLength:]
	if uint32(len(payload)) < header.Size {
		return Frame{}, errs.Decodingf("truncated frame payload: need %d bytes, got %d", header.Size, len(payload))
	}
	return Frame{Header: header, Payload: payload[:header.Size]}, nil
}
