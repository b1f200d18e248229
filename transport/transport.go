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

// Package transport 实现帧导向的可靠字节流传输
//
// Transport 独占持有底层 TCP 连接 上层 Connection 独占持有 Transport
// 除所有权之外不引入任何锁机制 调用方需自行串行化访问
package transport

import (
	"context"
	"io"
	"net"
	"time"

	"github.com/amqpd/amqpd/common"
	"github.com/amqpd/amqpd/errs"
	"github.com/amqpd/amqpd/internal/bufpool"
)

// Transport 帧传输层
type Transport struct {
	conn net.Conn
}

// New 基于已建立的连接创建 Transport
func New(conn net.Conn) *Transport {
	return &Transport{conn: conn}
}

// applyDeadline 将 ctx 的截止时间映射到连接读写 deadline
func (t *Transport) applyDeadline(ctx context.Context) error {
	deadline, ok := ctx.Deadline()
	if !ok {
		return t.conn.SetDeadline(time.Time{})
	}
	return t.conn.SetDeadline(deadline)
}

// SendFrame 写入帧头与 Payload 并落盘至内核缓冲
func (t *Transport) SendFrame(ctx context.Context, frame Frame) error {
	if err := t.applyDeadline(ctx); err != nil {
		return errs.Wrap(errs.KindTransport, err, "set deadline failed")
	}

	buf := bufpool.Acquire()
	defer bufpool.Release(buf)

	buf.Write(frame.Header.Encode())
	buf.Write(frame.Payload)
	if _, err := t.conn.Write(buf.B); err != nil {
		return errs.Wrap(errs.KindTransport, err, "write frame failed")
	}

	framesSentTotal.Inc()
	bytesSentTotal.Add(float64(buf.Len()))
	return nil
}

// ReceiveFrame 读取恰好 8 字节帧头 再按 Size 读取 Payload
//
// 短读视为致命错误
func (t *Transport) ReceiveFrame(ctx context.Context) (Frame, error) {
	if err := t.applyDeadline(ctx); err != nil {
		return Frame{}, errs.Wrap(errs.KindTransport, err, "set deadline failed")
	}

	head := make([]byte, common.FrameHeaderLength)
	if _, err := io.ReadFull(t.conn, head); err != nil {
		return Frame{}, errs.Wrap(errs.KindTransport, err, "read frame header failed")
	}

	header, err := DecodeFrameHeader(head)
	if err != nil {
		return Frame{}, err
	}

	payload := make([]byte, header.Size)
	if _, err := io.ReadFull(t.conn, payload); err != nil {
		return Frame{}, errs.Wrap(errs.KindTransport, err, "read frame payload failed")
	}

	framesReceivedTotal.Inc()
	bytesReceivedTotal.Add(float64(common.FrameHeaderLength + len(payload)))
	return Frame{Header: header, Payload: payload}, nil
}

// SendRaw 绕过帧结构直接写入 用于协议头交换
func (t *Transport) SendRaw(ctx context.Context, data []byte) error {
	if err := t.applyDeadline(ctx); err != nil {
		return errs.Wrap(errs.KindTransport, err, "set deadline failed")
	}

	if _, err := t.conn.Write(data); err != nil {
		return errs.Wrap(errs.KindTransport, err, "write raw data failed")
	}

	bytesSentTotal.Add(float64(len(data)))
	return nil
}

// ReceiveRaw 绕过帧结构读取恰好 n 字节
func (t *Transport) ReceiveRaw(ctx context.Context, n int) ([]byte, error) {
	if err := t.applyDeadline(ctx); err != nil {
		return nil, errs.Wrap(errs.KindTransport, err, "set deadline failed")
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(t.conn, buf); err != nil {
		return nil, errs.Wrap(errs.KindTransport, err, "read raw data failed")
	}

	bytesReceivedTotal.Add(float64(n))
	return buf, nil
}

// Shutdown 关闭底层连接 之后的任何读写均返回 transport 错误
func (t *Transport) Shutdown() error {
	if err := t.conn.Close(); err != nil {
		return errs.Wrap(errs.KindTransport, err, "shutdown stream failed")
	}
	return nil
}
