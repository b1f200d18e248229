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
	"bytes"
	"context"

	"github.com/amqpd/amqpd/common"
	"github.com/amqpd/amqpd/errs"
)

// 协议头 TCP 建连后双方各自发送 8 字节选择协议版本
//
// "AMQP" + 0x00 0x01 0x00 0x00 选择 AMQP 1.0
// "AMQP" + 0x03 0x01 0x00 0x00 选择 SASL 协商
var (
	AMQPHeader = []byte{'A', 'M', 'Q', 'P', 0x00, 0x01, 0x00, 0x00}
	SASLHeader = []byte{'A', 'M', 'Q', 'P', 0x03, 0x01, 0x00, 0x00}
)

// Negotiator 协议头协商器
//
// 双方对称交换协议头 版本不一致时终止连接
type Negotiator struct{}

// NegotiateAMQP 交换 AMQP 1.0 协议头
func (Negotiator) NegotiateAMQP(ctx context.Context, t *Transport) error {
	return negotiate(ctx, t, AMQPHeader)
}

// NegotiateSASL 交换 SASL 协议头 完整的质询应答不在此实现
func (Negotiator) NegotiateSASL(ctx context.Context, t *Transport) error {
	return negotiate(ctx, t, SASLHeader)
}

func negotiate(ctx context.Context, t *Transport, header []byte) error {
	if err := t.SendRaw(ctx, header); err != nil {
		return err
	}

	peer, err := t.ReceiveRaw(ctx, common.FrameHeaderLength)
	if err != nil {
		return err
	}

	if !bytes.Equal(peer, header) {
		return errs.Protocolf("protocol header mismatch: % x", peer)
	}
	return nil
}
