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

package link

import (
	"github.com/amqpd/amqpd/errs"
	"github.com/amqpd/amqpd/logger"
	"github.com/amqpd/amqpd/message"
	"github.com/amqpd/amqpd/types"
)

// Sender 发送端链路
//
// 维护非负的信用额度与按 delivery id 索引的待结算投递表
// delivery id 从 1 起单调分配 按分配顺序发出
type Sender struct {
	link           *Link
	credit         uint32
	pending        map[uint32]*message.Message
	nextDeliveryID uint32
}

// NewSender 创建发送端 初始信用额度为 0
func NewSender(config Config, sessionID string) *Sender {
	return &Sender{
		link:           New(config, sessionID),
		pending:        make(map[uint32]*message.Message),
		nextDeliveryID: 1,
	}
}

// Attach 挂载发送端
func (s *Sender) Attach() error {
	return s.link.Attach()
}

// Detach 卸载发送端
func (s *Sender) Detach() error {
	return s.link.Detach()
}

// Send 发送消息 返回 delivery id
//
// 要求已挂载且信用额度 ≥ 1 发送消耗一个信用额度
// 信用不足时返回 link 类错误 错误本身不携带 Condition
// 完整实现会在此序列化消息并在所属会话通道上发出 Transfer 帧
func (s *Sender) Send(msg *message.Message) (uint32, error) {
	settled := s.link.config.SenderSettleMode == types.SenderSettled
	return s.send(msg, settled)
}

// SendSettled 指定本次投递是否即时结算 仅 Mixed 模式允许逐次选择
func (s *Sender) SendSettled(msg *message.Message, settled bool) (uint32, error) {
	if s.link.config.SenderSettleMode != types.SenderMixed {
		return 0, errs.InvalidStatef("per-delivery settlement requires mixed mode")
	}
	return s.send(msg, settled)
}

func (s *Sender) send(msg *message.Message, settled bool) (uint32, error) {
	if s.link.State() != StateAttached {
		return 0, errs.InvalidStatef("sender is not attached: %s", s.link.State())
	}

	if s.credit == 0 {
		return 0, errs.Linkf("no credit available")
	}

	deliveryID := s.nextDeliveryID
	s.nextDeliveryID++

	// 即时结算的投递不保留状态 否则挂起等待对端 Disposition
	if !settled {
		s.pending[deliveryID] = msg
	}
	s.credit--

	logger.Debugf("sender %s sending message with delivery id: %d", s.link.ID(), deliveryID)
	return deliveryID, nil
}

// Settle 结算指定投递 对应对端 Disposition 的到达
func (s *Sender) Settle(deliveryID uint32) error {
	if _, ok := s.pending[deliveryID]; !ok {
		return errs.Linkf("unknown delivery id: %d", deliveryID)
	}
	delete(s.pending, deliveryID)
	return nil
}

// AddCredit 增加信用额度 完整实现中由对端 Flow 帧授予
func (s *Sender) AddCredit(n uint32) {
	s.credit += n
}

// Credit 当前信用额度
func (s *Sender) Credit() uint32 {
	return s.credit
}

// PendingDeliveries 待结算的投递数
func (s *Sender) PendingDeliveries() int {
	return len(s.pending)
}

func (s *Sender) State() State {
	return s.link.State()
}

// Link 底层链路 会话以此注册链路的生命周期
func (s *Sender) Link() *Link {
	return s.link
}

func (s *Sender) ID() string {
	return s.link.ID()
}

func (s *Sender) Name() string {
	return s.link.Name()
}
