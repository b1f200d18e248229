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
	"github.com/amqpd/amqpd/message"
)

// Receiver 接收端链路
//
// 维护信用额度 投递计数与已到达消息的 FIFO 队列
type Receiver struct {
	link          *Link
	credit        uint32
	queue         []*message.Message
	deliveryCount uint32
}

// NewReceiver 创建接收端 初始信用额度为 0
func NewReceiver(config Config, sessionID string) *Receiver {
	return &Receiver{
		link: New(config, sessionID),
	}
}

// Attach 挂载接收端
func (r *Receiver) Attach() error {
	return r.link.Attach()
}

// Detach 卸载接收端
func (r *Receiver) Detach() error {
	return r.link.Detach()
}

// Receive 取出队首消息 无消息时返回 nil
//
// 每消费一条消息 delivery count 恰好加一
// 完整实现会在此等待 Transfer 帧
func (r *Receiver) Receive() (*message.Message, error) {
	if r.link.State() != StateAttached {
		return nil, errs.InvalidStatef("receiver is not attached: %s", r.link.State())
	}

	if len(r.queue) == 0 {
		return nil, nil
	}

	msg := r.queue[0]
	r.queue = r.queue[1:]
	r.deliveryCount++
	return msg, nil
}

// AddCredit 增加信用额度 完整实现中会随之发出 Flow 帧
func (r *Receiver) AddCredit(n uint32) {
	r.credit += n
}

// Credit 当前信用额度
func (r *Receiver) Credit() uint32 {
	return r.credit
}

// DeliveryCount 已消费的投递数
func (r *Receiver) DeliveryCount() uint32 {
	return r.deliveryCount
}

// Queued 队列中尚未消费的消息数
func (r *Receiver) Queued() int {
	return len(r.queue)
}

func (r *Receiver) State() State {
	return r.link.State()
}

// Link 底层链路 会话以此注册链路的生命周期
func (r *Receiver) Link() *Link {
	return r.link
}

func (r *Receiver) ID() string {
	return r.link.ID()
}

func (r *Receiver) Name() string {
	return r.link.Name()
}

// SimulateReceive 将消息入队 供测试与本地回环场景使用
func (r *Receiver) SimulateReceive(msg *message.Message) {
	r.queue = append(r.queue, msg)
}
