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

// Package link 实现 AMQP 1.0 链路层
//
// Link 是会话内的单向消息流 Sender 与 Receiver 以信用额度做流控
// 链路归属于会话 向上仅持有会话的标识字符串 不持有引用
package link

import (
	"fmt"

	"github.com/amqpd/amqpd/errs"
	"github.com/amqpd/amqpd/types"
)

// State 链路状态
type State uint8

const (
	// StateDetached 初始与终止状态
	StateDetached State = iota

	// StateAttaching 挂载中
	StateAttaching

	// StateAttached 已挂载 可收发消息
	StateAttached

	// StateDetaching 卸载中
	StateDetaching

	// StateError 错误状态 原因见 Link.ErrorReason
	StateError
)

func (s State) String() string {
	switch s {
	case StateDetached:
		return "detached"
	case StateAttaching:
		return "attaching"
	case StateAttached:
		return "attached"
	case StateDetaching:
		return "detaching"
	case StateError:
		return "error"
	}
	return "unknown"
}

// TerminusConfig 链路终端配置 即 Source / Target 的选项
type TerminusConfig struct {
	Durability   types.TerminusDurability
	ExpiryPolicy types.TerminusExpiryPolicy
	Timeout      uint32
	Properties   map[string]types.Value
}

// Config 链路配置
type Config struct {
	// Name 链路名称 会话内唯一
	Name string

	// Source / Target 地址
	Source string
	Target string

	SenderSettleMode   types.SenderSettleMode
	ReceiverSettleMode types.ReceiverSettleMode

	SourceConfig TerminusConfig
	TargetConfig TerminusConfig

	Properties map[string]types.Value
}

// Link 链路基础结构 状态机为
// Detached -> Attaching -> Attached -> Detaching -> Detached
type Link struct {
	config    Config
	state     State
	errReason string
	id        string
	sessionID string
	handle    uint32
}

// New 创建链路 初始为 Detached
func New(config Config, sessionID string) *Link {
	return &Link{
		id:        fmt.Sprintf("%s-link-%s", sessionID, config.Name),
		config:    config,
		state:     StateDetached,
		sessionID: sessionID,
	}
}

// Attach 挂载链路 仅允许从 Detached 发起
//
// 状态迁移不涉及 IO 完整实现会在此发送 Attach performative
func (l *Link) Attach() error {
	if l.state != StateDetached {
		return errs.InvalidStatef("link is not detached: %s", l.state)
	}

	l.state = StateAttaching
	l.state = StateAttached
	return nil
}

// Detach 卸载链路 仅允许从 Attached 发起
func (l *Link) Detach() error {
	if l.state != StateAttached {
		return errs.InvalidStatef("link is not attached: %s", l.state)
	}

	l.state = StateDetaching
	l.state = StateDetached
	return nil
}

// Fail 将链路置为错误状态
func (l *Link) Fail(reason string) {
	l.state = StateError
	l.errReason = reason
}

func (l *Link) State() State {
	return l.state
}

// ErrorReason 错误状态下的原因描述
func (l *Link) ErrorReason() string {
	return l.errReason
}

func (l *Link) ID() string {
	return l.id
}

func (l *Link) Name() string {
	return l.config.Name
}

func (l *Link) SessionID() string {
	return l.sessionID
}

func (l *Link) Handle() uint32 {
	return l.handle
}

// SetHandle 绑定会话分配的 handle
func (l *Link) SetHandle(handle uint32) {
	l.handle = handle
}

func (l *Link) Config() Config {
	return l.config
}
