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

// Package session 实现 AMQP 1.0 会话层
//
// Session 限定在连接的单个通道号上 会话持有其创建的链路
// handle 在会话内从 0 起单调分配
package session

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/amqpd/amqpd/errs"
	"github.com/amqpd/amqpd/link"
	"github.com/amqpd/amqpd/logger"
	"github.com/amqpd/amqpd/types"
)

// State 会话状态
type State uint8

const (
	// StateEnded 初始与终止状态
	StateEnded State = iota

	// StateBeginning 建立中
	StateBeginning

	// StateActive 活跃 可创建链路
	StateActive

	// StateEnding 结束中
	StateEnding

	// StateError 错误状态
	StateError
)

func (s State) String() string {
	switch s {
	case StateEnded:
		return "ended"
	case StateBeginning:
		return "beginning"
	case StateActive:
		return "active"
	case StateEnding:
		return "ending"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Config 会话配置
type Config struct {
	Name           string
	IncomingWindow uint32
	OutgoingWindow uint32
	NextOutgoingID uint32
	Properties     map[string]types.Value
}

// DefaultConfig 默认会话配置 窗口大小均为 100
func DefaultConfig() Config {
	return Config{
		IncomingWindow: 100,
		OutgoingWindow: 100,
		NextOutgoingID: 0,
		Properties:     make(map[string]types.Value),
	}
}

// Session AMQP 1.0 会话
type Session struct {
	config       Config
	state        State
	errReason    string
	id           string
	connectionID string
	channel      uint16
	links        map[uint32]*link.Link
	nextHandle   uint32
}

// New 创建会话 初始为 Ended
func New(channel uint16, connectionID string) *Session {
	return NewWithConfig(DefaultConfig(), channel, connectionID)
}

// NewWithConfig 以指定配置创建会话
func NewWithConfig(config Config, channel uint16, connectionID string) *Session {
	return &Session{
		config:       config,
		state:        StateEnded,
		id:           fmt.Sprintf("%s-session-%d", connectionID, channel),
		connectionID: connectionID,
		channel:      channel,
		links:        make(map[uint32]*link.Link),
	}
}

// Begin 建立会话 仅允许从 Ended 发起
//
// 状态迁移不涉及 IO 完整实现会在通道上发送 Begin performative
func (s *Session) Begin() error {
	if s.state != StateEnded {
		return errs.InvalidStatef("session is not ended: %s", s.state)
	}

	s.state = StateBeginning
	s.state = StateActive

	logger.Debugf("session %s began on channel %d", s.id, s.channel)
	return nil
}

// End 结束会话 仅允许从 Active 发起
//
// 先卸载所有归属链路 单个链路的失败会聚合上抛 但不中断
// 其余链路的卸载 完整实现会在此发送 End performative
func (s *Session) End() error {
	if s.state != StateActive {
		return errs.InvalidStatef("session is not active: %s", s.state)
	}

	s.state = StateEnding

	var merr *multierror.Error
	for handle, l := range s.links {
		if l.State() != link.StateAttached {
			continue
		}
		if err := l.Detach(); err != nil {
			merr = multierror.Append(merr, errs.Wrapf(errs.KindLink, err, "detach link %d failed", handle))
		}
	}
	s.links = make(map[uint32]*link.Link)

	s.state = StateEnded

	logger.Debugf("session %s ended", s.id)
	if merr != nil {
		return errs.Wrap(errs.KindSession, merr.ErrorOrNil(), "end session failed")
	}
	return nil
}

// Fail 将会话置为错误状态
func (s *Session) Fail(reason string) {
	s.state = StateError
	s.errReason = reason
}

// CreateSender 创建发送端链路 仅允许在 Active 状态调用
//
// 注册的是发送端持有的同一个 Link 实例 会话结束时的级联卸载
// 对调用方持有的发送端可见
func (s *Session) CreateSender(config link.Config) (*link.Sender, error) {
	if s.state != StateActive {
		return nil, errs.InvalidStatef("session is not active: %s", s.state)
	}

	handle := s.allocHandle()
	sender := link.NewSender(config, s.id)
	sender.Link().SetHandle(handle)
	s.links[handle] = sender.Link()

	return sender, nil
}

// CreateReceiver 创建接收端链路 仅允许在 Active 状态调用
//
// 与 CreateSender 相同 注册接收端持有的同一个 Link 实例
func (s *Session) CreateReceiver(config link.Config) (*link.Receiver, error) {
	if s.state != StateActive {
		return nil, errs.InvalidStatef("session is not active: %s", s.state)
	}

	handle := s.allocHandle()
	receiver := link.NewReceiver(config, s.id)
	receiver.Link().SetHandle(handle)
	s.links[handle] = receiver.Link()

	return receiver, nil
}

// allocHandle 分配 handle 从 0 起单调递增
func (s *Session) allocHandle() uint32 {
	handle := s.nextHandle
	s.nextHandle++
	return handle
}

func (s *Session) State() State {
	return s.state
}

// ErrorReason 错误状态下的原因描述
func (s *Session) ErrorReason() string {
	return s.errReason
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) ConnectionID() string {
	return s.connectionID
}

func (s *Session) Channel() uint16 {
	return s.channel
}

func (s *Session) IncomingWindow() uint32 {
	return s.config.IncomingWindow
}

func (s *Session) OutgoingWindow() uint32 {
	return s.config.OutgoingWindow
}

func (s *Session) SetIncomingWindow(size uint32) {
	s.config.IncomingWindow = size
}

func (s *Session) SetOutgoingWindow(size uint32) {
	s.config.OutgoingWindow = size
}

func (s *Session) LinkCount() int {
	return len(s.links)
}

// NextHandle 下一个将被分配的 handle
func (s *Session) NextHandle() uint32 {
	return s.nextHandle
}
