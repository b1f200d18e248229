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

// Package connection 实现 AMQP 1.0 连接层
//
// Connection 独占持有 TCP 流与通道号分配器 按通道号持有会话
// 同一 Connection 不允许被多任务并发访问 跨任务需由调用方串行化
package connection

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/amqpd/amqpd/codec"
	"github.com/amqpd/amqpd/common"
	"github.com/amqpd/amqpd/errs"
	"github.com/amqpd/amqpd/logger"
	"github.com/amqpd/amqpd/session"
	"github.com/amqpd/amqpd/transport"
	"github.com/amqpd/amqpd/types"
)

// State 连接状态
type State uint8

const (
	// StateClosed 初始与终止状态
	StateClosed State = iota

	// StateOpening 建立中
	StateOpening

	// StateOpen 已打开 可创建会话
	StateOpen

	// StateClosing 关闭中
	StateClosing

	// StateError 错误状态
	StateError
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Config 连接配置
type Config struct {
	Hostname     string        `config:"hostname"`
	Port         uint16        `config:"port"`
	Timeout      time.Duration `config:"timeout"`
	MaxFrameSize uint32        `config:"maxFrameSize"`
	ChannelMax   uint16        `config:"channelMax"`
	IdleTimeout  time.Duration `config:"idleTimeout"`
	ContainerID  string        `config:"containerId"`
	Properties   map[string]types.Value
}

// DefaultConfig 默认连接配置
func DefaultConfig() Config {
	return Config{
		Hostname:     common.DefaultHostname,
		Port:         common.DefaultPort,
		Timeout:      30 * time.Second,
		MaxFrameSize: 65536,
		ChannelMax:   1000,
		IdleTimeout:  0,
		ContainerID:  common.App + "-client",
		Properties:   make(map[string]types.Value),
	}
}

// ConfigFromOptions 从松散的 Options 构建配置 未给出的项取默认值
func ConfigFromOptions(opts common.Options) (Config, error) {
	config := DefaultConfig()

	fields := []struct {
		key   string
		apply func() error
	}{
		{"hostname", func() (err error) { config.Hostname, err = opts.GetString("hostname"); return }},
		{"port", func() (err error) { config.Port, err = opts.GetUint16("port"); return }},
		{"timeout", func() (err error) { config.Timeout, err = opts.GetDuration("timeout"); return }},
		{"maxFrameSize", func() (err error) { config.MaxFrameSize, err = opts.GetUint32("maxFrameSize"); return }},
		{"channelMax", func() (err error) { config.ChannelMax, err = opts.GetUint16("channelMax"); return }},
		{"idleTimeout", func() (err error) { config.IdleTimeout, err = opts.GetDuration("idleTimeout"); return }},
		{"containerId", func() (err error) { config.ContainerID, err = opts.GetString("containerId"); return }},
	}

	for _, f := range fields {
		if !opts.Has(f.key) {
			continue
		}
		if err := f.apply(); err != nil {
			return config, errs.Wrapf(errs.KindConnection, err, "invalid option %q", f.key)
		}
	}
	return config, nil
}

// Connection AMQP 1.0 连接
type Connection struct {
	state       State
	errReason   string
	config      Config
	transport   *transport.Transport
	id          string
	nextChannel uint16
	sessions    map[uint16]*session.Session
}

// New 创建连接 初始为 Closed
func New(config Config) *Connection {
	return &Connection{
		state:    StateClosed,
		config:   config,
		id:       uuid.New().String(),
		sessions: make(map[uint16]*session.Session),
	}
}

// Open 打开连接 仅允许从 Closed 发起
//
// 依次完成 TCP 建连 协议头发送与 Open performative 发送
// 建连超时映射至 timeout 错误 其余失败映射至 connection 错误
// 打开失败时连接回到 Closed
func (c *Connection) Open(ctx context.Context) error {
	if c.state != StateClosed {
		return errs.InvalidStatef("connection is not closed: %s", c.state)
	}

	c.state = StateOpening

	t, err := transport.NewBuilder().
		Hostname(c.config.Hostname).
		Port(c.config.Port).
		Timeout(c.config.Timeout).
		Connect(ctx)
	if err != nil {
		c.state = StateClosed
		return err
	}
	c.transport = t

	if err := c.sendProtocolHeader(ctx); err != nil {
		c.abort()
		return err
	}
	if err := c.sendOpen(ctx); err != nil {
		c.abort()
		return err
	}

	c.state = StateOpen
	logger.Debugf("connection %s opened to %s:%d", c.id, c.config.Hostname, c.config.Port)
	return nil
}

// abort 打开半途失败时回收流并回到 Closed
func (c *Connection) abort() {
	if c.transport != nil {
		_ = c.transport.Shutdown()
		c.transport = nil
	}
	c.state = StateClosed
}

// Close 关闭连接 仅允许从 Open 发起
//
// 先结束所有会话 单个会话的失败不会中断关闭流程 仅聚合记录
// 随后发送 Close performative 并关闭 TCP 流
func (c *Connection) Close(ctx context.Context) error {
	if c.state != StateOpen {
		return errs.InvalidStatef("connection is not open: %s", c.state)
	}

	c.state = StateClosing

	var merr *multierror.Error
	for channel, s := range c.sessions {
		if s.State() != session.StateActive {
			continue
		}
		if err := s.End(); err != nil {
			merr = multierror.Append(merr, errs.Wrapf(errs.KindSession, err, "end session on channel %d failed", channel))
		}
	}
	c.sessions = make(map[uint16]*session.Session)

	if err := c.sendClose(ctx); err != nil {
		merr = multierror.Append(merr, err)
	}

	if c.transport != nil {
		if err := c.transport.Shutdown(); err != nil {
			merr = multierror.Append(merr, err)
		}
		c.transport = nil
	}

	c.state = StateClosed

	logger.Debugf("connection %s closed", c.id)
	if merr != nil {
		return errs.Wrap(errs.KindConnection, merr.ErrorOrNil(), "close connection failed")
	}
	return nil
}

// CreateSession 在下一个通道号上创建会话 仅允许在 Open 状态调用
func (c *Connection) CreateSession() (*session.Session, error) {
	if c.state != StateOpen {
		return nil, errs.InvalidStatef("connection is not open: %s", c.state)
	}

	channel := c.NextChannel()
	s := session.New(channel, c.id)
	c.sessions[channel] = s
	return s, nil
}

// NextChannel 分配通道号 单调递增 溢出后回绕
//
// 通道 0 由调用方保留给连接级帧 Open/Close
func (c *Connection) NextChannel() uint16 {
	channel := c.nextChannel
	c.nextChannel++
	return channel
}

// Fail 将连接置为错误状态
func (c *Connection) Fail(reason string) {
	c.state = StateError
	c.errReason = reason
}

func (c *Connection) State() State {
	return c.state
}

// ErrorReason 错误状态下的原因描述
func (c *Connection) ErrorReason() string {
	return c.errReason
}

func (c *Connection) ID() string {
	return c.id
}

func (c *Connection) Config() Config {
	return c.config
}

// SessionCount 当前持有的会话数
func (c *Connection) SessionCount() int {
	return len(c.sessions)
}

func (c *Connection) sendProtocolHeader(ctx context.Context) error {
	return c.transport.SendRaw(ctx, transport.AMQPHeader)
}

// sendOpen 发送 Open performative 在通道 0 上成帧
//
// 依次编码 container-id / hostname / max-frame-size / channel-max /
// idle-timeout / properties / offered capabilities / desired capabilities
func (c *Connection) sendOpen(ctx context.Context) error {
	payload, err := EncodeOpen(c.config)
	if err != nil {
		return err
	}
	return c.transport.SendFrame(ctx, transport.NewFrame(transport.FrameAMQP, 0, payload))
}

// sendClose 发送 Close performative 在通道 0 上成帧
func (c *Connection) sendClose(ctx context.Context) error {
	payload, err := EncodeClose()
	if err != nil {
		return err
	}
	return c.transport.SendFrame(ctx, transport.NewFrame(transport.FrameAMQP, 0, payload))
}

// EncodeOpen 编码 Open performative 的载荷
func EncodeOpen(config Config) ([]byte, error) {
	properties := types.Map{}
	for key, value := range config.Properties {
		properties[types.Sym(key)] = value
	}

	enc := codec.NewEncoder()
	values := []types.Value{
		types.String(config.ContainerID),
		types.String(config.Hostname),
		types.Uint(config.MaxFrameSize),
		types.Ushort(config.ChannelMax),
		types.Uint(config.IdleTimeout.Milliseconds()),
		properties,
		types.List{}, // offered capabilities
		types.List{}, // desired capabilities
	}
	for _, v := range values {
		if err := enc.EncodeValue(v); err != nil {
			return nil, err
		}
	}
	return enc.Finish(), nil
}

// EncodeClose 编码 Close performative 的载荷 条件与描述均为空
func EncodeClose() ([]byte, error) {
	enc := codec.NewEncoder()
	values := []types.Value{
		types.String(""), // error condition
		types.String(""), // error description
	}
	for _, v := range values {
		if err := enc.EncodeValue(v); err != nil {
			return nil, err
		}
	}
	return enc.Finish(), nil
}
