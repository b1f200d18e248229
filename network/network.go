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

// Package network 实现带保活与消息收发的网络连接
//
// NetworkConnection 在 Connection 的基础上补充保活任务 空闲检测
// 与消息级别的 Send/Receive 状态机为
// Disconnected -> Connecting -> Connected -> Ready -> Closing -> Closed
// 错误状态可从任意非终止状态进入
package network

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/amqpd/amqpd/codec"
	"github.com/amqpd/amqpd/common"
	"github.com/amqpd/amqpd/connection"
	"github.com/amqpd/amqpd/errs"
	"github.com/amqpd/amqpd/internal/rescue"
	"github.com/amqpd/amqpd/logger"
	"github.com/amqpd/amqpd/message"
	"github.com/amqpd/amqpd/transport"
	"github.com/amqpd/amqpd/types"
)

// State 网络连接状态
type State uint8

const (
	// StateDisconnected 初始状态
	StateDisconnected State = iota

	// StateConnecting TCP 建连中
	StateConnecting

	// StateConnected TCP 已建立 协议尚未协商
	StateConnected

	// StateReady 协议协商完成 可收发帧
	StateReady

	// StateClosing 关闭中
	StateClosing

	// StateClosed 终止状态
	StateClosed

	// StateError 错误状态
	StateError
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReady:
		return "ready"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Config 网络连接配置 较 connection.Config 多出保活间隔
type Config struct {
	Hostname     string        `config:"hostname"`
	Port         uint16        `config:"port"`
	Timeout      time.Duration `config:"timeout"`
	KeepAlive    time.Duration `config:"keepAlive"`
	MaxFrameSize uint32        `config:"maxFrameSize"`
	ChannelMax   uint16        `config:"channelMax"`
	IdleTimeout  time.Duration `config:"idleTimeout"`
	ContainerID  string        `config:"containerId"`
	Properties   map[string]types.Value
}

// DefaultConfig 默认网络连接配置
func DefaultConfig() Config {
	return Config{
		Hostname:     common.DefaultHostname,
		Port:         common.DefaultPort,
		Timeout:      30 * time.Second,
		KeepAlive:    30 * time.Second,
		MaxFrameSize: 65536,
		ChannelMax:   1000,
		IdleTimeout:  time.Minute,
		ContainerID:  fmt.Sprintf("%s-%s", common.App, uuid.New().String()[:8]),
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
		{"keepAlive", func() (err error) { config.KeepAlive, err = opts.GetDuration("keepAlive"); return }},
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

// NetworkConnection AMQP 1.0 网络连接
type NetworkConnection struct {
	state       State
	errReason   string
	config      Config
	transport   *transport.Transport
	id          string
	nextChannel uint16

	// lastActivity 最近一次收发的纳秒时间戳 保活任务会并发读取
	//
	// 单独分配 保活协程仅持有此指针而不持有 NetworkConnection
	// 否则 finalizer 永远不会触发
	lastActivity *atomic.Int64

	keepAliveCancel context.CancelFunc
}

// New 创建网络连接 初始为 Disconnected
func New(config Config) *NetworkConnection {
	nc := &NetworkConnection{
		state:        StateDisconnected,
		config:       config,
		id:           fmt.Sprintf("conn-%s", uuid.New().String()[:8]),
		lastActivity: &atomic.Int64{},
	}
	nc.touch()
	return nc
}

// Connect 建立 TCP 连接 仅允许从 Disconnected 发起
func (nc *NetworkConnection) Connect(ctx context.Context) error {
	if nc.state != StateDisconnected {
		return errs.Connectionf("connection already established")
	}

	nc.state = StateConnecting

	t, err := transport.NewBuilder().
		Hostname(nc.config.Hostname).
		Port(nc.config.Port).
		Timeout(nc.config.Timeout).
		Connect(ctx)
	if err != nil {
		nc.state = StateDisconnected
		return err
	}

	nc.transport = t
	nc.state = StateConnected
	nc.touch()
	return nil
}

// NegotiateProtocol 协商 AMQP 1.0 协议 仅允许从 Connected 发起
//
// 发送协议头与 Open performative 并调度保活任务 完成后进入 Ready
func (nc *NetworkConnection) NegotiateProtocol(ctx context.Context) error {
	if nc.state != StateConnected {
		return errs.Connectionf("not connected")
	}

	if err := nc.transport.SendRaw(ctx, transport.AMQPHeader); err != nil {
		return err
	}
	if err := nc.sendOpen(ctx); err != nil {
		return err
	}

	nc.startKeepAlive()

	nc.state = StateReady
	nc.touch()
	return nil
}

// SendFrame 发送帧 仅允许在 Ready 状态调用
func (nc *NetworkConnection) SendFrame(ctx context.Context, frame transport.Frame) error {
	if nc.state != StateReady {
		return errs.Connectionf("connection not ready")
	}

	if err := nc.transport.SendFrame(ctx, frame); err != nil {
		return err
	}
	nc.touch()
	return nil
}

// ReceiveFrame 接收帧 仅允许在 Ready 状态调用
func (nc *NetworkConnection) ReceiveFrame(ctx context.Context) (transport.Frame, error) {
	if nc.state != StateReady {
		return transport.Frame{}, errs.Connectionf("connection not ready")
	}

	frame, err := nc.transport.ReceiveFrame(ctx)
	if err != nil {
		return transport.Frame{}, err
	}
	nc.touch()
	return frame, nil
}

// SendMessage 在指定通道上发送消息 消息序列化为单个 Transfer 帧载荷
func (nc *NetworkConnection) SendMessage(ctx context.Context, channel uint16, msg *message.Message) error {
	enc := codec.NewEncoder()
	if err := enc.EncodeMessage(msg); err != nil {
		return err
	}
	return nc.SendFrame(ctx, transport.NewFrame(transport.FrameAMQP, channel, enc.Finish()))
}

// ReceiveMessage 接收并解码消息 非 AMQP 帧返回 nil
func (nc *NetworkConnection) ReceiveMessage(ctx context.Context) (*message.Message, error) {
	frame, err := nc.ReceiveFrame(ctx)
	if err != nil {
		return nil, err
	}

	if frame.Header.Type != uint8(transport.FrameAMQP) {
		return nil, nil
	}
	return codec.NewDecoder(frame.Payload).DecodeMessage()
}

// Disconnect 断开连接 对 Disconnected 幂等
//
// 取消保活任务 Ready 状态下先发送 Close performative 再关闭流
func (nc *NetworkConnection) Disconnect(ctx context.Context) error {
	if nc.state == StateDisconnected {
		return nil
	}

	wasReady := nc.state == StateReady
	nc.state = StateClosing

	nc.Free()

	if nc.transport != nil {
		if wasReady {
			// 关闭路径上的发送失败不阻断流的回收
			if err := nc.sendClose(ctx); err != nil {
				logger.Warnf("connection %s send close failed: %v", nc.id, err)
			}
		}
		if err := nc.transport.Shutdown(); err != nil {
			nc.state = StateClosed
			return err
		}
		nc.transport = nil
	}

	nc.state = StateClosed
	logger.Debugf("connection %s disconnected", nc.id)
	return nil
}

// NextChannel 分配通道号 单调递增 溢出后回绕
func (nc *NetworkConnection) NextChannel() uint16 {
	channel := nc.nextChannel
	nc.nextChannel++
	return channel
}

// IsIdle 自最近一次收发起的空闲时间是否超过 idle-timeout
func (nc *NetworkConnection) IsIdle() bool {
	return idleOver(nc.lastActivity, nc.config.IdleTimeout)
}

// Fail 将连接置为错误状态
func (nc *NetworkConnection) Fail(reason string) {
	nc.state = StateError
	nc.errReason = reason
}

func (nc *NetworkConnection) State() State {
	return nc.state
}

// ErrorReason 错误状态下的原因描述
func (nc *NetworkConnection) ErrorReason() string {
	return nc.errReason
}

func (nc *NetworkConnection) ID() string {
	return nc.id
}

func (nc *NetworkConnection) Config() Config {
	return nc.config
}

func (nc *NetworkConnection) touch() {
	nc.lastActivity.Store(time.Now().UnixNano())
}

func (nc *NetworkConnection) sendOpen(ctx context.Context) error {
	payload, err := connection.EncodeOpen(connection.Config{
		Hostname:     nc.config.Hostname,
		Port:         nc.config.Port,
		Timeout:      nc.config.Timeout,
		MaxFrameSize: nc.config.MaxFrameSize,
		ChannelMax:   nc.config.ChannelMax,
		IdleTimeout:  nc.config.IdleTimeout,
		ContainerID:  nc.config.ContainerID,
		Properties:   nc.config.Properties,
	})
	if err != nil {
		return err
	}
	return nc.transport.SendFrame(ctx, transport.NewFrame(transport.FrameAMQP, 0, payload))
}

func (nc *NetworkConnection) sendClose(ctx context.Context) error {
	payload, err := connection.EncodeClose()
	if err != nil {
		return err
	}
	return nc.transport.SendFrame(ctx, transport.NewFrame(transport.FrameAMQP, 0, payload))
}

// startKeepAlive 调度保活任务
//
// 任务按 keep-alive 间隔触发 仅记录指标与空闲告警 不主动占用流
// Disconnect 时取消 至迟在下一个 tick 退出
//
// 协程只捕获标量副本与 lastActivity 指针 连接本体因此可被回收
// finalizer 兜底取消 保证连接被丢弃后不残留后台任务
func (nc *NetworkConnection) startKeepAlive() {
	if nc.config.KeepAlive <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	nc.keepAliveCancel = cancel

	id := nc.id
	interval := nc.config.KeepAlive
	idleTimeout := nc.config.IdleTimeout
	last := nc.lastActivity

	go func() {
		defer rescue.HandleCrash()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				keepAliveTicksTotal.Inc()
				if idleOver(last, idleTimeout) {
					logger.Warnf("connection %s idle over %s", id, idleTimeout)
				}
			}
		}
	}()

	runtime.SetFinalizer(nc, (*NetworkConnection).Free)
}

func (nc *NetworkConnection) stopKeepAlive() {
	if nc.keepAliveCancel != nil {
		nc.keepAliveCancel()
		nc.keepAliveCancel = nil
	}
}

// Free 释放后台任务 对已释放的连接为空操作
//
// Disconnect 会顺带完成此事 未显式断开而被丢弃的连接由
// finalizer 触发 保证保活协程不悬挂
func (nc *NetworkConnection) Free() {
	nc.stopKeepAlive()
	runtime.SetFinalizer(nc, nil)
}

func idleOver(last *atomic.Int64, idleTimeout time.Duration) bool {
	if idleTimeout <= 0 {
		return false
	}
	return time.Since(time.Unix(0, last.Load())) > idleTimeout
}
