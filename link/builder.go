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
	"github.com/google/uuid"

	"github.com/amqpd/amqpd/types"
)

// DefaultConfig 默认链路配置 名称为新生成的 UUID
func DefaultConfig() Config {
	return Config{
		Name:               uuid.New().String(),
		SenderSettleMode:   types.SenderUnsettled,
		ReceiverSettleMode: types.ReceiverFirst,
		Properties:         make(map[string]types.Value),
	}
}

// Builder 链式构建链路配置
type Builder struct {
	config Config
}

func NewBuilder() *Builder {
	return &Builder{config: DefaultConfig()}
}

func (b *Builder) Name(name string) *Builder {
	b.config.Name = name
	return b
}

func (b *Builder) Source(source string) *Builder {
	b.config.Source = source
	return b
}

func (b *Builder) Target(target string) *Builder {
	b.config.Target = target
	return b
}

func (b *Builder) SenderSettleMode(mode types.SenderSettleMode) *Builder {
	b.config.SenderSettleMode = mode
	return b
}

func (b *Builder) ReceiverSettleMode(mode types.ReceiverSettleMode) *Builder {
	b.config.ReceiverSettleMode = mode
	return b
}

func (b *Builder) SourceConfig(config TerminusConfig) *Builder {
	b.config.SourceConfig = config
	return b
}

func (b *Builder) TargetConfig(config TerminusConfig) *Builder {
	b.config.TargetConfig = config
	return b
}

func (b *Builder) Property(key string, value types.Value) *Builder {
	if b.config.Properties == nil {
		b.config.Properties = make(map[string]types.Value)
	}
	b.config.Properties[key] = value
	return b
}

func (b *Builder) Config() Config {
	return b.config
}

// BuildSender 构建发送端
func (b *Builder) BuildSender(sessionID string) *Sender {
	return NewSender(b.config, sessionID)
}

// BuildReceiver 构建接收端
func (b *Builder) BuildReceiver(sessionID string) *Receiver {
	return NewReceiver(b.config, sessionID)
}

// TerminusBuilder 链式构建终端配置
type TerminusBuilder struct {
	config TerminusConfig
}

func NewTerminusBuilder() *TerminusBuilder {
	return &TerminusBuilder{
		config: TerminusConfig{
			Properties: make(map[string]types.Value),
		},
	}
}

func (b *TerminusBuilder) Durability(durability types.TerminusDurability) *TerminusBuilder {
	b.config.Durability = durability
	return b
}

func (b *TerminusBuilder) ExpiryPolicy(policy types.TerminusExpiryPolicy) *TerminusBuilder {
	b.config.ExpiryPolicy = policy
	return b
}

func (b *TerminusBuilder) Timeout(timeout uint32) *TerminusBuilder {
	b.config.Timeout = timeout
	return b
}

func (b *TerminusBuilder) Property(key string, value types.Value) *TerminusBuilder {
	if b.config.Properties == nil {
		b.config.Properties = make(map[string]types.Value)
	}
	b.config.Properties[key] = value
	return b
}

func (b *TerminusBuilder) Build() TerminusConfig {
	return b.config
}
