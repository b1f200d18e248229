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

package session

import (
	"github.com/amqpd/amqpd/types"
)

// Builder 链式构建会话
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

func (b *Builder) IncomingWindow(size uint32) *Builder {
	b.config.IncomingWindow = size
	return b
}

func (b *Builder) OutgoingWindow(size uint32) *Builder {
	b.config.OutgoingWindow = size
	return b
}

func (b *Builder) NextOutgoingID(id uint32) *Builder {
	b.config.NextOutgoingID = id
	return b
}

func (b *Builder) Property(key string, value types.Value) *Builder {
	if b.config.Properties == nil {
		b.config.Properties = make(map[string]types.Value)
	}
	b.config.Properties[key] = value
	return b
}

// Build 在指定通道上构建会话
func (b *Builder) Build(channel uint16, connectionID string) *Session {
	return NewWithConfig(b.config, channel, connectionID)
}
