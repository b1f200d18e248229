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

package connection

import (
	"time"

	"github.com/amqpd/amqpd/types"
)

// Builder 链式构建连接
type Builder struct {
	config Config
}

func NewBuilder() *Builder {
	return &Builder{config: DefaultConfig()}
}

func (b *Builder) Hostname(hostname string) *Builder {
	b.config.Hostname = hostname
	return b
}

func (b *Builder) Port(port uint16) *Builder {
	b.config.Port = port
	return b
}

func (b *Builder) Timeout(timeout time.Duration) *Builder {
	b.config.Timeout = timeout
	return b
}

func (b *Builder) MaxFrameSize(maxFrameSize uint32) *Builder {
	b.config.MaxFrameSize = maxFrameSize
	return b
}

func (b *Builder) ChannelMax(channelMax uint16) *Builder {
	b.config.ChannelMax = channelMax
	return b
}

func (b *Builder) IdleTimeout(idleTimeout time.Duration) *Builder {
	b.config.IdleTimeout = idleTimeout
	return b
}

func (b *Builder) ContainerID(containerID string) *Builder {
	b.config.ContainerID = containerID
	return b
}

func (b *Builder) Property(key string, value types.Value) *Builder {
	if b.config.Properties == nil {
		b.config.Properties = make(map[string]types.Value)
	}
	b.config.Properties[key] = value
	return b
}

func (b *Builder) Build() *Connection {
	return New(b.config)
}
