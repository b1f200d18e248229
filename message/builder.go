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

package message

import (
	"github.com/amqpd/amqpd/types"
)

// Builder 链式构建 Message 任意子集的 Section 均可设置
type Builder struct {
	message Message
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Header(header Header) *Builder {
	b.message.Header = &header
	return b
}

func (b *Builder) DeliveryAnnotations(annotations types.Map) *Builder {
	b.message.DeliveryAnnotations = annotations
	return b
}

func (b *Builder) MessageAnnotations(annotations types.Map) *Builder {
	b.message.MessageAnnotations = annotations
	return b
}

func (b *Builder) Properties(properties Properties) *Builder {
	b.message.Properties = &properties
	return b
}

func (b *Builder) ApplicationProperties(properties types.Map) *Builder {
	b.message.ApplicationProperties = properties
	return b
}

func (b *Builder) Body(body Body) *Builder {
	b.message.Body = body
	return b
}

func (b *Builder) Footer(footer types.Map) *Builder {
	b.message.Footer = footer
	return b
}

func (b *Builder) Build() *Message {
	msg := b.message
	return &msg
}
