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

// Package message 实现 AMQP 1.0 消息模型
//
// Message 由七个可选 Section 组成 序列化时按固定顺序排列:
// Header / DeliveryAnnotations / MessageAnnotations / Properties /
// ApplicationProperties / Body / Footer 缺失的 Section 整体省略
package message

import (
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"

	"github.com/amqpd/amqpd/errs"
	"github.com/amqpd/amqpd/types"
)

// Message AMQP 1.0 消息
type Message struct {
	Header                *Header
	DeliveryAnnotations   types.Map
	MessageAnnotations    types.Map
	Properties            *Properties
	ApplicationProperties types.Map
	Body                  Body
	Footer                types.Map
}

// Header 消息头 Section
type Header struct {
	Durable       *bool
	Priority      *uint8
	TTL           *uint32 // 单位毫秒
	FirstAcquirer *bool
	DeliveryCount *uint32
}

// Properties 消息属性 Section
type Properties struct {
	MessageID          types.Value // 任意 Value 常见为 String / UUID
	UserID             []byte
	To                 *string
	Subject            *string
	ReplyTo            *string
	CorrelationID      types.Value
	ContentType        *types.Symbol
	ContentEncoding    *types.Symbol
	AbsoluteExpiryTime *int64 // 毫秒时间戳
	CreationTime       *int64 // 毫秒时间戳
	GroupID            *string
	GroupSequence      *uint32
	ReplyToGroupID     *string
}

// Body 消息体 四种变体之一
//
// Multiple 仅允许一层嵌套 Multiple 内不允许再出现 Multiple
type Body interface {
	isBody()
}

// Data 不透明的二进制消息体
type Data []byte

// Value 单个 AMQP 值消息体
type Value struct {
	Value types.Value
}

// Sequence 值序列消息体
type Sequence types.List

// Multiple 多段消息体 由前三种变体组成
type Multiple []Body

func (Data) isBody()     {}
func (Value) isBody()    {}
func (Sequence) isBody() {}
func (Multiple) isBody() {}

// New 创建空消息
func New() *Message {
	return &Message{}
}

// Text 创建文本消息 Body 为 Value(String)
func Text(text string) *Message {
	return NewBuilder().Body(Value{Value: types.String(text)}).Build()
}

// Binary 创建二进制消息 Body 为 Data
func Binary(data []byte) *Message {
	return NewBuilder().Body(Data(data)).Build()
}

// BodyAsText 当 Body 为 Value(String) 时返回其内容
func (m *Message) BodyAsText() (string, bool) {
	body, ok := m.Body.(Value)
	if !ok {
		return "", false
	}
	s, ok := body.Value.(types.String)
	if !ok {
		return "", false
	}
	return string(s), true
}

// BodyAsBinary 当 Body 为 Data 时返回其内容
func (m *Message) BodyAsBinary() ([]byte, bool) {
	body, ok := m.Body.(Data)
	if !ok {
		return nil, false
	}
	return body, true
}

// MessageIDString 返回字符串形式的 message-id
//
// String 原样返回 UUID 返回带连字符格式 其余类型视为缺失
func (m *Message) MessageIDString() (string, bool) {
	if m.Properties == nil || m.Properties.MessageID == nil {
		return "", false
	}
	switch id := m.Properties.MessageID.(type) {
	case types.String:
		return string(id), true
	case types.UUID:
		return uuid.UUID(id).String(), true
	}
	return "", false
}

// WithMessageID 设置字符串 message-id
func (m *Message) WithMessageID(id string) *Message {
	m.ensureProperties().MessageID = types.String(id)
	return m
}

// WithUUIDMessageID 设置 UUID message-id
func (m *Message) WithUUIDMessageID(id uuid.UUID) *Message {
	m.ensureProperties().MessageID = types.UUID(id)
	return m
}

// WithSubject 设置 subject
func (m *Message) WithSubject(subject string) *Message {
	m.ensureProperties().Subject = &subject
	return m
}

// WithContentType 设置 content-type
func (m *Message) WithContentType(contentType types.Symbol) *Message {
	m.ensureProperties().ContentType = &contentType
	return m
}

func (m *Message) ensureProperties() *Properties {
	if m.Properties == nil {
		m.Properties = &Properties{}
	}
	return m.Properties
}

// JSON 输出消息的 JSON 表示 仅用于日志与调试导出
func (m *Message) JSON() ([]byte, error) {
	dump := map[string]any{}
	if m.Header != nil {
		dump["header"] = m.Header
	}
	if m.DeliveryAnnotations != nil {
		dump["delivery_annotations"] = types.PlainMap(m.DeliveryAnnotations)
	}
	if m.MessageAnnotations != nil {
		dump["message_annotations"] = types.PlainMap(m.MessageAnnotations)
	}
	if m.Properties != nil {
		dump["properties"] = plainProperties(m.Properties)
	}
	if m.ApplicationProperties != nil {
		dump["application_properties"] = types.PlainMap(m.ApplicationProperties)
	}
	if m.Body != nil {
		dump["body"] = plainBody(m.Body)
	}
	if m.Footer != nil {
		dump["footer"] = types.PlainMap(m.Footer)
	}

	b, err := json.Marshal(dump)
	if err != nil {
		return nil, errs.Serialization(err)
	}
	return b, nil
}

func plainProperties(p *Properties) map[string]any {
	dump := map[string]any{}
	if p.MessageID != nil {
		dump["message_id"] = types.Plain(p.MessageID)
	}
	if p.UserID != nil {
		dump["user_id"] = p.UserID
	}
	if p.To != nil {
		dump["to"] = *p.To
	}
	if p.Subject != nil {
		dump["subject"] = *p.Subject
	}
	if p.ReplyTo != nil {
		dump["reply_to"] = *p.ReplyTo
	}
	if p.CorrelationID != nil {
		dump["correlation_id"] = types.Plain(p.CorrelationID)
	}
	if p.ContentType != nil {
		dump["content_type"] = p.ContentType.String()
	}
	if p.ContentEncoding != nil {
		dump["content_encoding"] = p.ContentEncoding.String()
	}
	if p.AbsoluteExpiryTime != nil {
		dump["absolute_expiry_time"] = *p.AbsoluteExpiryTime
	}
	if p.CreationTime != nil {
		dump["creation_time"] = *p.CreationTime
	}
	if p.GroupID != nil {
		dump["group_id"] = *p.GroupID
	}
	if p.GroupSequence != nil {
		dump["group_sequence"] = *p.GroupSequence
	}
	if p.ReplyToGroupID != nil {
		dump["reply_to_group_id"] = *p.ReplyToGroupID
	}
	return dump
}

func plainBody(b Body) any {
	switch body := b.(type) {
	case Data:
		return []byte(body)
	case Value:
		return types.Plain(body.Value)
	case Sequence:
		return types.Plain(types.List(body))
	case Multiple:
		parts := make([]any, 0, len(body))
		for _, part := range body {
			parts = append(parts, plainBody(part))
		}
		return parts
	}
	return nil
}

// UnpackApplicationProperties 将 application-properties 解码至结构体
//
// 字段匹配遵循 mapstructure 规则 允许弱类型转换
func (m *Message) UnpackApplicationProperties(to any) error {
	if m.ApplicationProperties == nil {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           to,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return errs.Serialization(err)
	}
	if err := decoder.Decode(types.PlainMap(m.ApplicationProperties)); err != nil {
		return errs.Serialization(err)
	}
	return nil
}
