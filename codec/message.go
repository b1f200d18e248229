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

package codec

import (
	"github.com/amqpd/amqpd/errs"
	"github.com/amqpd/amqpd/message"
	"github.com/amqpd/amqpd/types"
)

// Section 描述符编码 与 AMQP 1.0 消息格式的 descriptor 取值一致
//
// 每个 Section 以 0x00 + Ulong(code) 作为前导 随后紧跟其自然值
// Header 与 Properties 以字段 Symbol 为键的 Map 表达 Body 按变体编码
const (
	sectionHeader              uint64 = 0x70
	sectionDeliveryAnnotations uint64 = 0x71
	sectionMessageAnnotations  uint64 = 0x72
	sectionProperties          uint64 = 0x73
	sectionAppProperties       uint64 = 0x74
	sectionData                uint64 = 0x75
	sectionSequence            uint64 = 0x76
	sectionValue               uint64 = 0x77
	sectionFooter              uint64 = 0x78
)

// Header 字段 Symbol
const (
	fieldDurable       types.Symbol = "durable"
	fieldPriority      types.Symbol = "priority"
	fieldTTL           types.Symbol = "ttl"
	fieldFirstAcquirer types.Symbol = "first_acquirer"
	fieldDeliveryCount types.Symbol = "delivery_count"
)

// Properties 字段 Symbol
const (
	fieldMessageID          types.Symbol = "message_id"
	fieldUserID             types.Symbol = "user_id"
	fieldTo                 types.Symbol = "to"
	fieldSubject            types.Symbol = "subject"
	fieldReplyTo            types.Symbol = "reply_to"
	fieldCorrelationID      types.Symbol = "correlation_id"
	fieldContentType        types.Symbol = "content_type"
	fieldContentEncoding    types.Symbol = "content_encoding"
	fieldAbsoluteExpiryTime types.Symbol = "absolute_expiry_time"
	fieldCreationTime       types.Symbol = "creation_time"
	fieldGroupID            types.Symbol = "group_id"
	fieldGroupSequence      types.Symbol = "group_sequence"
	fieldReplyToGroupID     types.Symbol = "reply_to_group_id"
)

// EncodeMessage 按 Section 顺序编码消息 缺失的 Section 整体省略
func (e *Encoder) EncodeMessage(msg *message.Message) error {
	if msg.Header != nil {
		e.encodeDescriptor(sectionHeader)
		if err := e.EncodeValue(headerMap(msg.Header)); err != nil {
			return err
		}
	}

	if msg.DeliveryAnnotations != nil {
		e.encodeDescriptor(sectionDeliveryAnnotations)
		if err := e.EncodeValue(msg.DeliveryAnnotations); err != nil {
			return err
		}
	}

	if msg.MessageAnnotations != nil {
		e.encodeDescriptor(sectionMessageAnnotations)
		if err := e.EncodeValue(msg.MessageAnnotations); err != nil {
			return err
		}
	}

	if msg.Properties != nil {
		e.encodeDescriptor(sectionProperties)
		if err := e.EncodeValue(propertiesMap(msg.Properties)); err != nil {
			return err
		}
	}

	if msg.ApplicationProperties != nil {
		e.encodeDescriptor(sectionAppProperties)
		if err := e.EncodeValue(msg.ApplicationProperties); err != nil {
			return err
		}
	}

	if msg.Body != nil {
		if err := e.encodeBody(msg.Body, false); err != nil {
			return err
		}
	}

	if msg.Footer != nil {
		e.encodeDescriptor(sectionFooter)
		if err := e.EncodeValue(msg.Footer); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeDescriptor(code uint64) {
	e.buf = append(e.buf, codeDescribed)
	e.buf = append(e.buf, codeUlong)
	e.putUint64(code)
}

func (e *Encoder) encodeBody(body message.Body, nested bool) error {
	switch b := body.(type) {
	case message.Data:
		e.encodeDescriptor(sectionData)
		return e.EncodeValue(types.Binary(b))
	case message.Value:
		e.encodeDescriptor(sectionValue)
		return e.EncodeValue(b.Value)
	case message.Sequence:
		e.encodeDescriptor(sectionSequence)
		return e.EncodeValue(types.List(b))
	case message.Multiple:
		// Multiple 仅允许一层嵌套
		if nested {
			return errs.Encodingf("nested multiple bodies not supported")
		}
		for _, part := range b {
			if err := e.encodeBody(part, true); err != nil {
				return err
			}
		}
		return nil
	}
	return errs.Encodingf("unsupported body type %T", body)
}

func headerMap(h *message.Header) types.Map {
	m := types.Map{}
	if h.Durable != nil {
		m[fieldDurable] = types.Bool(*h.Durable)
	}
	if h.Priority != nil {
		m[fieldPriority] = types.Ubyte(*h.Priority)
	}
	if h.TTL != nil {
		m[fieldTTL] = types.Uint(*h.TTL)
	}
	if h.FirstAcquirer != nil {
		m[fieldFirstAcquirer] = types.Bool(*h.FirstAcquirer)
	}
	if h.DeliveryCount != nil {
		m[fieldDeliveryCount] = types.Uint(*h.DeliveryCount)
	}
	return m
}

func propertiesMap(p *message.Properties) types.Map {
	m := types.Map{}
	if p.MessageID != nil {
		m[fieldMessageID] = p.MessageID
	}
	if p.UserID != nil {
		m[fieldUserID] = types.Binary(p.UserID)
	}
	if p.To != nil {
		m[fieldTo] = types.String(*p.To)
	}
	if p.Subject != nil {
		m[fieldSubject] = types.String(*p.Subject)
	}
	if p.ReplyTo != nil {
		m[fieldReplyTo] = types.String(*p.ReplyTo)
	}
	if p.CorrelationID != nil {
		m[fieldCorrelationID] = p.CorrelationID
	}
	if p.ContentType != nil {
		m[fieldContentType] = *p.ContentType
	}
	if p.ContentEncoding != nil {
		m[fieldContentEncoding] = *p.ContentEncoding
	}
	if p.AbsoluteExpiryTime != nil {
		m[fieldAbsoluteExpiryTime] = types.Timestamp(*p.AbsoluteExpiryTime)
	}
	if p.CreationTime != nil {
		m[fieldCreationTime] = types.Timestamp(*p.CreationTime)
	}
	if p.GroupID != nil {
		m[fieldGroupID] = types.String(*p.GroupID)
	}
	if p.GroupSequence != nil {
		m[fieldGroupSequence] = types.Uint(*p.GroupSequence)
	}
	if p.ReplyToGroupID != nil {
		m[fieldReplyToGroupID] = types.String(*p.ReplyToGroupID)
	}
	return m
}

// DecodeMessage 解码消息 消费缓冲内的全部 Section
func (d *Decoder) DecodeMessage() (*message.Message, error) {
	msg := message.New()

	var parts []message.Body
	for d.HasRemaining() {
		code, err := d.decodeDescriptor()
		if err != nil {
			return nil, err
		}

		switch code {
		case sectionHeader:
			m, err := d.decodeSectionMap()
			if err != nil {
				return nil, err
			}
			msg.Header = headerFromMap(m)
		case sectionDeliveryAnnotations:
			m, err := d.decodeSectionMap()
			if err != nil {
				return nil, err
			}
			msg.DeliveryAnnotations = m
		case sectionMessageAnnotations:
			m, err := d.decodeSectionMap()
			if err != nil {
				return nil, err
			}
			msg.MessageAnnotations = m
		case sectionProperties:
			m, err := d.decodeSectionMap()
			if err != nil {
				return nil, err
			}
			msg.Properties = propertiesFromMap(m)
		case sectionAppProperties:
			m, err := d.decodeSectionMap()
			if err != nil {
				return nil, err
			}
			msg.ApplicationProperties = m
		case sectionData:
			v, err := d.DecodeValue()
			if err != nil {
				return nil, err
			}
			b, ok := v.(types.Binary)
			if !ok {
				return nil, errs.Decodingf("data section expects binary, got %T", v)
			}
			parts = append(parts, message.Data(b))
		case sectionSequence:
			v, err := d.DecodeValue()
			if err != nil {
				return nil, err
			}
			lst, ok := v.(types.List)
			if !ok {
				return nil, errs.Decodingf("sequence section expects list, got %T", v)
			}
			parts = append(parts, message.Sequence(lst))
		case sectionValue:
			v, err := d.DecodeValue()
			if err != nil {
				return nil, err
			}
			parts = append(parts, message.Value{Value: v})
		case sectionFooter:
			m, err := d.decodeSectionMap()
			if err != nil {
				return nil, err
			}
			msg.Footer = m
		default:
			return nil, errs.Decodingf("unknown section descriptor: 0x%02x", code)
		}
	}

	switch len(parts) {
	case 0:
	case 1:
		msg.Body = parts[0]
	default:
		msg.Body = message.Multiple(parts)
	}
	return msg, nil
}

func (d *Decoder) decodeDescriptor() (uint64, error) {
	b, err := d.readN(1)
	if err != nil {
		return 0, err
	}
	if b[0] != codeDescribed {
		return 0, errs.Decodingf("expected section descriptor, got 0x%02x", b[0])
	}

	v, err := d.DecodeValue()
	if err != nil {
		return 0, err
	}
	code, ok := v.(types.Ulong)
	if !ok {
		return 0, errs.Decodingf("descriptor expects ulong, got %T", v)
	}
	return uint64(code), nil
}

func (d *Decoder) decodeSectionMap() (types.Map, error) {
	v, err := d.DecodeValue()
	if err != nil {
		return nil, err
	}
	m, ok := v.(types.Map)
	if !ok {
		return nil, errs.Decodingf("section expects map, got %T", v)
	}
	return m, nil
}

func headerFromMap(m types.Map) *message.Header {
	h := &message.Header{}
	if v, ok := m[fieldDurable].(types.Bool); ok {
		b := bool(v)
		h.Durable = &b
	}
	if v, ok := m[fieldPriority].(types.Ubyte); ok {
		p := uint8(v)
		h.Priority = &p
	}
	if v, ok := m[fieldTTL].(types.Uint); ok {
		ttl := uint32(v)
		h.TTL = &ttl
	}
	if v, ok := m[fieldFirstAcquirer].(types.Bool); ok {
		b := bool(v)
		h.FirstAcquirer = &b
	}
	if v, ok := m[fieldDeliveryCount].(types.Uint); ok {
		n := uint32(v)
		h.DeliveryCount = &n
	}
	return h
}

func propertiesFromMap(m types.Map) *message.Properties {
	p := &message.Properties{}
	if v, ok := m[fieldMessageID]; ok {
		p.MessageID = v
	}
	if v, ok := m[fieldUserID].(types.Binary); ok {
		p.UserID = v
	}
	if v, ok := m[fieldTo].(types.String); ok {
		s := string(v)
		p.To = &s
	}
	if v, ok := m[fieldSubject].(types.String); ok {
		s := string(v)
		p.Subject = &s
	}
	if v, ok := m[fieldReplyTo].(types.String); ok {
		s := string(v)
		p.ReplyTo = &s
	}
	if v, ok := m[fieldCorrelationID]; ok {
		p.CorrelationID = v
	}
	if v, ok := m[fieldContentType].(types.Symbol); ok {
		sym := v
		p.ContentType = &sym
	}
	if v, ok := m[fieldContentEncoding].(types.Symbol); ok {
		sym := v
		p.ContentEncoding = &sym
	}
	if v, ok := m[fieldAbsoluteExpiryTime].(types.Timestamp); ok {
		t := int64(v)
		p.AbsoluteExpiryTime = &t
	}
	if v, ok := m[fieldCreationTime].(types.Timestamp); ok {
		t := int64(v)
		p.CreationTime = &t
	}
	if v, ok := m[fieldGroupID].(types.String); ok {
		s := string(v)
		p.GroupID = &s
	}
	if v, ok := m[fieldGroupSequence].(types.Uint); ok {
		n := uint32(v)
		p.GroupSequence = &n
	}
	if v, ok := m[fieldReplyToGroupID].(types.String); ok {
		s := string(v)
		p.ReplyToGroupID = &s
	}
	return p
}
