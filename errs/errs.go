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

// Package errs 定义库的错误分类体系
//
// 错误共十二种 Kind 外加携带 Condition 的协议错误 AmqpProtocol
// 错误不做自动重试 产生后立即上抛给调用方 由其决定重试或关闭上层容器
package errs

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"

	"github.com/amqpd/amqpd/condition"
)

// Kind 错误分类
type Kind uint8

const (
	KindUnknown Kind = iota
	KindConnection
	KindSession
	KindLink
	KindTransport
	KindEncoding
	KindDecoding
	KindProtocol
	KindTimeout
	KindIO
	KindSerialization
	KindInvalidState
	KindNotImplemented
	KindAmqpProtocol
)

var kindNames = map[Kind]string{
	KindConnection:     "connection-error",
	KindSession:        "session-error",
	KindLink:           "link-error",
	KindTransport:      "transport-error",
	KindEncoding:       "encoding-error",
	KindDecoding:       "decoding-error",
	KindProtocol:       "protocol-error",
	KindTimeout:        "timeout-error",
	KindIO:             "io-error",
	KindSerialization:  "serialization-error",
	KindInvalidState:   "invalid-state-error",
	KindNotImplemented: "not-implemented-error",
}

var kindPrefixes = map[Kind]string{
	KindConnection:     "connection",
	KindSession:        "session",
	KindLink:           "link",
	KindTransport:      "transport",
	KindEncoding:       "encoding",
	KindDecoding:       "decoding",
	KindProtocol:       "protocol",
	KindTimeout:        "timeout",
	KindIO:             "io",
	KindSerialization:  "serialization",
	KindInvalidState:   "invalid state",
	KindNotImplemented: "not implemented",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown-error"
}

// Error 库的统一错误类型
type Error struct {
	kind  Kind
	cond  condition.Condition
	msg   string
	cause error
}

func (e *Error) Error() string {
	prefix, ok := kindPrefixes[e.kind]
	if !ok {
		prefix = "unknown"
	}

	switch {
	case e.kind == KindAmqpProtocol:
		return fmt.Sprintf("amqp error: %s - %s", e.cond, e.msg)
	case e.cause != nil && e.msg != "":
		return fmt.Sprintf("%s error: %s: %v", prefix, e.msg, e.cause)
	case e.cause != nil:
		return fmt.Sprintf("%s error: %v", prefix, e.cause)
	default:
		return fmt.Sprintf("%s error: %s", prefix, e.msg)
	}
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Kind 返回错误分类
func (e *Error) Kind() Kind {
	return e.kind
}

// Condition 返回协议错误携带的 Condition 非协议错误返回 false
func (e *Error) Condition() (condition.Condition, bool) {
	if e.kind != KindAmqpProtocol {
		return "", false
	}
	return e.cond, true
}

// ErrorCode 错误编码的字符串形式 协议错误返回 Condition 规范字符串
func (e *Error) ErrorCode() string {
	if e.kind == KindAmqpProtocol {
		return e.cond.String()
	}
	return e.kind.String()
}

// ErrorCodeNum 错误的数值编码 协议错误按 Condition 分桶 其余为 500
func (e *Error) ErrorCodeNum() uint16 {
	if e.kind == KindAmqpProtocol {
		return e.cond.CodeNum()
	}
	return 500
}

func newf(kind Kind, format string, args ...any) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func Connectionf(format string, args ...any) error {
	return newf(KindConnection, format, args...)
}

func Sessionf(format string, args ...any) error {
	return newf(KindSession, format, args...)
}

func Linkf(format string, args ...any) error {
	return newf(KindLink, format, args...)
}

func Transportf(format string, args ...any) error {
	return newf(KindTransport, format, args...)
}

func Encodingf(format string, args ...any) error {
	return newf(KindEncoding, format, args...)
}

func Decodingf(format string, args ...any) error {
	return newf(KindDecoding, format, args...)
}

func Protocolf(format string, args ...any) error {
	return newf(KindProtocol, format, args...)
}

func Timeoutf(format string, args ...any) error {
	return newf(KindTimeout, format, args...)
}

func InvalidStatef(format string, args ...any) error {
	return newf(KindInvalidState, format, args...)
}

func NotImplementedf(format string, args ...any) error {
	return newf(KindNotImplemented, format, args...)
}

// IO 包装底层 IO 错误
func IO(err error) error {
	if err == nil {
		return nil
	}
	return &Error{kind: KindIO, cause: errors.WithStack(err)}
}

// Serialization 包装序列化错误
func Serialization(err error) error {
	if err == nil {
		return nil
	}
	return &Error{kind: KindSerialization, cause: errors.WithStack(err)}
}

// Wrap 以指定分类包装底层错误 并附加说明
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, msg: msg, cause: err}
}

// Wrapf 同 Wrap 支持格式化说明
func Wrapf(kind Kind, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...), cause: err}
}

// AmqpProtocol 构建携带 Condition 的协议错误 多用于对端上报的失败
func AmqpProtocol(cond condition.Condition, description string) error {
	return &Error{kind: KindAmqpProtocol, cond: cond, msg: description}
}

// KindOf 提取错误分类 非本库错误返回 KindUnknown
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}

// IsKind 判断错误是否属于指定分类
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// ConditionOf 提取协议错误的 Condition
func ConditionOf(err error) (condition.Condition, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Condition()
	}
	return "", false
}
