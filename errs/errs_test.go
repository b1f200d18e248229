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

package errs

import (
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amqpd/amqpd/condition"
)

func TestKindConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
		code string
	}{
		{name: "Connection", err: Connectionf("failed to connect"), kind: KindConnection, code: "connection-error"},
		{name: "Session", err: Sessionf("session failed"), kind: KindSession, code: "session-error"},
		{name: "Link", err: Linkf("no credit"), kind: KindLink, code: "link-error"},
		{name: "Transport", err: Transportf("broken pipe"), kind: KindTransport, code: "transport-error"},
		{name: "Encoding", err: Encodingf("too large"), kind: KindEncoding, code: "encoding-error"},
		{name: "Decoding", err: Decodingf("truncated"), kind: KindDecoding, code: "decoding-error"},
		{name: "Protocol", err: Protocolf("header mismatch"), kind: KindProtocol, code: "protocol-error"},
		{name: "Timeout", err: Timeoutf("dial timeout"), kind: KindTimeout, code: "timeout-error"},
		{name: "InvalidState", err: InvalidStatef("not open"), kind: KindInvalidState, code: "invalid-state-error"},
		{name: "NotImplemented", err: NotImplementedf("sasl"), kind: KindNotImplemented, code: "not-implemented-error"},
		{name: "IO", err: IO(io.ErrUnexpectedEOF), kind: KindIO, code: "io-error"},
		{name: "Serialization", err: Serialization(errors.New("bad json")), kind: KindSerialization, code: "serialization-error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
			assert.True(t, IsKind(tt.err, tt.kind))

			var e *Error
			require.True(t, errors.As(tt.err, &e))
			assert.Equal(t, tt.code, e.ErrorCode())
			assert.Equal(t, uint16(500), e.ErrorCodeNum())
		})
	}
}

func TestAmqpProtocolError(t *testing.T) {
	err := AmqpProtocol(condition.TransferRefused, "no credit available")

	assert.Equal(t, KindAmqpProtocol, KindOf(err))

	cond, ok := ConditionOf(err)
	require.True(t, ok)
	assert.Equal(t, condition.TransferRefused, cond)

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "amqp:link:transfer-refused", e.ErrorCode())
	assert.Equal(t, uint16(500), e.ErrorCodeNum())
	assert.Contains(t, e.Error(), "no credit available")
}

func TestAmqpProtocolCodeNum(t *testing.T) {
	var e *Error
	require.True(t, errors.As(AmqpProtocol(condition.ResourceDeleted, "gone"), &e))
	assert.Equal(t, uint16(404), e.ErrorCodeNum())
}

func TestConditionOfNonProtocol(t *testing.T) {
	_, ok := ConditionOf(Linkf("nope"))
	assert.False(t, ok)

	_, ok = ConditionOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(KindTransport, cause, "write frame failed")

	assert.True(t, IsKind(err, KindTransport))
	assert.Contains(t, err.Error(), "write frame failed")
	assert.Contains(t, err.Error(), "connection reset")
	assert.ErrorIs(t, err, cause)

	assert.Nil(t, Wrap(KindTransport, nil, "noop"))
	assert.Nil(t, IO(nil))
}

func TestKindOfUnknown(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("some error")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}
