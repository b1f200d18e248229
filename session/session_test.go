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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amqpd/amqpd/errs"
	"github.com/amqpd/amqpd/link"
	"github.com/amqpd/amqpd/message"
)

func TestSessionStateMachine(t *testing.T) {
	s := New(1, "conn-1")
	assert.Equal(t, StateEnded, s.State())
	assert.Equal(t, "conn-1-session-1", s.ID())
	assert.Equal(t, "conn-1", s.ConnectionID())
	assert.Equal(t, uint16(1), s.Channel())

	// End 要求 Active
	err := s.End()
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindInvalidState))

	require.NoError(t, s.Begin())
	assert.Equal(t, StateActive, s.State())

	// 重复 Begin 报错
	err = s.Begin()
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindInvalidState))

	require.NoError(t, s.End())
	assert.Equal(t, StateEnded, s.State())

	// 结束后可重新 Begin
	require.NoError(t, s.Begin())
}

func TestSessionDefaults(t *testing.T) {
	s := New(0, "conn-1")
	assert.Equal(t, uint32(100), s.IncomingWindow())
	assert.Equal(t, uint32(100), s.OutgoingWindow())

	s.SetIncomingWindow(200)
	s.SetOutgoingWindow(300)
	assert.Equal(t, uint32(200), s.IncomingWindow())
	assert.Equal(t, uint32(300), s.OutgoingWindow())
}

func TestCreateLinksRequireActive(t *testing.T) {
	s := New(1, "conn-1")

	_, err := s.CreateSender(link.DefaultConfig())
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindInvalidState))

	_, err = s.CreateReceiver(link.DefaultConfig())
	require.Error(t, err)
}

func TestHandleAllocation(t *testing.T) {
	s := New(1, "conn-1")
	require.NoError(t, s.Begin())
	assert.Equal(t, uint32(0), s.NextHandle())

	_, err := s.CreateSender(link.DefaultConfig())
	require.NoError(t, err)
	_, err = s.CreateReceiver(link.DefaultConfig())
	require.NoError(t, err)
	_, err = s.CreateSender(link.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 3, s.LinkCount())
	assert.Equal(t, uint32(3), s.NextHandle())
}

func TestEndDetachesLinks(t *testing.T) {
	s := New(1, "conn-1")
	require.NoError(t, s.Begin())

	sender, err := s.CreateSender(link.DefaultConfig())
	require.NoError(t, err)
	receiver, err := s.CreateReceiver(link.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 2, s.LinkCount())

	require.NoError(t, sender.Attach())
	require.NoError(t, receiver.Attach())
	sender.AddCredit(1)

	require.NoError(t, s.End())
	assert.Equal(t, 0, s.LinkCount())
	assert.Equal(t, StateEnded, s.State())

	// 级联卸载对调用方持有的链路可见
	assert.Equal(t, link.StateDetached, sender.State())
	assert.Equal(t, link.StateDetached, receiver.State())

	// 卸载后发送报错
	_, err = sender.Send(message.Text("late"))
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindInvalidState))
}

func TestCreateLinksShareHandle(t *testing.T) {
	s := New(1, "conn-1")
	require.NoError(t, s.Begin())

	sender, err := s.CreateSender(link.DefaultConfig())
	require.NoError(t, err)
	receiver, err := s.CreateReceiver(link.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, uint32(0), sender.Link().Handle())
	assert.Equal(t, uint32(1), receiver.Link().Handle())
}

func TestSessionFail(t *testing.T) {
	s := New(1, "conn-1")
	s.Fail("window violation")
	assert.Equal(t, StateError, s.State())
	assert.Equal(t, "window violation", s.ErrorReason())
}

func TestSessionBuilder(t *testing.T) {
	s := NewBuilder().
		Name("control").
		IncomingWindow(10).
		OutgoingWindow(20).
		NextOutgoingID(5).
		Build(7, "conn-9")

	assert.Equal(t, uint16(7), s.Channel())
	assert.Equal(t, "conn-9-session-7", s.ID())
	assert.Equal(t, uint32(10), s.IncomingWindow())
	assert.Equal(t, uint32(20), s.OutgoingWindow())
	assert.Equal(t, StateEnded, s.State())
}
