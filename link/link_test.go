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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amqpd/amqpd/errs"
	"github.com/amqpd/amqpd/message"
	"github.com/amqpd/amqpd/types"
)

func testConfig(name string) Config {
	return NewBuilder().
		Name(name).
		Source("source-queue").
		Target("target-queue").
		Config()
}

func TestLinkStateMachine(t *testing.T) {
	l := New(testConfig("l1"), "sess-1")
	assert.Equal(t, StateDetached, l.State())
	assert.Equal(t, "sess-1-link-l1", l.ID())
	assert.Equal(t, "l1", l.Name())
	assert.Equal(t, "sess-1", l.SessionID())

	// Detach 要求 Attached
	err := l.Detach()
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindInvalidState))

	require.NoError(t, l.Attach())
	assert.Equal(t, StateAttached, l.State())

	// 重复 Attach 报错
	err = l.Attach()
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindInvalidState))

	require.NoError(t, l.Detach())
	assert.Equal(t, StateDetached, l.State())
}

func TestLinkFail(t *testing.T) {
	l := New(testConfig("l1"), "sess-1")
	l.Fail("remote detached")
	assert.Equal(t, StateError, l.State())
	assert.Equal(t, "remote detached", l.ErrorReason())
}

func TestSenderCreditGate(t *testing.T) {
	sender := NewSender(testConfig("s1"), "sess-1")
	require.NoError(t, sender.Attach())
	assert.Equal(t, uint32(0), sender.Credit())

	// 零信用时发送失败
	_, err := sender.Send(message.Text("hello"))
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindLink))

	sender.AddCredit(1)
	assert.Equal(t, uint32(1), sender.Credit())

	deliveryID, err := sender.Send(message.Text("hello"))
	require.NoError(t, err)
	assert.Equal(t, uint32(1), deliveryID)
	assert.Equal(t, uint32(0), sender.Credit())

	// 信用额度归零后再次发送失败
	_, err = sender.Send(message.Text("again"))
	require.Error(t, err)
}

func TestSenderDeliveryIDMonotonic(t *testing.T) {
	sender := NewSender(testConfig("s1"), "sess-1")
	require.NoError(t, sender.Attach())
	sender.AddCredit(3)

	for want := uint32(1); want <= 3; want++ {
		id, err := sender.Send(message.Text("m"))
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}
}

func TestSenderRequiresAttached(t *testing.T) {
	sender := NewSender(testConfig("s1"), "sess-1")
	sender.AddCredit(1)

	_, err := sender.Send(message.Text("hello"))
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindInvalidState))
}

func TestSenderSettlement(t *testing.T) {
	t.Run("UnsettledKeepsPending", func(t *testing.T) {
		sender := NewSender(testConfig("s1"), "sess-1")
		require.NoError(t, sender.Attach())
		sender.AddCredit(2)

		id, err := sender.Send(message.Text("m1"))
		require.NoError(t, err)
		assert.Equal(t, 1, sender.PendingDeliveries())

		require.NoError(t, sender.Settle(id))
		assert.Equal(t, 0, sender.PendingDeliveries())

		// 重复结算报错
		require.Error(t, sender.Settle(id))
	})

	t.Run("SettledModeClearsImmediately", func(t *testing.T) {
		cfg := testConfig("s2")
		cfg.SenderSettleMode = types.SenderSettled
		sender := NewSender(cfg, "sess-1")
		require.NoError(t, sender.Attach())
		sender.AddCredit(1)

		_, err := sender.Send(message.Text("m1"))
		require.NoError(t, err)
		assert.Equal(t, 0, sender.PendingDeliveries())
	})

	t.Run("MixedPerDelivery", func(t *testing.T) {
		cfg := testConfig("s3")
		cfg.SenderSettleMode = types.SenderMixed
		sender := NewSender(cfg, "sess-1")
		require.NoError(t, sender.Attach())
		sender.AddCredit(2)

		_, err := sender.SendSettled(message.Text("m1"), true)
		require.NoError(t, err)
		assert.Equal(t, 0, sender.PendingDeliveries())

		_, err = sender.SendSettled(message.Text("m2"), false)
		require.NoError(t, err)
		assert.Equal(t, 1, sender.PendingDeliveries())
	})

	t.Run("PerDeliveryRequiresMixed", func(t *testing.T) {
		sender := NewSender(testConfig("s4"), "sess-1")
		require.NoError(t, sender.Attach())
		sender.AddCredit(1)

		_, err := sender.SendSettled(message.Text("m1"), true)
		require.Error(t, err)
		assert.True(t, errs.IsKind(err, errs.KindInvalidState))
	})
}

func TestReceiverFIFO(t *testing.T) {
	receiver := NewReceiver(testConfig("r1"), "sess-1")
	require.NoError(t, receiver.Attach())

	// 无消息时返回 nil
	msg, err := receiver.Receive()
	require.NoError(t, err)
	assert.Nil(t, msg)
	assert.Equal(t, uint32(0), receiver.DeliveryCount())

	receiver.SimulateReceive(message.Text("first"))
	receiver.SimulateReceive(message.Text("second"))
	assert.Equal(t, 2, receiver.Queued())

	msg, err = receiver.Receive()
	require.NoError(t, err)
	text, _ := msg.BodyAsText()
	assert.Equal(t, "first", text)
	assert.Equal(t, uint32(1), receiver.DeliveryCount())

	msg, err = receiver.Receive()
	require.NoError(t, err)
	text, _ = msg.BodyAsText()
	assert.Equal(t, "second", text)
	assert.Equal(t, uint32(2), receiver.DeliveryCount())

	// 队列耗尽 计数不再增长
	msg, err = receiver.Receive()
	require.NoError(t, err)
	assert.Nil(t, msg)
	assert.Equal(t, uint32(2), receiver.DeliveryCount())
}

func TestReceiverRequiresAttached(t *testing.T) {
	receiver := NewReceiver(testConfig("r1"), "sess-1")
	_, err := receiver.Receive()
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindInvalidState))
}

func TestReceiverCredit(t *testing.T) {
	receiver := NewReceiver(testConfig("r1"), "sess-1")
	assert.Equal(t, uint32(0), receiver.Credit())
	receiver.AddCredit(10)
	assert.Equal(t, uint32(10), receiver.Credit())
}

func TestBuilderDefaults(t *testing.T) {
	cfg := NewBuilder().Config()
	// 默认名称为新生成的 UUID
	assert.NotEmpty(t, cfg.Name)
	assert.Equal(t, types.SenderUnsettled, cfg.SenderSettleMode)
	assert.Equal(t, types.ReceiverFirst, cfg.ReceiverSettleMode)

	other := NewBuilder().Config()
	assert.NotEqual(t, cfg.Name, other.Name)
}

func TestBuilderChain(t *testing.T) {
	terminus := NewTerminusBuilder().
		Durability(types.DurabilityConfiguration).
		ExpiryPolicy(types.ExpiryNever).
		Timeout(60).
		Property("resume", types.Bool(true)).
		Build()

	sender := NewBuilder().
		Name("orders-sender").
		Source("local").
		Target("orders").
		SenderSettleMode(types.SenderMixed).
		ReceiverSettleMode(types.ReceiverSecond).
		SourceConfig(terminus).
		Property("priority", types.Ubyte(4)).
		BuildSender("sess-9")

	assert.Equal(t, "orders-sender", sender.Name())
	assert.Equal(t, "sess-9-link-orders-sender", sender.ID())
	assert.Equal(t, StateDetached, sender.State())

	receiver := NewBuilder().
		Name("orders-receiver").
		Source("orders").
		BuildReceiver("sess-9")
	assert.Equal(t, "orders-receiver", receiver.Name())
}
