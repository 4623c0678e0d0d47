package actor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMailboxFirstPushUnblocks(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := NewMailbox(0)
	result := m.Push(Sender{}, NewMessageId(PriorityNormal, 0), NewMessage("hi"))
	assert.Equal(t, PushUnblocked, result)

	second := m.Push(Sender{}, NewMessageId(PriorityNormal, 0), NewMessage("again"))
	assert.Equal(t, PushQueued, second)
}

func TestMailboxHighPriorityDrainsFirst(t *testing.T) {
	m := NewMailbox(0)
	m.Push(Sender{}, NewMessageId(PriorityNormal, 0), NewMessage("normal"))
	m.Push(Sender{}, NewMessageId(PriorityHigh, 0), NewMessage("urgent"))

	first := m.Pop()
	assert.Equal(t, "urgent", first.Payload.At(0))

	second := m.Pop()
	assert.Equal(t, "normal", second.Payload.At(0))

	assert.Nil(t, m.Pop())
}

func TestMailboxCapacityReportsFull(t *testing.T) {
	m := NewMailbox(1)
	assert.Equal(t, PushUnblocked, m.Push(Sender{}, NewMessageId(PriorityNormal, 0), NewMessage(1)))
	assert.Equal(t, PushFull, m.Push(Sender{}, NewMessageId(PriorityNormal, 0), NewMessage(2)))
}

func TestMailboxCloseRejectsFuturePushes(t *testing.T) {
	m := NewMailbox(0)
	m.Push(Sender{}, NewMessageId(PriorityNormal, 0), NewMessage(1))
	m.Close()

	assert.Equal(t, PushClosed, m.Push(Sender{}, NewMessageId(PriorityNormal, 0), NewMessage(2)))
	// Already-queued envelopes still drain after Close.
	assert.NotNil(t, m.Pop())
	assert.Nil(t, m.Pop())
}

func TestMailboxIdleTransitionsToBlockedWhenEmpty(t *testing.T) {
	m := NewMailbox(0)
	m.Push(Sender{}, NewMessageId(PriorityNormal, 0), NewMessage(1))
	m.Pop()

	assert.False(t, m.Idle())
	assert.Equal(t, MailboxBlocked, m.State())

	result := m.Push(Sender{}, NewMessageId(PriorityNormal, 0), NewMessage(2))
	assert.Equal(t, PushUnblocked, result)
}

func TestMailboxIdleReportsRemainingWorkWithoutMutatingState(t *testing.T) {
	m := NewMailbox(0)
	m.MarkReady()
	m.Push(Sender{}, NewMessageId(PriorityNormal, 0), NewMessage(1))

	assert.True(t, m.Idle())
	assert.Equal(t, MailboxReady, m.State())
}
