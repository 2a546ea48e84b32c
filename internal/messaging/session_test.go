package messaging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionAppendUpdatesSummary(t *testing.T) {
	store := NewSessionStore()

	sess, err := store.Create(context.Background(), &ChatSession{PatientName: "Julia"})
	require.NoError(t, err)
	assert.Equal(t, SessionActive, sess.Status)

	sess, err = store.AppendMessage(context.Background(), sess.ID, Message{Sender: SenderUser, Text: "Oi!"})
	require.NoError(t, err)
	assert.Equal(t, "Oi!", sess.LastMessage)
	assert.Equal(t, 1, sess.UnreadCount)
	require.Len(t, sess.Messages, 1)
	assert.NotEmpty(t, sess.Messages[0].ID)
	assert.False(t, sess.Messages[0].Timestamp.IsZero())
	assert.Equal(t, StatusSent, sess.Messages[0].Status)

	sess, err = store.AppendMessage(context.Background(), sess.ID, Message{Sender: SenderAI, Text: "Olá, Julia!"})
	require.NoError(t, err)
	assert.Equal(t, "Olá, Julia!", sess.LastMessage)
	assert.Equal(t, 0, sess.UnreadCount, "assistant reply clears unread counter")
}

func TestSessionAppendUnknownSession(t *testing.T) {
	store := NewSessionStore()
	_, err := store.AppendMessage(context.Background(), "missing", Message{Sender: SenderUser, Text: "oi"})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionCloneIsolation(t *testing.T) {
	store := NewSessionStore()

	sess, err := store.Create(context.Background(), &ChatSession{PatientName: "Julia"})
	require.NoError(t, err)

	_, err = store.AppendMessage(context.Background(), sess.ID, Message{Sender: SenderUser, Text: "original"})
	require.NoError(t, err)

	got, err := store.GetByID(context.Background(), sess.ID)
	require.NoError(t, err)
	got.Messages[0].Text = "mutated"
	got.PatientName = "Someone Else"

	again, err := store.GetByID(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", again.Messages[0].Text)
	assert.Equal(t, "Julia", again.PatientName)
}

func TestConfigStoreSaveWholesale(t *testing.T) {
	store := NewConfigStore()
	assert.Equal(t, DefaultPersonality, store.Get(context.Background()))

	// Saving an incomplete config replaces everything, including fields
	// the caller left at zero.
	store.Save(context.Background(), PersonalityConfig{Formality: 10})
	got := store.Get(context.Background())
	assert.Equal(t, 10, got.Formality)
	assert.Equal(t, 0, got.Empathy)
	assert.False(t, got.ProactiveRescheduling)
}
