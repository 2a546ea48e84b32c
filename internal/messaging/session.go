package messaging

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Message sender and delivery-status values.
const (
	SenderUser   = "user"
	SenderAI     = "ai"
	SenderSystem = "system"

	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusRead      = "read"

	SessionActive   = "active"
	SessionArchived = "archived"
)

// ErrSessionNotFound indicates the requested chat session does not exist.
var ErrSessionNotFound = errors.New("chat session not found")

// Message is one turn in a patient conversation.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
}

// ChatSession is an ongoing conversation with a patient.
type ChatSession struct {
	ID           string    `json:"id"`
	PatientID    string    `json:"patient_id,omitempty"`
	PatientName  string    `json:"patient_name"`
	PatientPhone string    `json:"patient_phone,omitempty"`
	LastMessage  string    `json:"last_message"`
	UnreadCount  int       `json:"unread_count"`
	Status       string    `json:"status"`
	Messages     []Message `json:"messages"`
}

// SessionStore keeps chat sessions in memory.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*ChatSession
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*ChatSession)}
}

// Create stores a new session.
func (s *SessionStore) Create(ctx context.Context, sess *ChatSession) (*ChatSession, error) {
	stored := cloneSession(sess)
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.Status == "" {
		stored.Status = SessionActive
	}

	s.mu.Lock()
	s.sessions[stored.ID] = stored
	s.mu.Unlock()

	return cloneSession(stored), nil
}

// GetByID retrieves a session by ID.
func (s *SessionStore) GetByID(ctx context.Context, id string) (*ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return cloneSession(sess), nil
}

// List returns all sessions sorted by patient name.
func (s *SessionStore) List(ctx context.Context) ([]*ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*ChatSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, cloneSession(sess))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PatientName < out[j].PatientName })
	return out, nil
}

// AppendMessage adds a message to a session and updates the session
// summary fields. User messages increment the unread counter; replies
// from the assistant reset it.
func (s *SessionStore) AppendMessage(ctx context.Context, id string, msg Message) (*ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	if msg.Status == "" {
		msg.Status = StatusSent
	}

	sess.Messages = append(sess.Messages, msg)
	sess.LastMessage = msg.Text
	if msg.Sender == SenderUser {
		sess.UnreadCount++
	} else {
		sess.UnreadCount = 0
	}
	return cloneSession(sess), nil
}

func cloneSession(sess *ChatSession) *ChatSession {
	cp := *sess
	if sess.Messages != nil {
		cp.Messages = append([]Message(nil), sess.Messages...)
	}
	return &cp
}
