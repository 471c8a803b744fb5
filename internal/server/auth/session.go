// Package auth implements cookie sessions, the request guard and the
// credential helpers used by the HTTP handlers.
package auth

import "time"

type MessageType string

const (
	MessageSuccess MessageType = "SUCCESS"
	MessageError   MessageType = "ERROR"
)

// Message is a one-shot notice shown on the next page view.
type Message struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}

func Success(msg string) Message { return Message{Type: MessageSuccess, Message: msg} }
func Failure(msg string) Message { return Message{Type: MessageError, Message: msg} }

// Session is the decoded content of the session cookie. It is not safe for
// concurrent use; each request works on its own copy.
type Session struct {
	values    map[string]string
	flash     map[string]Message
	expiresAt time.Time
}

func NewSession() *Session {
	return &Session{values: map[string]string{}, flash: map[string]Message{}}
}

func (s *Session) Get(key string) string {
	return s.values[key]
}

func (s *Session) Set(key, value string) {
	s.values[key] = value
}

func (s *Session) Unset(key string) {
	delete(s.values, key)
}

// Flash stores msg under key until it is taken.
func (s *Session) Flash(key string, msg Message) {
	s.flash[key] = msg
}

// TakeFlash returns and removes the flash stored under key. The removal is
// only persisted once the session is committed again.
func (s *Session) TakeFlash(key string) *Message {
	msg, ok := s.flash[key]
	if !ok {
		return nil
	}
	delete(s.flash, key)
	return &msg
}

// Persistent reports whether the session was committed with a max-age.
func (s *Session) Persistent() bool {
	return !s.expiresAt.IsZero()
}
