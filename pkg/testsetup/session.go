// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package testsetup

import (
	"sync"

	"github.com/AccelByte/extend-mission-matchmaker/pkg/models"
)

// RecordingSession keeps every notification sent to it. Safe for concurrent use.
type RecordingSession struct {
	mu       sync.Mutex
	received []models.Notification
}

func NewRecordingSession() *RecordingSession {
	return &RecordingSession{}
}

func (s *RecordingSession) Send(notification models.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received = append(s.received, notification)
}

func (s *RecordingSession) All() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Notification(nil), s.received...)
}

// Types lists the received notification types in order.
func (s *RecordingSession) Types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	types := make([]string, 0, len(s.received))
	for _, n := range s.received {
		types = append(types, n.Type)
	}
	return types
}

// Count returns how many notifications of the given type were received.
func (s *RecordingSession) Count(notificationType string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.received {
		if n.Type == notificationType {
			count++
		}
	}
	return count
}

// Last returns the most recent notification of the given type.
func (s *RecordingSession) Last(notificationType string) (models.Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.received) - 1; i >= 0; i-- {
		if s.received[i].Type == notificationType {
			return s.received[i], true
		}
	}
	return models.Notification{}, false
}

func (s *RecordingSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received = nil
}
