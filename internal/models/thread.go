package models

import "time"

// MessageThread is a two-party conversation, optionally scoped to a
// pet. The participant pair is stored normalized (lower user id in
// UserAID) so that lookup by pair is deterministic regardless of who
// initiated the thread. Distinct pet values yield distinct threads.
type MessageThread struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserAID   uint      `gorm:"index;not null" json:"user_a_id"`
	UserBID   uint      `gorm:"index;not null" json:"user_b_id"`
	PetID     *uint     `gorm:"index" json:"pet_id,omitempty"`
	Pet       *Pet      `gorm:"foreignKey:PetID" json:"pet,omitempty"`
	Messages  []Message `gorm:"foreignKey:ThreadID" json:"messages,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasParticipant reports whether userID is one of the two parties.
func (t *MessageThread) HasParticipant(userID uint) bool {
	return t.UserAID == userID || t.UserBID == userID
}

// OtherParticipant returns the counterpart of userID in the thread.
func (t *MessageThread) OtherParticipant(userID uint) uint {
	if t.UserAID == userID {
		return t.UserBID
	}
	return t.UserAID
}

// NormalizePair orders a participant pair so the lower id comes first.
func NormalizePair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

// Message belongs to exactly one thread. Deletion is per-viewer:
// DeletedFor records which participants hid the message, and the
// read-path projection carries that flag instead of dropping rows.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ThreadID   uint      `gorm:"index;not null" json:"thread_id"`
	FromID     uint      `gorm:"not null" json:"from_id"`
	Text       string    `gorm:"not null" json:"text"`
	DeletedFor []uint    `gorm:"serializer:json" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// DeletedForUser reports whether userID has hidden this message.
func (m *Message) DeletedForUser(userID uint) bool {
	for _, id := range m.DeletedFor {
		if id == userID {
			return true
		}
	}
	return false
}
