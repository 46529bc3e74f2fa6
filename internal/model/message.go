package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is a contact-form submission. It is read-only once stored.
type Message struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Message   string
	Timestamp string
	CreatedAt time.Time
}

// InitMeta initializes the message metadata. Timestamp defaults to the bn-BD rendering of the creation time.
func (m *Message) InitMeta() {
	m.ID = uuid.New()
	m.CreatedAt = time.Now().UTC()
	if m.Timestamp == "" {
		m.Timestamp = FormatBanglaTimestamp(m.CreatedAt.In(time.Local))
	}
}

var banglaDigits = strings.NewReplacer(
	"0", "০", "1", "১", "2", "২", "3", "৩", "4", "৪",
	"5", "৫", "6", "৬", "7", "৭", "8", "৮", "9", "৯",
)

// FormatBanglaTimestamp renders t the way a bn-BD locale prints a date-time, e.g. "১৭/১০/২০২৬, ১১:৫১:০০ AM".
func FormatBanglaTimestamp(t time.Time) string {
	return banglaDigits.Replace(t.Format("2/1/2006, 3:04:05 PM"))
}
