package messaging

import (
	"time"

	id "alumnet/pkg/domain"
)

// Message is the stored form: ciphertext sealed under the recipient's
// mailbox key. Plaintext bodies never touch the store.
type Message struct {
	ID          id.MessageID
	SenderID    id.UserID
	RecipientID id.UserID
	ContentHex  string
	IVHex       string
	SentAt      time.Time
}

// InboxItem is a reader's view after decryption. Tampered marks a
// message whose ciphertext failed authentication; the body is empty then.
type InboxItem struct {
	ID          id.MessageID
	SenderID    id.UserID
	RecipientID id.UserID
	Body        string
	SentAt      time.Time
	Tampered    bool
}
