package flow

import "context"

// Event is one inbound user action, delivered by the chat transport.
// Exactly one of Text/Command/FileData carries the payload; FileKind is
// the uploaded file's extension without the dot. FileError marks an
// attachment whose bytes the transport could not fetch.
type Event struct {
	ChatID    int64
	Text      string
	Command   string
	FileData  []byte
	FileKind  string
	FileError bool
}

// Messenger is the outbound side of the chat transport. keyboard is a
// flat list of quick-choice button labels; empty means plain text.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string, keyboard []string) error
	SendDocument(ctx context.Context, chatID int64, filename string, data []byte) error
}
