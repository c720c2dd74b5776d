package models

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the conversation log. Messages are never edited
// after they are appended.
type Message struct {
	Role       Role     `json:"role"`
	Content    string   `json:"content"`
	Attachment *FileRef `json:"attachment,omitempty"`
}

// FileRef describes an accepted upload. Only metadata is kept.
type FileRef struct {
	Name      string `json:"name"`
	SizeBytes uint64 `json:"size_bytes"`
	MimeType  string `json:"mime_type"`
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}
