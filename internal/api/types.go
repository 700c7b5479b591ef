package api

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry in a conversation transcript.
type Message struct {
	// ID is the server-assigned id. Zero for an optimistic message that
	// has not been confirmed yet; such messages carry a ClientID instead.
	ID int64 `json:"id,omitempty"`
	// ClientID is a client-generated temporary id for optimistic messages.
	ClientID  string `json:"-"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	DocxFile  string `json:"docx_file,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	// Failed marks a synthetic transcript entry appended in place of a
	// missing assistant reply. Local only, never sent over the wire.
	Failed bool `json:"-"`
}

// Conversation is a named, ordered thread of user/assistant messages.
// Messages is only populated by GetConversation.
type Conversation struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	CreatedAt string     `json:"created_at,omitempty"`
	Messages  []*Message `json:"messages,omitempty"`
}

// Template is a previously uploaded reference document. Immutable once
// uploaded; its text content is fetched on demand.
type Template struct {
	ID           int64  `json:"id"`
	OriginalName string `json:"original_name"`
	Filename     string `json:"filename"`
	UploadedAt   string `json:"uploaded_at,omitempty"`
}

// KeyRecord is a user-scoped model/platform credential record.
type KeyRecord struct {
	ID       int64  `json:"id"`
	Platform string `json:"platform"`
	Model    string `json:"model"`
	APIKey   string `json:"api_key"`
}

// GenerateResponse is the payload returned by the generation endpoint.
// ConvID echoes the conversation the server wrote the exchange into; for
// a "new" conversation reference this is the freshly assigned id.
type GenerateResponse struct {
	Text     string `json:"text"`
	Filename string `json:"filename"`
	HTML     string `json:"html,omitempty"`
	ConvID   int64  `json:"conv_id"`
}
