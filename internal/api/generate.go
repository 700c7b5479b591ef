package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
)

// NewConversation is the conversation reference sent when the request
// does not target an existing conversation yet.
const NewConversation = "new"

// GenerateRequest describes one generation call. Ephemeral: it is never
// persisted locally.
type GenerateRequest struct {
	DocType   string
	UserInput string
	// ConversationID is zero when generating into a fresh conversation.
	ConversationID int64
	// TemplateContent is the resolved text of a selected template, empty
	// when no template guides the generation.
	TemplateContent string
}

// Generate submits a multipart generation request. This is the single
// highest-latency call of the client; it is dispatched on the slow
// client. Not retried on failure: the server may already have mutated
// conversation state.
func (c *Client) Generate(ctx context.Context, request *GenerateRequest) (*GenerateResponse, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	conversationReference := NewConversation
	if request.ConversationID != 0 {
		conversationReference = strconv.FormatInt(request.ConversationID, 10)
	}
	fields := map[string]string{
		"doc_type":   request.DocType,
		"user_input": request.UserInput,
		"conv_id":    conversationReference,
	}
	if request.TemplateContent != "" {
		fields["template_content"] = request.TemplateContent
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, errors.Wrap(err, "writing multipart field")
		}
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "closing multipart writer")
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", body)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	httpRequest.Header.Set("Content-Type", writer.FormDataContentType())

	response := &GenerateResponse{}
	if err := c.sendWith(c.slowClient, httpRequest, response); err != nil {
		return nil, err
	}
	return response, nil
}
