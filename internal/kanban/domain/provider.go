package domain

import (
	"context"
	"time"

	"golang.org/x/oauth2"
)

// TokenUpdateFunc persists a refreshed OAuth token for the user that owns it.
type TokenUpdateFunc func(token *oauth2.Token) error

// Label is a provider-side label, the provider's sole notion of organization.
type Label struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"` // "system" or "user"
	MessagesTotal  int64  `json:"messages_total"`
	MessagesUnread int64  `json:"messages_unread"`
}

// MessageSummary is the metadata the board needs for one email card.
type MessageSummary struct {
	ID       string    `json:"id"`
	ThreadID string    `json:"thread_id"`
	Subject  string    `json:"subject"`
	From     string    `json:"from"`
	FromName string    `json:"from_name"`
	Snippet  string    `json:"snippet"`
	LabelIDs []string  `json:"label_ids"`
	Date     time.Time `json:"date"`
	IsUnread bool      `json:"is_unread"`
	IsStarred bool     `json:"is_starred"`
}

// MessageDetail adds the decoded body, used only for summarization.
type MessageDetail struct {
	MessageSummary
	Body string `json:"body"`
}

// MessagePage is one provider page. The provider is the paging authority for
// label-synced columns: NextPageToken is opaque and ResultSizeEstimate is a
// best-effort total.
type MessagePage struct {
	Messages           []*MessageSummary `json:"messages"`
	NextPageToken      string            `json:"next_page_token,omitempty"`
	ResultSizeEstimate int64             `json:"result_size_estimate"`
}

// MailProvider is the external mailbox system. It is authoritative for email
// content and label membership; the local store never caches its results
// beyond a single request.
type MailProvider interface {
	ListLabels(ctx context.Context, accessToken, refreshToken string, onTokenRefresh TokenUpdateFunc) ([]*Label, error)
	GetLabel(ctx context.Context, accessToken, refreshToken, labelID string, onTokenRefresh TokenUpdateFunc) (*Label, error)
	CreateLabel(ctx context.Context, accessToken, refreshToken, name string, onTokenRefresh TokenUpdateFunc) (*Label, error)
	ListMessagesByLabel(ctx context.Context, accessToken, refreshToken, labelID, query, pageToken string, pageSize int64, onTokenRefresh TokenUpdateFunc) (*MessagePage, error)
	GetMessage(ctx context.Context, accessToken, refreshToken, emailID string, onTokenRefresh TokenUpdateFunc) (*MessageSummary, error)
	GetMessageDetail(ctx context.Context, accessToken, refreshToken, emailID string, onTokenRefresh TokenUpdateFunc) (*MessageDetail, error)
	ModifyMessageLabels(ctx context.Context, accessToken, refreshToken, emailID string, addLabelIDs, removeLabelIDs []string, onTokenRefresh TokenUpdateFunc) error
}
