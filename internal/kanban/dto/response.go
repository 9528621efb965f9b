package dto

import "time"

// ColumnResponse is the public shape of a board column.
type ColumnResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	GmailLabelID   string    `json:"gmailLabelId,omitempty"`
	GmailLabelName string    `json:"gmailLabelName,omitempty"`
	Order          int       `json:"order"`
	HasEmailSync   bool      `json:"hasEmailSync"`
	CreatedAt      time.Time `json:"createdAt"`
}

// AvailableLabelResponse is a Gmail label offered for column linking.
type AvailableLabelResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	MessagesTotal  int64  `json:"messagesTotal"`
	MessagesUnread int64  `json:"messagesUnread"`
}

// EmailCard is one email as rendered on the board, provider metadata plus the
// local overlays merged in.
type EmailCard struct {
	ID            string     `json:"id"`
	ThreadID      string     `json:"threadId"`
	Subject       string     `json:"subject"`
	From          string     `json:"from"`
	FromName      string     `json:"fromName"`
	Snippet       string     `json:"snippet"`
	Date          time.Time  `json:"date"`
	IsUnread      bool       `json:"isUnread"`
	IsStarred     bool       `json:"isStarred"`
	IsPinned      bool       `json:"isPinned"`
	PriorityLevel int        `json:"priorityLevel"`
	HasSummary    bool       `json:"hasSummary"`
	SnoozedUntil  *time.Time `json:"snoozedUntil,omitempty"`
}

// ColumnPageResponse is one page of a column's board view.
type ColumnPageResponse struct {
	Emails        []EmailCard `json:"emails"`
	NextPageToken string      `json:"nextPageToken,omitempty"`
	TotalEstimate int64       `json:"totalEstimate"`
	PinnedCount   int         `json:"pinnedCount"`
}

// MoveResult is the outcome of moving a single email in a batch.
type MoveResult struct {
	EmailID string `json:"emailId"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type BatchMoveResponse struct {
	Success int          `json:"success"`
	Failed  int          `json:"failed"`
	Results []MoveResult `json:"results"`
}

// SummaryResponse carries a cached or freshly generated summary.
// FromDatabase distinguishes a cache hit from a new generation.
type SummaryResponse struct {
	EmailID      string    `json:"emailId"`
	Summary      string    `json:"summary"`
	FromDatabase bool      `json:"fromDatabase"`
	SummarizedAt time.Time `json:"summarizedAt"`
}

type SummarizeResult struct {
	EmailID string `json:"emailId"`
	Success bool   `json:"success"`
	Summary string `json:"summary,omitempty"`
	Error   string `json:"error,omitempty"`
}

type BatchSummarizeResponse struct {
	Success int               `json:"success"`
	Failed  int               `json:"failed"`
	Results []SummarizeResult `json:"results"`
}

// SummaryStatsResponse reports the state of a user's summary cache. Oldest
// and Newest are nil when the cache is empty.
type SummaryStatsResponse struct {
	Total  int64      `json:"total"`
	Oldest *time.Time `json:"oldest"`
	Newest *time.Time `json:"newest"`
}

// SnoozedEmailResponse is one entry of the virtual snoozed view.
type SnoozedEmailResponse struct {
	EmailCard
	OriginalColumn string    `json:"originalColumn"`
	SnoozeUntil    time.Time `json:"snoozeUntil"`
}
