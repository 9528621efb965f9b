// Package gmail implements the board's MailProvider contract on top of the
// Gmail API. Gmail is authoritative for message content and label membership;
// nothing here is cached locally.
package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	kanbandomain "mailboard-backend/internal/kanban/domain"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// TokenUpdateFunc is a callback function that handles token updates
type TokenUpdateFunc = kanbandomain.TokenUpdateFunc

type Service struct {
	clientID     string
	clientSecret string
}

type notifyTokenSource struct {
	src      oauth2.TokenSource
	current  *oauth2.Token
	callback TokenUpdateFunc
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.callback != nil && s.current.AccessToken != t.AccessToken {
		s.current = t
		if err := s.callback(t); err != nil {
			fmt.Printf("Failed to update token: %v\n", err)
		}
	}
	return t, nil
}

func NewService(clientID, clientSecret string) *Service {
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// getGmailService creates a Gmail client with the user's tokens. Refreshed
// tokens are persisted through onTokenRefresh.
func (s *Service) getGmailService(ctx context.Context, accessToken, refreshToken string, onTokenRefresh TokenUpdateFunc) (*gmail.Service, error) {
	token := &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	}

	// Only force refresh if we have a refresh token
	if refreshToken != "" {
		token.Expiry = time.Now()
	}

	config := &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     google.Endpoint,
	}

	tokenSource := config.TokenSource(ctx, token)

	// Wrap token source to detect refreshes
	wrappedSource := &notifyTokenSource{
		src:      tokenSource,
		current:  token,
		callback: onTokenRefresh,
	}

	client := oauth2.NewClient(ctx, wrappedSource)

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %v", err)
	}

	return srv, nil
}

// ListLabels retrieves all system and user labels.
func (s *Service) ListLabels(ctx context.Context, accessToken, refreshToken string, onTokenRefresh TokenUpdateFunc) ([]*kanbandomain.Label, error) {
	srv, err := s.getGmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return nil, err
	}

	labelsResp, err := srv.Users.Labels.List("me").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve labels: %v", err)
	}

	labels := make([]*kanbandomain.Label, 0, len(labelsResp.Labels))
	for _, label := range labelsResp.Labels {
		if label.Type != "system" && label.Type != "user" {
			continue
		}
		labels = append(labels, &kanbandomain.Label{
			ID:             label.Id,
			Name:           label.Name,
			Type:           label.Type,
			MessagesTotal:  label.MessagesTotal,
			MessagesUnread: label.MessagesUnread,
		})
	}
	return labels, nil
}

// GetLabel retrieves a single label including its message counts.
func (s *Service) GetLabel(ctx context.Context, accessToken, refreshToken, labelID string, onTokenRefresh TokenUpdateFunc) (*kanbandomain.Label, error) {
	srv, err := s.getGmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return nil, err
	}

	label, err := srv.Users.Labels.Get("me", labelID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve label %s: %v", labelID, err)
	}

	return &kanbandomain.Label{
		ID:             label.Id,
		Name:           label.Name,
		Type:           label.Type,
		MessagesTotal:  label.MessagesTotal,
		MessagesUnread: label.MessagesUnread,
	}, nil
}

// CreateLabel creates a new user label.
func (s *Service) CreateLabel(ctx context.Context, accessToken, refreshToken, name string, onTokenRefresh TokenUpdateFunc) (*kanbandomain.Label, error) {
	srv, err := s.getGmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return nil, err
	}

	created, err := srv.Users.Labels.Create("me", &gmail.Label{
		Name:                  name,
		LabelListVisibility:   "labelShow",
		MessageListVisibility: "show",
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to create label %q: %v", name, err)
	}

	return &kanbandomain.Label{
		ID:   created.Id,
		Name: created.Name,
		Type: created.Type,
	}, nil
}

// ListMessagesByLabel fetches one page of message summaries for a label.
// Gmail's own pageToken drives pagination; the caller passes it back opaque.
func (s *Service) ListMessagesByLabel(ctx context.Context, accessToken, refreshToken, labelID, query, pageToken string, pageSize int64, onTokenRefresh TokenUpdateFunc) (*kanbandomain.MessagePage, error) {
	srv, err := s.getGmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return nil, err
	}

	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 500 {
		pageSize = 500 // Gmail API maximum
	}

	listCall := srv.Users.Messages.List("me").LabelIds(labelID).MaxResults(pageSize).Context(ctx)
	if query != "" {
		listCall = listCall.Q(query)
	}
	if pageToken != "" {
		listCall = listCall.PageToken(pageToken)
	}

	listResp, err := listCall.Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve messages for label %s: %v", labelID, err)
	}

	// Hydrate metadata in parallel; list results carry only ids.
	type msgResult struct {
		index   int
		summary *kanbandomain.MessageSummary
		err     error
	}

	msgChan := make(chan msgResult, len(listResp.Messages))
	semaphore := make(chan struct{}, 10) // Max 10 concurrent requests

	for i, msg := range listResp.Messages {
		go func(index int, msgID string) {
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			full, err := srv.Users.Messages.Get("me", msgID).
				Format("metadata").
				MetadataHeaders("Subject", "From", "Date").
				Context(ctx).Do()
			if err != nil {
				msgChan <- msgResult{index, nil, err}
				return
			}
			msgChan <- msgResult{index, convertMessageSummary(full), nil}
		}(i, msg.Id)
	}

	// Preserve Gmail's reverse-chronological list order despite parallel fetch.
	ordered := make([]*kanbandomain.MessageSummary, len(listResp.Messages))
	for range listResp.Messages {
		result := <-msgChan
		if result.err == nil && result.summary != nil {
			ordered[result.index] = result.summary
		}
	}

	messages := make([]*kanbandomain.MessageSummary, 0, len(ordered))
	for _, m := range ordered {
		if m != nil {
			messages = append(messages, m)
		}
	}

	return &kanbandomain.MessagePage{
		Messages:           messages,
		NextPageToken:      listResp.NextPageToken,
		ResultSizeEstimate: listResp.ResultSizeEstimate,
	}, nil
}

// GetMessage retrieves metadata for a single message.
func (s *Service) GetMessage(ctx context.Context, accessToken, refreshToken, emailID string, onTokenRefresh TokenUpdateFunc) (*kanbandomain.MessageSummary, error) {
	srv, err := s.getGmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return nil, err
	}

	msg, err := srv.Users.Messages.Get("me", emailID).
		Format("metadata").
		MetadataHeaders("Subject", "From", "Date").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve message %s: %v", emailID, err)
	}
	return convertMessageSummary(msg), nil
}

// GetMessageDetail retrieves a message with its decoded body, used for
// summarization.
func (s *Service) GetMessageDetail(ctx context.Context, accessToken, refreshToken, emailID string, onTokenRefresh TokenUpdateFunc) (*kanbandomain.MessageDetail, error) {
	srv, err := s.getGmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return nil, err
	}

	msg, err := srv.Users.Messages.Get("me", emailID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve message %s: %v", emailID, err)
	}

	detail := &kanbandomain.MessageDetail{
		MessageSummary: *convertMessageSummary(msg),
		Body:           getMessageBody(msg.Payload),
	}
	return detail, nil
}

// ModifyMessageLabels adds and/or removes labels from a message
func (s *Service) ModifyMessageLabels(ctx context.Context, accessToken, refreshToken, emailID string, addLabelIDs, removeLabelIDs []string, onTokenRefresh TokenUpdateFunc) error {
	srv, err := s.getGmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return err
	}

	modifyReq := &gmail.ModifyMessageRequest{}
	if len(addLabelIDs) > 0 {
		modifyReq.AddLabelIds = addLabelIDs
	}
	if len(removeLabelIDs) > 0 {
		modifyReq.RemoveLabelIds = removeLabelIDs
	}

	_, err = srv.Users.Messages.Modify("me", emailID, modifyReq).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to modify message labels: %v", err)
	}

	return nil
}

// Helper functions

func convertMessageSummary(msg *gmail.Message) *kanbandomain.MessageSummary {
	from := getHeader(msg.Payload.Headers, "From")
	fromName := from
	// Extract name from "Name <email@example.com>" format
	if idx := strings.Index(from, "<"); idx > 0 {
		fromName = strings.TrimSpace(from[:idx])
		fromName = strings.Trim(fromName, `"`)
	}

	return &kanbandomain.MessageSummary{
		ID:        msg.Id,
		ThreadID:  msg.ThreadId,
		Subject:   getHeader(msg.Payload.Headers, "Subject"),
		From:      from,
		FromName:  fromName,
		Snippet:   msg.Snippet,
		LabelIDs:  msg.LabelIds,
		Date:      time.Unix(msg.InternalDate/1000, 0),
		IsUnread:  hasLabel(msg.LabelIds, "UNREAD"),
		IsStarred: hasLabel(msg.LabelIds, "STARRED"),
	}
}

func getHeader(headers []*gmail.MessagePartHeader, name string) string {
	for _, header := range headers {
		if header.Name == name {
			return header.Value
		}
	}
	return ""
}

func getMessageBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}

	// If the payload itself is the body
	if payload.Body != nil && payload.Body.Data != "" {
		if data, err := base64.URLEncoding.DecodeString(payload.Body.Data); err == nil {
			return string(data)
		}
	}

	var htmlBody, plainBody string

	var findBody func(parts []*gmail.MessagePart)
	findBody = func(parts []*gmail.MessagePart) {
		for _, part := range parts {
			if part.Body != nil && part.Body.Data != "" {
				if data, err := base64.URLEncoding.DecodeString(part.Body.Data); err == nil {
					switch part.MimeType {
					case "text/html":
						htmlBody = string(data)
					case "text/plain":
						plainBody = string(data)
					}
				}
			}
			if len(part.Parts) > 0 {
				findBody(part.Parts)
			}
		}
	}
	findBody(payload.Parts)

	if plainBody != "" {
		return plainBody
	}
	return htmlBody
}

func hasLabel(labels []string, labelID string) bool {
	for _, label := range labels {
		if label == labelID {
			return true
		}
	}
	return false
}
