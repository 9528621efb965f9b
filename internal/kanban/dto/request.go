package dto

import "time"

// CreateColumnRequest creates a board column. LabelOption controls the Gmail
// mapping: "existing" links LabelID, "new" creates a label named after the
// column, "none" leaves the column local-only.
type CreateColumnRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	LabelOption string `json:"labelOption" binding:"required,oneof=existing new none"`
	LabelID     string `json:"labelId"`
}

type UpdateColumnRequest struct {
	Name        string `json:"name" binding:"omitempty,min=1,max=100"`
	LabelOption string `json:"labelOption" binding:"omitempty,oneof=existing new none"`
	LabelID     string `json:"labelId"`
}

type ReorderColumnsRequest struct {
	ColumnIDs []string `json:"columnIds" binding:"required,min=1"`
}

// MoveEmailRequest moves one email between columns. TargetIndex is the
// drop position within the destination; nil appends.
type MoveEmailRequest struct {
	EmailID      string `json:"emailId" binding:"required"`
	FromColumnID string `json:"fromColumnId"`
	ToColumnID   string `json:"toColumnId" binding:"required"`
	TargetIndex  *int   `json:"targetIndex"`
}

type BatchMoveRequest struct {
	EmailIDs     []string `json:"emailIds" binding:"required,min=1"`
	FromColumnID string   `json:"fromColumnId"`
	ToColumnID   string   `json:"toColumnId" binding:"required"`
}

// ReorderEmailsRequest repositions one email inside its column. TargetIndex
// is the position among the column's ordered entries after the move.
type ReorderEmailsRequest struct {
	EmailID     string `json:"emailId" binding:"required"`
	ColumnID    string `json:"columnId" binding:"required"`
	TargetIndex int    `json:"targetIndex" binding:"min=0"`
}

type PinEmailRequest struct {
	EmailID  string `json:"emailId" binding:"required"`
	ColumnID string `json:"columnId" binding:"required"`
	Position *int   `json:"position"`
}

type SetPriorityRequest struct {
	EmailID  string `json:"emailId" binding:"required"`
	ColumnID string `json:"columnId"`
	Level    int    `json:"level"`
}

type SnoozeEmailRequest struct {
	EmailID  string    `json:"emailId" binding:"required"`
	ThreadID string    `json:"threadId"`
	ColumnID string    `json:"columnId" binding:"required"`
	Until    time.Time `json:"until" binding:"required"`
}

type SummarizeRequest struct {
	Force bool `json:"force"`
}

type BatchSummarizeRequest struct {
	EmailIDs []string `json:"emailIds" binding:"required,min=1"`
}
