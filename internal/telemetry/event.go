package telemetry

import "time"

type EventType string

const (
	EventTaskCreated     EventType = "task_created"
	EventTaskUpdated     EventType = "task_updated"
	EventTaskRemoved     EventType = "task_removed"
	EventTaskMoved       EventType = "task_moved"
	EventTaskChecked     EventType = "task_checked"
	EventTaskUnchecked   EventType = "task_unchecked"
	EventBoardImported   EventType = "board_imported"
	EventBoardCleared    EventType = "board_cleared"
	EventTemplateApplied EventType = "template_applied"
	EventReportExported  EventType = "report_exported"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}
