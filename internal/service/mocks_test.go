package service

import (
	"context"

	"github.com/noah-isme/dnothi-api/internal/models"
)

type recordedAudit struct {
	ActorID  int64
	Table    string
	Action   string
	RecordID *int64
}

type mockAudit struct {
	entries []recordedAudit
}

func (m *mockAudit) Record(ctx context.Context, actorID int64, table, action string, recordID *int64, oldValue, newValue interface{}, meta models.RequestMeta) {
	m.entries = append(m.entries, recordedAudit{ActorID: actorID, Table: table, Action: action, RecordID: recordID})
}

type sentNotification struct {
	UserID int64
	Type   string
}

type mockNotifier struct {
	sent []sentNotification
}

func (m *mockNotifier) Notify(ctx context.Context, userID int64, title, message, kind string, relatedID *int64, relatedType *string) {
	m.sent = append(m.sent, sentNotification{UserID: userID, Type: kind})
}
