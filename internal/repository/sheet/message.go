package sheet

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/alvaro-reta/solari-market/internal/model"
	"github.com/alvaro-reta/solari-market/internal/repository"
	"github.com/alvaro-reta/solari-market/internal/tabular"
)

var _ repository.MessageRepository = (*MessageRepo)(nil)

type MessageRepo struct {
	*base
}

var messageColumns = []string{
	"id", "from", "to", "itemId", "content", "read", "createdAt",
}

func messageRow(m *model.Message) []string {
	return []string{
		m.ID,
		m.FromID,
		m.ToID,
		m.ItemID,
		m.Content,
		boolCell(m.Read),
		timeCell(m.CreatedAt),
	}
}

func messageFromRecord(rec tabular.Record) model.Message {
	return model.Message{
		ID:        rec["id"],
		FromID:    rec["from"],
		ToID:      rec["to"],
		ItemID:    rec["itemId"],
		Content:   rec["content"],
		Read:      parseBoolCell(rec["read"]),
		CreatedAt: parseTimeCell(rec["createdAt"]),
	}
}

func (r *MessageRepo) Create(ctx context.Context, msg *model.Message) error {
	if msg.ID == "" {
		msg.ID = xid.New().String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	if err := r.store.AppendRow(ctx, messagesTable, messageRow(msg)); err != nil {
		return fmt.Errorf("sheet: creating message: %w", err)
	}
	return nil
}

func (r *MessageRepo) List(ctx context.Context) ([]model.Message, error) {
	records, err := r.store.ReadTable(ctx, messagesTable)
	if err != nil {
		return nil, fmt.Errorf("sheet: listing messages: %w", err)
	}
	msgs := make([]model.Message, 0, len(records))
	for _, rec := range records {
		msgs = append(msgs, messageFromRecord(rec))
	}
	return msgs, nil
}

// Update exists solely to flip the read flag; messages are otherwise
// immutable once sent.
func (r *MessageRepo) Update(ctx context.Context, row int, msg *model.Message) error {
	if err := r.store.UpdateRow(ctx, messagesTable, row, messageRow(msg)); err != nil {
		return fmt.Errorf("sheet: updating message %s: %w", msg.ID, err)
	}
	return nil
}
