package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/alvaro-reta/solari-market/internal/apperror"
	"github.com/alvaro-reta/solari-market/internal/model"
	"github.com/alvaro-reta/solari-market/internal/repository"
)

const MaxMessageLength = 2000

// MessageService owns the direct-message log. Messages are append-only;
// the read flag is the only field ever updated.
type MessageService struct {
	messages repository.MessageRepository
	users    repository.UserRepository
	logger   *slog.Logger
}

func NewMessageService(
	messages repository.MessageRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *MessageService {
	return &MessageService{messages: messages, users: users, logger: logger}
}

// Send appends a message from the sender to another user.
func (s *MessageService) Send(ctx context.Context, from *model.User, toID, content, itemID string) (*model.Message, error) {
	toID = strings.TrimSpace(toID)
	content = strings.TrimSpace(content)
	switch {
	case toID == "":
		return nil, apperror.ValidationFailed("to", "recipient is required")
	case toID == from.ID:
		return nil, apperror.ValidationFailed("to", "you cannot message yourself")
	case content == "":
		return nil, apperror.ValidationFailed("content", "message content is required")
	case len(content) > MaxMessageLength:
		return nil, apperror.ValidationFailed("content",
			fmt.Sprintf("message must be %d characters or less", MaxMessageLength))
	}

	// The store has no foreign keys; confirm the recipient exists so a
	// typo'd ID fails loudly instead of writing an orphaned row.
	if _, _, err := s.users.GetByID(ctx, toID); err != nil {
		return nil, err
	}

	msg := &model.Message{
		FromID:  from.ID,
		ToID:    toID,
		ItemID:  strings.TrimSpace(itemID),
		Content: content,
		Read:    false,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("service/messages: sending: %w", err)
	}

	s.logger.Info("message sent",
		slog.String("messageID", msg.ID),
		slog.String("from", from.ID),
		slog.String("to", toID),
	)

	return msg, nil
}

// MessageView is a message joined with both participants' profiles.
type MessageView struct {
	model.Message
	From *model.Profile `json:"fromUser"`
	To   *model.Profile `json:"toUser"`
}

// Conversation returns the full two-way exchange between the caller and
// another user, oldest first.
//
// Messages addressed to the caller are marked read as a side effect. The
// mark-read writes are best-effort: a failed flip is logged and skipped,
// because the caller asked for the conversation, not for a mutation, and
// the flag will be retried on the next fetch anyway.
func (s *MessageService) Conversation(ctx context.Context, caller *model.User, otherID string) ([]MessageView, error) {
	otherID = strings.TrimSpace(otherID)
	if otherID == "" {
		return nil, apperror.ValidationFailed("userId", "user ID is required")
	}

	all, err := s.messages.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/messages: listing: %w", err)
	}

	type positioned struct {
		msg model.Message
		row int
	}
	convo := make([]positioned, 0, len(all))
	for i, m := range all {
		between := (m.FromID == caller.ID && m.ToID == otherID) ||
			(m.FromID == otherID && m.ToID == caller.ID)
		if between {
			convo = append(convo, positioned{msg: m, row: i + 2})
		}
	}

	sort.SliceStable(convo, func(i, j int) bool {
		return convo[i].msg.CreatedAt.Before(convo[j].msg.CreatedAt)
	})

	callerProfile := caller.Profile()
	var otherProfile *model.Profile
	if other, _, err := s.users.GetByID(ctx, otherID); err == nil {
		p := other.Profile()
		otherProfile = &p
	}

	views := make([]MessageView, 0, len(convo))
	for _, p := range convo {
		m := p.msg

		if m.ToID == caller.ID && !m.Read {
			m.Read = true
			if err := s.messages.Update(ctx, p.row, &m); err != nil {
				s.logger.Warn("marking message read failed",
					slog.String("messageID", m.ID),
					slog.String("error", err.Error()),
				)
				m.Read = false
			}
		}

		view := MessageView{Message: m}
		if m.FromID == caller.ID {
			cp := callerProfile
			view.From, view.To = &cp, otherProfile
		} else {
			cp := callerProfile
			view.From, view.To = otherProfile, &cp
		}
		views = append(views, view)
	}
	return views, nil
}
