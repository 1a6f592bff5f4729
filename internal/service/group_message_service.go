package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/swiftsendllc/swiftsend-service-sub000/internal/apperr"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/events"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/models"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/presence"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/repository"
)

// GroupReplyView is the payload pushed for a group reply: the new message
// plus the original it answers, for context.
type GroupReplyView struct {
	*models.GroupMessage
	RepliedToMessage *models.GroupMessage `json:"replied_to_message,omitempty"`
}

// GroupMessageServiceDeps wires the group messaging engine.
type GroupMessageServiceDeps struct {
	Groups     repository.GroupRepository
	Messages   repository.GroupMessageRepository
	Replies    repository.ReplyRepository
	Reactions  repository.ReactionRepository
	Push       Pusher
	Events     events.Publisher
	Presence   *presence.Registry
	Limiter    RateLimiter
	RateLimit  int
	RateWindow time.Duration
	Log        *zap.SugaredLogger
}

type GroupMessageService struct {
	d GroupMessageServiceDeps
}

func NewGroupMessageService(d GroupMessageServiceDeps) *GroupMessageService {
	return &GroupMessageService{d: d}
}

// Send snapshots the recipient set (participants minus sender) at send
// time and fans the message out to it. Later membership changes never
// touch the snapshot.
func (s *GroupMessageService) Send(ctx context.Context, senderID, groupID, body, imageRef string, isExclusive bool, price *int64) (*models.GroupMessage, error) {
	if !isExclusive && body == "" {
		return nil, apperr.ErrInvalidRequest
	}
	g, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !g.IsParticipant(senderID) {
		return nil, apperr.ErrNotAuthorized
	}
	if err := s.allow(ctx, senderID); err != nil {
		return nil, err
	}

	m := models.NewGroupMessage(groupID, senderID, g.ReceiversFor(senderID), body, imageRef, isExclusive, price)
	if err := s.d.Messages.Insert(ctx, m); err != nil {
		return nil, fmt.Errorf("insert group message: %w", err)
	}

	s.d.Push.EmitToUsers(m.ReceiversID, "groupMessage", m)
	s.publishSent(ctx, m)
	return m, nil
}

// Edit lets only the sender change the body; the fan-out goes to the
// receiver snapshot of the message, not current membership.
func (s *GroupMessageService) Edit(ctx context.Context, senderID, messageID, newBody string) (*models.GroupMessage, error) {
	if newBody == "" {
		return nil, apperr.ErrInvalidRequest
	}
	m, err := s.getMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if m.SenderID != senderID {
		return nil, apperr.ErrNotAuthorized
	}

	now := time.Now().UTC()
	ok, err := s.d.Messages.Edit(ctx, messageID, m.Version, newBody, now)
	if err != nil {
		return nil, fmt.Errorf("edit group message: %w", err)
	}
	if !ok {
		return nil, apperr.ErrConflict
	}

	m.Body = newBody
	m.Edited = true
	m.EditedAt = &now
	m.Version++
	s.d.Push.EmitToUsers(m.ReceiversID, "group_message_edited", m)
	return m, nil
}

// Delete mirrors the direct engine's soft-then-hard sequence against the
// receiver snapshot.
func (s *GroupMessageService) Delete(ctx context.Context, senderID, messageID string) error {
	m, err := s.getMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if m.SenderID != senderID {
		return apperr.ErrNotAuthorized
	}

	now := time.Now().UTC()
	ok, err := s.d.Messages.MarkDeleted(ctx, messageID, m.Version, now)
	if err != nil {
		return fmt.Errorf("mark deleted: %w", err)
	}
	if !ok {
		return apperr.ErrConflict
	}

	m.Body = ""
	m.ImageRef = ""
	m.Deleted = true
	m.DeletedAt = &now
	s.d.Push.EmitToUsers(m.ReceiversID, "group_message_deleted", m)

	if err := s.d.Reactions.DeleteForMessage(ctx, messageID); err != nil {
		s.d.Log.Warnw("purge group reactions", "message_id", messageID, "err", err)
	}
	if err := s.d.Messages.HardDelete(ctx, messageID); err != nil {
		return fmt.Errorf("hard delete: %w", err)
	}
	return nil
}

// Reply creates a new group message, records the thread linkage and
// back-links the original to the reply. The push carries the original for
// context.
func (s *GroupMessageService) Reply(ctx context.Context, senderID, originalMessageID, body, imageRef string) (*GroupReplyView, error) {
	if body == "" && imageRef == "" {
		return nil, apperr.ErrInvalidRequest
	}
	orig, err := s.getMessage(ctx, originalMessageID)
	if err != nil {
		return nil, err
	}
	g, err := s.getGroup(ctx, orig.GroupID)
	if err != nil {
		return nil, err
	}
	if !g.IsParticipant(senderID) {
		return nil, apperr.ErrNotAuthorized
	}

	reply := models.NewGroupMessage(orig.GroupID, senderID, g.ReceiversFor(senderID), body, imageRef, false, nil)
	if err := s.d.Messages.Insert(ctx, reply); err != nil {
		return nil, fmt.Errorf("insert reply message: %w", err)
	}
	rec := models.NewGroupReply(senderID, orig.GroupID, orig.ID, reply.ID, reply.ReceiversID, body, imageRef)
	if err := s.d.Replies.InsertGroupReply(ctx, rec); err != nil {
		return nil, fmt.Errorf("insert reply record: %w", err)
	}
	if err := s.d.Messages.SetRepliedTo(ctx, orig.ID, reply.ID); err != nil {
		return nil, fmt.Errorf("back-link original: %w", err)
	}

	view := &GroupReplyView{GroupMessage: reply, RepliedToMessage: orig}
	s.d.Push.EmitToUsers(reply.ReceiversID, "groupReplyMessage", view)
	return view, nil
}

// React appends a reaction row. Duplicates by the same user are allowed.
func (s *GroupMessageService) React(ctx context.Context, userID, messageID, reaction string) (*models.Reaction, error) {
	if reaction == "" {
		return nil, apperr.ErrInvalidRequest
	}
	m, err := s.getMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	r := models.NewReaction(userID, messageID, reaction)
	if err := s.d.Reactions.Insert(ctx, r); err != nil {
		return nil, fmt.Errorf("insert reaction: %w", err)
	}
	s.d.Push.EmitToUsers(m.ReceiversID, "group_message_reacted", r)
	return r, nil
}

// RemoveReaction deletes a reaction owned by the caller; the event carries
// the reactor and reaction ids only.
func (s *GroupMessageService) RemoveReaction(ctx context.Context, userID, reactionID string) error {
	r, err := s.d.Reactions.GetByID(ctx, reactionID)
	if err != nil {
		if err == repository.ErrNotFound {
			return apperr.ErrNotFound
		}
		return fmt.Errorf("get reaction: %w", err)
	}
	if r.UserID != userID {
		return apperr.ErrNotAuthorized
	}
	if err := s.d.Reactions.Delete(ctx, reactionID); err != nil {
		return fmt.Errorf("delete reaction: %w", err)
	}

	if m, err := s.getMessage(ctx, r.MessageID); err == nil {
		s.d.Push.EmitToUsers(m.ReceiversID, "group_reaction_deleted", map[string]interface{}{
			"user_id":     userID,
			"reaction_id": reactionID,
		})
	}
	return nil
}

// List returns the group's messages newest-first, enriched with reply
// context, latest reaction, is_reacted and live presence.
func (s *GroupMessageService) List(ctx context.Context, viewerID, groupID string, limit, offset int64) ([]*repository.GroupMessageView, error) {
	g, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !g.IsParticipant(viewerID) {
		return nil, apperr.ErrNotAuthorized
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	views, err := s.d.Messages.ListEnriched(ctx, groupID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list group messages: %w", err)
	}
	for _, v := range views {
		v.Sender = s.presenceInfo(v.SenderID)
		v.Receivers = make(map[string]models.PresenceInfo, len(v.ReceiversID))
		for _, rid := range v.ReceiversID {
			v.Receivers[rid] = s.presenceInfo(rid)
		}
	}
	return views, nil
}

// Media returns the messages addressed to the viewer that carry an image.
func (s *GroupMessageService) Media(ctx context.Context, viewerID, groupID string) ([]*models.GroupMessage, error) {
	if _, err := s.getGroup(ctx, groupID); err != nil {
		return nil, err
	}
	msgs, err := s.d.Messages.Media(ctx, groupID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list group media: %w", err)
	}
	return msgs, nil
}

func (s *GroupMessageService) presenceInfo(userID string) models.PresenceInfo {
	info := models.PresenceInfo{IsOnline: s.d.Presence.IsOnline(userID)}
	if t, ok := s.d.Presence.LastActive(userID); ok {
		info.LastActive = &t
	}
	return info
}

func (s *GroupMessageService) getGroup(ctx context.Context, id string) (*models.Group, error) {
	g, err := s.d.Groups.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("get group: %w", err)
	}
	return g, nil
}

func (s *GroupMessageService) getMessage(ctx context.Context, id string) (*models.GroupMessage, error) {
	m, err := s.d.Messages.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("get group message: %w", err)
	}
	return m, nil
}

func (s *GroupMessageService) allow(ctx context.Context, userID string) error {
	if s.d.Limiter == nil || s.d.RateLimit <= 0 {
		return nil
	}
	ok, err := s.d.Limiter.AllowMessage(ctx, userID, s.d.RateLimit, s.d.RateWindow)
	if err != nil {
		s.d.Log.Warnw("rate limiter", "user_id", userID, "err", err)
		return nil
	}
	if !ok {
		return apperr.ErrRateLimited
	}
	return nil
}

func (s *GroupMessageService) publishSent(ctx context.Context, m *models.GroupMessage) {
	if s.d.Events == nil {
		return
	}
	err := s.d.Events.GroupMessageSent(ctx, map[string]any{
		"message_id": m.ID,
		"group_id":   m.GroupID,
		"sender_id":  m.SenderID,
		"created_at": m.CreatedAt,
	})
	if err != nil {
		s.d.Log.Warnw("publish group message sent", "message_id", m.ID, "err", err)
	}
}
