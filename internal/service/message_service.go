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

// MessageView is a direct message resolved for one viewer: asset URLs are
// already gated (original vs blurred) and the peer's presence is attached.
type MessageView struct {
	*models.Message
	Sender           *models.UserProfile `json:"sender,omitempty"`
	Assets           []models.AssetView  `json:"assets,omitempty"`
	PeerPresence     models.PresenceInfo `json:"peer_presence"`
	RepliedToMessage *models.Message     `json:"replied_to_message,omitempty"`
}

// SendMessageInput carries the caller-supplied fields of a send.
type SendMessageInput struct {
	Body        string   `json:"body"`
	ImageRef    string   `json:"image_ref"`
	IsExclusive bool     `json:"is_exclusive"`
	Price       *int64   `json:"price"`
	AssetIDs    []string `json:"asset_ids"`
}

// MessageServiceDeps wires the direct messaging engine.
type MessageServiceDeps struct {
	Channels   repository.ChannelRepository
	Messages   repository.MessageRepository
	Replies    repository.ReplyRepository
	Reactions  repository.ReactionRepository
	Purchases  repository.PurchaseRepository
	Assets     repository.AssetRepository
	Users      repository.UserRepository
	URLs       URLResolver
	Push       Pusher
	Events     events.Publisher
	Presence   *presence.Registry
	Limiter    RateLimiter
	RateLimit  int
	RateWindow time.Duration
	Log        *zap.SugaredLogger
}

type MessageService struct {
	d MessageServiceDeps
}

func NewMessageService(d MessageServiceDeps) *MessageService {
	return &MessageService{d: d}
}

// Send validates, persists and fans the message out to the receiver. The
// push and the kafka publish happen after commit and are best-effort.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID string, in SendMessageInput) (*MessageView, error) {
	if in.IsExclusive {
		if len(in.AssetIDs) == 0 {
			return nil, apperr.ErrInvalidRequest
		}
	} else if in.Body == "" {
		return nil, apperr.ErrInvalidRequest
	}
	if receiverID == "" || receiverID == senderID {
		return nil, apperr.ErrInvalidRequest
	}
	if err := s.allow(ctx, senderID); err != nil {
		return nil, err
	}

	ch, err := s.d.Channels.GetOrCreate(ctx, senderID, receiverID)
	if err != nil {
		return nil, fmt.Errorf("resolve channel: %w", err)
	}

	m := models.NewMessage(ch.ID.Hex(), senderID, receiverID, in.Body, in.ImageRef, in.IsExclusive, in.Price)
	m.AssetIDs = in.AssetIDs
	if err := s.d.Messages.Insert(ctx, m); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	if err := s.d.Channels.Touch(ctx, ch.ID.Hex()); err != nil {
		s.d.Log.Warnw("touch channel", "channel_id", ch.ID.Hex(), "err", err)
	}

	receiverView, err := s.viewFor(ctx, receiverID, m)
	if err != nil {
		s.d.Log.Warnw("resolve receiver view", "message_id", m.ID, "err", err)
		receiverView = &MessageView{Message: m}
	}
	s.d.Push.EmitToUsers([]string{receiverID}, "newMessage", receiverView)
	s.publishSent(ctx, m)

	return s.viewFor(ctx, senderID, m)
}

// Edit lets only the original sender change the body. The write is
// conditioned on the version read here; a lost race returns ErrConflict.
func (s *MessageService) Edit(ctx context.Context, senderID, messageID, newBody string) (*models.Message, error) {
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
		return nil, fmt.Errorf("edit message: %w", err)
	}
	if !ok {
		return nil, apperr.ErrConflict
	}

	m.Body = newBody
	m.Edited = true
	m.EditedAt = &now
	m.Version++
	s.d.Push.EmitToUsers([]string{m.ReceiverID}, "messageEdited", m)
	return m, nil
}

// Delete performs the soft-then-hard sequence: the record is first cleared
// and flagged deleted, the receiver is notified with the cleared fields,
// then the record is permanently removed.
func (s *MessageService) Delete(ctx context.Context, senderID, messageID string) error {
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
	s.d.Push.EmitToUsers([]string{m.ReceiverID}, "messageDeleted", m)

	if err := s.d.Reactions.DeleteForMessage(ctx, messageID); err != nil {
		s.d.Log.Warnw("purge reactions", "message_id", messageID, "err", err)
	}
	if err := s.d.Messages.HardDelete(ctx, messageID); err != nil {
		return fmt.Errorf("hard delete: %w", err)
	}
	return nil
}

// BulkDelete removes every listed message owned by the sender. Only the
// receiver of the first matched message is notified.
func (s *MessageService) BulkDelete(ctx context.Context, senderID string, messageIDs []string) (int, error) {
	if len(messageIDs) == 0 {
		return 0, apperr.ErrInvalidRequest
	}
	now := time.Now().UTC()
	matched, err := s.d.Messages.MarkDeletedOwned(ctx, senderID, messageIDs, now)
	if err != nil {
		return 0, fmt.Errorf("bulk mark deleted: %w", err)
	}
	if len(matched) == 0 {
		return 0, nil
	}

	deletedIDs := make([]string, 0, len(matched))
	for _, m := range matched {
		deletedIDs = append(deletedIDs, m.ID)
	}
	s.d.Push.EmitToUsers([]string{matched[0].ReceiverID}, "bulkDelete", map[string]interface{}{
		"message_ids": deletedIDs,
		"sender_id":   senderID,
	})

	if err := s.d.Messages.HardDeleteOwned(ctx, senderID, deletedIDs); err != nil {
		return 0, fmt.Errorf("bulk hard delete: %w", err)
	}
	return len(deletedIDs), nil
}

// Forward copies body, price and exclusivity into a fresh message on the
// target channel. Attachments and purchase records are not carried over.
func (s *MessageService) Forward(ctx context.Context, senderID, messageID, targetReceiverID string) (*MessageView, error) {
	if targetReceiverID == "" || targetReceiverID == senderID {
		return nil, apperr.ErrInvalidRequest
	}
	orig, err := s.getMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if orig.SenderID != senderID && orig.ReceiverID != senderID {
		return nil, apperr.ErrNotAuthorized
	}

	ch, err := s.d.Channels.GetOrCreate(ctx, senderID, targetReceiverID)
	if err != nil {
		return nil, fmt.Errorf("resolve channel: %w", err)
	}
	m := models.NewMessage(ch.ID.Hex(), senderID, targetReceiverID, orig.Body, orig.ImageRef, orig.IsExclusive, orig.Price)
	if err := s.d.Messages.Insert(ctx, m); err != nil {
		return nil, fmt.Errorf("insert forwarded message: %w", err)
	}

	view, err := s.viewFor(ctx, targetReceiverID, m)
	if err != nil {
		view = &MessageView{Message: m}
	}
	s.d.Push.EmitToUsers([]string{targetReceiverID}, "newMessage", view)
	return s.viewFor(ctx, senderID, m)
}

// Reply stores the reply both as a regular message and as a thread-linkage
// record, then back-links the original to the new reply message. The reply
// always lands in the original's channel: only its two members may thread
// on it.
func (s *MessageService) Reply(ctx context.Context, senderID, originalMessageID, receiverID, body, imageRef string) (*MessageView, error) {
	if body == "" && imageRef == "" {
		return nil, apperr.ErrInvalidRequest
	}
	orig, err := s.getMessage(ctx, originalMessageID)
	if err != nil {
		return nil, err
	}
	ch, err := s.d.Channels.GetByID(ctx, orig.ChannelID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("get channel: %w", err)
	}
	if !ch.HasMember(senderID) {
		return nil, apperr.ErrNotAuthorized
	}
	if receiverID != ch.Peer(senderID) {
		return nil, apperr.ErrInvalidRequest
	}

	reply := models.NewMessage(orig.ChannelID, senderID, receiverID, body, imageRef, false, nil)
	if err := s.d.Messages.Insert(ctx, reply); err != nil {
		return nil, fmt.Errorf("insert reply message: %w", err)
	}
	if err := s.d.Replies.InsertReply(ctx, models.NewReply(senderID, orig.ID, reply.ID, receiverID, body, imageRef)); err != nil {
		return nil, fmt.Errorf("insert reply record: %w", err)
	}
	if err := s.d.Messages.SetRepliedTo(ctx, orig.ID, reply.ID); err != nil {
		return nil, fmt.Errorf("back-link original: %w", err)
	}

	view, err := s.viewFor(ctx, receiverID, reply)
	if err != nil {
		view = &MessageView{Message: reply}
	}
	view.RepliedToMessage = orig
	s.d.Push.EmitToUsers([]string{receiverID}, "replyMessage", view)

	senderView, err := s.viewFor(ctx, senderID, reply)
	if err != nil {
		return nil, err
	}
	senderView.RepliedToMessage = orig
	return senderView, nil
}

// React appends a reaction row. There is deliberately no duplicate check:
// the same user may react to the same message more than once.
func (s *MessageService) React(ctx context.Context, userID, messageID, reaction string) (*models.Reaction, error) {
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
	s.d.Push.EmitToUsers([]string{m.SenderID}, "messageReactions", r)
	return r, nil
}

// RemoveReaction deletes a reaction owned by the caller. The push event
// carries only the reactor and reaction ids; clients refetch the rest.
func (s *MessageService) RemoveReaction(ctx context.Context, userID, reactionID string) error {
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
		s.d.Push.EmitToUsers([]string{m.SenderID}, "deletedReactions", map[string]interface{}{
			"user_id":     userID,
			"reaction_id": reactionID,
		})
	}
	return nil
}

// MarkSeen flips seen/delivered for the receiver and notifies the sender.
func (s *MessageService) MarkSeen(ctx context.Context, receiverID, messageID string) (*models.Message, error) {
	m, err := s.d.Messages.MarkSeen(ctx, messageID, receiverID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("mark seen: %w", err)
	}
	s.d.Push.EmitToUsers([]string{m.SenderID}, "messageSeen", map[string]interface{}{
		"message_id": m.ID,
		"seen_by":    receiverID,
	})
	return m, nil
}

// List returns the channel's messages newest-first, each gated for the
// viewer. Visibility is recomputed on every call.
func (s *MessageService) List(ctx context.Context, viewerID, channelID string, limit int64, before time.Time) ([]*MessageView, error) {
	ch, err := s.d.Channels.GetByID(ctx, channelID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("get channel: %w", err)
	}
	if !ch.HasMember(viewerID) {
		return nil, apperr.ErrNotAuthorized
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	msgs, err := s.d.Messages.List(ctx, channelID, limit, before)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	out := make([]*MessageView, 0, len(msgs))
	for _, m := range msgs {
		v, err := s.viewFor(ctx, viewerID, m)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *MessageService) getMessage(ctx context.Context, id string) (*models.Message, error) {
	m, err := s.d.Messages.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("get message: %w", err)
	}
	return m, nil
}

// viewFor resolves the message for one viewer: gated asset URLs, sender
// profile and peer presence.
func (s *MessageService) viewFor(ctx context.Context, viewerID string, m *models.Message) (*MessageView, error) {
	view := &MessageView{Message: m}

	if len(m.AssetIDs) > 0 {
		assets, err := s.d.Assets.GetByIDs(ctx, m.AssetIDs)
		if err != nil {
			return nil, fmt.Errorf("load assets: %w", err)
		}
		oraclePurchased := false
		if m.IsExclusive && viewerID != m.SenderID && !m.PurchasedByUser(viewerID) {
			oraclePurchased, err = s.d.Purchases.HasPurchased(ctx, m.ID, viewerID)
			if err != nil {
				return nil, fmt.Errorf("purchase lookup: %w", err)
			}
		}
		view.Assets = ResolveAssetViews(viewerID, m, oraclePurchased, assets, s.d.URLs)
	}

	if profile, err := s.d.Users.GetProfile(ctx, m.SenderID); err == nil {
		view.Sender = profile
	}

	peer := m.SenderID
	if viewerID == m.SenderID {
		peer = m.ReceiverID
	}
	view.PeerPresence = models.PresenceInfo{IsOnline: s.d.Presence.IsOnline(peer)}
	if t, ok := s.d.Presence.LastActive(peer); ok {
		view.PeerPresence.LastActive = &t
	}
	return view, nil
}

func (s *MessageService) allow(ctx context.Context, userID string) error {
	if s.d.Limiter == nil || s.d.RateLimit <= 0 {
		return nil
	}
	ok, err := s.d.Limiter.AllowMessage(ctx, userID, s.d.RateLimit, s.d.RateWindow)
	if err != nil {
		// rate limiting is advisory; a redis failure never blocks a send
		s.d.Log.Warnw("rate limiter", "user_id", userID, "err", err)
		return nil
	}
	if !ok {
		return apperr.ErrRateLimited
	}
	return nil
}

func (s *MessageService) publishSent(ctx context.Context, m *models.Message) {
	if s.d.Events == nil {
		return
	}
	err := s.d.Events.MessageSent(ctx, map[string]any{
		"message_id": m.ID,
		"channel_id": m.ChannelID,
		"sender_id":  m.SenderID,
		"created_at": m.CreatedAt,
	})
	if err != nil {
		s.d.Log.Warnw("publish message sent", "message_id", m.ID, "err", err)
	}
}
