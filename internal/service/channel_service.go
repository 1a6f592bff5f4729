package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/swiftsendllc/swiftsend-service-sub000/internal/apperr"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/models"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/presence"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/repository"
)

// ChannelView annotates a channel with the peer's live presence.
type ChannelView struct {
	*models.Channel
	Peer         string              `json:"peer"`
	PeerPresence models.PresenceInfo `json:"peer_presence"`
}

type ChannelService struct {
	channels repository.ChannelRepository
	presence *presence.Registry
	log      *zap.SugaredLogger
}

func NewChannelService(channels repository.ChannelRepository, reg *presence.Registry, log *zap.SugaredLogger) *ChannelService {
	return &ChannelService{channels: channels, presence: reg, log: log}
}

// GetOrCreate is idempotent: both peers may call it concurrently and get
// the same channel.
func (s *ChannelService) GetOrCreate(ctx context.Context, userID, peerID string) (*ChannelView, error) {
	if peerID == "" || peerID == userID {
		return nil, apperr.ErrInvalidRequest
	}
	ch, err := s.channels.GetOrCreate(ctx, userID, peerID)
	if err != nil {
		return nil, fmt.Errorf("get or create channel: %w", err)
	}
	return s.view(userID, ch), nil
}

func (s *ChannelService) List(ctx context.Context, userID string) ([]*ChannelView, error) {
	chs, err := s.channels.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	out := make([]*ChannelView, 0, len(chs))
	for _, ch := range chs {
		out = append(out, s.view(userID, ch))
	}
	return out, nil
}

// Delete removes the channel record; its messages stay behind, orphaned.
func (s *ChannelService) Delete(ctx context.Context, requesterID, channelID string) error {
	ch, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		if err == repository.ErrNotFound {
			return apperr.ErrNotFound
		}
		return fmt.Errorf("get channel: %w", err)
	}
	if !ch.HasMember(requesterID) {
		return apperr.ErrNotAuthorized
	}
	if err := s.channels.Delete(ctx, channelID); err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}
	return nil
}

func (s *ChannelService) view(userID string, ch *models.Channel) *ChannelView {
	peer := ch.Peer(userID)
	info := models.PresenceInfo{IsOnline: s.presence.IsOnline(peer)}
	if t, ok := s.presence.LastActive(peer); ok {
		info.LastActive = &t
	}
	return &ChannelView{Channel: ch, Peer: peer, PeerPresence: info}
}
