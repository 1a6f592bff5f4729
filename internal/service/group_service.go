package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/swiftsendllc/swiftsend-service-sub000/internal/apperr"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/models"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/repository"
)

// GroupService owns the group directory and its role state machine. Every
// mutation validates against a fresh read for a precise error, then applies
// a single guarded update; a guard that no longer matches means a
// concurrent actor won the race.
type GroupService struct {
	groups repository.GroupRepository
	log    *zap.SugaredLogger
}

func NewGroupService(groups repository.GroupRepository, log *zap.SugaredLogger) *GroupService {
	return &GroupService{groups: groups, log: log}
}

func (s *GroupService) Create(ctx context.Context, adminID, name, description, avatarRef string) (*models.Group, error) {
	if name == "" {
		return nil, apperr.ErrInvalidRequest
	}
	g := models.NewGroup(adminID, name, description, avatarRef)
	if err := s.groups.Insert(ctx, g); err != nil {
		return nil, fmt.Errorf("insert group: %w", err)
	}
	return g, nil
}

func (s *GroupService) Get(ctx context.Context, groupID string) (*models.Group, error) {
	return s.getGroup(ctx, groupID)
}

func (s *GroupService) ListForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	groups, err := s.groups.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// AddMember lets any existing participant add a new one.
func (s *GroupService) AddMember(ctx context.Context, actorID, groupID, memberID string) (*models.Group, error) {
	g, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !g.IsParticipant(actorID) {
		return nil, apperr.ErrNotAuthorized
	}
	if g.IsParticipant(memberID) {
		return nil, apperr.ErrAlreadyMember
	}

	ok, err := s.groups.AddParticipant(ctx, groupID, actorID, memberID)
	if err != nil {
		return nil, fmt.Errorf("add participant: %w", err)
	}
	if !ok {
		return nil, apperr.ErrConflict
	}
	return s.getGroup(ctx, groupID)
}

// PromoteToModerator is admin-only and requires a current participant who
// is not yet a moderator.
func (s *GroupService) PromoteToModerator(ctx context.Context, adminID, groupID, memberID string) (*models.Group, error) {
	g, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g.AdminID != adminID {
		return nil, apperr.ErrNotAuthorized
	}
	if !g.IsParticipant(memberID) {
		return nil, apperr.ErrNotAParticipant
	}
	if g.IsModerator(memberID) {
		return nil, apperr.ErrAlreadyModerator
	}

	ok, err := s.groups.AddModerator(ctx, groupID, adminID, memberID)
	if err != nil {
		return nil, fmt.Errorf("add moderator: %w", err)
	}
	if !ok {
		return nil, apperr.ErrConflict
	}
	return s.getGroup(ctx, groupID)
}

// PromoteToAdmin transfers the admin role to a current moderator. The
// previous admin stays a moderator and participant.
func (s *GroupService) PromoteToAdmin(ctx context.Context, currentAdminID, groupID, targetModeratorID string) (*models.Group, error) {
	g, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g.AdminID != currentAdminID {
		return nil, apperr.ErrNotAuthorized
	}
	if !g.IsModerator(targetModeratorID) {
		return nil, apperr.ErrNotAModerator
	}

	ok, err := s.groups.TransferAdmin(ctx, groupID, currentAdminID, targetModeratorID)
	if err != nil {
		return nil, fmt.Errorf("transfer admin: %w", err)
	}
	if !ok {
		return nil, apperr.ErrConflict
	}
	return s.getGroup(ctx, groupID)
}

// DemoteModerator strips the moderator role only; participant status stays.
func (s *GroupService) DemoteModerator(ctx context.Context, adminID, groupID, moderatorID string) (*models.Group, error) {
	g, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g.AdminID != adminID {
		return nil, apperr.ErrNotAuthorized
	}
	if !g.IsModerator(moderatorID) {
		return nil, apperr.ErrNotAModerator
	}

	ok, err := s.groups.RemoveModerator(ctx, groupID, adminID, moderatorID)
	if err != nil {
		return nil, fmt.Errorf("remove moderator: %w", err)
	}
	if !ok {
		return nil, apperr.ErrConflict
	}
	return s.getGroup(ctx, groupID)
}

// KickMember removes a single member. Admin-only.
func (s *GroupService) KickMember(ctx context.Context, adminID, groupID, memberID string) (*models.Group, error) {
	return s.KickMembers(ctx, adminID, groupID, []string{memberID})
}

// KickMembers removes the listed members from participants and moderators
// in one guarded update. The admin cannot kick themselves.
func (s *GroupService) KickMembers(ctx context.Context, adminID, groupID string, memberIDs []string) (*models.Group, error) {
	if len(memberIDs) == 0 {
		return nil, apperr.ErrInvalidRequest
	}
	g, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g.AdminID != adminID {
		return nil, apperr.ErrNotAuthorized
	}
	for _, id := range memberIDs {
		if id == adminID {
			return nil, apperr.ErrInvalidRequest
		}
		if !g.IsParticipant(id) {
			return nil, apperr.ErrNotAParticipant
		}
	}

	ok, err := s.groups.RemoveParticipants(ctx, groupID, adminID, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("remove participants: %w", err)
	}
	if !ok {
		return nil, apperr.ErrConflict
	}
	return s.getGroup(ctx, groupID)
}

// Leave removes the caller from the group. The current admin must transfer
// the role first.
func (s *GroupService) Leave(ctx context.Context, userID, groupID string) error {
	g, err := s.getGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if g.AdminID == userID {
		return apperr.ErrMustTransferAdmin
	}
	if !g.IsParticipant(userID) {
		return apperr.ErrNotAParticipant
	}

	ok, err := s.groups.RemoveSelf(ctx, groupID, userID)
	if err != nil {
		return fmt.Errorf("remove self: %w", err)
	}
	if !ok {
		return apperr.ErrConflict
	}
	return nil
}

// Delete removes the group record. Its messages stay behind, orphaned,
// matching channel deletion.
func (s *GroupService) Delete(ctx context.Context, adminID, groupID string) error {
	g, err := s.getGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if g.AdminID != adminID {
		return apperr.ErrNotAuthorized
	}

	ok, err := s.groups.Delete(ctx, groupID, adminID)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	if !ok {
		return apperr.ErrConflict
	}
	return nil
}

func (s *GroupService) getGroup(ctx context.Context, id string) (*models.Group, error) {
	g, err := s.groups.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("get group: %w", err)
	}
	return g, nil
}
