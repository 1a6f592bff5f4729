package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/swiftsendllc/swiftsend-service-sub000/internal/apperr"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/models"
)

func newGroupFixture(t *testing.T) (*GroupService, *fakeGroupRepo) {
	t.Helper()
	repo := newFakeGroupRepo()
	return NewGroupService(repo, zap.NewNop().Sugar()), repo
}

func mustCreateGroup(t *testing.T, svc *GroupService, admin string) *models.Group {
	t.Helper()
	g, err := svc.Create(context.Background(), admin, "creators", "", "")
	require.NoError(t, err)
	return g
}

func TestCreateGroupSeedsRoles(t *testing.T) {
	svc, _ := newGroupFixture(t)
	g := mustCreateGroup(t, svc, "alice")

	require.Equal(t, "alice", g.AdminID)
	require.Equal(t, []string{"alice"}, g.Participants)
	require.Equal(t, []string{"alice"}, g.Moderators)

	_, err := svc.Create(context.Background(), "alice", "", "", "")
	require.ErrorIs(t, err, apperr.ErrInvalidRequest)
}

func TestAddMember(t *testing.T) {
	svc, _ := newGroupFixture(t)
	ctx := context.Background()
	g := mustCreateGroup(t, svc, "alice")

	// outsiders cannot add
	_, err := svc.AddMember(ctx, "mallory", g.ID, "bob")
	require.ErrorIs(t, err, apperr.ErrNotAuthorized)

	g, err = svc.AddMember(ctx, "alice", g.ID, "bob")
	require.NoError(t, err)
	require.True(t, g.IsParticipant("bob"))
	require.False(t, g.IsModerator("bob"))

	// any participant may add, not just the admin
	g, err = svc.AddMember(ctx, "bob", g.ID, "carol")
	require.NoError(t, err)
	require.True(t, g.IsParticipant("carol"))

	_, err = svc.AddMember(ctx, "alice", g.ID, "bob")
	require.ErrorIs(t, err, apperr.ErrAlreadyMember)
}

func TestPromoteToModerator(t *testing.T) {
	svc, _ := newGroupFixture(t)
	ctx := context.Background()
	g := mustCreateGroup(t, svc, "alice")
	_, err := svc.AddMember(ctx, "alice", g.ID, "bob")
	require.NoError(t, err)

	_, err = svc.PromoteToModerator(ctx, "bob", g.ID, "bob")
	require.ErrorIs(t, err, apperr.ErrNotAuthorized)

	_, err = svc.PromoteToModerator(ctx, "alice", g.ID, "stranger")
	require.ErrorIs(t, err, apperr.ErrNotAParticipant)

	g, err = svc.PromoteToModerator(ctx, "alice", g.ID, "bob")
	require.NoError(t, err)
	require.True(t, g.IsModerator("bob"))

	_, err = svc.PromoteToModerator(ctx, "alice", g.ID, "bob")
	require.ErrorIs(t, err, apperr.ErrAlreadyModerator)
}

func TestAdminTransferDemotesOldAdminAuthority(t *testing.T) {
	svc, _ := newGroupFixture(t)
	ctx := context.Background()
	g := mustCreateGroup(t, svc, "alice")

	for _, u := range []string{"bob", "carol"} {
		_, err := svc.AddMember(ctx, "alice", g.ID, u)
		require.NoError(t, err)
	}
	_, err := svc.PromoteToModerator(ctx, "alice", g.ID, "bob")
	require.NoError(t, err)

	// only moderators are eligible for the admin role
	_, err = svc.PromoteToAdmin(ctx, "alice", g.ID, "carol")
	require.ErrorIs(t, err, apperr.ErrNotAModerator)

	g, err = svc.PromoteToAdmin(ctx, "alice", g.ID, "bob")
	require.NoError(t, err)
	require.Equal(t, "bob", g.AdminID)
	// the previous admin keeps moderator and participant status
	require.True(t, g.IsModerator("alice"))
	require.True(t, g.IsParticipant("alice"))

	// alice lost admin authority: kicking now fails
	_, err = svc.KickMember(ctx, "alice", g.ID, "carol")
	require.ErrorIs(t, err, apperr.ErrNotAuthorized)

	// the new admin can kick
	g, err = svc.KickMember(ctx, "bob", g.ID, "carol")
	require.NoError(t, err)
	require.False(t, g.IsParticipant("carol"))
}

func TestDemoteModeratorKeepsParticipant(t *testing.T) {
	svc, _ := newGroupFixture(t)
	ctx := context.Background()
	g := mustCreateGroup(t, svc, "alice")
	_, err := svc.AddMember(ctx, "alice", g.ID, "bob")
	require.NoError(t, err)
	_, err = svc.PromoteToModerator(ctx, "alice", g.ID, "bob")
	require.NoError(t, err)

	_, err = svc.DemoteModerator(ctx, "alice", g.ID, "carol")
	require.ErrorIs(t, err, apperr.ErrNotAModerator)

	g, err = svc.DemoteModerator(ctx, "alice", g.ID, "bob")
	require.NoError(t, err)
	require.False(t, g.IsModerator("bob"))
	require.True(t, g.IsParticipant("bob"))
}

func TestKickRules(t *testing.T) {
	svc, _ := newGroupFixture(t)
	ctx := context.Background()
	g := mustCreateGroup(t, svc, "alice")
	for _, u := range []string{"bob", "carol"} {
		_, err := svc.AddMember(ctx, "alice", g.ID, u)
		require.NoError(t, err)
	}
	_, err := svc.PromoteToModerator(ctx, "alice", g.ID, "bob")
	require.NoError(t, err)

	// moderators cannot kick
	_, err = svc.KickMember(ctx, "bob", g.ID, "carol")
	require.ErrorIs(t, err, apperr.ErrNotAuthorized)

	// the admin cannot kick themselves
	_, err = svc.KickMember(ctx, "alice", g.ID, "alice")
	require.ErrorIs(t, err, apperr.ErrInvalidRequest)

	_, err = svc.KickMember(ctx, "alice", g.ID, "stranger")
	require.ErrorIs(t, err, apperr.ErrNotAParticipant)

	// kicking a moderator strips both roles
	g, err = svc.KickMembers(ctx, "alice", g.ID, []string{"bob", "carol"})
	require.NoError(t, err)
	require.False(t, g.IsParticipant("bob"))
	require.False(t, g.IsModerator("bob"))
	require.False(t, g.IsParticipant("carol"))
}

func TestLeaveRequiresAdminTransferFirst(t *testing.T) {
	svc, _ := newGroupFixture(t)
	ctx := context.Background()
	g := mustCreateGroup(t, svc, "alice")
	_, err := svc.AddMember(ctx, "alice", g.ID, "bob")
	require.NoError(t, err)
	_, err = svc.PromoteToModerator(ctx, "alice", g.ID, "bob")
	require.NoError(t, err)

	require.ErrorIs(t, svc.Leave(ctx, "alice", g.ID), apperr.ErrMustTransferAdmin)
	require.ErrorIs(t, svc.Leave(ctx, "stranger", g.ID), apperr.ErrNotAParticipant)

	_, err = svc.PromoteToAdmin(ctx, "alice", g.ID, "bob")
	require.NoError(t, err)
	require.NoError(t, svc.Leave(ctx, "alice", g.ID))

	g, err = svc.Get(ctx, g.ID)
	require.NoError(t, err)
	require.False(t, g.IsParticipant("alice"))
	require.False(t, g.IsModerator("alice"))
}

func TestDeleteGroupAdminOnly(t *testing.T) {
	svc, _ := newGroupFixture(t)
	ctx := context.Background()
	g := mustCreateGroup(t, svc, "alice")
	_, err := svc.AddMember(ctx, "alice", g.ID, "bob")
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, "bob", g.ID), apperr.ErrNotAuthorized)
	require.NoError(t, svc.Delete(ctx, "alice", g.ID))

	_, err = svc.Get(ctx, g.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}
