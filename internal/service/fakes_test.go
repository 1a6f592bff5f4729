package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/swiftsendllc/swiftsend-service-sub000/internal/models"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/repository"
)

type fakeChannelRepo struct {
	mu    sync.Mutex
	byKey map[string]*models.Channel
}

func newFakeChannelRepo() *fakeChannelRepo {
	return &fakeChannelRepo{byKey: make(map[string]*models.Channel)}
}

func (f *fakeChannelRepo) GetOrCreate(ctx context.Context, userA, userB string) (*models.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.Join(models.NormalizePair(userA, userB), ":")
	if ch, ok := f.byKey[key]; ok {
		cp := *ch
		return &cp, nil
	}
	ch := models.NewChannel(userA, userB)
	ch.ID = primitive.NewObjectID()
	f.byKey[key] = ch
	cp := *ch
	return &cp, nil
}

func (f *fakeChannelRepo) GetByID(ctx context.Context, id string) (*models.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.byKey {
		if ch.ID.Hex() == id {
			cp := *ch
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeChannelRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, ch := range f.byKey {
		if ch.ID.Hex() == id {
			delete(f.byKey, key)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeChannelRepo) ListForUser(ctx context.Context, userID string) ([]*models.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Channel{}
	for _, ch := range f.byKey {
		if ch.HasMember(userID) {
			cp := *ch
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeChannelRepo) Touch(ctx context.Context, id string) error { return nil }

type fakeMessageRepo struct {
	mu   sync.Mutex
	msgs map[string]*models.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{msgs: make(map[string]*models.Message)}
}

func (f *fakeMessageRepo) Insert(ctx context.Context, m *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *m
	f.msgs[m.ID] = &cp
	return nil
}

func (f *fakeMessageRepo) GetByID(ctx context.Context, id string) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.msgs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMessageRepo) List(ctx context.Context, channelID string, limit int64, before time.Time) ([]*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Message{}
	for _, m := range f.msgs {
		if m.ChannelID != channelID {
			continue
		}
		if !before.IsZero() && !m.CreatedAt.Before(before) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeMessageRepo) Edit(ctx context.Context, id string, version int64, body string, editedAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.msgs[id]
	if !ok || m.Version != version {
		return false, nil
	}
	m.Body = body
	m.Edited = true
	m.EditedAt = &editedAt
	m.Version++
	return true, nil
}

func (f *fakeMessageRepo) MarkDeleted(ctx context.Context, id string, version int64, deletedAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.msgs[id]
	if !ok || m.Version != version {
		return false, nil
	}
	m.Body = ""
	m.ImageRef = ""
	m.Deleted = true
	m.DeletedAt = &deletedAt
	m.Version++
	return true, nil
}

func (f *fakeMessageRepo) HardDelete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.msgs, id)
	return nil
}

func (f *fakeMessageRepo) MarkDeletedOwned(ctx context.Context, senderID string, ids []string, deletedAt time.Time) ([]*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := []*models.Message{}
	for _, id := range ids {
		m, ok := f.msgs[id]
		if !ok || m.SenderID != senderID {
			continue
		}
		cp := *m
		matched = append(matched, &cp)
		m.Body = ""
		m.ImageRef = ""
		m.Deleted = true
		m.DeletedAt = &deletedAt
		m.Version++
	}
	return matched, nil
}

func (f *fakeMessageRepo) HardDeleteOwned(ctx context.Context, senderID string, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		if m, ok := f.msgs[id]; ok && m.SenderID == senderID {
			delete(f.msgs, id)
		}
	}
	return nil
}

func (f *fakeMessageRepo) SetRepliedTo(ctx context.Context, id, replyMessageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.msgs[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.RepliedToMessageID = replyMessageID
	return nil
}

func (f *fakeMessageRepo) MarkSeen(ctx context.Context, id, receiverID string) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.msgs[id]
	if !ok || m.ReceiverID != receiverID {
		return nil, repository.ErrNotFound
	}
	m.Seen = true
	m.Delivered = true
	cp := *m
	return &cp, nil
}

type fakeGroupRepo struct {
	mu     sync.Mutex
	groups map[string]*models.Group
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: make(map[string]*models.Group)}
}

func (f *fakeGroupRepo) Insert(ctx context.Context, g *models.Group) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *g
	cp.Moderators = append([]string{}, g.Moderators...)
	cp.Participants = append([]string{}, g.Participants...)
	f.groups[g.ID] = &cp
	return nil
}

func (f *fakeGroupRepo) GetByID(ctx context.Context, id string) (*models.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.groups[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *g
	cp.Moderators = append([]string{}, g.Moderators...)
	cp.Participants = append([]string{}, g.Participants...)
	return &cp, nil
}

func (f *fakeGroupRepo) Delete(ctx context.Context, groupID, adminID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.groups[groupID]
	if !ok || g.AdminID != adminID {
		return false, nil
	}
	delete(f.groups, groupID)
	return true, nil
}

func (f *fakeGroupRepo) ListForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Group{}
	for _, g := range f.groups {
		if g.IsParticipant(userID) {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeGroupRepo) AddParticipant(ctx context.Context, groupID, actorID, memberID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.groups[groupID]
	if !ok || !g.IsParticipant(actorID) || g.IsParticipant(memberID) {
		return false, nil
	}
	g.Participants = append(g.Participants, memberID)
	return true, nil
}

func (f *fakeGroupRepo) AddModerator(ctx context.Context, groupID, adminID, memberID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.groups[groupID]
	if !ok || g.AdminID != adminID || !g.IsParticipant(memberID) || g.IsModerator(memberID) {
		return false, nil
	}
	g.Moderators = append(g.Moderators, memberID)
	return true, nil
}

func (f *fakeGroupRepo) TransferAdmin(ctx context.Context, groupID, currentAdminID, newAdminID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.groups[groupID]
	if !ok || g.AdminID != currentAdminID || !g.IsModerator(newAdminID) {
		return false, nil
	}
	g.AdminID = newAdminID
	if !g.IsModerator(currentAdminID) {
		g.Moderators = append(g.Moderators, currentAdminID)
	}
	return true, nil
}

func (f *fakeGroupRepo) RemoveModerator(ctx context.Context, groupID, adminID, moderatorID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.groups[groupID]
	if !ok || g.AdminID != adminID || !g.IsModerator(moderatorID) {
		return false, nil
	}
	g.Moderators = remove(g.Moderators, []string{moderatorID})
	return true, nil
}

func (f *fakeGroupRepo) RemoveParticipants(ctx context.Context, groupID, adminID string, memberIDs []string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.groups[groupID]
	if !ok || g.AdminID != adminID {
		return false, nil
	}
	for _, id := range memberIDs {
		if id == adminID {
			return false, nil
		}
	}
	g.Participants = remove(g.Participants, memberIDs)
	g.Moderators = remove(g.Moderators, memberIDs)
	return true, nil
}

func (f *fakeGroupRepo) RemoveSelf(ctx context.Context, groupID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.groups[groupID]
	if !ok || g.AdminID == userID || !g.IsParticipant(userID) {
		return false, nil
	}
	g.Participants = remove(g.Participants, []string{userID})
	g.Moderators = remove(g.Moderators, []string{userID})
	return true, nil
}

func remove(set []string, ids []string) []string {
	out := set[:0]
	for _, s := range set {
		drop := false
		for _, id := range ids {
			if s == id {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, s)
		}
	}
	return out
}

type fakeGroupMessageRepo struct {
	mu   sync.Mutex
	msgs map[string]*models.GroupMessage
}

func newFakeGroupMessageRepo() *fakeGroupMessageRepo {
	return &fakeGroupMessageRepo{msgs: make(map[string]*models.GroupMessage)}
}

func (f *fakeGroupMessageRepo) Insert(ctx context.Context, m *models.GroupMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *m
	cp.ReceiversID = append([]string{}, m.ReceiversID...)
	f.msgs[m.ID] = &cp
	return nil
}

func (f *fakeGroupMessageRepo) GetByID(ctx context.Context, id string) (*models.GroupMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.msgs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *m
	cp.ReceiversID = append([]string{}, m.ReceiversID...)
	return &cp, nil
}

func (f *fakeGroupMessageRepo) Edit(ctx context.Context, id string, version int64, body string, editedAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.msgs[id]
	if !ok || m.Version != version {
		return false, nil
	}
	m.Body = body
	m.Edited = true
	m.EditedAt = &editedAt
	m.Version++
	return true, nil
}

func (f *fakeGroupMessageRepo) MarkDeleted(ctx context.Context, id string, version int64, deletedAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.msgs[id]
	if !ok || m.Version != version {
		return false, nil
	}
	m.Body = ""
	m.ImageRef = ""
	m.Deleted = true
	m.DeletedAt = &deletedAt
	m.Version++
	return true, nil
}

func (f *fakeGroupMessageRepo) HardDelete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.msgs, id)
	return nil
}

func (f *fakeGroupMessageRepo) SetRepliedTo(ctx context.Context, id, replyMessageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.msgs[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.RepliedToMessageID = replyMessageID
	return nil
}

func (f *fakeGroupMessageRepo) ListEnriched(ctx context.Context, groupID string, limit, offset int64) ([]*repository.GroupMessageView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*repository.GroupMessageView{}
	for _, m := range f.msgs {
		if m.GroupID != groupID {
			continue
		}
		cp := *m
		out = append(out, &repository.GroupMessageView{GroupMessage: cp})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset < int64(len(out)) {
		out = out[offset:]
	} else {
		out = nil
	}
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeGroupMessageRepo) Media(ctx context.Context, groupID, viewerID string) ([]*models.GroupMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.GroupMessage{}
	for _, m := range f.msgs {
		if m.GroupID != groupID || m.ImageRef == "" {
			continue
		}
		for _, r := range m.ReceiversID {
			if r == viewerID {
				cp := *m
				out = append(out, &cp)
				break
			}
		}
	}
	return out, nil
}

type fakeReplyRepo struct {
	mu           sync.Mutex
	replies      []*models.Reply
	groupReplies []*models.GroupReply
}

func (f *fakeReplyRepo) InsertReply(ctx context.Context, r *models.Reply) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, r)
	return nil
}

func (f *fakeReplyRepo) InsertGroupReply(ctx context.Context, r *models.GroupReply) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groupReplies = append(f.groupReplies, r)
	return nil
}

type fakeReactionRepo struct {
	mu        sync.Mutex
	reactions map[string]*models.Reaction
}

func newFakeReactionRepo() *fakeReactionRepo {
	return &fakeReactionRepo{reactions: make(map[string]*models.Reaction)}
}

func (f *fakeReactionRepo) Insert(ctx context.Context, r *models.Reaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *r
	f.reactions[r.ID] = &cp
	return nil
}

func (f *fakeReactionRepo) GetByID(ctx context.Context, id string) (*models.Reaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reactions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReactionRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reactions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.reactions, id)
	return nil
}

func (f *fakeReactionRepo) Latest(ctx context.Context, messageID string) (*models.Reaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *models.Reaction
	for _, r := range f.reactions {
		if r.MessageID != messageID {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeReactionRepo) DeleteForMessage(ctx context.Context, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, r := range f.reactions {
		if r.MessageID == messageID {
			delete(f.reactions, id)
		}
	}
	return nil
}

func (f *fakeReactionRepo) countFor(messageID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.reactions {
		if r.MessageID == messageID {
			n++
		}
	}
	return n
}

type fakePurchaseRepo struct {
	mu      sync.Mutex
	granted map[string]bool
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{granted: make(map[string]bool)}
}

func (f *fakePurchaseRepo) grant(contentID, userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.granted[contentID+"|"+userID] = true
}

func (f *fakePurchaseRepo) HasPurchased(ctx context.Context, contentID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.granted[contentID+"|"+userID], nil
}

type fakeAssetRepo struct {
	mu     sync.Mutex
	assets map[string]*models.Asset
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{assets: make(map[string]*models.Asset)}
}

func (f *fakeAssetRepo) Insert(ctx context.Context, a *models.Asset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assets[a.ID] = a
	return nil
}

func (f *fakeAssetRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.assets[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.assets, id)
	return nil
}

func (f *fakeAssetRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Asset{}
	for _, id := range ids {
		if a, ok := f.assets[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeUserRepo struct{}

func (fakeUserRepo) GetProfile(ctx context.Context, id string) (*models.UserProfile, error) {
	return &models.UserProfile{ID: id, Username: "user-" + id}, nil
}

type pushed struct {
	userIDs []string
	event   string
	payload interface{}
}

type fakePusher struct {
	mu     sync.Mutex
	events []pushed
}

func (f *fakePusher) EmitToUsers(userIDs []string, event string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, pushed{userIDs: userIDs, event: event, payload: payload})
}

func (f *fakePusher) byEvent(event string) []pushed {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []pushed{}
	for _, p := range f.events {
		if p.event == event {
			out = append(out, p)
		}
	}
	return out
}

type fakeURLs struct{}

func (fakeURLs) URL(key string) string { return "https://cdn.test/" + key }
