package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/paisatrack/paisatrack/internal/models"
	"github.com/paisatrack/paisatrack/internal/storage"
)

// GroupService manages reusable participant lists that scope debt
// aggregation.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// Create makes a new group. The creator is always a member.
func (s *GroupService) Create(ctx context.Context, createdBy, name string, members []string) (*models.Group, error) {
	if name == "" {
		return nil, validationf("group name is required")
	}

	if !isParticipant(createdBy, members) {
		members = append([]string{createdBy}, members...)
	}
	group := &models.Group{
		Name:      name,
		CreatedBy: createdBy,
		Members:   members,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, err
	}
	slog.Info("Group created", "group_id", group.ID, "members", len(group.Members))
	return group, nil
}

// Get retrieves a group. Only members may view it.
func (s *GroupService) Get(ctx context.Context, groupID, requester string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFoundf("group %q", groupID)
		}
		return nil, err
	}
	if !isParticipant(requester, group.Members) {
		return nil, permissionf("user %q is not a member of group %q", requester, groupID)
	}
	return group, nil
}

// ListForUser retrieves every group the user belongs to.
func (s *GroupService) ListForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.store.ListGroupsByMember(ctx, userID)
}

// AddMembers adds users to a group's roster. The requester must already be
// a member.
func (s *GroupService) AddMembers(ctx context.Context, groupID, requester string, members []string) (*models.Group, error) {
	if len(members) == 0 {
		return nil, validationf("at least one member required")
	}
	if _, err := s.Get(ctx, groupID, requester); err != nil {
		return nil, err
	}
	if err := s.store.AddGroupMembers(ctx, groupID, members); err != nil {
		slog.Error("AddMembers failed", "group_id", groupID, "error", err)
		return nil, err
	}
	return s.store.GetGroup(ctx, groupID)
}
