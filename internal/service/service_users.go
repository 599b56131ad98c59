// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-intra-api/internal/logger"
	"github.com/MKhiriev/go-intra-api/internal/store"
	"github.com/MKhiriev/go-intra-api/internal/utils"
	"github.com/MKhiriev/go-intra-api/models"
)

// RelationAvatar loads [models.User.Avatar].
const RelationAvatar = "avatar"

var errAvatarRequired = errors.New("file is required")

// UserCache is the cache-aside store of single users, see cache.UsersCache.
type UserCache interface {
	Get(ctx context.Context, id string) (models.User, bool, error)
	Set(ctx context.Context, id string, user models.User, ttl ...time.Duration) error
	Delete(ctx context.Context, id string) error
}

// userFileFields declares the file references of a user.
var userFileFields = []FileField[models.User]{
	{
		Relation: RelationAvatar,
		Column:   store.UserColumnAvatarID,
		Value:    func(u *models.User) *string { return u.AvatarID },
		Attach:   func(u *models.User, f *models.File) { u.Avatar = f },
	},
}

type usersService struct {
	crud  *CRUDService[models.User]
	users store.UserRepository
	files FilesService
	cache UserCache

	logger *logger.Logger
}

// NewUsersService returns the users service. files stores avatars and
// cache holds recently resolved accounts.
func NewUsersService(users store.UserRepository, files FilesService, cache UserCache, logger *logger.Logger) UsersService {
	return &usersService{
		crud:   NewCRUDService[models.User]("User", users, files, userFileFields...),
		users:  users,
		files:  files,
		cache:  cache,
		logger: logger,
	}
}

func (s *usersService) Init(ctx context.Context) error {
	return s.crud.Init(ctx)
}

// Bootstrap creates the configured administrator unless the account already
// exists. Failures are logged and never stop the caller.
func (s *usersService) Bootstrap(ctx context.Context, first models.FirstUser) {
	log := logger.FromContext(ctx)

	hash, err := utils.EncodePassword(first.Password)
	if err != nil {
		log.ErrorRecord(err, CodeFirstUser).Str("func", "*usersService.Bootstrap").
			Msgf("Error creating the first user: %s", err)
		return
	}

	_, err = s.users.Insert(ctx, map[string]any{
		store.UserColumnUsername: first.Username,
		store.UserColumnEmail:    first.Email,
		store.UserColumnPassword: hash,
		store.UserColumnRole:     string(first.Role),
	})
	if errors.Is(err, store.ErrUniqueViolation) {
		log.Info().Str("func", "*usersService.Bootstrap").Msg("First user already exists.")
		return
	}
	if err != nil {
		log.ErrorRecord(err, CodeFirstUser).Str("func", "*usersService.Bootstrap").
			Msgf("Error creating the first user: %s", err)
		return
	}

	log.Info().Str("func", "*usersService.Bootstrap").Str("username", first.Username).Msg("first user created")
}

func (s *usersService) FindAll(ctx context.Context, q models.ListQuery) ([]models.User, error) {
	return s.crud.FindAll(ctx, store.Query{Limit: q.Limit, Offset: q.Offset}, RelationAvatar)
}

func (s *usersService) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.crud.FindByID(ctx, id, RelationAvatar)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, userNotFound(id)
	}
	return user, nil
}

func (s *usersService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.crud.FindOne(ctx, sq.Eq{store.UserColumnEmail: email})
}

// FindByUsernameOrEmailWithPassword is the only lookup returning the
// password hash.
func (s *usersService) FindByUsernameOrEmailWithPassword(ctx context.Context, login string) (*models.User, error) {
	return s.users.FindByUsernameOrEmailWithPassword(ctx, login)
}

func (s *usersService) ValidateUser(ctx context.Context, id string) (*models.User, error) {
	return s.lookup(ctx, id)
}

// AuthorizeAccess returns the target account if actor may act on it.
// A nil actor is an internal call and always passes.
func (s *usersService) AuthorizeAccess(ctx context.Context, targetID string, actor *models.User) (*models.User, error) {
	target, err := s.lookup(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, userNotFound(targetID)
	}

	if actor == nil || actor.IsAdmin() || actor.ID == target.ID {
		return target, nil
	}
	return nil, Forbidden("Access denied: Unauthorized access attempt.")
}

func (s *usersService) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	hash, err := utils.EncodePassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	values := map[string]any{
		store.UserColumnUsername: req.Username,
		store.UserColumnEmail:    req.Email,
		store.UserColumnPassword: hash,
		store.UserColumnRole:     string(role),
	}
	if req.Group != nil {
		values[store.UserColumnGroup] = *req.Group
	}

	return s.crud.Create(ctx, values, RelationAvatar)
}

// UpdateSelf only ever changes the username of actor.
func (s *usersService) UpdateSelf(ctx context.Context, actor *models.User, req models.UpdateUserRequest) (*models.User, error) {
	values := map[string]any{}
	if req.Username != nil {
		values[store.UserColumnUsername] = *req.Username
	}

	return s.update(ctx, actor.ID, actor, values)
}

func (s *usersService) UpdateAdmin(ctx context.Context, id string, actor *models.User, req models.AdminUpdateUserRequest) (*models.User, error) {
	values := map[string]any{}
	if req.Username != nil {
		values[store.UserColumnUsername] = *req.Username
	}
	if req.Email != nil {
		values[store.UserColumnEmail] = *req.Email
	}
	if req.Role != nil {
		values[store.UserColumnRole] = string(*req.Role)
	}
	if req.Group != nil {
		values[store.UserColumnGroup] = *req.Group
	}
	if req.Password != nil {
		hash, err := utils.EncodePassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		values[store.UserColumnPassword] = hash
	}

	return s.update(ctx, id, actor, values)
}

func (s *usersService) ChangePassword(ctx context.Context, id, newPassword string) error {
	hash, err := utils.EncodePassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	_, err = s.update(ctx, id, nil, map[string]any{store.UserColumnPassword: hash})
	return err
}

func (s *usersService) Delete(ctx context.Context, id string, actor *models.User) error {
	if actor != nil {
		if _, err := s.AuthorizeAccess(ctx, id, actor); err != nil {
			return err
		}
	}

	if err := s.crud.Delete(ctx, id, nil); err != nil {
		return err
	}

	s.evict(ctx, id)
	return nil
}

// SetAvatar stores upload and makes it the avatar of actor. The previous
// avatar is removed.
func (s *usersService) SetAvatar(ctx context.Context, actor *models.User, upload Upload) (*models.User, error) {
	log := logger.FromContext(ctx)

	file, err := s.files.CreateFile(ctx, upload)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, Validation(errAvatarRequired)
	}

	user, err := s.update(ctx, actor.ID, actor, map[string]any{store.UserColumnAvatarID: file.ID})
	if err != nil {
		if removeErr := s.files.RemoveByID(ctx, file.ID); removeErr != nil {
			log.ErrorRecord(removeErr, CodeFileDelete).Str("func", "*usersService.SetAvatar").
				Str("file_id", file.ID).Msg("unused avatar wasn't deleted")
		}
		return nil, err
	}
	return user, nil
}

func (s *usersService) RemoveAvatar(ctx context.Context, actor *models.User) (*models.User, error) {
	return s.update(ctx, actor.ID, actor, map[string]any{store.UserColumnAvatarID: nil})
}

// update applies values to the user with id and refreshes its cache entry.
func (s *usersService) update(ctx context.Context, id string, actor *models.User, values map[string]any) (*models.User, error) {
	if actor != nil {
		if _, err := s.AuthorizeAccess(ctx, id, actor); err != nil {
			return nil, err
		}
	}

	user, err := s.crud.Update(ctx, id, values, nil, RelationAvatar)
	if err != nil {
		return nil, err
	}

	s.refresh(ctx, *user)
	return user, nil
}

// lookup returns the user with id, preferring the cache. It returns nil when
// the account does not exist.
func (s *usersService) lookup(ctx context.Context, id string) (*models.User, error) {
	log := logger.FromContext(ctx)

	cached, ok, err := s.cache.Get(ctx, id)
	if err != nil {
		log.Warn().Err(err).Str("func", "*usersService.lookup").Str("user_id", id).Msg("user cache read failed")
	}
	if ok {
		return &cached, nil
	}

	user, err := s.crud.FindByID(ctx, id, RelationAvatar)
	if err != nil || user == nil {
		return nil, err
	}

	s.refresh(ctx, *user)
	return user, nil
}

func (s *usersService) refresh(ctx context.Context, user models.User) {
	if err := s.cache.Set(ctx, user.ID, user); err != nil {
		logger.FromContext(ctx).ErrorRecord(err, CodeUserCacheSet).
			Str("func", "*usersService.refresh").
			Msgf("User cache update: %s", err)
	}
}

func (s *usersService) evict(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, id); err != nil {
		logger.FromContext(ctx).ErrorRecord(err, CodeUserCacheDelete).
			Str("func", "*usersService.evict").
			Msgf("User cache delete: %s", err)
	}
}

func userNotFound(id string) error {
	return NotFound("User with id %s does not exist", id)
}
