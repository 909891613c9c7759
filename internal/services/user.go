package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/usr-annotation-backend/internal/data/repos"
	repouser "github.com/yungbote/usr-annotation-backend/internal/data/repos/user"
	types "github.com/yungbote/usr-annotation-backend/internal/domain"
	"github.com/yungbote/usr-annotation-backend/internal/domain/user"
	"github.com/yungbote/usr-annotation-backend/internal/platform/authz"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/usr-annotation-backend/internal/pkg/errors"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
)

type UserService interface {
	Get(dbc dbctx.Context, id uint) (*types.User, error)
	List(dbc dbctx.Context, filter repouser.ListFilter) ([]*types.User, error)
	SetRole(dbc dbctx.Context, actor user.Actor, id uint, role user.Role) (*types.User, error)
	Suspend(dbc dbctx.Context, actor user.Actor, id uint) (*types.User, error)
	// Delete soft-deletes the user unless they still hold active assignments.
	Delete(dbc dbctx.Context, actor user.Actor, id uint) error
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	repos    repos.Repos
	enforcer *authz.Service
}

func NewUserService(db *gorm.DB, log *logger.Logger, r repos.Repos, enforcer *authz.Service) UserService {
	return &userService{
		db:       db,
		log:      log.With("service", "UserService"),
		repos:    r,
		enforcer: enforcer,
	}
}

func (us *userService) Get(dbc dbctx.Context, id uint) (*types.User, error) {
	return us.repos.User.GetByID(read(dbc), id)
}

func (us *userService) List(dbc dbctx.Context, filter repouser.ListFilter) ([]*types.User, error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, apperrors.NewValidation(fmt.Sprintf("unknown role %q", filter.Role))
	}
	return us.repos.User.List(read(dbc), filter)
}

func (us *userService) SetRole(dbc dbctx.Context, actor user.Actor, id uint, role user.Role) (*types.User, error) {
	if err := us.enforcer.Authorize(actor, authz.ObjectUser, "set_role"); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, apperrors.NewValidation(fmt.Sprintf("unknown role %q", role))
	}

	var out *types.User
	err := inTx(us.db, dbc, func(inner dbctx.Context) error {
		u, err := us.repos.User.GetByID(inner, id)
		if err != nil {
			return err
		}
		updates := map[string]interface{}{"role": role}
		// Granting a working role activates a pending account; suspension sticks.
		if role != user.RolePending && u.Status == user.StatusPending {
			updates["status"] = user.StatusActive
		}
		if err := us.repos.User.UpdateFields(inner, id, updates); err != nil {
			return err
		}
		out, err = us.repos.User.GetByID(inner, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	us.log.Info("Changed user role", "user_id", id, "role", role, "by", actor.UserID)
	return out, nil
}

func (us *userService) Suspend(dbc dbctx.Context, actor user.Actor, id uint) (*types.User, error) {
	if err := us.enforcer.Authorize(actor, authz.ObjectUser, "suspend"); err != nil {
		return nil, err
	}
	if actor.UserID == id {
		return nil, apperrors.NewValidation("admins cannot suspend themselves")
	}
	var out *types.User
	err := inTx(us.db, dbc, func(inner dbctx.Context) error {
		if err := us.repos.User.UpdateFields(inner, id, map[string]interface{}{"status": user.StatusSuspended}); err != nil {
			return err
		}
		var err error
		out, err = us.repos.User.GetByID(inner, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	us.log.Info("Suspended user", "user_id", id, "by", actor.UserID)
	return out, nil
}

func (us *userService) Delete(dbc dbctx.Context, actor user.Actor, id uint) error {
	if err := us.enforcer.Authorize(actor, authz.ObjectUser, "delete"); err != nil {
		return err
	}
	return inTx(us.db, dbc, func(inner dbctx.Context) error {
		if _, err := us.repos.User.GetByID(inner, id); err != nil {
			return err
		}
		active, err := us.repos.Assignment.ActiveIDsByUser(inner, id)
		if err != nil {
			return err
		}
		if len(active) > 0 {
			return apperrors.NewConflict(fmt.Sprintf("user %d still holds active assignments", id), active...)
		}
		if err := us.repos.User.SoftDelete(inner, id); err != nil {
			return err
		}
		us.log.Info("Deleted user", "user_id", id, "by", actor.UserID)
		return nil
	})
}
