package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/usr-annotation-backend/internal/data/repos"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
	"github.com/yungbote/usr-annotation-backend/internal/platform/authz"
	"github.com/yungbote/usr-annotation-backend/internal/services"
	"github.com/yungbote/usr-annotation-backend/internal/workflow"
)

type Services struct {
	Auth       services.AuthService
	User       services.UserService
	Content    services.ContentService
	Annotation services.AnnotationService
	Assignment services.AssignmentService
	Concept    services.ConceptService
	Enforcer   *authz.Service
	Workflow   *workflow.Machine
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet repos.Repos, emitter services.Emitter) (Services, error) {
	log.Info("Wiring services...")

	machine := workflow.Load(log)
	enforcer, err := authz.ForWorkflow(log, machine)
	if err != nil {
		return Services{}, fmt.Errorf("init authz: %w", err)
	}

	return Services{
		Auth:       services.NewAuthService(db, log, reposet.User, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.OTPTTL),
		User:       services.NewUserService(db, log, reposet, enforcer),
		Content:    services.NewContentService(db, log, reposet),
		Annotation: services.NewAnnotationService(db, log, reposet),
		Assignment: services.NewAssignmentService(db, log, reposet, machine, enforcer, emitter),
		Concept:    services.NewConceptService(db, log, reposet.Concept),
		Enforcer:   enforcer,
		Workflow:   machine,
	}, nil
}
