package app

import (
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lingolive/internal/infrastructure/config"
	"github.com/eslsoft/lingolive/internal/infrastructure/identity"
	"github.com/eslsoft/lingolive/internal/infrastructure/scheduler"
	"github.com/eslsoft/lingolive/internal/infrastructure/server"
	"github.com/eslsoft/lingolive/internal/usecase"
)

// Container aggregates the application dependencies produced by Wire.
type Container struct {
	Config     *config.Config
	Logger     *logrus.Logger
	Server     *server.Server
	Scheduler  *scheduler.Scheduler
	Sessions   usecase.SessionRegistry
	Vocabulary usecase.VocabularyUsecase
	Tokens     *identity.TokenManager
}
