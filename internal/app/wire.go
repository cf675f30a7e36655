//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/eslsoft/lingolive/internal/adapter/billing"
	"github.com/eslsoft/lingolive/internal/adapter/connectrpc"
	"github.com/eslsoft/lingolive/internal/adapter/repository"
	"github.com/eslsoft/lingolive/internal/adapter/tutor"
	"github.com/eslsoft/lingolive/internal/infrastructure/cache"
	"github.com/eslsoft/lingolive/internal/infrastructure/config"
	"github.com/eslsoft/lingolive/internal/infrastructure/database"
	"github.com/eslsoft/lingolive/internal/infrastructure/identity"
	"github.com/eslsoft/lingolive/internal/infrastructure/scheduler"
	"github.com/eslsoft/lingolive/internal/infrastructure/server"
	"github.com/eslsoft/lingolive/internal/usecase"
)

var configSet = wire.NewSet(
	config.Load,
)

var databaseSet = wire.NewSet(
	database.NewDriver,
	cache.NewRedisClient,
	provideStateStore,
)

var repositorySet = wire.NewSet(
	repository.NewProfileRepository,
	repository.NewVocabularyRepository,
	repository.NewGuildRepository,
	repository.NewLoginRewardRepository,
)

var adapterSet = wire.NewSet(
	tutor.NewOpenAITutor,
	wire.Bind(new(usecase.Tutor), new(*tutor.OpenAITutor)),
	billing.NewPaymentGateway,
	identity.NewTokenManager,
	wire.Bind(new(connectrpc.TokenVerifier), new(*identity.TokenManager)),
)

var usecaseSet = wire.NewSet(
	provideSessionOptions,
	usecase.NewProfileSync,
	usecase.NewSessionRegistry,
	wire.Bind(new(scheduler.Flusher), new(usecase.SessionRegistry)),
	usecase.NewLearningUsecase,
	usecase.NewChatUsecase,
	usecase.NewPracticeUsecase,
	usecase.NewVocabularyUsecase,
	usecase.NewRewardUsecase,
	usecase.NewGuildUsecase,
	usecase.NewLeaderboardUsecase,
	provideBillingUsecase,
)

var serviceSet = wire.NewSet(
	connectrpc.NewLearningService,
	connectrpc.NewChatService,
	connectrpc.NewPracticeService,
	connectrpc.NewVocabularyService,
	connectrpc.NewRewardService,
	connectrpc.NewGuildService,
	connectrpc.NewLeaderboardService,
	connectrpc.NewBillingService,
	connectrpc.NewCatalogService,
	provideServices,
)

var serverSet = wire.NewSet(
	server.NewLogger,
	server.NewServer,
	scheduler.New,
)

// Initialize builds the application container using Wire.
func Initialize() (*Container, func(), error) {
	wire.Build(
		configSet,
		databaseSet,
		repositorySet,
		adapterSet,
		usecaseSet,
		serviceSet,
		serverSet,
		wire.Struct(new(Container), "*"),
	)
	return nil, nil, nil
}
