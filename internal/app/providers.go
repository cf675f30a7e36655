package app

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lingolive/internal/adapter/connectrpc"
	"github.com/eslsoft/lingolive/internal/adapter/statestore"
	"github.com/eslsoft/lingolive/internal/infrastructure/config"
	"github.com/eslsoft/lingolive/internal/repository"
	"github.com/eslsoft/lingolive/internal/usecase"
)

// provideStateStore keeps session blobs in redis when a client is
// configured and in process memory otherwise.
func provideStateStore(cfg *config.Config, client *redis.Client, logger *logrus.Logger) repository.StateRepository {
	if client == nil {
		logger.Warn("redis not configured, session state is kept in memory")
		return statestore.NewMemoryStore()
	}
	return statestore.NewRedisStore(client, cfg.Redis.TTL)
}

func provideSessionOptions(cfg *config.Config) usecase.SessionOptions {
	return usecase.SessionOptions{
		MessagesLimit: cfg.Learning.MessagesLimit,
		IdleTimeout:   cfg.Sync.IdleTimeout,
	}
}

func provideBillingUsecase(
	cfg *config.Config,
	gateway usecase.PaymentGateway,
	sessions usecase.SessionRegistry,
	profiles repository.ProfileRepository,
	logger *logrus.Logger,
) usecase.BillingUsecase {
	return usecase.NewBillingUsecase(gateway, sessions, profiles, cfg.Billing.AppOrigin, logger)
}

func provideServices(
	learning *connectrpc.LearningService,
	chat *connectrpc.ChatService,
	practice *connectrpc.PracticeService,
	vocabulary *connectrpc.VocabularyService,
	rewards *connectrpc.RewardService,
	guilds *connectrpc.GuildService,
	leaderboard *connectrpc.LeaderboardService,
	billing *connectrpc.BillingService,
	catalog *connectrpc.CatalogService,
) []connectrpc.Service {
	return []connectrpc.Service{learning, chat, practice, vocabulary, rewards, guilds, leaderboard, billing, catalog}
}
