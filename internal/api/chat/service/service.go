package chatService

import (
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"ChatbotGolang/internal/api/chat"
	chatRepository "ChatbotGolang/internal/api/chat/repository"
	"ChatbotGolang/internal/entity"
	"ChatbotGolang/pkg/nlp"
	"ChatbotGolang/pkg/pricing"
	redisPkg "ChatbotGolang/pkg/redis"
	"ChatbotGolang/pkg/utils"
)

type IChatService interface {
	CreateSession(ctx context.Context) (chat.CreateSessionResponse, error)
	ProcessTurn(ctx context.Context, sessionID string, utterance string) (chat.TurnResponse, error)
	EndSession(ctx context.Context, sessionID string) error
	GetLatestOrder(ctx context.Context, customerName string) (entity.Order, error)
	GetOrderHistory(ctx context.Context, customerName string) ([]entity.Order, error)
	UpdateOrderStatus(ctx context.Context, customerName string, status entity.OrderStatus) (entity.Order, error)
}

// Options are the process-wide dialogue parameters, frozen at startup.
type Options struct {
	MaxSlotRetries int
	HistoryTTL     time.Duration
	TokenTTL       time.Duration
}

type chatService struct {
	log            *logrus.Logger
	table          *nlp.Table
	normalizer     *nlp.Normalizer
	store          *ContextStore
	chatRepository chatRepository.Repository
	redis          redisPkg.IRedis
	pricing        pricing.IPricing
	utils          utils.IUtils
	opts           Options
}

func New(
	log *logrus.Logger,
	table *nlp.Table,
	normalizer *nlp.Normalizer,
	store *ContextStore,
	cr chatRepository.Repository,
	redis redisPkg.IRedis,
	pricing pricing.IPricing,
	utils utils.IUtils,
	opts Options,
) IChatService {
	if opts.MaxSlotRetries <= 0 {
		opts.MaxSlotRetries = 3
	}
	if opts.HistoryTTL <= 0 {
		opts.HistoryTTL = 24 * time.Hour
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}

	return &chatService{
		log:            log,
		table:          table,
		normalizer:     normalizer,
		store:          store,
		chatRepository: cr,
		redis:          redis,
		pricing:        pricing,
		utils:          utils,
		opts:           opts,
	}
}
