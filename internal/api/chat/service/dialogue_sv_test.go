package chatService

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ChatbotGolang/internal/api/chat"
	chatRepository "ChatbotGolang/internal/api/chat/repository"
	"ChatbotGolang/internal/entity"
	"ChatbotGolang/pkg/nlp"
	"ChatbotGolang/pkg/pricing"
	redisPkg "ChatbotGolang/pkg/redis"
	"ChatbotGolang/pkg/utils"
)

type fakeOrderRepo struct {
	orders    []entity.Order
	createErr error
}

func (f *fakeOrderRepo) CreateOrder(_ context.Context, order entity.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.orders = append(f.orders, order)
	return nil
}

func (f *fakeOrderRepo) GetLatestOrderByName(_ context.Context, customerName string) (entity.Order, error) {
	for i := len(f.orders) - 1; i >= 0; i-- {
		if strings.EqualFold(f.orders[i].CustomerName, customerName) {
			return f.orders[i], nil
		}
	}
	return entity.Order{}, chat.ErrOrderNotFound
}

func (f *fakeOrderRepo) GetOrdersByName(_ context.Context, customerName string) ([]entity.Order, error) {
	var out []entity.Order
	for _, order := range f.orders {
		if strings.EqualFold(order.CustomerName, customerName) {
			out = append(out, order)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) UpdateOrderStatus(_ context.Context, id string, status entity.OrderStatus) error {
	for i := range f.orders {
		if f.orders[i].ID == id {
			f.orders[i].Status = status
			return nil
		}
	}
	return chat.ErrOrderNotFound
}

type fakeRepository struct {
	orders *fakeOrderRepo
}

func (f *fakeRepository) NewClient(bool) (chatRepository.Client, error) {
	return chatRepository.Client{
		Order:    f.orders,
		Commit:   func() error { return nil },
		Rollback: func() error { return nil },
	}, nil
}

type fakeRedis struct {
	cached map[string]entity.Order
	setErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{cached: make(map[string]entity.Order)}
}

func (f *fakeRedis) SetLastOrder(_ context.Context, customerName string, order entity.Order, _ time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.cached[customerName] = order
	return nil
}

func (f *fakeRedis) GetLastOrder(_ context.Context, customerName string) (entity.Order, error) {
	order, ok := f.cached[customerName]
	if !ok {
		return entity.Order{}, redisPkg.ErrCacheMiss
	}
	return order, nil
}

var _ redisPkg.IRedis = (*fakeRedis)(nil)

func testCatalog() entity.IntentCatalog {
	return entity.IntentCatalog{
		FallbackTag:     "fallback",
		EndInputs:       []string{"exit", "quit"},
		EndResponses:    []string{"Goodbye! Thanks for stopping by.", "Bye! Come again."},
		GiveUpResponses: []string{"Let us start over. What can I do for you?"},
		Intents: []entity.IntentDefinition{
			{
				Tag:       "greeting",
				Patterns:  []string{"hello", "hi", "hey"},
				Responses: []string{"Hello!", "Hi there!"},
			},
			{
				Tag:       "order_status",
				Patterns:  []string{"where is my order", "order status"},
				Responses: []string{"Order for {name}: {size} {item}, {status}."},
				SlotKinds: map[string]string{"name": "free_text"},
				SlotOrder: []string{"name"},
				Prompts:   map[string][]string{"name": {"Whose order should I look up?"}},
				Provides:  []string{"item", "size", "price", "order_id", "status"},
				ErrorResponses: []string{
					"I could not find an order under {name}. Whose order is it?",
				},
				Action: entity.ActionLookup,
			},
			{
				Tag:       "cancel",
				Patterns:  []string{"cancel", "never mind"},
				Responses: []string{"Okay, cancelled. What else can I do?"},
				Reset:     true,
			},
			{
				Tag:       "order",
				Patterns:  []string{"order", "i would like", "i want", "can i get"},
				Responses: []string{"Thanks {name}! One {size} {item}, {price} total."},
				Extract: map[string][]string{
					"item": {"pepperoni", "hawaiian", "meat lovers", "meat", "veggie"},
					"size": {"small", "medium", "large"},
				},
				Synonyms: map[string]map[string]string{
					"item": {"meat": "meat lovers"},
				},
				SlotKinds: map[string]string{"name": "free_text"},
				SlotOrder: []string{"item", "size", "name"},
				Prompts: map[string][]string{
					"item": {"Which pizza would you like?"},
					"size": {"What size would you like?"},
					"name": {"What name is the order under?"},
				},
				Provides:       []string{"price", "order_id"},
				ErrorResponses: []string{"We do not serve that one, sorry. Which pizza would you like?"},
				Action:         entity.ActionQuote,
				// hawaiian is deliberately unpriced to exercise quote errors.
				Prices:        map[string]float64{"pepperoni": 11.50, "meat lovers": 13.00, "veggie": 10.00},
				SizeModifiers: map[string]float64{"small": -2.00, "medium": 0, "large": 3.00},
			},
			{
				Tag:       "fallback",
				Responses: []string{"Sorry, I did not catch that."},
			},
		},
	}
}

type serviceFixture struct {
	svc    IChatService
	store  *ContextStore
	orders *fakeOrderRepo
	redis  *fakeRedis
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()

	catalog := testCatalog()
	table, err := nlp.Compile(catalog, nlp.CompileConfig{CaseInsensitive: true})
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	orders := &fakeOrderRepo{}
	redis := newFakeRedis()
	store := NewContextStore()

	svc := New(
		logger,
		table,
		nlp.NewNormalizer(nlp.NormalizerConfig{
			Lowercase:          true,
			ExpandContractions: true,
			Clean:              true,
		}),
		store,
		&fakeRepository{orders: orders},
		redis,
		pricing.New(catalog, "medium"),
		utils.New(),
		Options{MaxSlotRetries: 3},
	)

	return &serviceFixture{svc: svc, store: store, orders: orders, redis: redis}
}

func (f *serviceFixture) turn(t *testing.T, sessionID string, utterance string) chat.TurnResponse {
	t.Helper()
	resp, err := f.svc.ProcessTurn(context.Background(), sessionID, utterance)
	require.NoError(t, err)
	return resp
}

func TestProcessTurn_Greeting(t *testing.T) {
	f := newFixture(t)

	resp := f.turn(t, "s1", "Hello!")
	assert.Equal(t, "Hello!", resp.Reply)
	assert.False(t, resp.Ended)
}

func TestProcessTurn_ResponseRotation(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "Hello!", f.turn(t, "s1", "hello").Reply)
	assert.Equal(t, "Hi there!", f.turn(t, "s1", "hello").Reply)
	assert.Equal(t, "Hello!", f.turn(t, "s1", "hello").Reply)
}

func TestProcessTurn_FullOrderOneShot(t *testing.T) {
	f := newFixture(t)

	// Item and size arrive in the opening utterance; only the name is
	// prompted for.
	resp := f.turn(t, "s1", "I'd like a large pepperoni")
	assert.Equal(t, "What name is the order under?", resp.Reply)

	resp = f.turn(t, "s1", "John")
	assert.Equal(t, "Thanks John! One large pepperoni, 14.50 total.", resp.Reply)

	require.Len(t, f.orders.orders, 1)
	saved := f.orders.orders[0]
	assert.Equal(t, "John", saved.CustomerName)
	assert.Equal(t, "pepperoni", saved.Item)
	assert.Equal(t, "large", saved.Size)
	assert.InDelta(t, 14.50, saved.Price, 0.001)
	assert.Equal(t, entity.OrderStatusPreparing, saved.Status)
	assert.NotEmpty(t, saved.ID)

	cached, err := f.redis.GetLastOrder(context.Background(), "John")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, cached.ID)
}

func TestProcessTurn_SlotsPromptedInDeclaredOrder(t *testing.T) {
	f := newFixture(t)

	resp := f.turn(t, "s1", "I want to order")
	assert.Equal(t, "Which pizza would you like?", resp.Reply)

	resp = f.turn(t, "s1", "veggie")
	assert.Equal(t, "What size would you like?", resp.Reply)

	resp = f.turn(t, "s1", "small")
	assert.Equal(t, "What name is the order under?", resp.Reply)

	resp = f.turn(t, "s1", "my name is Sarah")
	assert.Equal(t, "Thanks Sarah! One small veggie, 8.00 total.", resp.Reply)
}

func TestProcessTurn_SynonymCanonicalizedInOrder(t *testing.T) {
	f := newFixture(t)

	f.turn(t, "s1", "can i get a large meat pizza")
	resp := f.turn(t, "s1", "Bob")
	assert.Equal(t, "Thanks Bob! One large meat lovers, 16.00 total.", resp.Reply)
}

func TestProcessTurn_FallbackDoesNotChangeState(t *testing.T) {
	f := newFixture(t)

	resp := f.turn(t, "s1", "blorp gazonk")
	assert.Equal(t, "Sorry, I did not catch that.", resp.Reply)

	// The conversation recovers on the next recognizable turn.
	resp = f.turn(t, "s1", "hello")
	assert.Equal(t, "Hello!", resp.Reply)
}

func TestProcessTurn_EndInputEndsSession(t *testing.T) {
	f := newFixture(t)

	f.turn(t, "s1", "I want to order")

	resp := f.turn(t, "s1", "exit")
	assert.True(t, resp.Ended)
	assert.Equal(t, "Goodbye! Thanks for stopping by.", resp.Reply)

	_, err := f.svc.ProcessTurn(context.Background(), "s1", "hello")
	assert.ErrorIs(t, err, chat.ErrSessionEnded)
}

func TestProcessTurn_EndInputIsExactMatchOnly(t *testing.T) {
	f := newFixture(t)

	resp := f.turn(t, "s1", "please exit now")
	assert.False(t, resp.Ended)
	assert.Equal(t, "Sorry, I did not catch that.", resp.Reply)

	resp = f.turn(t, "s1", "  QUIT ")
	assert.True(t, resp.Ended)
}

func TestProcessTurn_RetryBoundGivesUp(t *testing.T) {
	f := newFixture(t)

	f.turn(t, "s1", "I want to order")

	resp := f.turn(t, "s1", "blorp")
	assert.Equal(t, "Which pizza would you like?", resp.Reply)
	resp = f.turn(t, "s1", "blorp")
	assert.Equal(t, "Which pizza would you like?", resp.Reply)

	// Third consecutive failure trips the bound.
	resp = f.turn(t, "s1", "blorp")
	assert.Equal(t, "Let us start over. What can I do for you?", resp.Reply)

	// Back to idle: a fresh intent opens normally.
	resp = f.turn(t, "s1", "hello")
	assert.Equal(t, "Hello!", resp.Reply)
}

func TestProcessTurn_CancelInterruptsSlotFilling(t *testing.T) {
	f := newFixture(t)

	f.turn(t, "s1", "I'd like a large pepperoni")

	resp := f.turn(t, "s1", "cancel")
	assert.Equal(t, "Okay, cancelled. What else can I do?", resp.Reply)

	// The abandoned order left nothing behind.
	resp = f.turn(t, "s1", "I want to order")
	assert.Equal(t, "Which pizza would you like?", resp.Reply)
}

func TestProcessTurn_NameRememberedAcrossIntents(t *testing.T) {
	f := newFixture(t)

	f.turn(t, "s1", "I'd like a large pepperoni")
	f.turn(t, "s1", "John")

	// The remembered name satisfies order_status's only slot, so the
	// lookup completes without a prompt.
	resp := f.turn(t, "s1", "where is my order")
	assert.Equal(t, "Order for John: large pepperoni, preparing.", resp.Reply)
}

func TestProcessTurn_LookupPromptsForName(t *testing.T) {
	f := newFixture(t)
	f.redis.cached["Sarah"] = entity.Order{
		ID: "01X", CustomerName: "Sarah", Item: "veggie", Size: "small",
		Price: 8.00, Status: entity.OrderStatusReady,
	}

	resp := f.turn(t, "s1", "Where's my order?")
	assert.Equal(t, "Whose order should I look up?", resp.Reply)

	resp = f.turn(t, "s1", "my name is sarah")
	assert.Equal(t, "Order for Sarah: small veggie, ready.", resp.Reply)
}

func TestProcessTurn_LookupFallsBackToDatabase(t *testing.T) {
	f := newFixture(t)
	f.orders.orders = append(f.orders.orders, entity.Order{
		ID: "01Y", CustomerName: "Ada", Item: "pepperoni", Size: "medium",
		Price: 11.50, Status: entity.OrderStatusDelivered,
	})

	f.turn(t, "s1", "order status")
	resp := f.turn(t, "s1", "Ada")
	assert.Equal(t, "Order for Ada: medium pepperoni, delivered.", resp.Reply)
}

func TestProcessTurn_LookupMissReAwaitsName(t *testing.T) {
	f := newFixture(t)

	f.turn(t, "s1", "order status")
	resp := f.turn(t, "s1", "Nobody")
	assert.Equal(t, "I could not find an order under Nobody. Whose order is it?", resp.Reply)

	// The session stays recoverable: a known name completes the lookup.
	f.orders.orders = append(f.orders.orders, entity.Order{
		ID: "01Z", CustomerName: "Grace", Item: "veggie", Size: "large",
		Price: 13.00, Status: entity.OrderStatusPreparing,
	})
	resp = f.turn(t, "s1", "Grace")
	assert.Equal(t, "Order for Grace: large veggie, preparing.", resp.Reply)
}

func TestProcessTurn_QuoteErrorReAwaitsItem(t *testing.T) {
	f := newFixture(t)

	// hawaiian extracts but has no price.
	f.turn(t, "s1", "I want a large hawaiian")
	resp := f.turn(t, "s1", "Bob")
	assert.Equal(t, "We do not serve that one, sorry. Which pizza would you like?", resp.Reply)

	// The offending slot is re-solicited; the rest survives.
	resp = f.turn(t, "s1", "pepperoni")
	assert.Equal(t, "Thanks Bob! One large pepperoni, 14.50 total.", resp.Reply)
}

func TestProcessTurn_PersistFailureDoesNotEatReply(t *testing.T) {
	f := newFixture(t)
	f.orders.createErr = errors.New("db down")

	f.turn(t, "s1", "I'd like a small veggie")
	resp := f.turn(t, "s1", "John")
	assert.Equal(t, "Thanks John! One small veggie, 8.00 total.", resp.Reply)
}

func TestProcessTurn_SessionsAreIsolated(t *testing.T) {
	f := newFixture(t)

	f.turn(t, "s1", "I want to order")

	// The second session is unaffected by the first one's pending slot.
	resp := f.turn(t, "s2", "hello")
	assert.Equal(t, "Hello!", resp.Reply)

	resp = f.turn(t, "s1", "veggie")
	assert.Equal(t, "What size would you like?", resp.Reply)
}

func TestCreateSession_IssuesToken(t *testing.T) {
	t.Setenv("JWT_ACCESS_TOKEN_SECRET", "test-secret")
	f := newFixture(t)

	resp, err := f.svc.CreateSession(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.SessionID)
	assert.NotEmpty(t, resp.Token)
	assert.Greater(t, resp.ExpiresAt, time.Now().Unix())
	assert.Equal(t, 1, f.store.Len())
}

func TestCreateSession_NoSecretConfigured(t *testing.T) {
	t.Setenv("JWT_ACCESS_TOKEN_SECRET", "")
	f := newFixture(t)

	_, err := f.svc.CreateSession(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, f.store.Len())
}

func TestEndSession_DropsContext(t *testing.T) {
	f := newFixture(t)

	f.turn(t, "s1", "I'd like a large pepperoni")
	require.NoError(t, f.svc.EndSession(context.Background(), "s1"))
	assert.Equal(t, 0, f.store.Len())

	// The same id starts over as a fresh conversation.
	resp := f.turn(t, "s1", "hello")
	assert.Equal(t, "Hello!", resp.Reply)
}
