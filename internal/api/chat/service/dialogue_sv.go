package chatService

import (
	"errors"
	"time"

	"golang.org/x/net/context"

	"ChatbotGolang/internal/api/chat"
	"ChatbotGolang/internal/entity"
	contextPkg "ChatbotGolang/pkg/context"
	"ChatbotGolang/pkg/log"
	"ChatbotGolang/pkg/nlp"
	"ChatbotGolang/pkg/pricing"
	redisPkg "ChatbotGolang/pkg/redis"
)

// ProcessTurn runs one full dialogue turn: normalize, match, advance
// the session's state, and render the reply. The session lock is held
// for the whole turn, so turns for one session never interleave.
func (s *chatService) ProcessTurn(ctx context.Context, sessionID string, utterance string) (chat.TurnResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	sess, release := s.store.Acquire(sessionID)
	defer release()

	if sess.State == entity.StateEnded {
		return chat.TurnResponse{}, chat.ErrSessionEnded
	}
	sess.UpdatedAt = time.Now()

	// Session-ending inputs are exact matches on the raw utterance, by
	// design never pattern-matched, so loosely related phrasing cannot
	// end a session by accident.
	if s.table.IsEndInput(utterance) {
		sess.State = entity.StateEnded
		sess.AwaitingSlot = ""
		sess.ActiveIntent = ""

		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"session_id": sessionID,
		}).Info("Session ended by end input")

		reply := s.say(sess, "catalog/end", s.table.EndResponses, s.renderVars(sess))
		return chat.TurnResponse{Reply: reply, Ended: true}, nil
	}

	normalized := s.normalizer.Normalize(utterance)
	intent, matched := s.table.Match(normalized)

	s.log.WithFields(log.Fields{
		"request_id": requestID,
		"session_id": sessionID,
		"intent":     intent.Tag,
		"matched":    matched,
		"state":      sess.State.String(),
		"awaiting":   sess.AwaitingSlot,
	}).Debug("Processing dialogue turn")

	if sess.State == entity.StateAwaiting {
		return s.handleAwaitedTurn(ctx, sess, normalized, intent, matched)
	}

	return s.handleIdleTurn(ctx, sess, normalized, intent, matched)
}

// handleAwaitedTurn treats the input as the answer to the pending slot
// unless the new turn is an explicit reset intent.
func (s *chatService) handleAwaitedTurn(ctx context.Context, sess *entity.ChatSession, normalized string, intent *nlp.Intent, matched bool) (chat.TurnResponse, error) {
	if matched && intent.Reset {
		resetSlots(sess, ScopeIntent)
		reply := s.say(sess, intent.Tag+"/responses", intent.Responses, s.renderVars(sess))
		return chat.TurnResponse{Reply: reply}, nil
	}

	active, ok := s.table.Get(sess.ActiveIntent)
	if !ok {
		// Catalog and session disagree; recover to idle rather than
		// keep soliciting a slot nothing can consume.
		resetSlots(sess, ScopeIntent)
		return s.handleIdleTurn(ctx, sess, normalized, intent, matched)
	}

	slot, ok := active.Slot(sess.AwaitingSlot)
	if !ok {
		resetSlots(sess, ScopeIntent)
		return s.handleIdleTurn(ctx, sess, normalized, intent, matched)
	}

	value, found := slot.Extract(normalized)
	if !found {
		sess.Retries++
		if sess.Retries >= s.opts.MaxSlotRetries {
			resetSlots(sess, ScopeIntent)
			reply := s.say(sess, "catalog/give_up", s.table.GiveUpResponses, s.renderVars(sess))
			return chat.TurnResponse{Reply: reply}, nil
		}
		reply := s.say(sess, active.Tag+"/prompts/"+slot.Name, slot.Prompts, s.renderVars(sess))
		return chat.TurnResponse{Reply: reply}, nil
	}

	sess.Slots[slot.Name] = value
	sess.AwaitingSlot = ""
	sess.State = entity.StateIdle
	sess.Retries = 0

	return s.advance(ctx, sess, active)
}

// handleIdleTurn opens a new intent. The whole declared slot spec is
// extracted from the opening utterance so one-shot fills ("a large
// pepperoni") skip their prompts.
func (s *chatService) handleIdleTurn(ctx context.Context, sess *entity.ChatSession, normalized string, intent *nlp.Intent, matched bool) (chat.TurnResponse, error) {
	if !matched {
		// Fallback never changes state.
		reply := s.say(sess, "catalog/fallback", intent.Responses, s.renderVars(sess))
		return chat.TurnResponse{Reply: reply}, nil
	}

	if intent.Reset {
		resetSlots(sess, ScopeIntent)
		reply := s.say(sess, intent.Tag+"/responses", intent.Responses, s.renderVars(sess))
		return chat.TurnResponse{Reply: reply}, nil
	}

	resetSlots(sess, ScopeIntent)
	sess.ActiveIntent = intent.Tag
	for name, value := range intent.ExtractAll(normalized) {
		sess.Slots[name] = value
	}

	return s.advance(ctx, sess, intent)
}

// advance asks for the first still-missing slot, in declared order, or
// completes the intent when nothing is missing.
func (s *chatService) advance(ctx context.Context, sess *entity.ChatSession, intent *nlp.Intent) (chat.TurnResponse, error) {
	missing := intent.MissingSlots(sess.Slots)
	if len(missing) > 0 {
		slot, _ := intent.Slot(missing[0])
		sess.State = entity.StateAwaiting
		sess.AwaitingSlot = slot.Name
		reply := s.say(sess, intent.Tag+"/prompts/"+slot.Name, slot.Prompts, s.renderVars(sess))
		return chat.TurnResponse{Reply: reply}, nil
	}

	return s.complete(ctx, sess, intent)
}

func (s *chatService) complete(ctx context.Context, sess *entity.ChatSession, intent *nlp.Intent) (chat.TurnResponse, error) {
	vars := s.renderVars(sess)

	switch intent.Action {
	case entity.ActionQuote:
		return s.completeQuote(ctx, sess, intent, vars)
	case entity.ActionLookup:
		return s.completeLookup(ctx, sess, intent, vars)
	default:
		reply := s.say(sess, intent.Tag+"/responses", intent.Responses, vars)
		resetSlots(sess, ScopeIntent)
		return chat.TurnResponse{Reply: reply}, nil
	}
}

func (s *chatService) completeQuote(ctx context.Context, sess *entity.ChatSession, intent *nlp.Intent, vars map[string]string) (chat.TurnResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	quote, err := s.pricing.Quote(sess.Slots["item"], sess.Slots["size"])
	if err != nil {
		offending := "item"
		if errors.Is(err, pricing.ErrUnknownSize) {
			offending = "size"
		}
		return s.reAwait(sess, intent, offending, vars), nil
	}

	orderID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return chat.TurnResponse{}, err
	}

	order := entity.Order{
		ID:           orderID,
		CustomerName: sess.Slots["name"],
		Item:         quote.Item,
		Size:         quote.Size,
		Price:        quote.Total,
		Status:       entity.OrderStatusPreparing,
	}

	// A failed history write must not eat the reply; the quote already
	// happened from the customer's point of view.
	if err := s.saveOrder(ctx, order); err != nil {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"session_id": sess.ID,
			"order_id":   orderID,
			"error":      err.Error(),
		}).Error("Failed to persist completed order")
	}

	vars["item"] = quote.Item
	vars["size"] = quote.Size
	vars["price"] = s.utils.FormatPrice(quote.Total)
	vars["order_id"] = orderID

	reply := s.say(sess, intent.Tag+"/responses", intent.Responses, vars)
	resetSlots(sess, ScopeIntent)
	return chat.TurnResponse{Reply: reply}, nil
}

func (s *chatService) completeLookup(ctx context.Context, sess *entity.ChatSession, intent *nlp.Intent, vars map[string]string) (chat.TurnResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	order, err := s.latestOrder(ctx, sess.Slots["name"])
	if err != nil {
		if !errors.Is(err, chat.ErrOrderNotFound) {
			s.log.WithFields(log.Fields{
				"request_id": requestID,
				"session_id": sess.ID,
				"error":      err.Error(),
			}).Error("Order lookup failed")
		}
		return s.reAwait(sess, intent, "name", vars), nil
	}

	vars["item"] = order.Item
	vars["size"] = order.Size
	vars["price"] = s.utils.FormatPrice(order.Price)
	vars["order_id"] = order.ID
	vars["status"] = string(order.Status)

	reply := s.say(sess, intent.Tag+"/responses", intent.Responses, vars)
	resetSlots(sess, ScopeIntent)
	return chat.TurnResponse{Reply: reply}, nil
}

// reAwait handles a business error: the offending slot value is dropped
// and solicited again, so the session stays recoverable.
func (s *chatService) reAwait(sess *entity.ChatSession, intent *nlp.Intent, offending string, vars map[string]string) chat.TurnResponse {
	delete(sess.Slots, offending)
	sess.State = entity.StateAwaiting
	sess.AwaitingSlot = offending
	sess.Retries = 0

	reply := s.say(sess, intent.Tag+"/errors", intent.ErrorResponses, vars)
	return chat.TurnResponse{Reply: reply}
}

func (s *chatService) saveOrder(ctx context.Context, order entity.Order) error {
	client, err := s.chatRepository.NewClient(false)
	if err != nil {
		return err
	}
	if err := client.Order.CreateOrder(ctx, order); err != nil {
		return err
	}
	return s.redis.SetLastOrder(ctx, order.CustomerName, order, s.opts.HistoryTTL)
}

func (s *chatService) latestOrder(ctx context.Context, customerName string) (entity.Order, error) {
	if order, err := s.redis.GetLastOrder(ctx, customerName); err == nil {
		return order, nil
	} else if !errors.Is(err, redisPkg.ErrCacheMiss) {
		s.log.WithFields(log.Fields{
			"customer_name": customerName,
			"error":         err.Error(),
		}).Warn("Order cache lookup failed, falling back to database")
	}

	client, err := s.chatRepository.NewClient(false)
	if err != nil {
		return entity.Order{}, err
	}
	return client.Order.GetLatestOrderByName(ctx, customerName)
}

// say renders one template from candidates with deterministic
// round-robin selection, advancing the session's counter for that list.
func (s *chatService) say(sess *entity.ChatSession, key string, candidates []string, vars map[string]string) string {
	seq := sess.PromptSeq[key]
	sess.PromptSeq[key] = seq + 1
	return nlp.Render(candidates, vars, seq)
}

func (s *chatService) renderVars(sess *entity.ChatSession) map[string]string {
	vars := make(map[string]string, len(sess.Slots))
	for name, value := range sess.Slots {
		vars[name] = value
	}
	return vars
}
