package chatService

import (
	"time"

	"golang.org/x/net/context"

	"ChatbotGolang/internal/api/chat"
	contextPkg "ChatbotGolang/pkg/context"
	jwtPkg "ChatbotGolang/pkg/jwt"
	"ChatbotGolang/pkg/log"
)

func (s *chatService) CreateSession(ctx context.Context) (chat.CreateSessionResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	sessionID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate session id")
		return chat.CreateSessionResponse{}, err
	}

	_, release := s.store.Acquire(sessionID)
	release()

	token, expiresAt, err := jwtPkg.Sign(map[string]interface{}{
		"session_id": sessionID,
	}, s.opts.TokenTTL)
	if err != nil {
		s.store.Delete(sessionID)
		return chat.CreateSessionResponse{}, err
	}

	s.log.WithFields(log.Fields{
		"request_id": requestID,
		"session_id": sessionID,
	}).Info("Chat session created")

	return chat.CreateSessionResponse{
		SessionID: sessionID,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// EndSession drops the session's context entirely; the next turn under
// the same id starts a fresh conversation.
func (s *chatService) EndSession(ctx context.Context, sessionID string) error {
	requestID := contextPkg.GetRequestID(ctx)

	s.store.Delete(sessionID)

	s.log.WithFields(log.Fields{
		"request_id": requestID,
		"session_id": sessionID,
	}).Info("Chat session deleted")

	return nil
}
