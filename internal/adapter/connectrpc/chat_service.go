package connectrpc

import (
	"context"

	"connectrpc.com/connect"

	"github.com/eslsoft/lingolive/internal/usecase"
)

const ChatServiceName = "lingolive.v1.ChatService"

type SendMessageRequest struct {
	Content string `json:"content"`
}

type ChatService struct {
	uc usecase.ChatUsecase
}

func NewChatService(uc usecase.ChatUsecase) *ChatService {
	return &ChatService{uc: uc}
}

func (s *ChatService) Routes(opts ...connect.HandlerOption) []Route {
	return []Route{
		unary(procedure(ChatServiceName, "SendMessage"), s.SendMessage, opts...),
	}
}

func (s *ChatService) SendMessage(ctx context.Context, req *SendMessageRequest) (*usecase.ChatTurn, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	return s.uc.SendMessage(ctx, userID, req.Content)
}
