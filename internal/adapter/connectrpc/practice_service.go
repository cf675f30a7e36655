package connectrpc

import (
	"context"

	"connectrpc.com/connect"

	"github.com/eslsoft/lingolive/internal/usecase"
)

const PracticeServiceName = "lingolive.v1.PracticeService"

type AnswerFlashcardRequest struct {
	WordID  string `json:"wordId"`
	Correct bool   `json:"correct"`
}

type PracticeService struct {
	uc usecase.PracticeUsecase
}

func NewPracticeService(uc usecase.PracticeUsecase) *PracticeService {
	return &PracticeService{uc: uc}
}

func (s *PracticeService) Routes(opts ...connect.HandlerOption) []Route {
	return []Route{
		unary(procedure(PracticeServiceName, "AnswerFlashcard"), s.AnswerFlashcard, opts...),
		unary(procedure(PracticeServiceName, "ResetCombo"), s.ResetCombo, opts...),
	}
}

func (s *PracticeService) AnswerFlashcard(ctx context.Context, req *AnswerFlashcardRequest) (*usecase.PracticeResult, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	return s.uc.Answer(ctx, userID, req.WordID, req.Correct)
}

func (s *PracticeService) ResetCombo(ctx context.Context, _ *Empty) (*Empty, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	s.uc.ResetCombo(userID)
	return &Empty{}, nil
}
