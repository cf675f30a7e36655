package connectrpc

import (
	"context"

	"connectrpc.com/connect"

	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/usecase"
)

const LearningServiceName = "lingolive.v1.LearningService"

type SetTargetLanguageRequest struct {
	LanguageCode string `json:"languageCode"`
}

type AddWordRequest struct {
	Word entity.Word `json:"word"`
}

type WordResponse struct {
	Word  entity.Word `json:"word"`
	Added bool        `json:"added"`
}

type UpdateWordMasteryRequest struct {
	WordID  string `json:"wordId"`
	Correct bool   `json:"correct"`
}

type SetStoryModeRequest struct {
	StoryModeID string `json:"storyModeId"`
}

type StoryModeResponse struct {
	StoryMode *entity.StoryMode `json:"storyMode"`
}

type AchievementsResponse struct {
	Achievements []entity.AchievementStatus `json:"achievements"`
}

// LearningService serves the learner's session state.
type LearningService struct {
	uc usecase.LearningUsecase
}

func NewLearningService(uc usecase.LearningUsecase) *LearningService {
	return &LearningService{uc: uc}
}

func (s *LearningService) Routes(opts ...connect.HandlerOption) []Route {
	p := func(method string) string { return procedure(LearningServiceName, method) }
	return []Route{
		unary(p("GetState"), s.GetState, opts...),
		unary(p("SetTargetLanguage"), s.SetTargetLanguage, opts...),
		unary(p("AddWord"), s.AddWord, opts...),
		unary(p("UpdateWordMastery"), s.UpdateWordMastery, opts...),
		unary(p("ClearMessages"), s.ClearMessages, opts...),
		unary(p("SetStoryMode"), s.SetStoryMode, opts...),
		unary(p("GetWordOfTheDay"), s.GetWordOfTheDay, opts...),
		unary(p("BookmarkWordOfTheDay"), s.BookmarkWordOfTheDay, opts...),
		unary(p("ListAchievements"), s.ListAchievements, opts...),
	}
}

func (s *LearningService) GetState(ctx context.Context, _ *Empty) (*usecase.LearningState, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	return s.uc.State(ctx, userID)
}

func (s *LearningService) SetTargetLanguage(ctx context.Context, req *SetTargetLanguageRequest) (*usecase.LearningState, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	return s.uc.SetTargetLanguage(ctx, userID, req.LanguageCode)
}

func (s *LearningService) AddWord(ctx context.Context, req *AddWordRequest) (*WordResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	word, added, err := s.uc.AddWord(ctx, userID, req.Word)
	if err != nil {
		return nil, err
	}
	return &WordResponse{Word: word, Added: added}, nil
}

func (s *LearningService) UpdateWordMastery(ctx context.Context, req *UpdateWordMasteryRequest) (*WordResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	word, err := s.uc.UpdateWordMastery(ctx, userID, req.WordID, req.Correct)
	if err != nil {
		return nil, err
	}
	return &WordResponse{Word: word}, nil
}

func (s *LearningService) ClearMessages(ctx context.Context, _ *Empty) (*Empty, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.uc.ClearMessages(ctx, userID); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (s *LearningService) SetStoryMode(ctx context.Context, req *SetStoryModeRequest) (*StoryModeResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	mode, err := s.uc.SetStoryMode(ctx, userID, req.StoryModeID)
	if err != nil {
		return nil, err
	}
	return &StoryModeResponse{StoryMode: mode}, nil
}

func (s *LearningService) GetWordOfTheDay(ctx context.Context, _ *Empty) (*usecase.WordOfTheDayView, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	return s.uc.WordOfTheDay(ctx, userID)
}

func (s *LearningService) BookmarkWordOfTheDay(ctx context.Context, _ *Empty) (*WordResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	word, added, err := s.uc.BookmarkWordOfTheDay(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &WordResponse{Word: word, Added: added}, nil
}

func (s *LearningService) ListAchievements(ctx context.Context, _ *Empty) (*AchievementsResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	achievements, err := s.uc.Achievements(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &AchievementsResponse{Achievements: achievements}, nil
}
