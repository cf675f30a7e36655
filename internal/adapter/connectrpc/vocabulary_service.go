package connectrpc

import (
	"context"

	"connectrpc.com/connect"

	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/repository"
	"github.com/eslsoft/lingolive/internal/usecase"
)

const VocabularyServiceName = "lingolive.v1.VocabularyService"

type ListVocabularyRequest struct {
	Filter   string `json:"filter"`
	OrderBy  string `json:"orderBy"`
	PageNo   int32  `json:"pageNo"`
	PageSize int32  `json:"pageSize"`
}

type ListVocabularyResponse struct {
	Entries []entity.VocabularyEntry `json:"entries"`
	Total   int64                    `json:"total"`
}

type SaveVocabularyRequest struct {
	Entry entity.VocabularyEntry `json:"entry"`
}

type PracticeVocabularyRequest struct {
	ID      string `json:"id"`
	Correct bool   `json:"correct"`
}

type DeleteVocabularyRequest struct {
	ID string `json:"id"`
}

// VocabularyService manages the persistent vocabulary list.
type VocabularyService struct {
	uc usecase.VocabularyUsecase
}

func NewVocabularyService(uc usecase.VocabularyUsecase) *VocabularyService {
	return &VocabularyService{uc: uc}
}

func (s *VocabularyService) Routes(opts ...connect.HandlerOption) []Route {
	p := func(method string) string { return procedure(VocabularyServiceName, method) }
	return []Route{
		unary(p("List"), s.List, opts...),
		unary(p("Save"), s.Save, opts...),
		unary(p("Practice"), s.Practice, opts...),
		unary(p("Delete"), s.Delete, opts...),
		unary(p("Stats"), s.Stats, opts...),
	}
}

func (s *VocabularyService) List(ctx context.Context, req *ListVocabularyRequest) (*ListVocabularyResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	query := &repository.ListVocabularyQuery{
		Pagination:  repository.Pagination{PageNo: req.PageNo, PageSize: req.PageSize},
		FilterOrder: repository.FilterOrder{Filter: req.Filter, OrderBy: req.OrderBy},
		UserID:      userID,
	}
	entries, total, err := s.uc.List(ctx, query)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []entity.VocabularyEntry{}
	}
	return &ListVocabularyResponse{Entries: entries, Total: total}, nil
}

func (s *VocabularyService) Save(ctx context.Context, req *SaveVocabularyRequest) (*entity.VocabularyEntry, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	return s.uc.Save(ctx, userID, &req.Entry)
}

func (s *VocabularyService) Practice(ctx context.Context, req *PracticeVocabularyRequest) (*entity.VocabularyEntry, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	return s.uc.Practice(ctx, userID, req.ID, req.Correct)
}

func (s *VocabularyService) Delete(ctx context.Context, req *DeleteVocabularyRequest) (*Empty, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.uc.Delete(ctx, userID, req.ID); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (s *VocabularyService) Stats(ctx context.Context, _ *Empty) (*entity.VocabularyStats, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := s.uc.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
