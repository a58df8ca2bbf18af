package service

import (
	"context"
	"tle_tracker/internal/common"
	"tle_tracker/internal/domain/model"
	"tle_tracker/internal/domain/repository"
)

type QuestionService struct {
	questionRepo repository.QuestionRepository
	submissions  *SubmissionService
}

func NewQuestionService(questionRepo repository.QuestionRepository, submissions *SubmissionService) *QuestionService {
	return &QuestionService{questionRepo: questionRepo, submissions: submissions}
}

type QuestionDetails struct {
	Question    *model.Question    `json:"question"`
	Submissions []model.Submission `json:"submissions"`
}

// Details returns the cached question and the caller's own solves of it, newest first.
func (s *QuestionService) Details(ctx context.Context, userID, titleSlug string) (*QuestionDetails, error) {
	if err := common.ValidateVar("titleSlug", titleSlug, "required,titleslug"); err != nil {
		return nil, err
	}
	q, err := s.questionRepo.FindBySlug(ctx, titleSlug)
	if err != nil {
		return nil, err
	}
	subs, err := s.submissions.List(ctx, userID, model.SubmissionFilter{TitleSlug: titleSlug})
	if err != nil {
		return nil, err
	}
	return &QuestionDetails{Question: q, Submissions: subs}, nil
}
