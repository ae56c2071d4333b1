package service

import (
	"context"
	"strings"
	"time"

	"airicepest-be/internal/dto"
	"airicepest-be/internal/entity"
	"airicepest-be/internal/pkg/apperror"
	"airicepest-be/internal/pkg/logger"
	"airicepest-be/internal/pkg/timeutil"
	"airicepest-be/internal/repository/unitofwork"
	"airicepest-be/pkg/events"

	"github.com/google/uuid"
)

var (
	errFeedbackTextRequired = apperror.Validation("Feedback text is required")
	errFeedbackType         = apperror.Validation("Invalid feedback type")
	errFeedbackStatus       = apperror.Validation("Invalid status")
	errFeedbackNotFound     = apperror.NotFound("Feedback not found")
)

const anonymousUsername = "anonymous"

type IFeedbackService interface {
	Submit(ctx context.Context, author *Actor, req *dto.SubmitFeedbackRequest, loc *time.Location) (*dto.FeedbackResponse, error)
	List(ctx context.Context, loc *time.Location) ([]dto.FeedbackResponse, error)
	UpdateStatus(ctx context.Context, id string, status string, loc *time.Location) (*dto.FeedbackResponse, error)
}

type feedbackService struct {
	uowFactory unitofwork.RepositoryFactory
	events     IEventPublisher
	logger     logger.ILogger
	now        Clock
}

func NewFeedbackService(uowFactory unitofwork.RepositoryFactory, eventPublisher IEventPublisher, log logger.ILogger, now Clock) IFeedbackService {
	return &feedbackService{
		uowFactory: uowFactory,
		events:     eventPublisher,
		logger:     log,
		now:        clockOrNow(now),
	}
}

// ParseSubmission checks the text and type of a submission. Controllers call
// it before storing uploads so a rejected request leaves no files behind.
func ParseSubmission(req *dto.SubmitFeedbackRequest) (string, entity.FeedbackType, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return "", "", errFeedbackTextRequired
	}

	feedbackType := entity.FeedbackTypeGeneral
	raw := strings.TrimSpace(req.FeedbackType)
	if raw == "" {
		raw = strings.TrimSpace(req.Type)
	}
	if raw != "" {
		feedbackType = entity.FeedbackType(raw)
		if !feedbackType.Valid() {
			return "", "", errFeedbackType
		}
	}
	return text, feedbackType, nil
}

func (s *feedbackService) Submit(ctx context.Context, author *Actor, req *dto.SubmitFeedbackRequest, loc *time.Location) (*dto.FeedbackResponse, error) {
	text, feedbackType, err := ParseSubmission(req)
	if err != nil {
		return nil, err
	}

	var contact *string
	if c := strings.TrimSpace(req.Contact); c != "" {
		contact = &c
	}

	feedback := &entity.Feedback{
		Id:           uuid.New(),
		Username:     anonymousUsername,
		Text:         text,
		Contact:      contact,
		FeedbackType: feedbackType,
		ImageUrls:    compact(req.ImageUrls),
		Status:       entity.FeedbackStatusNew,
	}
	if author != nil {
		id := author.Id
		feedback.UserId = &id
		feedback.Username = author.Username
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.FeedbackRepository().Create(ctx, feedback); err != nil {
		return nil, apperror.Internal(err)
	}

	s.logger.Info("FEEDBACK", "Feedback submitted", map[string]interface{}{"feedback_id": feedback.Id, "type": feedbackType})
	s.events.Publish(ctx, events.New(events.FeedbackSubmitted, s.now(), map[string]interface{}{
		"id":          feedback.Id.String(),
		"username":    feedback.Username,
		"type":        string(feedbackType),
		"type_label":  feedbackType.Label(),
		"contact":     strings.TrimSpace(req.Contact),
		"image_count": len(feedback.ImageUrls),
	}))

	res := toFeedbackResponse(feedback, loc)
	return &res, nil
}

func (s *feedbackService) List(ctx context.Context, loc *time.Location) ([]dto.FeedbackResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.FeedbackRepository().FindAll(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	res := make([]dto.FeedbackResponse, 0, len(rows))
	for _, f := range rows {
		res = append(res, toFeedbackResponse(f, loc))
	}
	return res, nil
}

func (s *feedbackService) UpdateStatus(ctx context.Context, id string, status string, loc *time.Location) (*dto.FeedbackResponse, error) {
	next := entity.FeedbackStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return nil, errFeedbackStatus
	}
	feedbackId, err := uuid.Parse(id)
	if err != nil {
		return nil, errFeedbackNotFound
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	defer uow.Rollback()

	feedback, err := uow.FeedbackRepository().FindById(ctx, feedbackId)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if feedback == nil {
		return nil, errFeedbackNotFound
	}

	previous := feedback.Status
	feedback.Status = next
	if err := uow.FeedbackRepository().Update(ctx, feedback); err != nil {
		return nil, apperror.Internal(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal(err)
	}

	s.events.Publish(ctx, events.New(events.FeedbackStatusChanged, s.now(), map[string]interface{}{
		"id":       feedback.Id.String(),
		"status":   string(next),
		"previous": string(previous),
	}))

	res := toFeedbackResponse(feedback, loc)
	return &res, nil
}

func toFeedbackResponse(f *entity.Feedback, loc *time.Location) dto.FeedbackResponse {
	var userId *string
	if f.UserId != nil {
		id := f.UserId.String()
		userId = &id
	}
	return dto.FeedbackResponse{
		Id:        f.Id.String(),
		UserId:    userId,
		Username:  f.Username,
		Text:      f.Text,
		Contact:   f.Contact,
		Type:      string(f.FeedbackType),
		TypeLabel: f.FeedbackType.Label(),
		ImageUrls: nonNil(f.ImageUrls),
		Status:    string(f.Status),
		Timestamp: timeutil.Format(f.CreatedAt, loc),
		UpdatedAt: timeutil.Format(f.UpdatedAt, loc),
	}
}

// compact trims entries and drops blank ones.
func compact(items []string) []string {
	out := []string{}
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
