package service

import (
	"context"
	"math"
	"strings"
	"time"

	"airicepest-be/internal/dto"
	"airicepest-be/internal/entity"
	"airicepest-be/internal/pkg/apperror"
	"airicepest-be/internal/pkg/logger"
	"airicepest-be/internal/pkg/timeutil"
	"airicepest-be/internal/repository/contract"
	"airicepest-be/internal/repository/unitofwork"
	"airicepest-be/pkg/events"
	"airicepest-be/pkg/textcodec"

	"github.com/google/uuid"
)

const (
	historyDefaultLimit = 50
	historyMaxLimit     = 500

	defaultSolutionTitle = "Control Measures"
	historyDateLayout    = "2006-01-02"
)

var (
	errImageRequired       = apperror.Validation("Image is required")
	errRecognitionNotFound = apperror.NotFound("Recognition not found")
)

// placeholderResult is what the recognizer reports until a model is wired in.
var placeholderResult = entity.RecognitionDetail{
	DiseaseName:   "Unknown Disease",
	Confidence:    75.00,
	Description:   "Auto-generated recognition result.",
	SolutionTitle: "Suggested measures",
	SolutionSteps: []string{"Observe field", "Consult expert"},
}

type IRecognitionService interface {
	ListHistory(ctx context.Context, caller *Actor, req *dto.HistoryListRequest) ([]dto.HistoryResponse, error)
	GetDetail(ctx context.Context, caller *Actor, id string, loc *time.Location) (*dto.RecognitionDetailResponse, error)
	Recognize(ctx context.Context, caller *Actor, imageUrl string, loc *time.Location) (*dto.RecognizeResponse, error)
}

type recognitionService struct {
	uowFactory unitofwork.RepositoryFactory
	events     IEventPublisher
	logger     logger.ILogger
	now        Clock
}

func NewRecognitionService(uowFactory unitofwork.RepositoryFactory, eventPublisher IEventPublisher, log logger.ILogger, now Clock) IRecognitionService {
	return &recognitionService{
		uowFactory: uowFactory,
		events:     eventPublisher,
		logger:     log,
		now:        clockOrNow(now),
	}
}

func (s *recognitionService) ListHistory(ctx context.Context, caller *Actor, req *dto.HistoryListRequest) ([]dto.HistoryResponse, error) {
	limit, offset := pagination(req.Page, req.Limit, historyDefaultLimit, historyMaxLimit)
	query := contract.HistoryQuery{Limit: limit, Offset: offset}
	if caller == nil || !caller.Role.IsElevated() {
		var owner uuid.UUID
		if caller != nil {
			owner = caller.Id
		}
		query.UserId = &owner
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	records, err := uow.HistoryRepository().FindAll(ctx, query)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	res := make([]dto.HistoryResponse, 0, len(records))
	for _, h := range records {
		res = append(res, dto.HistoryResponse{
			Id:            h.Id,
			RecognitionId: h.RecognitionId,
			Date:          h.Date.Format(historyDateLayout),
			ImageUrl:      h.ImageUrl,
			DiseaseName:   h.DiseaseName,
			Confidence:    h.Confidence,
		})
	}
	return res, nil
}

func (s *recognitionService) GetDetail(ctx context.Context, caller *Actor, id string, loc *time.Location) (*dto.RecognitionDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	detail, err := uow.RecognitionRepository().FindById(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	// Other users' results are reported as missing.
	if detail == nil || caller == nil || !detail.VisibleTo(caller.Id, caller.Role) {
		return nil, errRecognitionNotFound
	}

	title := detail.SolutionTitle
	if title == "" {
		title = defaultSolutionTitle
	}
	format := detail.StepsFormat
	if format == "" {
		format = textcodec.StepsStructured
	}
	return &dto.RecognitionDetailResponse{
		Id:          detail.Id,
		DiseaseName: detail.DiseaseName,
		Confidence:  detail.Confidence,
		Description: detail.Description,
		Cause:       detail.Cause,
		Solution: dto.SolutionResponse{
			Title:  title,
			Steps:  nonNil(detail.SolutionSteps),
			Format: string(format),
		},
		ImageUrl:  detail.ImageUrl,
		CreatedAt: timeutil.Format(detail.CreatedAt, loc),
	}, nil
}

// Recognize stores a result for imageUrl. The detail, the history row and the
// caller's counters are written in one transaction.
func (s *recognitionService) Recognize(ctx context.Context, caller *Actor, imageUrl string, loc *time.Location) (*dto.RecognizeResponse, error) {
	imageUrl = strings.TrimSpace(imageUrl)
	if imageUrl == "" {
		return nil, errImageRequired
	}

	now := s.now()
	var owner *uuid.UUID
	if caller != nil {
		id := caller.Id
		owner = &id
	}

	detail := placeholderResult
	detail.Id = newRecordId()
	detail.UserId = owner
	detail.Confidence = math.Round(detail.Confidence*100) / 100
	detail.SolutionSteps = append([]string(nil), placeholderResult.SolutionSteps...)
	detail.ImageUrl = imageUrl
	detail.CreatedAt = now

	local := now.In(loc)
	history := &entity.HistoryRecord{
		Id:            newRecordId(),
		RecognitionId: detail.Id,
		UserId:        owner,
		Date:          time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC),
		ImageUrl:      imageUrl,
		DiseaseName:   detail.DiseaseName,
		Confidence:    detail.Confidence,
		CreatedAt:     now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	defer uow.Rollback()

	if err := uow.RecognitionRepository().Create(ctx, &detail); err != nil {
		return nil, apperror.Internal(err)
	}
	if err := uow.HistoryRepository().Create(ctx, history); err != nil {
		return nil, apperror.Internal(err)
	}
	if caller != nil {
		if err := uow.UserRepository().RecordRecognition(ctx, caller.Id, now); err != nil {
			return nil, apperror.Internal(err)
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal(err)
	}

	s.logger.Info("RECOGNITION", "Recognition recorded", map[string]interface{}{"recognition_id": detail.Id, "history_id": history.Id})
	s.events.Publish(ctx, events.New(events.RecognitionRecorded, now, map[string]interface{}{
		"id":           detail.Id,
		"history_id":   history.Id,
		"disease_name": detail.DiseaseName,
		"confidence":   detail.Confidence,
	}))

	return &dto.RecognizeResponse{
		Id:          detail.Id,
		HistoryId:   history.Id,
		DiseaseName: detail.DiseaseName,
		Confidence:  detail.Confidence,
		ImageUrl:    imageUrl,
	}, nil
}

// newRecordId returns a 32 character hex id, the format of the legacy
// history and recognition tables.
func newRecordId() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
