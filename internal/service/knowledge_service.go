package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"airicepest-be/internal/dto"
	"airicepest-be/internal/entity"
	"airicepest-be/internal/pkg/apperror"
	"airicepest-be/internal/pkg/logger"
	"airicepest-be/internal/repository/contract"
	"airicepest-be/internal/repository/unitofwork"
	"airicepest-be/pkg/events"
	"airicepest-be/pkg/textcodec"
)

const (
	knowledgeDefaultLimit = 100
	knowledgeMaxLimit     = 500
)

var (
	errKnowledgeNotFound = apperror.NotFound("Item not found")
	errKnowledgeExists   = apperror.Conflict("Knowledge entry already exists")
)

// allCategories are the UI sentinels meaning "no category filter".
var allCategories = map[string]bool{"全部": true, "all": true}

type IKnowledgeService interface {
	List(ctx context.Context, req *dto.KnowledgeListRequest) ([]dto.KnowledgeResponse, int64, error)
	Get(ctx context.Context, pestId int) (*dto.KnowledgeResponse, error)
	Create(ctx context.Context, req *dto.CreateKnowledgeRequest) (*dto.KnowledgeResponse, error)
	Update(ctx context.Context, pestId int, req *dto.UpdateKnowledgeRequest) (*dto.KnowledgeResponse, error)
	Delete(ctx context.Context, pestId int) error
}

type knowledgeService struct {
	uowFactory unitofwork.RepositoryFactory
	events     IEventPublisher
	logger     logger.ILogger
	now        Clock
}

func NewKnowledgeService(uowFactory unitofwork.RepositoryFactory, eventPublisher IEventPublisher, log logger.ILogger, now Clock) IKnowledgeService {
	return &knowledgeService{
		uowFactory: uowFactory,
		events:     eventPublisher,
		logger:     log,
		now:        clockOrNow(now),
	}
}

func (s *knowledgeService) List(ctx context.Context, req *dto.KnowledgeListRequest) ([]dto.KnowledgeResponse, int64, error) {
	limit, offset := pagination(req.Page, req.Limit, knowledgeDefaultLimit, knowledgeMaxLimit)
	category := strings.TrimSpace(req.Category)
	if allCategories[category] {
		category = ""
	}
	query := contract.KnowledgeQuery{Category: category, Limit: limit, Offset: offset}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	entries, err := uow.KnowledgeRepository().FindAll(ctx, query)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	total, err := uow.KnowledgeRepository().Count(ctx, query)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}

	res := make([]dto.KnowledgeResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, toKnowledgeResponse(e))
	}
	return res, total, nil
}

func (s *knowledgeService) Get(ctx context.Context, pestId int) (*dto.KnowledgeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	entry, err := uow.KnowledgeRepository().FindByPestId(ctx, pestId)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if entry == nil {
		return nil, errKnowledgeNotFound
	}
	res := toKnowledgeResponse(entry)
	return &res, nil
}

func (s *knowledgeService) Create(ctx context.Context, req *dto.CreateKnowledgeRequest) (*dto.KnowledgeResponse, error) {
	entry := &entity.KnowledgeEntry{
		PestId:               req.PestId,
		Category:             strings.TrimSpace(req.Category),
		DiseaseName:          strings.TrimSpace(req.Name),
		TypeInfo:             req.Type,
		Aliases:              semicolonList(req.Aliases),
		CoreFeatures:         req.KeyFeatures,
		AffectedParts:        semicolonList(req.AffectedParts),
		SymptomImages:        commaList(req.ImageUrls),
		PathogenSource:       req.Pathogen,
		OccurrenceConditions: req.Conditions,
		GenerationsPeriods:   req.LifeCycle,
		TransmissionRoutes:   req.Transmission,
		Controls: entity.ControlMeasures{
			Agricultural: semicolonList(req.Controls.Agricultural),
			Physical:     semicolonList(req.Controls.Physical),
			Biological:   semicolonList(req.Controls.Biological),
			Chemical:     semicolonList(req.Controls.Chemical),
		},
	}
	if entry.Category == "" || entry.DiseaseName == "" {
		return nil, apperror.Validation("Category and name are required")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.KnowledgeRepository().FindByPestId(ctx, entry.PestId)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return nil, errKnowledgeExists
	}
	if err := uow.KnowledgeRepository().Create(ctx, entry); err != nil {
		if errors.Is(err, contract.ErrDuplicate) {
			return nil, errKnowledgeExists
		}
		return nil, apperror.Internal(err)
	}

	s.changed(ctx, entry.PestId, "created")
	res := toKnowledgeResponse(entry)
	return &res, nil
}

func (s *knowledgeService) Update(ctx context.Context, pestId int, req *dto.UpdateKnowledgeRequest) (*dto.KnowledgeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	defer uow.Rollback()

	entry, err := uow.KnowledgeRepository().FindByPestId(ctx, pestId)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if entry == nil {
		return nil, errKnowledgeNotFound
	}

	applyKnowledgePatch(entry, req)
	if entry.Category == "" || entry.DiseaseName == "" {
		return nil, apperror.Validation("Category and name are required")
	}

	if err := uow.KnowledgeRepository().Update(ctx, entry); err != nil {
		return nil, apperror.Internal(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal(err)
	}

	s.changed(ctx, pestId, "updated")
	res := toKnowledgeResponse(entry)
	return &res, nil
}

func (s *knowledgeService) Delete(ctx context.Context, pestId int) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return apperror.Internal(err)
	}
	defer uow.Rollback()

	entry, err := uow.KnowledgeRepository().FindByPestId(ctx, pestId)
	if err != nil {
		return apperror.Internal(err)
	}
	if entry == nil {
		return errKnowledgeNotFound
	}
	if err := uow.KnowledgeRepository().Delete(ctx, pestId); err != nil {
		return apperror.Internal(err)
	}
	if err := uow.Commit(); err != nil {
		return apperror.Internal(err)
	}

	s.changed(ctx, pestId, "deleted")
	return nil
}

func (s *knowledgeService) changed(ctx context.Context, pestId int, action string) {
	s.logger.Info("KNOWLEDGE", "Knowledge entry "+action, map[string]interface{}{"pest_id": pestId})
	s.events.Publish(ctx, events.New(events.KnowledgeChanged, s.now(), map[string]interface{}{
		"pest_id": pestId,
		"action":  action,
	}))
}

// applyKnowledgePatch copies only the fields present in req.
func applyKnowledgePatch(e *entity.KnowledgeEntry, req *dto.UpdateKnowledgeRequest) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setList := func(dst *[]string, src *[]string, normalize func([]string) []string) {
		if src != nil {
			*dst = normalize(*src)
		}
	}

	if req.Category != nil {
		e.Category = strings.TrimSpace(*req.Category)
	}
	if req.Name != nil {
		e.DiseaseName = strings.TrimSpace(*req.Name)
	}
	setString(&e.TypeInfo, req.Type)
	setList(&e.Aliases, req.Aliases, semicolonList)
	setString(&e.CoreFeatures, req.KeyFeatures)
	setList(&e.AffectedParts, req.AffectedParts, semicolonList)
	setList(&e.SymptomImages, req.ImageUrls, commaList)
	setString(&e.PathogenSource, req.Pathogen)
	setString(&e.OccurrenceConditions, req.Conditions)
	setString(&e.GenerationsPeriods, req.LifeCycle)
	setString(&e.TransmissionRoutes, req.Transmission)

	if c := req.Controls; c != nil {
		setList(&e.Controls.Agricultural, c.Agricultural, semicolonList)
		setList(&e.Controls.Physical, c.Physical, semicolonList)
		setList(&e.Controls.Biological, c.Biological, semicolonList)
		setList(&e.Controls.Chemical, c.Chemical, semicolonList)
	}
}

// semicolonList and commaList normalise input lists to what the storage
// codec will give back, so every driver returns the same tokens.
func semicolonList(items []string) []string {
	return textcodec.Semicolon.Decode(textcodec.Semicolon.Encode(items))
}

func commaList(items []string) []string {
	return textcodec.Comma.Decode(textcodec.Comma.Encode(items))
}

func toKnowledgeResponse(e *entity.KnowledgeEntry) dto.KnowledgeResponse {
	return dto.KnowledgeResponse{
		Id:            strconv.Itoa(e.PestId),
		Category:      e.Category,
		Name:          e.DiseaseName,
		Type:          e.TypeInfo,
		Aliases:       nonNil(e.Aliases),
		KeyFeatures:   e.CoreFeatures,
		AffectedParts: nonNil(e.AffectedParts),
		ImageUrls:     nonNil(e.SymptomImages),
		Pathogen:      e.PathogenSource,
		Conditions:    e.OccurrenceConditions,
		LifeCycle:     e.GenerationsPeriods,
		Transmission:  e.TransmissionRoutes,
		Controls: dto.ControlsPayload{
			Agricultural: nonNil(e.Controls.Agricultural),
			Physical:     nonNil(e.Controls.Physical),
			Biological:   nonNil(e.Controls.Biological),
			Chemical:     nonNil(e.Controls.Chemical),
		},
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
