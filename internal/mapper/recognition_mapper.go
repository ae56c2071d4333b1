package mapper

import (
	"airicepest-be/internal/entity"
	"airicepest-be/internal/model"
	"airicepest-be/pkg/textcodec"
)

type RecognitionMapper struct{}

func NewRecognitionMapper() *RecognitionMapper {
	return &RecognitionMapper{}
}

func (m *RecognitionMapper) HistoryToEntity(h *model.History) *entity.HistoryRecord {
	if h == nil {
		return nil
	}
	return &entity.HistoryRecord{
		Id:            h.Id,
		RecognitionId: h.RecognitionId,
		UserId:        h.UserId,
		Date:          h.Date,
		ImageUrl:      h.ImageUrl,
		DiseaseName:   h.DiseaseName,
		Confidence:    h.Confidence,
		CreatedAt:     h.CreatedAt,
	}
}

func (m *RecognitionMapper) HistoryToModel(h *entity.HistoryRecord) *model.History {
	if h == nil {
		return nil
	}
	return &model.History{
		Id:            h.Id,
		RecognitionId: h.RecognitionId,
		UserId:        h.UserId,
		Date:          h.Date,
		ImageUrl:      h.ImageUrl,
		DiseaseName:   h.DiseaseName,
		Confidence:    h.Confidence,
		CreatedAt:     h.CreatedAt,
	}
}

func (m *RecognitionMapper) HistoriesToEntities(rows []*model.History) []*entity.HistoryRecord {
	out := make([]*entity.HistoryRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, m.HistoryToEntity(r))
	}
	return out
}

// DetailToEntity decodes solution steps with the plain-text fallback.
func (m *RecognitionMapper) DetailToEntity(d *model.RecognitionDetail) *entity.RecognitionDetail {
	if d == nil {
		return nil
	}
	steps := textcodec.DecodeSteps(deref(d.SolutionSteps))
	return &entity.RecognitionDetail{
		Id:            d.Id,
		UserId:        d.UserId,
		DiseaseName:   d.DiseaseName,
		Confidence:    d.Confidence,
		Description:   deref(d.Description),
		Cause:         deref(d.Cause),
		SolutionTitle: deref(d.SolutionTitle),
		SolutionSteps: steps.Items,
		StepsFormat:   steps.Format,
		ImageUrl:      d.ImageUrl,
		CreatedAt:     d.CreatedAt,
	}
}

func (m *RecognitionMapper) DetailToModel(d *entity.RecognitionDetail) *model.RecognitionDetail {
	if d == nil {
		return nil
	}
	steps := textcodec.EncodeSteps(d.SolutionSteps)
	return &model.RecognitionDetail{
		Id:            d.Id,
		UserId:        d.UserId,
		DiseaseName:   d.DiseaseName,
		Confidence:    d.Confidence,
		Description:   ptr(d.Description),
		Cause:         ptr(d.Cause),
		SolutionTitle: ptr(d.SolutionTitle),
		SolutionSteps: &steps,
		ImageUrl:      d.ImageUrl,
		CreatedAt:     d.CreatedAt,
	}
}
