package mapper

import (
	"airicepest-be/internal/entity"
	"airicepest-be/internal/model"
)

type FeedbackMapper struct{}

func NewFeedbackMapper() *FeedbackMapper {
	return &FeedbackMapper{}
}

func (m *FeedbackMapper) ToEntity(f *model.Feedback) *entity.Feedback {
	if f == nil {
		return nil
	}
	images := []string(f.ImageUrls)
	if images == nil {
		images = []string{}
	}
	return &entity.Feedback{
		Id:           f.Id,
		UserId:       f.UserId,
		Username:     f.Username,
		Text:         f.Text,
		Contact:      f.Contact,
		FeedbackType: entity.FeedbackType(f.FeedbackType),
		ImageUrls:    images,
		Status:       entity.FeedbackStatus(f.Status),
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

func (m *FeedbackMapper) ToModel(f *entity.Feedback) *model.Feedback {
	if f == nil {
		return nil
	}
	return &model.Feedback{
		Id:           f.Id,
		UserId:       f.UserId,
		Username:     f.Username,
		Text:         f.Text,
		Contact:      f.Contact,
		FeedbackType: string(f.FeedbackType),
		ImageUrls:    f.ImageUrls,
		Status:       string(f.Status),
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

func (m *FeedbackMapper) ToEntities(rows []*model.Feedback) []*entity.Feedback {
	out := make([]*entity.Feedback, 0, len(rows))
	for _, r := range rows {
		out = append(out, m.ToEntity(r))
	}
	return out
}
