package mapper

import (
	"airicepest-be/internal/entity"
	"airicepest-be/internal/model"
	"airicepest-be/pkg/textcodec"
)

type KnowledgeMapper struct{}

func NewKnowledgeMapper() *KnowledgeMapper {
	return &KnowledgeMapper{}
}

func (m *KnowledgeMapper) ToEntity(k *model.KnowledgeBase) *entity.KnowledgeEntry {
	if k == nil {
		return nil
	}
	return &entity.KnowledgeEntry{
		PestId:               k.PestId,
		Category:             k.Category,
		DiseaseName:          k.DiseaseName,
		TypeInfo:             deref(k.TypeInfo),
		Aliases:              textcodec.Semicolon.DecodePtr(k.AliasNames),
		CoreFeatures:         deref(k.CoreFeatures),
		AffectedParts:        textcodec.Semicolon.DecodePtr(k.AffectedParts),
		SymptomImages:        textcodec.Comma.DecodePtr(k.SymptomImages),
		PathogenSource:       deref(k.PathogenSource),
		OccurrenceConditions: deref(k.OccurrenceConditions),
		GenerationsPeriods:   deref(k.GenerationsPeriods),
		TransmissionRoutes:   deref(k.TransmissionRoutes),
		Controls: entity.ControlMeasures{
			Agricultural: textcodec.Semicolon.DecodePtr(k.AgriculturalControl),
			Physical:     textcodec.Semicolon.DecodePtr(k.PhysicalControl),
			Biological:   textcodec.Semicolon.DecodePtr(k.BiologicalControl),
			Chemical:     textcodec.Semicolon.DecodePtr(k.ChemicalControl),
		},
		CreatedAt: k.CreatedAt,
		UpdatedAt: k.UpdatedAt,
	}
}

func (m *KnowledgeMapper) ToModel(e *entity.KnowledgeEntry) *model.KnowledgeBase {
	if e == nil {
		return nil
	}
	return &model.KnowledgeBase{
		PestId:               e.PestId,
		Category:             e.Category,
		DiseaseName:          e.DiseaseName,
		TypeInfo:             ptr(e.TypeInfo),
		AliasNames:           textcodec.Semicolon.EncodePtr(e.Aliases),
		CoreFeatures:         ptr(e.CoreFeatures),
		AffectedParts:        textcodec.Semicolon.EncodePtr(e.AffectedParts),
		SymptomImages:        textcodec.Comma.EncodePtr(e.SymptomImages),
		PathogenSource:       ptr(e.PathogenSource),
		OccurrenceConditions: ptr(e.OccurrenceConditions),
		GenerationsPeriods:   ptr(e.GenerationsPeriods),
		TransmissionRoutes:   ptr(e.TransmissionRoutes),
		AgriculturalControl:  textcodec.Semicolon.EncodePtr(e.Controls.Agricultural),
		PhysicalControl:      textcodec.Semicolon.EncodePtr(e.Controls.Physical),
		BiologicalControl:    textcodec.Semicolon.EncodePtr(e.Controls.Biological),
		ChemicalControl:      textcodec.Semicolon.EncodePtr(e.Controls.Chemical),
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
}

func (m *KnowledgeMapper) ToEntities(rows []*model.KnowledgeBase) []*entity.KnowledgeEntry {
	out := make([]*entity.KnowledgeEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, m.ToEntity(r))
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ptr maps "" to NULL so that optional text columns stay empty in the database.
func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
