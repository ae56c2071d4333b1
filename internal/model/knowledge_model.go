package model

import "time"

// KnowledgeBase keeps list-valued columns as delimited text.
type KnowledgeBase struct {
	PestId               int       `gorm:"primaryKey;autoIncrement:false"`
	Category             string    `gorm:"type:varchar(50);not null;index"`
	DiseaseName          string    `gorm:"type:varchar(100);not null"`
	TypeInfo             *string   `gorm:"type:varchar(100)"`
	AliasNames           *string   `gorm:"type:text"`
	CoreFeatures         *string   `gorm:"type:text"`
	AffectedParts        *string   `gorm:"type:varchar(200)"`
	SymptomImages        *string   `gorm:"type:text"`
	PathogenSource       *string   `gorm:"type:text"`
	OccurrenceConditions *string   `gorm:"type:text"`
	GenerationsPeriods   *string   `gorm:"type:text"`
	TransmissionRoutes   *string   `gorm:"type:text"`
	AgriculturalControl  *string   `gorm:"type:text"`
	PhysicalControl      *string   `gorm:"type:text"`
	BiologicalControl    *string   `gorm:"type:text"`
	ChemicalControl      *string   `gorm:"type:text"`
	CreatedAt            time.Time `gorm:"autoCreateTime"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime"`
}

func (KnowledgeBase) TableName() string {
	return "knowledge_base"
}
