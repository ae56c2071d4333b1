package entity

import "time"

type ControlMeasures struct {
	Agricultural []string
	Physical     []string
	Biological   []string
	Chemical     []string
}

type KnowledgeEntry struct {
	PestId               int
	Category             string
	DiseaseName          string
	TypeInfo             string
	Aliases              []string
	CoreFeatures         string
	AffectedParts        []string
	SymptomImages        []string
	PathogenSource       string
	OccurrenceConditions string
	GenerationsPeriods   string
	TransmissionRoutes   string
	Controls             ControlMeasures
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
