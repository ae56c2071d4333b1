package dto

type KnowledgeListRequest struct {
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
	Category string `query:"category"`
}

type ControlsPayload struct {
	Agricultural []string `json:"agricultural"`
	Physical     []string `json:"physical"`
	Biological   []string `json:"biological"`
	Chemical     []string `json:"chemical"`
}

type KnowledgeResponse struct {
	Id            string          `json:"id"`
	Category      string          `json:"category"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	Aliases       []string        `json:"aliases"`
	KeyFeatures   string          `json:"keyFeatures"`
	AffectedParts []string        `json:"affectedParts"`
	ImageUrls     []string        `json:"imageUrls"`
	Pathogen      string          `json:"pathogen"`
	Conditions    string          `json:"conditions"`
	LifeCycle     string          `json:"lifeCycle"`
	Transmission  string          `json:"transmission"`
	Controls      ControlsPayload `json:"controls"`
}

type CreateKnowledgeRequest struct {
	PestId        int             `json:"pest_id" validate:"required,gt=0"`
	Category      string          `json:"category" validate:"required"`
	Name          string          `json:"name" validate:"required"`
	Type          string          `json:"type"`
	Aliases       []string        `json:"aliases"`
	KeyFeatures   string          `json:"keyFeatures"`
	AffectedParts []string        `json:"affectedParts"`
	ImageUrls     []string        `json:"imageUrls"`
	Pathogen      string          `json:"pathogen"`
	Conditions    string          `json:"conditions"`
	LifeCycle     string          `json:"lifeCycle"`
	Transmission  string          `json:"transmission"`
	Controls      ControlsPayload `json:"controls"`
}

// ControlsPatch leaves a list untouched when its field is absent.
type ControlsPatch struct {
	Agricultural *[]string `json:"agricultural"`
	Physical     *[]string `json:"physical"`
	Biological   *[]string `json:"biological"`
	Chemical     *[]string `json:"chemical"`
}

// UpdateKnowledgeRequest is a partial update; nil fields keep their value.
type UpdateKnowledgeRequest struct {
	Category      *string        `json:"category"`
	Name          *string        `json:"name"`
	Type          *string        `json:"type"`
	Aliases       *[]string      `json:"aliases"`
	KeyFeatures   *string        `json:"keyFeatures"`
	AffectedParts *[]string      `json:"affectedParts"`
	ImageUrls     *[]string      `json:"imageUrls"`
	Pathogen      *string        `json:"pathogen"`
	Conditions    *string        `json:"conditions"`
	LifeCycle     *string        `json:"lifeCycle"`
	Transmission  *string        `json:"transmission"`
	Controls      *ControlsPatch `json:"controls"`
}
