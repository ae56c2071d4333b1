package dto

type HistoryListRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

type HistoryResponse struct {
	Id            string  `json:"id"`
	RecognitionId string  `json:"recognitionId"`
	Date          string  `json:"date"`
	ImageUrl      string  `json:"imageUrl"`
	DiseaseName   string  `json:"diseaseName"`
	Confidence    float64 `json:"confidence"`
}

type SolutionResponse struct {
	Title  string   `json:"title"`
	Steps  []string `json:"steps"`
	Format string   `json:"format"`
}

type RecognitionDetailResponse struct {
	Id          string           `json:"id"`
	DiseaseName string           `json:"diseaseName"`
	Confidence  float64          `json:"confidence"`
	Description string           `json:"description"`
	Cause       string           `json:"cause"`
	Solution    SolutionResponse `json:"solution"`
	ImageUrl    string           `json:"imageUrl"`
	CreatedAt   string           `json:"createdAt"`
}

type RecognizeRequest struct {
	ImageUrl string `json:"imageUrl"`
}

type RecognizeResponse struct {
	Id          string  `json:"id"`
	HistoryId   string  `json:"historyId"`
	DiseaseName string  `json:"diseaseName"`
	Confidence  float64 `json:"confidence"`
	ImageUrl    string  `json:"imageUrl"`
}
