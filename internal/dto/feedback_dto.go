package dto

// SubmitFeedbackRequest is the JSON form of a submission. Multipart
// submissions carry the same fields plus uploaded images.
type SubmitFeedbackRequest struct {
	Text         string   `json:"text" form:"text"`
	Contact      string   `json:"contact" form:"contact"`
	Type         string   `json:"type" form:"type"`
	FeedbackType string   `json:"feedbackType" form:"feedbackType"`
	ImageUrls    []string `json:"imageUrls"`
}

type FeedbackResponse struct {
	Id        string   `json:"id"`
	UserId    *string  `json:"userId"`
	Username  string   `json:"username"`
	Text      string   `json:"text"`
	Contact   *string  `json:"contact"`
	Type      string   `json:"type"`
	TypeLabel string   `json:"typeLabel"`
	ImageUrls []string `json:"imageUrls"`
	Status    string   `json:"status"`
	Timestamp string   `json:"timestamp"`
	UpdatedAt string   `json:"updatedAt"`
}

type UpdateFeedbackStatusRequest struct {
	Status string `json:"status"`
}
