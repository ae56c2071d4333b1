package dto

type AdminUserListRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email" validate:"omitempty,email"`
	Role     string `json:"role"`
}

type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status"`
}

type StatsTotals struct {
	TotalUsers        int64 `json:"totalUsers"`
	TotalRecognitions int64 `json:"totalRecognitions"`
	TotalFeedback     int64 `json:"totalFeedback"`
	ActiveUsers       int64 `json:"activeUsers"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type FeedbackTypeCount struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type MonthCount struct {
	Month        string `json:"month"`
	Label        string `json:"label"`
	Recognitions int    `json:"recognitions"`
}

type StatsResponse struct {
	Totals             StatsTotals         `json:"totals"`
	RecognitionsPerDay []DayCount          `json:"recognitionsPerDay"`
	FeedbackTypes      []FeedbackTypeCount `json:"feedbackTypes"`
	MonthlyTrend       []MonthCount        `json:"monthlyTrend"`
	GeneratedAt        string              `json:"generatedAt"`
}
