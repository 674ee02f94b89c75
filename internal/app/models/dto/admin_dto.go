package dto

// AdminDashboardResponse is the administrator overview
type AdminDashboardResponse struct {
	TotalClubs          int64          `json:"totalClubs" example:"42"`
	PendingClubs        int64          `json:"pendingClubs" example:"3"`
	ApprovedClubs       int64          `json:"approvedClubs" example:"39"`
	TotalPosts          int64          `json:"totalPosts" example:"310"`
	RecentPosts         []PostResponse `json:"recentPosts"`
	PendingApplications []ClubResponse `json:"pendingApplications"`
}

// ClubDecisionResponse reports the approval state after a decision
type ClubDecisionResponse struct {
	AccountID  int64  `json:"accountId" example:"12"`
	Username   string `json:"username" example:"Chess Club"`
	IsApproved bool   `json:"isApproved"`
}
