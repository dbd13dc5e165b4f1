package dto

// DashboardBucket is one group of events on the volunteer dashboard
type DashboardBucket struct {
	Key    string          `json:"key" example:"within_2km"`
	Title  string          `json:"title" example:"Within 2km"`
	Badge  string          `json:"badge" example:"bg-primary"`
	Events []EventResponse `json:"events"`
}

// DashboardResponse is the categorized volunteer dashboard. Buckets are in display order
// and never empty.
type DashboardResponse struct {
	Buckets       []DashboardBucket `json:"buckets"`
	Completed     []EventResponse   `json:"completed"`
	Interests     []string          `json:"interests"`
	LocationKnown bool              `json:"locationKnown"`
}

// ManagedEventResponse is an event on the manager dashboard with its feedback
type ManagedEventResponse struct {
	Event         EventResponse      `json:"event"`
	Feedback      []FeedbackResponse `json:"feedback"`
	AverageRating *float64           `json:"averageRating,omitempty" example:"4.3"`
}

// ManagerDashboardResponse splits a manager's events at today
type ManagerDashboardResponse struct {
	Upcoming []ManagedEventResponse `json:"upcoming"`
	Past     []ManagedEventResponse `json:"past"`
}
