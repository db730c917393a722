package models

import "time"

// Project statuses
const (
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusArchived  = "archived"
)

// Project types (drive section names, due-date buckets and completion rates)
const (
	ProjectTypeSprint             = "sprint"
	ProjectTypeBugTracking        = "bug_tracking"
	ProjectTypeFeatureDevelopment = "feature_development"
	ProjectTypeCampaign           = "campaign"
	ProjectTypeResearch           = "research"
)

// Project belongs to one organization, is run by one team, and owns sections
// and tasks. Department and ProjectType are optional schema extensions
// consumed by the content and validation layers when present.
type Project struct {
	ID             int64      `json:"id"`
	OrganizationID int64      `json:"organization_id"`
	TeamID         int64      `json:"team_id"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	Status         string     `json:"status"` // active, completed, archived
	Department     string     `json:"department,omitempty"`
	ProjectType    string     `json:"project_type,omitempty"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"` // >= StartDate when both present
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Section is an ordered column within a project board.
type Section struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"` // unique within the project
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
