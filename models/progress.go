package models

// ProgressState is derived from a project's tasks on every read and never stored.
type ProgressState struct {
	TotalTasks         int     `json:"totalTasks"`
	CompletedTasks     int     `json:"completedTasks"`
	TotalWeight        float64 `json:"totalWeight"`
	CompletedWeight    float64 `json:"completedWeight"`
	ProgressPercentage int     `json:"progressPercentage"`
	GuiltPercentage    int     `json:"guiltPercentage"`
}

type Meter struct {
	ProjectID string        `json:"projectId"`
	Progress  ProgressState `json:"progress"`
	Color     string        `json:"color"`
	Message   string        `json:"message"`
}
