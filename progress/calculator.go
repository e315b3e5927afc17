// Package progress derives weighted completion and guilt figures from a task list.
package progress

import (
	"math"

	"guilt-meter/tracker-service/models"
)

// Calculate returns the completion state of tasks. Progress is the share of
// completed weight in total weight, rounded to a whole percentage. A list with
// no tasks, or with no positive total weight, reports 0% progress and 100% guilt.
// The slice is only read.
func Calculate(tasks []models.Task) models.ProgressState {
	state := models.ProgressState{TotalTasks: len(tasks)}
	for _, task := range tasks {
		state.TotalWeight += task.Weight
		if task.Completed {
			state.CompletedTasks++
			state.CompletedWeight += task.Weight
		}
	}

	state.ProgressPercentage = percentage(state.CompletedWeight, state.TotalWeight, state.TotalTasks)
	state.GuiltPercentage = 100 - state.ProgressPercentage
	return state
}

func percentage(done, total float64, count int) int {
	if count == 0 || !(total > 0) {
		return 0
	}

	p := math.Round(100 * done / total)
	switch {
	case math.IsNaN(p) || p < 0:
		return 0
	case p > 100:
		return 100
	}
	return int(p)
}
