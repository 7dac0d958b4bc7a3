package models

// CommandResult is returned for every executed command. Message is the line
// rendered into the transcript; Data carries structured payloads the caller
// may act on (adopting a switched project, celebrating, clearing the
// transcript).
type CommandResult struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    *CommandData `json:"data,omitempty"`
}

// CommandData is the optional structured payload of a CommandResult.
type CommandData struct {
	Project    *Project      `json:"project,omitempty"`
	Projects   []*Project    `json:"projects,omitempty"`
	Feature    *Feature      `json:"feature,omitempty"`
	Features   []*Feature    `json:"features,omitempty"`
	Task       *Task         `json:"task,omitempty"`
	Tasks      []*Task       `json:"tasks,omitempty"`
	Streak     *Streak       `json:"streak,omitempty"`
	Streaks    []*Streak     `json:"streaks,omitempty"`
	SharedTask *SharedTask   `json:"sharedTask,omitempty"`
	Stats      *StatsSummary `json:"stats,omitempty"`
	Celebrate  bool          `json:"celebrate,omitempty"`
	Clear      bool          `json:"clear,omitempty"`
}

// Fail builds a failure result with a user-facing message.
func Fail(message string) *CommandResult {
	return &CommandResult{Success: false, Message: message}
}

// OK builds a success result.
func OK(message string, data *CommandData) *CommandResult {
	return &CommandResult{Success: true, Message: message, Data: data}
}
