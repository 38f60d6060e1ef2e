package planner

import "strings"

// Actions a spoken transcript can map to.
const (
	ActionAddTask        = "add_task"
	ActionAddGoal        = "add_goal"
	ActionShowTasks      = "show_tasks"
	ActionShowGoals      = "show_goals"
	ActionShowAnalytics  = "show_analytics"
	ActionGenerateReport = "generate_report"
	ActionToggleTheme    = "toggle_theme"
	ActionUnknown        = "unknown"
)

// Command is a planner action parsed from a voice transcript.
type Command struct {
	Action string `json:"action"`
	Title  string `json:"title,omitempty"`
}

// ParseCommand maps a spoken transcript onto a planner action. Matching is
// case-insensitive substring matching; for add commands the remainder of the
// phrase becomes the title.
func ParseCommand(transcript string) Command {
	phrase := strings.ToLower(strings.TrimSpace(transcript))
	switch {
	case strings.Contains(phrase, "add task"):
		return Command{Action: ActionAddTask, Title: remainderAfter(phrase, "add task")}
	case strings.Contains(phrase, "add goal"):
		return Command{Action: ActionAddGoal, Title: remainderAfter(phrase, "add goal")}
	case strings.Contains(phrase, "show tasks"):
		return Command{Action: ActionShowTasks}
	case strings.Contains(phrase, "show goals"):
		return Command{Action: ActionShowGoals}
	case strings.Contains(phrase, "show analytics"):
		return Command{Action: ActionShowAnalytics}
	case strings.Contains(phrase, "generate report"):
		return Command{Action: ActionGenerateReport}
	case strings.Contains(phrase, "toggle theme"):
		return Command{Action: ActionToggleTheme}
	default:
		return Command{Action: ActionUnknown}
	}
}

func remainderAfter(phrase, prefix string) string {
	return strings.TrimSpace(strings.Replace(phrase, prefix, "", 1))
}
