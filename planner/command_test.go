package planner

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		want       Command
	}{
		{name: "add task with title", transcript: "Add task read chapter five", want: Command{Action: ActionAddTask, Title: "read chapter five"}},
		{name: "add task without title", transcript: "add task", want: Command{Action: ActionAddTask}},
		{name: "add goal", transcript: "add goal finish thesis", want: Command{Action: ActionAddGoal, Title: "finish thesis"}},
		{name: "show tasks", transcript: "Show Tasks", want: Command{Action: ActionShowTasks}},
		{name: "show goals", transcript: "show goals now", want: Command{Action: ActionShowGoals}},
		{name: "show analytics", transcript: "show analytics", want: Command{Action: ActionShowAnalytics}},
		{name: "generate report", transcript: "generate report", want: Command{Action: ActionGenerateReport}},
		{name: "toggle theme", transcript: "toggle theme", want: Command{Action: ActionToggleTheme}},
		{name: "unknown", transcript: "order a pizza", want: Command{Action: ActionUnknown}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCommand(tt.transcript)
			if got != tt.want {
				t.Fatalf("ParseCommand(%q) = %+v, want %+v", tt.transcript, got, tt.want)
			}
		})
	}
}
