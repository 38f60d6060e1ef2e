package domain

import (
	"strings"
	"testing"

	"github.com/bytedance/sonic"
)

func TestTaskMarshalIncludesZeroEstimatedTime(t *testing.T) {
	task := Task{ID: "t1", Title: "Read chapter 5", DueDate: "2024-01-10", Priority: PriorityMedium}

	payload, err := sonic.Marshal(task)
	if err != nil {
		t.Fatalf("marshal task: %v", err)
	}

	if !strings.Contains(string(payload), "\"estimatedTime\":0") {
		t.Fatalf("expected estimatedTime field to be present, got %s", payload)
	}
	if !strings.Contains(string(payload), "\"completed\":false") {
		t.Fatalf("expected completed field to be present, got %s", payload)
	}
}

func TestGoalIsCompleted(t *testing.T) {
	tests := []struct {
		name     string
		progress int
		want     bool
	}{
		{name: "zero progress", progress: 0, want: false},
		{name: "partial progress", progress: 99, want: false},
		{name: "full progress", progress: 100, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Goal{Progress: tt.progress}
			if got := g.IsCompleted(); got != tt.want {
				t.Fatalf("IsCompleted() with progress %d = %v, want %v", tt.progress, got, tt.want)
			}
		})
	}
}
