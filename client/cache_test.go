package client

import (
	"testing"

	"github.com/google/uuid"

	"taskhub/domain/dto"
)

func seedCache() *taskCache {
	tc := newTaskCache()
	tc.replace([]dto.TaskResponse{
		{ID: uuid.New(), Title: "Fix login bug", Description: "token expiry", Status: "in_progress", Priority: "high"},
		{ID: uuid.New(), Title: "Buy groceries", Status: "pending", Priority: "low"},
		{ID: uuid.New(), Title: "Review PR", Status: "completed", Priority: "high"},
	})
	return tc
}

func titles(tasks []dto.TaskResponse) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func TestCacheFilter(t *testing.T) {
	tc := seedCache()

	tests := []struct {
		name     string
		status   string
		priority string
		search   string
		want     []string
	}{
		{"no filter", "", "", "", []string{"Fix login bug", "Buy groceries", "Review PR"}},
		{"by status", "pending", "", "", []string{"Buy groceries"}},
		{"by priority", "", "high", "", []string{"Fix login bug", "Review PR"}},
		{"search title case-insensitive", "", "", "REVIEW", []string{"Review PR"}},
		{"search description", "", "", "expiry", []string{"Fix login bug"}},
		{"combined", "", "high", "fix", []string{"Fix login bug"}},
		{"no match", "pending", "high", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titles(tc.filter(tt.status, tt.priority, tt.search))
			if len(got) != len(tt.want) {
				t.Fatalf("filter = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("filter[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCacheFilterPreservesOrder(t *testing.T) {
	tc := seedCache()

	got := titles(tc.filter("", "high", ""))
	want := []string{"Fix login bug", "Review PR"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestCacheSubscribeSnapshotIsolation(t *testing.T) {
	tc := newTaskCache()

	var received []dto.TaskResponse
	tc.subscribe(func(tasks []dto.TaskResponse) {
		received = tasks
	})

	tc.replace([]dto.TaskResponse{{ID: uuid.New(), Title: "original"}})

	if len(received) != 1 {
		t.Fatalf("subscriber received %d tasks, want 1", len(received))
	}

	received[0].Title = "mutated"
	if tc.snapshot()[0].Title != "original" {
		t.Error("mutating a delivered snapshot leaked into the cache")
	}
}
