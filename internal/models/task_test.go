package models

import "testing"

func TestValidTaskStatus(t *testing.T) {
	for _, status := range TaskStatuses {
		if !ValidTaskStatus(status) {
			t.Errorf("ValidTaskStatus(%q) = false", status)
		}
	}

	for _, status := range []string{"", "todo", "Done", "IN PROGRESS", "completed"} {
		if ValidTaskStatus(status) {
			t.Errorf("ValidTaskStatus(%q) = true", status)
		}
	}
}
