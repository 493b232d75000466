package client

import "time"

type User struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Task struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	OwnerID   uint      `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Stats struct {
	Todo       int64 `json:"Todo"`
	InProgress int64 `json:"In Progress"`
	Completed  int64 `json:"Completed"`
}

// State is the client-side mirror of server auth and task state. Only
// the session part is persisted; tasks and stats are refreshed from
// the server.
type State struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
	Tasks []Task `json:"-"`
	Stats Stats  `json:"-"`
}

// The transitions below are pure: each returns a new State and leaves
// the receiver untouched.

func (s State) WithSession(user User, token string) State {
	s.User = &user
	s.Token = token
	return s
}

func (s State) WithTasks(tasks []Task) State {
	copied := make([]Task, len(tasks))
	copy(copied, tasks)
	s.Tasks = copied
	return s
}

func (s State) WithStats(stats Stats) State {
	s.Stats = stats
	return s
}

// Cleared drops the session and everything derived from it.
func (s State) Cleared() State {
	return State{}
}

func (s State) Authenticated() bool {
	return s.Token != ""
}

// Status values, in the order the UI presents them.
const (
	StatusTodo       = "Todo"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

var statusOrder = []string{StatusTodo, StatusInProgress, StatusCompleted}

// NextStatus suggests the forward transition shown in the UI. The
// server accepts any transition; this is presentation guidance only.
func NextStatus(status string) string {
	for i, s := range statusOrder {
		if s == status && i < len(statusOrder)-1 {
			return statusOrder[i+1]
		}
	}
	return status
}

// PrevStatus suggests the backward transition shown in the UI.
func PrevStatus(status string) string {
	for i, s := range statusOrder {
		if s == status && i > 0 {
			return statusOrder[i-1]
		}
	}
	return status
}
