package pages

import (
	"context"
	"time"
)

const (
	successDuration = 1500 * time.Millisecond
	failureDuration = 3000 * time.Millisecond
)

// Notice is a short-lived message shown to the user.
type Notice struct {
	Message  string
	Action   string
	Duration time.Duration
	Error    bool
}

type Notifier interface {
	Notify(n Notice)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

func success(msg string) Notice {
	return Notice{Message: msg, Duration: successDuration}
}

func failure(msg string) Notice {
	return Notice{Message: msg, Action: "Dismiss", Duration: failureDuration, Error: true}
}
