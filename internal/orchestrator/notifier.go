package orchestrator

import "log"

// Notifier is the boundary to whatever presents batch summaries to the
// user. Desktop notification glue lives outside the core; the default sink
// is the process log.
type Notifier interface {
	Notify(message string)
}

type LogNotifier struct{}

func (LogNotifier) Notify(message string) {
	log.Println(message)
}
