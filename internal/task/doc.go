// Package task runs background jobs such as confirmation email delivery.
//
// Jobs are persisted before they are queued so that a restart never loses
// one: on Start the runner reloads pending and interrupted jobs from the
// TaskStore and rebuilds them through a Registry keyed by task type.
package task
