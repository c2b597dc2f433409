package tasks

// TaskSchedulerInterface defines the interface for task scheduling
// operations: queue management, worker pool control and ad-hoc enqueueing
// from the API layer.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
