package sched

// TaskSnapshot is a read-only view of a TaskLike's outer state, safe to
// serialize for the control API. It never exposes handler internals —
// handlers are not introspectable from outside the engine.
type TaskSnapshot struct {
	Name            string `json:"name"`
	Kind            string `json:"kind"`
	DuplicatePolicy string `json:"duplicate_policy"`
	Expired         bool   `json:"expired"`
	Paused          bool   `json:"paused"`
}

// Snapshot returns a point-in-time view of every task and subscription
// currently held by the engine.
func (e *Engine) Snapshot() []TaskSnapshot {
	tasks := e.snapshotTasks()
	out := make([]TaskSnapshot, len(tasks))
	for i, t := range tasks {
		out[i] = TaskSnapshot{
			Name:            t.Name(),
			Kind:            t.Kind().String(),
			DuplicatePolicy: t.DuplicatePolicy().String(),
			Expired:         t.Expired(),
			Paused:          t.Paused(),
		}
	}
	return out
}
