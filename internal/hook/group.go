package hook

// EventGroup is the ordered set of jobs sharing one event.
type EventGroup struct {
	// Event is the lifecycle event name.
	Event string
	// Jobs are in their original relative order.
	Jobs []Job
}

// Group partitions jobs by event. Groups appear in first-occurrence order
// and keep the relative order of their jobs. Jobs without an event go to
// DefaultEvent.
func Group(jobs []Job) []EventGroup {
	return groupWithDefault(jobs, DefaultEvent)
}

func groupWithDefault(jobs []Job, defaultEvent string) []EventGroup {
	var groups []EventGroup
	index := make(map[string]int)

	for _, j := range jobs {
		event := j.eventOr(defaultEvent)
		i, ok := index[event]
		if !ok {
			i = len(groups)
			index[event] = i
			groups = append(groups, EventGroup{Event: event})
		}
		groups[i].Jobs = append(groups[i].Jobs, j)
	}

	return groups
}
