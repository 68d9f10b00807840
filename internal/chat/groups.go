package chat

import (
	"sort"
	"time"
)

// ThreadGroup is a labeled bucket of threads for sidebar display.
type ThreadGroup struct {
	Label   string
	Threads []*Thread
}

// GroupByDate buckets threads by last activity relative to now: Hoy, Ayer,
// Esta semana, Este mes, Anteriores. Empty buckets are dropped, threads
// inside each bucket are sorted newest first with ties kept in insertion
// order.
func GroupByDate(threads []*Thread, now time.Time) []ThreadGroup {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterday := today.AddDate(0, 0, -1)
	weekAgo := today.AddDate(0, 0, -7)
	monthAgo := today.AddDate(0, 0, -30)

	labels := []string{"Hoy", "Ayer", "Esta semana", "Este mes", "Anteriores"}
	buckets := make(map[string][]*Thread, len(labels))

	for _, t := range threads {
		at := t.LastActivity()
		var label string
		switch {
		case !at.Before(today):
			label = "Hoy"
		case !at.Before(yesterday):
			label = "Ayer"
		case !at.Before(weekAgo):
			label = "Esta semana"
		case !at.Before(monthAgo):
			label = "Este mes"
		default:
			label = "Anteriores"
		}
		buckets[label] = append(buckets[label], t)
	}

	var groups []ThreadGroup
	for _, label := range labels {
		bucket := buckets[label]
		if len(bucket) == 0 {
			continue
		}
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].LastActivity().After(bucket[j].LastActivity())
		})
		groups = append(groups, ThreadGroup{Label: label, Threads: bucket})
	}
	return groups
}
