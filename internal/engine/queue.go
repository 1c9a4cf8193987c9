package engine

import "github.com/waltergaltieri/nudge/internal/models"

// pendingQueue holds pending suggestions in priority order. Insertion is
// stable: among equal priorities, earlier suggestions stay ahead.
type pendingQueue struct {
	items []*models.ContextualSuggestion
}

func (q *pendingQueue) insert(s *models.ContextualSuggestion) {
	at := len(q.items)
	for i, it := range q.items {
		if s.Priority.Rank() > it.Priority.Rank() {
			at = i
			break
		}
	}
	q.items = append(q.items, nil)
	copy(q.items[at+1:], q.items[at:])
	q.items[at] = s
}

// remove takes the suggestion with the given ID out of the queue, or
// returns nil when absent.
func (q *pendingQueue) remove(id string) *models.ContextualSuggestion {
	for i, it := range q.items {
		if it.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return it
		}
	}
	return nil
}

func (q *pendingQueue) byID(id string) *models.ContextualSuggestion {
	for _, it := range q.items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

func (q *pendingQueue) len() int { return len(q.items) }

// snapshot returns copies of the queued suggestions in queue order.
func (q *pendingQueue) snapshot() []models.ContextualSuggestion {
	out := make([]models.ContextualSuggestion, len(q.items))
	for i, it := range q.items {
		out[i] = *it
	}
	return out
}

// filter retains only suggestions keep returns true for, returning the
// removed ones.
func (q *pendingQueue) filter(keep func(*models.ContextualSuggestion) bool) []*models.ContextualSuggestion {
	var removed []*models.ContextualSuggestion
	kept := q.items[:0]
	for _, it := range q.items {
		if keep(it) {
			kept = append(kept, it)
		} else {
			removed = append(removed, it)
		}
	}
	q.items = kept
	return removed
}
