package realtime

import "sync"

// Presence tracks how many live connections each user has. A user is
// online while the count is positive, so a second tab never flaps the
// online status.
type Presence struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewPresence() *Presence {
	return &Presence{counts: make(map[string]int)}
}

// MarkOnline increments the user's connection count and reports whether
// the user just came online (count crossed 0 to 1).
func (p *Presence) MarkOnline(userID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.counts[userID]++
	return p.counts[userID] == 1
}

// MarkOffline decrements the count and reports whether the user just
// went offline (count crossed 1 to 0). Calls without a matching
// MarkOnline are ignored.
func (p *Presence) MarkOffline(userID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	count, ok := p.counts[userID]
	if !ok {
		return false
	}
	if count <= 1 {
		delete(p.counts, userID)
		return true
	}
	p.counts[userID] = count - 1
	return false
}

// IsOnline reports whether the user has at least one live connection.
func (p *Presence) IsOnline(userID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts[userID] > 0
}

// Online returns the IDs of all currently connected users.
func (p *Presence) Online() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	users := make([]string, 0, len(p.counts))
	for userID := range p.counts {
		users = append(users, userID)
	}
	return users
}
