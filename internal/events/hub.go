package events

import "sync"

// Hub routes events to SSE clients by topic. A board session's events are
// published under its session id, so a client only hears about its own page.
type Hub struct {
	mu     sync.Mutex
	topics map[string]map[chan string]struct{}
}

func NewHub() *Hub {
	return &Hub{topics: make(map[string]map[chan string]struct{})}
}

// Subscribe registers a client for topic. An empty topic is valid and only
// receives what is published under "".
func (h *Hub) Subscribe(topic string) chan string {
	ch := make(chan string, 10)
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[chan string]struct{})
		h.topics[topic] = subs
	}
	subs[ch] = struct{}{}
	return ch
}

// Unsubscribe closes ch. Calling it twice is harmless.
func (h *Hub) Unsubscribe(ch chan string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for topic, subs := range h.topics {
		if _, ok := subs[ch]; !ok {
			continue
		}
		delete(subs, ch)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
		close(ch)
		return
	}
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, subs := range h.topics {
		n += len(subs)
	}
	return n
}

// Publish never blocks; a client whose buffer is full misses the event.
func (h *Hub) Publish(topic, evt string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.topics[topic] {
		select {
		case ch <- evt:
		default:
		}
	}
}
