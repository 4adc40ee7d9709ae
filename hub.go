package main

import "sync"

// Hub manages all connected clients and the shared game, matchmaker and
// store handles. Created at server start, torn down at shutdown; nothing
// here is a package-level singleton.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client

	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu        sync.Mutex
	ipConns       map[string]int
	totalConns    int
	maxConns      int
	maxConnsPerIP int

	game    *Game
	rps     *Matchmaker
	store   Store
	metrics *Metrics
}

// NewHub creates a new Hub around an existing game and store
func NewHub(game *Game, store Store, metrics *Metrics, maxConns, maxConnsPerIP int) *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		register:      make(chan *Client, 64),
		unregister:    make(chan *Client, 64),
		ipConns:       make(map[string]int),
		maxConns:      maxConns,
		maxConnsPerIP: maxConnsPerIP,
		game:          game,
		rps:           NewMatchmaker(store),
		store:         store,
		metrics:       metrics,
	}
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= h.maxConns {
		return false
	}
	if h.ipConns[ip] >= h.maxConnsPerIP {
		return false
	}
	return true
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// Run processes register/unregister events
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			if client.sess != nil {
				h.game.Disconnect(client.sess)
				client.sess = nil
			}
			if client.rps != nil {
				h.rps.Leave(client.rps)
				client.rps = nil
			}
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}
