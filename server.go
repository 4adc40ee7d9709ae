package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SetupRoutes configures HTTP routes
func SetupRoutes(hub *Hub, clientDir string) *httprouter.Router {
	router := httprouter.New()

	router.GET("/healthz", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	})

	// Plain count of rock-paper-scissors games played
	router.GET("/api/games-played", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(strconv.FormatInt(CounterValue(hub.store, KeyGamesPlayed), 10) + "\n"))
	})

	// QR code for the join URL, for pulling a second player in by phone
	router.GET("/qr", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		png, err := qrcode.Encode("http://"+r.Host+"/", qrcode.Medium, 256)
		if err != nil {
			http.Error(w, "qr encode failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	})

	router.GET("/ws", serveWS(hub, func(c *Client, r *http.Request) {
		binary := r.URL.Query().Get("codec") == "msgpack"
		c.sess = hub.game.Connect(c, binary)
		hub.metrics.Track(MetricConnections)
	}))

	router.GET("/rps", serveWS(hub, func(c *Client, _ *http.Request) {
		c.rps = hub.rps.Join(c)
	}))

	// Static client files with no-cache so browsers always revalidate
	fs := http.FileServer(http.Dir(clientDir))
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		if r.URL.Path == "/" {
			http.ServeFile(w, r, filepath.Join(clientDir, "index.html"))
			return
		}
		fs.ServeHTTP(w, r)
	})

	return router
}

// serveWS upgrades the connection, applies the connection limits and hands
// the new client to attach before the pumps start.
func serveWS(hub *Hub, attach func(*Client, *http.Request)) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ip := extractIP(r)
		if !hub.CanAccept(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade error: %v", err)
			return
		}

		hub.TrackConnect(ip)

		client := NewClient(hub, conn, ip)
		hub.register <- client
		attach(client, r)

		go client.WritePump()
		go client.ReadPump()
	}
}

// Serve wires up the store, game, hub and HTTP server, then blocks until the
// context is cancelled.
func Serve(ctx context.Context, cfg *Config) error {
	var store Store
	if cfg.dbPath == "" {
		store = NewMemStore()
	} else {
		s, err := OpenStore(cfg.dbPath)
		if err != nil {
			return err
		}
		store = s
	}
	defer store.Close()

	metrics := NewMetrics(store)
	defer metrics.Stop()

	game := NewGame(cfg.tickRate, cfg.respawnDelay)
	game.Seed(cfg.seedSnakes, cfg.seedSpiders)
	go game.Run()
	defer game.Stop()

	hub := NewHub(game, store, metrics, cfg.maxConns, cfg.maxConnsPerIP)
	go hub.Run()

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port)),
		Handler:           SetupRoutes(hub, cfg.clientDir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("sprite-arena v%s listening on http://%s/", releaseVersion, srv.Addr)
		if cfg.verbose {
			log.Printf("serving client files from %s", cfg.clientDir)
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("listen error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
