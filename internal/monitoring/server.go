package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"route-backend/internal/cache"
)

// Server is a small ops dashboard served on its own port: host and database
// stats over HTTP plus a websocket stream pushing them every few seconds.
type Server struct {
	db         *pgxpool.Pool
	port       string
	startedAt  time.Time
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
	upgrader   websocket.Upgrader
}

type Stats struct {
	DatabaseStatus    string         `json:"database_status"`
	ActiveConnections int            `json:"active_connections"`
	IdleConnections   int            `json:"idle_connections"`
	RedisStatus       string         `json:"redis_status"`
	CPUPercent        float64        `json:"cpu_percent"`
	MemoryPercent     float64        `json:"memory_percent"`
	MemoryUsed        string         `json:"memory_used"`
	MemoryTotal       string         `json:"memory_total"`
	DiskPercent       float64        `json:"disk_percent"`
	Uptime            string         `json:"uptime"`
	RunsByStatus      map[string]int `json:"runs_by_status"`
}

func NewServer(db *pgxpool.Pool, port string) *Server {
	return &Server{
		db:        db,
		port:      port,
		startedAt: time.Now(),
		clients:   make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Start serves the monitoring endpoints. Blocks; run in a goroutine.
func (s *Server) Start() error {
	r := mux.NewRouter()
	r.HandleFunc("/monitoring/stats", s.handleStats).Methods("GET")
	r.HandleFunc("/monitoring/ws", s.handleWS)

	go s.broadcastLoop()

	log.Printf("[Monitoring] Listening on :%s", s.port)
	return http.ListenAndServe(":"+s.port, r)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.collect(r.Context())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Monitoring] Upgrade failed: %v", err)
		return
	}

	s.clientsMux.Lock()
	s.clients[conn] = true
	s.clientsMux.Unlock()

	go func() {
		defer func() {
			s.clientsMux.Lock()
			delete(s.clients, conn)
			s.clientsMux.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) broadcastLoop() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		s.clientsMux.Lock()
		n := len(s.clients)
		s.clientsMux.Unlock()
		if n == 0 {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		stats := s.collect(ctx)
		cancel()

		data, err := json.Marshal(stats)
		if err != nil {
			continue
		}

		s.clientsMux.Lock()
		for conn := range s.clients {
			conn.SetWriteDeadline(time.Now().Add(3 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				conn.Close()
				delete(s.clients, conn)
			}
		}
		s.clientsMux.Unlock()
	}
}

func (s *Server) collect(ctx context.Context) *Stats {
	stats := &Stats{
		DatabaseStatus: "connected",
		RedisStatus:    "disconnected",
		Uptime:         time.Since(s.startedAt).Round(time.Second).String(),
		RunsByStatus:   make(map[string]int),
	}

	if err := s.db.Ping(ctx); err != nil {
		stats.DatabaseStatus = "disconnected"
	} else {
		pool := s.db.Stat()
		stats.ActiveConnections = int(pool.AcquiredConns())
		stats.IdleConnections = int(pool.IdleConns())

		rows, err := s.db.Query(ctx, `SELECT status, COUNT(*) FROM runs GROUP BY status`)
		if err == nil {
			for rows.Next() {
				var status string
				var n int
				if rows.Scan(&status, &n) == nil {
					stats.RunsByStatus[status] = n
				}
			}
			rows.Close()
		}
	}

	if cache.IsHealthy() {
		stats.RedisStatus = "connected"
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemoryPercent = vm.UsedPercent
		stats.MemoryUsed = formatBytes(vm.Used)
		stats.MemoryTotal = formatBytes(vm.Total)
	}
	if du, err := disk.Usage("/"); err == nil {
		stats.DiskPercent = du.UsedPercent
	}

	return stats
}

func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
