package util

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"

	"github.com/elijahnyp/smarthouse/state"
)

// Snapshot is a report captured at one point in time. HTTP handlers only
// ever see snapshots, never live devices.
type Snapshot struct {
	Report string         `json:"-"`
	Rooms  []RoomSnapshot `json:"rooms"`
}

type RoomSnapshot struct {
	Name    string   `json:"name"`
	Devices []string `json:"devices"`
}

func TakeSnapshot(house *state.SmartHouse) Snapshot {
	snap := Snapshot{Report: house.Info(), Rooms: []RoomSnapshot{}}
	for _, room := range house.Rooms() {
		rs := RoomSnapshot{Name: room.Name(), Devices: []string{}}
		for _, name := range room.DeviceNames() {
			if d, ok := room.Device(name); ok {
				rs.Devices = append(rs.Devices, d.Info())
			}
		}
		snap.Rooms = append(snap.Rooms, rs)
	}
	return snap
}

type MonitorServer struct {
	mu   sync.Mutex // guards srv, done, port and listenPort
	srv  *http.Server
	done chan struct{}
	port int
	mux  *http.ServeMux

	// port actually bound, differs from port when port is 0
	listenPort int

	snapMu   sync.RWMutex
	snapshot Snapshot
}

func NewMonitorServer(port int) *MonitorServer {
	s := &MonitorServer{
		mux:  http.NewServeMux(),
		port: port,
	}
	s.snapshot = Snapshot{Report: state.ReportHeader + "\n", Rooms: []RoomSnapshot{}}
	s.mux.HandleFunc("/report", s.ReportHandler)
	s.mux.HandleFunc("/api/house", s.HouseApiHandler)
	return s
}

func (s *MonitorServer) SetSnapshot(snap Snapshot) {
	s.snapMu.Lock()
	s.snapshot = snap
	s.snapMu.Unlock()
}

func (s *MonitorServer) Snapshot() Snapshot {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	return s.snapshot
}

func (s *MonitorServer) Handler() http.Handler {
	return s.mux
}

// Port returns the bound port, or 0 when the server is not running.
func (s *MonitorServer) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listenPort
}

// Start binds the port before returning, so a port already in use is
// reported to the caller. Serving continues in the background.
func (s *MonitorServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return fmt.Errorf("already running")
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("monitor server: %w", err)
	}
	srv := &http.Server{Handler: s.mux}
	done := make(chan struct{})
	s.srv = srv
	s.done = done
	s.listenPort = ln.Addr().(*net.TCPAddr).Port

	Logger.Info().Msgf("monitor server listening on %s", ln.Addr())
	go func() {
		defer close(done)
		if err := srv.Serve(ln); err != http.ErrServerClosed {
			Logger.Warn().Msgf("Problem running monitor server: %v", err)
		}
		Logger.Debug().Msg("monitor server shutdown")
	}()
	return nil
}

// Stop shuts the server down and waits for the serve loop to exit.
func (s *MonitorServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv, done := s.srv, s.done
	s.srv, s.done, s.listenPort = nil, nil, 0
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	err := srv.Shutdown(ctx)
	<-done
	return err
}

// Restart stops the running server, if any, and starts it again on port.
func (s *MonitorServer) Restart(port int) error {
	Logger.Debug().Msg("restarting monitor server")
	if err := s.Stop(context.TODO()); err != nil {
		Logger.Error().Msgf("Error shutting down monitor server: %v", err)
	}
	s.mu.Lock()
	s.port = port
	s.mu.Unlock()
	return s.Start()
}

func (s *MonitorServer) ReportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		if _, err := io.WriteString(w, "Bad Request Method\n"); err != nil {
			Logger.Error().Msgf("Error writing response: %v", err)
		}
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := io.WriteString(w, s.Snapshot().Report); err != nil {
		Logger.Error().Msgf("Error writing response: %v", err)
	}
}

func (s *MonitorServer) HouseApiHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		if _, err := io.WriteString(w, "Bad Request Method\n"); err != nil {
			Logger.Error().Msgf("Error writing response: %v", err)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Snapshot()); err != nil {
		Logger.Error().Err(err).Msg("Error encoding house snapshot")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
