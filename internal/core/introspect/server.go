// Package introspect 提供本地自省 HTTP 服务
//
// 该服务运行在本地端口，提供 JSON 格式的诊断信息，用于调试。
// 默认绑定到 127.0.0.1，不暴露到网络。
//
// 端点：
//   - GET /debug/nettune         - 完整诊断报告 (JSON)
//   - GET /debug/nettune/hosts   - 远端主机状态（按重传数降序，?limit=N）
//   - GET /debug/nettune/tables  - 邻居表最新快照
//   - GET /debug/pprof/*         - Go pprof 端点
//   - GET /health                - 健康检查
package introspect

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/pprof"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/dep2p/go-nettune/internal/core/cong"
	"github.com/dep2p/go-nettune/internal/core/emitter"
	"github.com/dep2p/go-nettune/internal/core/neigh"
	"github.com/dep2p/go-nettune/internal/core/store"
	introspectif "github.com/dep2p/go-nettune/pkg/interfaces/introspect"
	"github.com/dep2p/go-nettune/pkg/lib/log"
	"github.com/dep2p/go-nettune/pkg/types"
)

var logger = log.Logger("core/introspect")

// DefaultAddr 默认监听地址
const DefaultAddr = introspectif.DefaultAddr

// defaultHostLimit /hosts 默认返回条数
const defaultHostLimit = 256

// Server 本地自省 HTTP 服务
type Server struct {
	cong    *cong.Tracker
	neigh   *neigh.Tracker
	emitter *emitter.Emitter

	addr string

	server   *http.Server
	listener net.Listener

	running bool
	mu      sync.Mutex
}

var _ introspectif.Server = (*Server)(nil)

// Config 服务配置
type Config struct {
	// Addr 监听地址，默认 "127.0.0.1:6060"
	Addr string

	// Cong 远端主机跟踪器（可选）
	Cong *cong.Tracker

	// Neigh 邻居表跟踪器（可选）
	Neigh *neigh.Tracker

	// Emitter 事件通道（可选）
	Emitter *emitter.Emitter
}

// New 创建自省服务
func New(cfg Config) *Server {
	addr := cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	return &Server{
		cong:    cfg.Cong,
		neigh:   cfg.Neigh,
		emitter: cfg.Emitter,
		addr:    addr,
	}
}

// Handler 返回路由
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/debug/nettune", s.handleReport)
	mux.HandleFunc("/debug/nettune/hosts", s.handleHosts)
	mux.HandleFunc("/debug/nettune/tables", s.handleTables)

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start 启动服务
func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("自省服务异常退出", "error", err)
		}
	}()

	s.running = true
	logger.Info("自省服务已启动", "addr", listener.Addr().String())
	return nil
}

// Stop 停止服务
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	if err := s.server.Shutdown(ctx); err != nil {
		logger.Error("关闭自省服务失败", "error", err)
		return err
	}
	s.running = false
	logger.Info("自省服务已停止")
	return nil
}

// Addr 返回实际监听地址
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// ============================================================================
//                              响应结构
// ============================================================================

// Report 完整诊断报告
type Report struct {
	Timestamp time.Time `json:"timestamp"`

	Cong    *CongReport    `json:"cong,omitempty"`
	Neigh   *NeighReport   `json:"neigh,omitempty"`
	Emitter *emitter.Stats `json:"emitter,omitempty"`
}

// CongReport 远端主机跟踪器状态
type CongReport struct {
	Threshold uint64      `json:"threshold"`
	Window    string      `json:"window"`
	Algorithm string      `json:"algorithm"`
	Store     store.Stats `json:"store"`
	Stats     cong.Stats  `json:"stats"`
}

// NeighReport 邻居表跟踪器状态
type NeighReport struct {
	Policy string      `json:"policy"`
	Store  store.Stats `json:"store"`
	Stats  neigh.Stats `json:"stats"`
}

// HostInfo 单个远端主机的状态
type HostInfo struct {
	Addr           string    `json:"addr"`
	Retransmits    uint64    `json:"retransmits"`
	LastRetransmit time.Time `json:"last_retransmit"`
}

// TableInfo 单张邻居表的最新快照
type TableInfo struct {
	ID         uint64 `json:"id"`
	Family     string `json:"family"`
	Entries    int32  `json:"entries"`
	GCEntries  int32  `json:"gc_entries"`
	Max        int32  `json:"max"`
	Dev        string `json:"dev,omitempty"`
	IfIndex    int32  `json:"ifindex"`
	NearlyFull bool   `json:"nearly_full"`
	Sysctl     string `json:"sysctl,omitempty"`
}

// ============================================================================
//                              HTTP 处理器
// ============================================================================

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	report := Report{Timestamp: time.Now()}
	if s.cong != nil {
		cfg := s.cong.Config()
		report.Cong = &CongReport{
			Threshold: cfg.Threshold,
			Window:    cfg.Window.String(),
			Algorithm: cfg.Algorithm,
			Store:     s.cong.Hosts().Snapshot(),
			Stats:     s.cong.Snapshot(),
		}
	}
	if s.neigh != nil {
		report.Neigh = &NeighReport{
			Policy: s.neigh.Config().Policy.String(),
			Store:  s.neigh.Tables().Snapshot(),
			Stats:  s.neigh.Snapshot(),
		}
	}
	if s.emitter != nil {
		stats := s.emitter.Snapshot()
		report.Emitter = &stats
	}
	s.writeJSON(w, report)
}

func (s *Server) handleHosts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.cong == nil {
		http.Error(w, "Host tracker not available", http.StatusServiceUnavailable)
		return
	}

	limit := defaultHostLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	hosts := make([]HostInfo, 0, s.cong.Hosts().Len())
	s.cong.Hosts().Range(func(key types.HostKey, h cong.RemoteHost) bool {
		hosts = append(hosts, HostInfo{
			Addr:           key.String(),
			Retransmits:    h.Retransmits,
			LastRetransmit: h.LastRetransmit,
		})
		return true
	})
	sort.Slice(hosts, func(i, j int) bool {
		if hosts[i].Retransmits != hosts[j].Retransmits {
			return hosts[i].Retransmits > hosts[j].Retransmits
		}
		return hosts[i].Addr < hosts[j].Addr
	})
	if len(hosts) > limit {
		hosts = hosts[:limit]
	}
	s.writeJSON(w, hosts)
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.neigh == nil {
		http.Error(w, "Table tracker not available", http.StatusServiceUnavailable)
		return
	}

	cfg := s.neigh.Config()
	tables := make([]TableInfo, 0, s.neigh.Tables().Len())
	s.neigh.Tables().Range(func(id types.TableID, st types.TableStats) bool {
		info := TableInfo{
			ID:         uint64(id),
			Family:     types.Family(st.Family).String(),
			Entries:    st.Entries,
			GCEntries:  st.GCEntries,
			Max:        st.Max,
			Dev:        st.DeviceName(),
			IfIndex:    st.IfIndex,
			NearlyFull: cfg.NearlyFull(st.Entries, st.Max),
		}
		if tun, ok := neigh.CapacityTunable(types.Family(st.Family)); ok {
			info.Sysctl = tun.SysctlName()
		}
		tables = append(tables, info)
		return true
	})
	sort.Slice(tables, func(i, j int) bool { return tables[i].ID < tables[j].ID })
	s.writeJSON(w, tables)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	health := struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
	}{
		Status:    "ok",
		Timestamp: time.Now(),
	}
	if s.cong == nil || s.neigh == nil || s.emitter == nil {
		health.Status = "degraded"
	}
	s.writeJSON(w, health)
}

// writeJSON 写入 JSON 响应
func (s *Server) writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		logger.Error("JSON 编码失败", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
