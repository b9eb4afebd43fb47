// Package observer 通过 websocket 向外部渲染器、音效层广播模拟事件
//
// 模拟线程调用 HandleEvent（作为 events.Handler 注册到 Simulation），
// 每个连接有独立的写协程和有界发送队列；慢连接的队列满时直接丢弃新事件，
// 不会阻塞游戏循环。
package observer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ko2345-cloud/eat-party/pkg/events"
)

// ProtocolVersion 消息格式版本，随 hello 消息发送
const ProtocolVersion = 1

const (
	defaultQueueSize = 64
	writeTimeout     = 5 * time.Second
	readTimeout      = 60 * time.Second
)

// HelloMsg 连接建立后发送的第一条消息
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion int    `json:"protocolVersion"`
}

type client struct {
	out chan []byte
}

// Hub 管理所有观察者连接
type Hub struct {
	mu        sync.Mutex
	clients   map[*client]struct{}
	queueSize int
	dropped   atomic.Uint64

	upgrader websocket.Upgrader
}

// NewHub 创建广播中心
//
// 参数:
//   - queueSize: 每个连接的发送队列长度，<= 0 时使用默认值 64
func NewHub(queueSize int) *Hub {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Hub{
		clients:   make(map[*client]struct{}),
		queueSize: queueSize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // 本地渲染器
		},
	}
}

// HandleEvent 广播单个事件
func (h *Hub) HandleEvent(ev events.Event) {
	b, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[Observer] Warning: failed to marshal %s event: %v", ev.Type, err)
		return
	}
	h.Broadcast(b)
}

// EventTypes 订阅全部事件
func (h *Hub) EventTypes() []events.EventType {
	return events.AllEventTypes
}

// Broadcast 把一条消息放入每个连接的发送队列，队列已满的连接丢弃该消息
func (h *Hub) Broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.out <- msg:
		default:
			h.dropped.Add(1)
		}
	}
}

// ClientCount 返回当前连接数
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped 返回因队列已满而丢弃的消息总数
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

func (h *Hub) register() *client {
	c := &client{out: make(chan []byte, h.queueSize)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// Handler 返回 websocket 升级处理器
func (h *Hub) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		// 先注册再发 hello：收到 hello 的客户端不会错过之后的事件
		c := h.register()
		defer h.unregister(c)

		if err := writeJSON(conn, HelloMsg{Type: "hello", ProtocolVersion: ProtocolVersion}); err != nil {
			return
		}
		log.Printf("[Observer] Client connected: %s", r.RemoteAddr)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b := <-c.out:
					_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						conn.Close()
						return
					}
				}
			}
		}()

		// 观察者只读；读循环用于感知断开
		for {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		log.Printf("[Observer] Client disconnected: %s", r.RemoteAddr)
	}
}

// Serve 在 addr 上提供 /events 端点，ctx 取消时关闭
func Serve(ctx context.Context, addr string, hub *Hub) error {
	mux := http.NewServeMux()
	mux.Handle("/events", hub.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[Observer] Listening on ws://%s/events", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve observer: %w", err)
	}
	return nil
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, b)
}
