package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

type Hub struct {
	Clients map[string]map[*websocket.Conn]*Client // theo từng noteID
	Mutex   sync.RWMutex
}

var H = Hub{
	Clients: make(map[string]map[*websocket.Conn]*Client),
}

// NoteStatusUpdate gửi trạng thái pipeline OCR của một note đang xử lý
type NoteStatusUpdate struct {
	NoteID   string  `json:"note_id"`
	Status   string  `json:"status"`
	Progress float64 `json:"progress"`
	Error    string  `json:"error,omitempty"`
}

// Register theo noteID riêng
func (h *Hub) Register(noteID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if _, ok := h.Clients[noteID]; !ok {
		h.Clients[noteID] = make(map[*websocket.Conn]*Client)
	}

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	h.Clients[noteID][conn] = client

	go h.readPump(noteID, conn)
	go h.writePump(noteID, conn)
}

func (h *Hub) Unregister(noteID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if clients, ok := h.Clients[noteID]; ok {
		if client, ok := clients[conn]; ok {
			close(client.Send)
			delete(clients, conn)
		}
		if len(clients) == 0 {
			delete(h.Clients, noteID)
		}
	}
	conn.Close()
}

// BroadcastNoteStatus đẩy trạng thái cho mọi client đang theo dõi note
func (h *Hub) BroadcastNoteStatus(update NoteStatusUpdate) {
	payload, err := json.Marshal(update)
	if err != nil {
		log.Printf("Lỗi marshal trạng thái note: %v", err)
		return
	}

	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	for _, client := range h.Clients[update.NoteID] {
		select {
		case client.Send <- payload:
		default:
			// client chậm thì bỏ qua, không block pipeline
		}
	}
}

// GetStats trả về số kết nối đang mở (cho /health)
func (h *Hub) GetStats() map[string]int {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	total := 0
	for _, clients := range h.Clients {
		total += len(clients)
	}
	return map[string]int{
		"notes":       len(h.Clients),
		"connections": total,
	}
}

func (h *Hub) readPump(noteID string, conn *websocket.Conn) {
	defer h.Unregister(noteID, conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(noteID string, conn *websocket.Conn) {
	h.Mutex.RLock()
	client, ok := h.Clients[noteID][conn]
	h.Mutex.RUnlock()
	if !ok {
		return
	}

	for msg := range client.Send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
