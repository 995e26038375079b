package session

import (
	"context"
	"errors"
	"sync"
)

// SlotKey es el nombre del slot durable donde vive el snapshot de identidad.
const SlotKey = "clearscrub_user"

var ErrSlotEmpty = errors.New("session slot empty")

// Slot es un espejo pasivo de la sesion: una unica entrada clave-valor.
type Slot interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
}

// MemorySlot guarda el snapshot en memoria del proceso.
type MemorySlot struct {
	mu   sync.Mutex
	data []byte
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (s *MemorySlot) Load(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, ErrSlotEmpty
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

func (s *MemorySlot) Save(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	return nil
}

func (s *MemorySlot) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}

// MemorySlots guarda los snapshots de muchos handles en memoria del proceso.
// Un slot vacio no ocupa entrada: Clear la elimina.
type MemorySlots struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemorySlots() *MemorySlots {
	return &MemorySlots{data: make(map[string][]byte)}
}

// Slot devuelve el slot del handle; se usa como SlotFactory.
func (m *MemorySlots) Slot(sid string) Slot {
	return &sharedMemorySlot{owner: m, sid: sid}
}

// Len cuenta los handles con snapshot guardado.
func (m *MemorySlots) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

type sharedMemorySlot struct {
	owner *MemorySlots
	sid   string
}

func (s *sharedMemorySlot) Load(_ context.Context) ([]byte, error) {
	s.owner.mu.Lock()
	defer s.owner.mu.Unlock()
	data, ok := s.owner.data[s.sid]
	if !ok {
		return nil, ErrSlotEmpty
	}
	return append([]byte(nil), data...), nil
}

func (s *sharedMemorySlot) Save(_ context.Context, data []byte) error {
	s.owner.mu.Lock()
	defer s.owner.mu.Unlock()
	s.owner.data[s.sid] = append([]byte(nil), data...)
	return nil
}

func (s *sharedMemorySlot) Clear(_ context.Context) error {
	s.owner.mu.Lock()
	defer s.owner.mu.Unlock()
	delete(s.owner.data, s.sid)
	return nil
}
