package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"clearscrub-admin/internal/domain"
)

// SlotFactory construye el slot durable de un handle de sesion.
type SlotFactory func(sid string) Slot

// MemorySlotFactory comparte un MemorySlots entre handles, util sin Redis.
func MemorySlotFactory() SlotFactory {
	return NewMemorySlots().Slot
}

// Registry es dueño de un Store por handle de sesion (una sesion por navegador).
type Registry struct {
	logger         *zap.Logger
	newSlot        SlotFactory
	auth           Authenticator
	observer       Observer
	restoreTimeout time.Duration

	mu     sync.Mutex
	stores map[string]*Store
}

func NewRegistry(logger *zap.Logger, newSlot SlotFactory, auth Authenticator, observer Observer, restoreTimeout time.Duration) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if restoreTimeout <= 0 {
		restoreTimeout = 2 * time.Second
	}
	return &Registry{
		logger:         logger,
		newSlot:        newSlot,
		auth:           auth,
		observer:       observer,
		restoreTimeout: restoreTimeout,
		stores:         make(map[string]*Store),
	}
}

// NewSessionID genera un identificador opaco de handle.
func NewSessionID() string {
	return uuid.NewString()
}

// Get devuelve el Store del handle. Un Store nuevo arranca en Loading y se
// restaura en segundo plano; los consumidores deben esperar con Await. Si la
// restauracion no encuentra sesion, el Store sale del registro.
func (r *Registry) Get(sid string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	if store, ok := r.stores[sid]; ok {
		return store
	}
	store := r.newStore(sid)
	r.stores[sid] = store

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.restoreTimeout)
		defer cancel()
		if store.Restore(ctx) != domain.SessionAuthenticated {
			r.release(sid, store)
		}
	}()
	return store
}

// release quita el Store solo si sigue siendo el registrado para sid.
func (r *Registry) release(sid string, store *Store) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stores[sid] == store {
		delete(r.stores, sid)
	}
}

// Begin prepara un Store para un handle nuevo sin registrarlo. Solo un login
// exitoso lo registra con Attach; un intento fallido no deja rastro.
func (r *Registry) Begin(ctx context.Context) (string, *Store) {
	sid := NewSessionID()
	store := r.newStore(sid)

	restoreCtx, cancel := context.WithTimeout(ctx, r.restoreTimeout)
	defer cancel()
	store.Restore(restoreCtx)
	return sid, store
}

// Attach registra el Store devuelto por Begin.
func (r *Registry) Attach(sid string, store *Store) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores[sid] = store
}

// End cierra la sesion del handle: signOut si el Store esta en memoria y, si
// no, borra directamente el slot durable.
func (r *Registry) End(ctx context.Context, sid string) {
	r.mu.Lock()
	store, ok := r.stores[sid]
	delete(r.stores, sid)
	r.mu.Unlock()

	if ok {
		store.SignOut(ctx)
		return
	}
	if err := r.newSlot(sid).Clear(ctx); err != nil {
		r.logger.Warn("clear session slot failed", zap.Error(err), zap.String("sid", sid))
	}
}

func (r *Registry) newStore(sid string) *Store {
	return NewStore(r.logger.With(zap.String("sid", sid)), r.newSlot(sid), r.auth, r.observer)
}

// Drop olvida el Store en memoria; el slot durable no se toca.
func (r *Registry) Drop(sid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, sid)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// Close libera todos los Stores al apagar el proceso.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores = make(map[string]*Store)
}
