package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"clearscrub-admin/internal/domain"
)

var ErrIncompleteIdentity = errors.New("incomplete identity")

// Authenticator verifica credenciales contra un colaborador externo.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (domain.Identity, error)
}

// Observer recibe los eventos del ciclo de vida de la sesion.
type Observer interface {
	ObserveRestore(outcome string)
	ObserveSignIn(err error)
	ObserveSignOut()
}

type nopObserver struct{}

func (nopObserver) ObserveRestore(string) {}
func (nopObserver) ObserveSignIn(error)   {}
func (nopObserver) ObserveSignOut()       {}

// Store es el unico dueño de la identidad actual de una sesion.
// El slot durable solo refleja su estado; nunca es fuente de verdad en caliente.
type Store struct {
	logger   *zap.Logger
	slot     Slot
	auth     Authenticator
	observer Observer

	// writeMu serializa mutacion + persistencia para que el slot siga al ultimo escritor.
	writeMu sync.Mutex

	mu       sync.RWMutex
	state    domain.SessionState
	identity *domain.Identity

	// mirrored indica que la ultima escritura local llego al slot.
	mirrored bool

	restoreOnce sync.Once
	ready       chan struct{}
}

func NewStore(logger *zap.Logger, slot Slot, auth Authenticator, observer Observer) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Store{
		logger:   logger,
		slot:     slot,
		auth:     auth,
		observer: observer,
		state:    domain.SessionLoading,
		mirrored: true,
		ready:    make(chan struct{}),
	}
}

// Restore lee el snapshot durable una sola vez. Un slot vacio, ilegible o
// corrupto deja la sesion sin autenticar; nunca se propaga un error.
func (s *Store) Restore(ctx context.Context) domain.SessionState {
	s.restoreOnce.Do(func() {
		s.restore(ctx)
	})
	return s.State()
}

func (s *Store) restore(ctx context.Context) {
	defer close(s.ready)

	outcome := "empty"
	var restored *domain.Identity

	data, err := s.slot.Load(ctx)
	switch {
	case errors.Is(err, ErrSlotEmpty):
	case err != nil:
		outcome = "error"
		s.logger.Warn("session slot read failed", zap.Error(err))
	default:
		identity, err := DecodeSnapshot(data)
		if err != nil {
			outcome = "corrupt"
			s.logger.Warn("discarding corrupt session snapshot", zap.Error(err))
			if err := s.slot.Clear(ctx); err != nil {
				s.logger.Warn("clear corrupt session slot failed", zap.Error(err))
			}
		} else {
			outcome = "restored"
			restored = &identity
		}
	}

	s.mu.Lock()
	// Un signOut durante la restauracion gana.
	if s.state == domain.SessionLoading {
		if restored != nil {
			s.identity = restored
			s.state = domain.SessionAuthenticated
		} else {
			s.state = domain.SessionUnauthenticated
		}
	}
	s.mu.Unlock()

	s.observer.ObserveRestore(outcome)
}

// Ready se cierra cuando la restauracion termino.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// Await bloquea hasta que la restauracion termine o ctx expire.
func (s *Store) Await(ctx context.Context) (domain.SessionState, error) {
	select {
	case <-s.ready:
		return s.State(), nil
	case <-ctx.Done():
		return domain.SessionLoading, ctx.Err()
	}
}

// SignIn valida credenciales con el Authenticator. Si falla, la sesion no cambia.
func (s *Store) SignIn(ctx context.Context, email, password string) (domain.Identity, error) {
	if _, err := s.Await(ctx); err != nil {
		return domain.Identity{}, err
	}
	if s.auth == nil {
		return domain.Identity{}, errors.New("session authenticator not configured")
	}

	identity, err := s.auth.Authenticate(ctx, email, password)
	if err != nil {
		s.observer.ObserveSignIn(err)
		return domain.Identity{}, err
	}
	data, err := EncodeSnapshot(identity)
	if err != nil {
		s.observer.ObserveSignIn(err)
		return domain.Identity{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.identity = &identity
	s.state = domain.SessionAuthenticated
	s.mu.Unlock()

	if err := s.slot.Save(ctx, data); err != nil {
		s.logger.Warn("persist session snapshot failed", zap.Error(err), zap.String("user_id", identity.ID))
		s.mirrored = false
	} else {
		s.mirrored = true
	}

	s.logger.Info("signed in", zap.String("user_id", identity.ID))
	s.observer.ObserveSignIn(nil)
	return identity, nil
}

// SignOut limpia la sesion y el slot. Es idempotente y no falla.
func (s *Store) SignOut(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	prev := s.identity
	s.identity = nil
	s.state = domain.SessionUnauthenticated
	s.mu.Unlock()

	if err := s.slot.Clear(ctx); err != nil {
		s.logger.Warn("clear session slot failed", zap.Error(err))
		s.mirrored = false
	} else {
		s.mirrored = true
	}
	if prev != nil {
		s.logger.Info("signed out", zap.String("user_id", prev.ID))
	}
	s.observer.ObserveSignOut()
}

// Sync reconcilia la sesion con el slot durable, que otra replica puede haber
// cambiado: sin snapshot la sesion queda sin autenticar y un snapshot distinto
// reemplaza la identidad. Si la ultima escritura local no llego al slot, o el
// slot no responde, se conserva el estado en memoria.
func (s *Store) Sync(ctx context.Context) domain.SessionState {
	select {
	case <-s.ready:
	default:
		return s.State()
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if !s.mirrored {
		return s.State()
	}

	var synced *domain.Identity
	data, err := s.slot.Load(ctx)
	switch {
	case errors.Is(err, ErrSlotEmpty):
	case err != nil:
		s.logger.Warn("session slot sync failed", zap.Error(err))
		return s.State()
	default:
		identity, err := DecodeSnapshot(data)
		if err != nil {
			s.logger.Warn("discarding corrupt session snapshot", zap.Error(err))
			if err := s.slot.Clear(ctx); err != nil {
				s.logger.Warn("clear corrupt session slot failed", zap.Error(err))
			}
		} else {
			synced = &identity
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if synced == nil {
		if s.identity != nil {
			s.logger.Info("session ended elsewhere", zap.String("user_id", s.identity.ID))
		}
		s.identity = nil
		s.state = domain.SessionUnauthenticated
	} else {
		s.identity = synced
		s.state = domain.SessionAuthenticated
	}
	return s.state
}

// CurrentIdentity nunca bloquea.
func (s *Store) CurrentIdentity() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return domain.Identity{}, false
	}
	return *s.identity, true
}

func (s *Store) State() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}
