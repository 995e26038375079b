package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"clearscrub-admin/internal/domain"
	"clearscrub-admin/internal/session"
)

const (
	sessionCookieName = "clearscrub_session"
	identityKey       = "session_identity"

	loginPath = "/login"
	homePath  = "/companies"
)

// GuardObserver recibe cada decision del Route Guard.
type GuardObserver interface {
	ObserveGuard(decision string)
}

// Sessions resuelve el handle de la cookie al Store de ese navegador.
type Sessions struct {
	registry     *session.Registry
	signer       *session.HandleSigner
	secureCookie bool
	awaitTimeout time.Duration
}

func NewSessions(registry *session.Registry, signer *session.HandleSigner, secureCookie bool, awaitTimeout time.Duration) *Sessions {
	if awaitTimeout <= 0 {
		awaitTimeout = 3 * time.Second
	}
	return &Sessions{
		registry:     registry,
		signer:       signer,
		secureCookie: secureCookie,
		awaitTimeout: awaitTimeout,
	}
}

// handle devuelve el sid de la cookie si la firma es valida.
func (s *Sessions) handle(c *gin.Context) (string, bool) {
	token, err := c.Cookie(sessionCookieName)
	if err != nil || strings.TrimSpace(token) == "" {
		return "", false
	}
	sid, err := s.signer.Parse(token)
	if err != nil {
		return "", false
	}
	return sid, true
}

// lookup devuelve el Store del handle actual, si existe.
func (s *Sessions) lookup(c *gin.Context) (string, *session.Store, bool) {
	sid, ok := s.handle(c)
	if !ok {
		return "", nil, false
	}
	return sid, s.registry.Get(sid), true
}

// signIn autentica sobre un handle recien emitido. La cookie y el registro
// solo cambian si el login tiene exito; el handle previo, si lo hay, se cierra.
func (s *Sessions) signIn(ctx context.Context, c *gin.Context, email, password string) (domain.Identity, error) {
	sid, store := s.registry.Begin(ctx)
	identity, err := store.SignIn(ctx, email, password)
	if err != nil {
		return domain.Identity{}, err
	}
	token, err := s.signer.Issue(sid)
	if err != nil {
		store.SignOut(ctx)
		return domain.Identity{}, fmt.Errorf("issue session handle: %w", err)
	}

	if prev, ok := s.handle(c); ok {
		s.registry.End(ctx, prev)
	}
	s.registry.Attach(sid, store)
	s.setCookie(c, token, 0)
	return identity, nil
}

// end cierra la sesion del handle actual y borra la cookie.
func (s *Sessions) end(c *gin.Context) {
	if sid, ok := s.handle(c); ok {
		s.registry.End(c.Request.Context(), sid)
	}
	s.setCookie(c, "", -1)
}

func (s *Sessions) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, value, maxAge, "/", "", s.secureCookie, true)
}

// resolve espera la restauracion acotada por el request y reconcilia el Store
// con el slot durable. Un handle que no quedo autenticado sale del registro.
func (s *Sessions) resolve(c *gin.Context, sid string, store *session.Store) (domain.SessionState, error) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.awaitTimeout)
	defer cancel()
	if _, err := store.Await(ctx); err != nil {
		return domain.SessionLoading, err
	}
	state := store.Sync(ctx)
	if state != domain.SessionAuthenticated {
		s.registry.Drop(sid)
	}
	return state, nil
}

// RouteGuard deja pasar solo sesiones autenticadas. Mientras la sesion esta
// restaurandose no se renderiza ni la vista protegida ni el login.
func RouteGuard(sessions *Sessions, observer GuardObserver) gin.HandlerFunc {
	observe := func(decision string) {
		if observer != nil {
			observer.ObserveGuard(decision)
		}
	}
	return func(c *gin.Context) {
		sid, store, ok := sessions.lookup(c)
		if !ok {
			observe("redirect")
			denyUnauthenticated(c)
			return
		}

		state, err := sessions.resolve(c, sid, store)
		if err != nil {
			observe("loading")
			respondLoading(c)
			return
		}
		if state != domain.SessionAuthenticated {
			observe("redirect")
			denyUnauthenticated(c)
			return
		}
		identity, ok := store.CurrentIdentity()
		if !ok {
			observe("redirect")
			denyUnauthenticated(c)
			return
		}

		observe("allow")
		c.Set(identityKey, identity)
		c.Next()
	}
}

// CurrentIdentity obtiene la identidad que el guard dejo en el contexto.
func CurrentIdentity(c *gin.Context) (domain.Identity, bool) {
	val, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	identity, ok := val.(domain.Identity)
	return identity, ok
}

func wantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}

func denyUnauthenticated(c *gin.Context) {
	if wantsHTML(c) {
		c.Redirect(http.StatusSeeOther, loginPath)
		c.Abort()
		return
	}
	c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated", "login": loginPath})
	c.Abort()
}

func respondLoading(c *gin.Context) {
	c.Header("Retry-After", "1")
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session loading", "retryable": true})
	c.Abort()
}
