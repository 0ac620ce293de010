package session

import (
	"carlton/internal/config"
	"carlton/internal/data"
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
)

// Manager is an interface that abstracts the session management implementation.
// This allows for easier testing and dependency injection.
type Manager interface {
	LoadAndSave(next http.Handler) http.Handler
	Put(ctx context.Context, key string, val interface{})
	GetString(ctx context.Context, key string) string
	PopString(ctx context.Context, key string) string
	Destroy(ctx context.Context) error
	Remove(ctx context.Context, key string)
}

// Flash kinds understood by the toast partial.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

const (
	flashKindKey    = "flash_kind"
	flashMessageKey = "flash_message"
)

// Flash is a one-shot toast shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

// New builds the scs session manager. Sessions live in the site database when
// there is one and in process memory otherwise.
func New(db *sqlx.DB, driver string, cfg config.SessionConfig) *scs.SessionManager {
	sm := scs.New()
	if db != nil {
		switch driver {
		case data.DriverPostgres:
			sm.Store = postgresstore.New(db.DB)
		case data.DriverMySQL:
			sm.Store = mysqlstore.New(db.DB)
		case data.DriverSQLite:
			sm.Store = sqlite3store.New(db.DB)
		}
	}
	sm.Lifetime = time.Duration(cfg.Lifetime) * time.Hour
	sm.Cookie.Name = "carlton_session"
	sm.Cookie.Persist = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = cfg.Secure
	return sm
}

// PutFlash queues a toast for the next page the visitor sees.
func PutFlash(m Manager, ctx context.Context, kind, message string) {
	m.Put(ctx, flashKindKey, kind)
	m.Put(ctx, flashMessageKey, message)
}

// PopFlash returns and clears the pending toast, or nil when there is none.
func PopFlash(m Manager, ctx context.Context) *Flash {
	msg := m.PopString(ctx, flashMessageKey)
	kind := m.PopString(ctx, flashKindKey)
	if msg == "" {
		return nil
	}
	if kind == "" {
		kind = FlashInfo
	}
	return &Flash{Kind: kind, Message: msg}
}
