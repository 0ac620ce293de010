package auth

import (
	_ "embed"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/util"
	"github.com/jmoiron/sqlx"
	sqlxadapter "github.com/memwey/casbin-sqlx-adapter"
)

const policyTable = "casbin_rule"

//go:embed auth_model.conf
var modelText string

// NewEnforcer creates and configures a new Casbin enforcer.
// With a database, policies are stored in its casbin_rule table and share
// the site's connection pool; without one they live in memory and are
// re-seeded on start.
func NewEnforcer(db *sqlx.DB) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse authorization model: %w", err)
	}

	var enforcer *casbin.Enforcer
	if db == nil {
		enforcer, err = casbin.NewEnforcer(m)
	} else {
		// The adapter panics on a missing table.
		if _, err := db.Exec("SELECT 1 FROM " + policyTable + " LIMIT 1"); err != nil {
			return nil, fmt.Errorf("policy table unavailable: %w", err)
		}
		adapter := sqlxadapter.NewAdapterFromOptions(&sqlxadapter.AdapterOptions{
			DB:        db,
			TableName: policyTable,
		})
		enforcer, err = casbin.NewEnforcer(m, adapter)
	}
	if err != nil {
		return nil, err
	}

	// keyMatch2 lets "/api/pages/*" match "/api/pages/12/sections".
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)

	if db != nil {
		if err := enforcer.LoadPolicy(); err != nil {
			return nil, err
		}
	}
	return enforcer, nil
}
