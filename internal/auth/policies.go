package auth

import (
	"carlton/internal/data"
	"carlton/internal/logger"
	"fmt"

	"github.com/casbin/casbin/v2"
)

// DefaultPolicies is the baseline access table of the admin API.
// Editors manage content; admins additionally manage rooms, bookings and messages.
var DefaultPolicies = [][]string{
	{data.RoleEditor, "/api/auth/me", "GET"},
	{data.RoleEditor, "/api/pages", "GET"},
	{data.RoleEditor, "/api/pages", "POST"},
	{data.RoleEditor, "/api/pages/*", "*"},
	{data.RoleEditor, "/api/sections/*", "*"},
	{data.RoleEditor, "/api/gallery", "GET"},
	{data.RoleEditor, "/api/gallery", "POST"},
	{data.RoleEditor, "/api/gallery/*", "*"},
	{data.RoleEditor, "/api/rooms", "GET"},
	{data.RoleEditor, "/api/rooms/*", "GET"},

	{data.RoleAdmin, "/api/rooms", "POST"},
	{data.RoleAdmin, "/api/rooms/*", "*"},
	{data.RoleAdmin, "/api/bookings", "GET"},
	{data.RoleAdmin, "/api/bookings/*", "*"},
	{data.RoleAdmin, "/api/messages", "GET"},
	{data.RoleAdmin, "/api/messages/*", "*"},
}

// SeedDefaultPolicies ensures that the application has a baseline set of authorization rules.
// It checks if each default policy exists before adding it, making the operation idempotent
// and safe to run on every application start.
func SeedDefaultPolicies(e casbin.IEnforcer, log logger.Logger) {
	log.Info("Seeding default authorization policies...")

	for _, p := range DefaultPolicies {
		if has, _ := e.HasPolicy(p); !has {
			if _, err := e.AddPolicy(p); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add policy %v", p))
			}
		}
	}

	// Admins can do everything editors can.
	if has, _ := e.HasRoleForUser(data.RoleAdmin, data.RoleEditor); !has {
		if _, err := e.AddRoleForUser(data.RoleAdmin, data.RoleEditor); err != nil {
			log.Error(err, "Failed to add role 'admin' -> 'editor'")
		}
	}
	log.Info("Policy seeding complete.")
}
