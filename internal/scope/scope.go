// Package scope holds the ownership rule every list, report and write path
// goes through: a standard actor only ever touches its own rows, a superadmin
// touches all rows and sees who owns them.
package scope

import (
	"context"
	"log"

	"gudang-backend/internal/models"

	"gorm.io/gorm"
)

// UnknownOwner is shown when an owner id cannot be resolved to an email.
const UnknownOwner = "unknown"

// Actor is the authenticated caller, passed explicitly into every store call.
type Actor struct {
	ID    string          `json:"id"`
	Email string          `json:"email"`
	Name  string          `json:"name"`
	Role  models.UserRole `json:"role"`
}

// Elevated reports whether the actor bypasses the ownership predicate.
func (a Actor) Elevated() bool {
	return a.Role == models.RoleSuperAdmin
}

// Owns reports whether a row owned by ownerID is visible to the actor.
func (a Actor) Owns(ownerID string) bool {
	return a.Elevated() || ownerID == a.ID
}

// Apply adds "column = actor.ID" for standard actors and leaves db untouched
// for elevated ones.
func Apply(db *gorm.DB, a Actor, column string) *gorm.DB {
	if a.Elevated() {
		return db
	}
	return db.Where(column+" = ?", a.ID)
}

// Owners maps owner ids to emails.
type Owners map[string]string

// Email returns the owner's email or UnknownOwner.
func (o Owners) Email(ownerID string) string {
	if e, ok := o[ownerID]; ok && e != "" {
		return e
	}
	return UnknownOwner
}

// ResolveOwners runs one batched lookup for the distinct owner ids. It never
// fails: a lookup error leaves every id unresolved.
func ResolveOwners(ctx context.Context, db *gorm.DB, ownerIDs []string) Owners {
	seen := make(map[string]struct{}, len(ownerIDs))
	ids := make([]string, 0, len(ownerIDs))
	for _, id := range ownerIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	owners := make(Owners, len(ids))
	if len(ids) == 0 {
		return owners
	}

	var profiles []models.Profile
	if err := db.WithContext(ctx).Select("id", "email").Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		log.Printf("owner lookup gagal (%d id): %v", len(ids), err)
		return owners
	}
	for _, p := range profiles {
		owners[p.ID] = p.Email
	}
	return owners
}

// OwnerEmails resolves owners only for elevated actors. Standard actors get
// nil, and callers leave owner_email out of the response.
func OwnerEmails(ctx context.Context, db *gorm.DB, a Actor, ownerIDs []string) Owners {
	if !a.Elevated() {
		return nil
	}
	return ResolveOwners(ctx, db, ownerIDs)
}
