package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account record. The password hash never leaves this layer:
// it is excluded from JSON and from the UserSummary projection.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	DisplayName   string     `bun:"display_name,notnull" json:"display_name,omitempty"`
	Phone         string     `bun:"phone_number" json:"phone_number,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	EmailVerified bool       `bun:"is_email_verified" json:"is_email_verified,omitempty"`
	LoggedInAt    *time.Time `bun:"loggedin_at" json:"loggedin_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// UserSummary is the non-sensitive projection handed to HTTP callers.
type UserSummary struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
}

// Summary projects the user record down to its non-sensitive fields.
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
	}
}

const (
	// ResetRequestedStatus is the requested status
	ResetRequestedStatus = "requested"
	// ResetExpiredStatus is the expired status
	ResetExpiredStatus = "expired"
	// ResetChangedStatus is the changed status
	ResetChangedStatus = "changed"
)

// PasswordReset is a single-use reset request record
type PasswordReset struct {
	bun.BaseModel `bun:"table:password_resets,alias:pwdr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        *uuid.UUID `bun:"user_id,notnull" json:"user_id,omitempty"`
	User          *User      `bun:"rel:has-one,join:user_id=id" json:"user,omitempty"`
	Status        string     `bun:"status,notnull" json:"status,omitempty"`
	Email         string     `bun:"email,notnull" json:"email,omitempty"`
	ResetedAt     *time.Time `bun:"reseted_at,nullzero" json:"reseted_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// MarkPasswordAsReseted will create an update record for a consumed reset
func MarkPasswordAsReseted(id uuid.UUID) *PasswordReset {
	r := &PasswordReset{}
	r.ID = id
	r.Status = ResetChangedStatus
	n := time.Now()
	r.ResetedAt = &n
	return r
}

// AuditEntry is an append-only record of a security-relevant action.
// Entries are written once and never updated or deleted by this system.
type AuditEntry struct {
	bun.BaseModel `bun:"table:audit_entries,alias:aud"`
	ID            uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	ActorID       *uuid.UUID     `bun:"actor_id" json:"actor_id,omitempty"`
	Action        string         `bun:"action,notnull" json:"action,omitempty"`
	TargetType    string         `bun:"target_type" json:"target_type,omitempty"`
	TargetID      string         `bun:"target_id" json:"target_id,omitempty"`
	Details       map[string]any `bun:"details" json:"details,omitempty"`
	CreatedAt     *time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// FamilyTree is a named collection of people and their relationships.
// Only trees flagged public are reachable through the public read endpoint.
type FamilyTree struct {
	bun.BaseModel `bun:"table:family_trees,alias:tree"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	OwnerID       uuid.UUID  `bun:"owner_id,notnull,type:uuid" json:"owner_id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Description   string     `bun:"description" json:"description,omitempty"`
	IsPublic      bool       `bun:"is_public" json:"is_public"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Person is a node in a family tree.
type Person struct {
	bun.BaseModel `bun:"table:persons,alias:per"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	TreeID        uuid.UUID  `bun:"tree_id,notnull,type:uuid" json:"tree_id,omitempty"`
	FirstName     string     `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName      string     `bun:"last_name" json:"last_name,omitempty"`
	Gender        string     `bun:"gender" json:"gender,omitempty"`
	BirthDate     *time.Time `bun:"birth_date,nullzero" json:"birth_date,omitempty"`
	DeathDate     *time.Time `bun:"death_date,nullzero" json:"death_date,omitempty"`
	Bio           string     `bun:"bio" json:"bio,omitempty"`
	AvatarURL     string     `bun:"avatar_url" json:"avatar_url,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Relationship kinds. Every edge is directed from -> to; a "parent" edge
// points from parent to child.
const (
	RelationshipParent = "parent"
	RelationshipSpouse = "spouse"
)

// Relationship is an edge between two people in the same tree.
type Relationship struct {
	bun.BaseModel `bun:"table:relationships,alias:rel"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	TreeID        uuid.UUID  `bun:"tree_id,notnull,type:uuid" json:"tree_id,omitempty"`
	FromPersonID  uuid.UUID  `bun:"from_person_id,notnull,type:uuid" json:"from_person_id,omitempty"`
	ToPersonID    uuid.UUID  `bun:"to_person_id,notnull,type:uuid" json:"to_person_id,omitempty"`
	Kind          string     `bun:"kind,notnull" json:"kind,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// PublicTree is the assembled read model served by the public endpoint.
type PublicTree struct {
	Tree          *FamilyTree     `json:"tree"`
	People        []*Person       `json:"people"`
	Relationships []*Relationship `json:"relationships"`
}
