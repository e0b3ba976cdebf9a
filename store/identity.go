package store

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	"github.com/rootlinehq/rootline/auth"
)

type identity struct {
	id          string
	email       string
	displayName string
}

func (i identity) ID() string          { return i.id }
func (i identity) Email() string       { return i.email }
func (i identity) DisplayName() string { return i.displayName }

// IdentityFromUser adapts a user record to the auth identity contract.
func IdentityFromUser(user *User) auth.Identity {
	return identity{
		id:          user.ID.String(),
		email:       user.Email,
		displayName: user.DisplayName,
	}
}

// IdentityProvider verifies credentials against the users table.
type IdentityProvider struct {
	users  Users
	logger auth.Logger
}

var _ auth.IdentityProvider = (*IdentityProvider)(nil)

func NewIdentityProvider(users Users) *IdentityProvider {
	return &IdentityProvider{users: users}
}

func (p *IdentityProvider) WithLogger(logger auth.Logger) *IdentityProvider {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// VerifyIdentity checks the password for the account behind identifier.
// Unknown accounts and wrong passwords return the same error so callers
// cannot tell which one happened.
func (p *IdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (auth.Identity, error) {
	user, err := p.users.GetByEmail(ctx, identifier)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, auth.ErrInvalidCredentials
	}

	if err := p.users.TrackSuccessfulLogin(ctx, user); err != nil {
		p.log("failed to track login for %s: %v", user.ID, err)
	}

	return IdentityFromUser(user), nil
}

// FindIdentityByIdentifier loads an identity by user id or email.
func (p *IdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (auth.Identity, error) {
	var user *User
	var err error

	if _, perr := uuid.Parse(identifier); perr == nil {
		user, err = p.users.GetByID(ctx, identifier)
	} else {
		user, err = p.users.GetByEmail(ctx, identifier)
	}

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, auth.ErrIdentityNotFound
		}
		return nil, err
	}

	return IdentityFromUser(user), nil
}

func (p *IdentityProvider) log(format string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(format, args...)
	}
}
