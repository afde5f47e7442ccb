// Package directory holds the account records served by the mock backend.
package directory

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ncobase/accountdesk/concurrency/schedule"
	"github.com/ncobase/accountdesk/ecode"
	"github.com/ncobase/accountdesk/logging/logger"
	"github.com/ncobase/accountdesk/nanoid"
	"github.com/ncobase/accountdesk/security/crypto"
	"github.com/ncobase/accountdesk/structs"
)

// NewRegistrationWindow is how far back Stats counts new registrations
const NewRegistrationWindow = 7 * 24 * time.Hour

// Account is an identity with its password hash
type Account struct {
	structs.Identity
	PasswordHash string `json:"-"`
}

// Directory is an in-memory account store
type Directory struct {
	mu       sync.RWMutex
	accounts map[string]*Account
	order    []string

	clock schedule.Clock
	cost  int
	log   *logger.Logger
}

// Option configures a Directory
type Option func(*Directory)

// WithClock sets the time source
func WithClock(c schedule.Clock) Option { return func(d *Directory) { d.clock = c } }

// WithCost sets the bcrypt cost
func WithCost(cost int) Option { return func(d *Directory) { d.cost = cost } }

// WithLogger sets the logger
func WithLogger(l *logger.Logger) Option { return func(d *Directory) { d.log = l } }

// New creates an empty directory
func New(opts ...Option) *Directory {
	d := &Directory{
		accounts: make(map[string]*Account),
		clock:    schedule.Real(),
		cost:     crypto.DefaultCost,
		log:      logger.StdLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Seed adds the given accounts, keeping their ids
func (d *Directory) Seed(ctx context.Context, table []DemoAccount) error {
	for _, a := range table {
		hash, err := d.hash(a.Password)
		if err != nil {
			return err
		}
		id := a.Identity
		if id.CreatedAt.IsZero() {
			id.CreatedAt = d.clock.Now()
		}
		id.UpdatedAt = id.CreatedAt
		if err := d.insert(&Account{Identity: id, PasswordHash: hash}); err != nil {
			return err
		}
	}
	d.log.Info(ctx, "Directory seeded", "accounts", len(table))
	return nil
}

func (d *Directory) hash(password string) (string, error) {
	h, err := crypto.HashPassword(password, d.cost)
	if err != nil {
		return "", ecode.Wrap(ecode.ServerErr, err, "failed to hash password")
	}
	return h, nil
}

func (d *Directory) insert(a *Account) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.accounts[a.ID]; exists {
		return ecode.New(ecode.Conflict, ecode.AlreadyExist("account "+a.ID))
	}
	if d.findByEmailLocked(a.Email) != nil {
		return ecode.New(ecode.Conflict, "Email already registered")
	}
	d.accounts[a.ID] = a
	d.order = append(d.order, a.ID)
	return nil
}

func (d *Directory) findByEmailLocked(email string) *Account {
	for _, id := range d.order {
		if a := d.accounts[id]; strings.EqualFold(a.Email, email) {
			return a
		}
	}
	return nil
}

func (d *Directory) getLocked(id string) (*Account, error) {
	a, ok := d.accounts[id]
	if !ok {
		return nil, ecode.New(ecode.NotFound, ecode.NotExist("user"))
	}
	return a, nil
}

func snapshot(a *Account) *structs.Identity {
	id := a.Identity
	return &id
}

// Authenticate checks handle (email or username) and password.
// Inactive accounts fail with ErrAccountDeactivated.
func (d *Directory) Authenticate(ctx context.Context, handle, password string) (*structs.Identity, error) {
	d.mu.RLock()
	var found *Account
	for _, id := range d.order {
		if a := d.accounts[id]; MatchHandle(&a.Identity, handle) {
			found = a
			break
		}
	}
	var hash string
	if found != nil {
		hash = found.PasswordHash
	}
	d.mu.RUnlock()

	if found == nil {
		return nil, ecode.ErrInvalidCredentials
	}
	if !crypto.ComparePassword(hash, password) {
		d.log.Warn(ctx, "Authentication failed", "user_id", found.ID)
		return nil, ecode.ErrInvalidCredentials
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if !found.IsActive {
		return nil, ecode.ErrAccountDeactivated
	}
	return snapshot(found), nil
}

// Register creates an active user account from the registration form
func (d *Directory) Register(ctx context.Context, data structs.RegistrationData) (*structs.Identity, error) {
	active := true
	return d.Create(ctx, structs.CreateUserBody{
		FullName: data.FullName,
		Email:    data.Email,
		Mobile:   data.Mobile,
		Role:     structs.RoleUser,
		Password: data.Password,
		IsActive: &active,
	})
}

// Create adds an account
func (d *Directory) Create(ctx context.Context, body structs.CreateUserBody) (*structs.Identity, error) {
	hash, err := d.hash(body.Password)
	if err != nil {
		return nil, err
	}
	now := d.clock.Now()
	a := &Account{
		Identity: structs.Identity{
			ID:        uuid.New().String(),
			FullName:  strings.TrimSpace(body.FullName),
			Email:     strings.TrimSpace(body.Email),
			Mobile:    body.Mobile,
			Role:      structs.NormalizeRole(string(body.Role)),
			IsActive:  body.IsActive == nil || *body.IsActive,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PasswordHash: hash,
	}
	if err := d.insert(a); err != nil {
		return nil, err
	}
	d.log.Info(ctx, "Account created", "user_id", a.ID, "role", a.Role)
	return snapshot(a), nil
}

// Get returns the account with id
func (d *Directory) Get(_ context.Context, id string) (*structs.Identity, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	a, err := d.getLocked(id)
	if err != nil {
		return nil, err
	}
	return snapshot(a), nil
}

// FindByEmail returns the account registered under email
func (d *Directory) FindByEmail(_ context.Context, email string) (*structs.Identity, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if a := d.findByEmailLocked(strings.TrimSpace(email)); a != nil {
		return snapshot(a), nil
	}
	return nil, ecode.New(ecode.NotFound, ecode.NotExist("user"))
}

// Update applies the non-nil fields of body
func (d *Directory) Update(ctx context.Context, id string, body structs.UpdateUserBody) (*structs.Identity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	a, err := d.getLocked(id)
	if err != nil {
		return nil, err
	}
	if body.Email != nil && !strings.EqualFold(*body.Email, a.Email) {
		if other := d.findByEmailLocked(*body.Email); other != nil {
			return nil, ecode.New(ecode.Conflict, "Email already registered")
		}
		a.Email = strings.TrimSpace(*body.Email)
	}
	setString(&a.FullName, body.FullName)
	setString(&a.Mobile, body.Mobile)
	setString(&a.DateOfBirth, body.DateOfBirth)
	setString(&a.Gender, body.Gender)
	setString(&a.Address, body.Address)
	if body.Role != nil {
		a.Role = structs.NormalizeRole(string(*body.Role))
	}
	if body.IsActive != nil {
		a.IsActive = *body.IsActive
	}
	if body.IsEmailVerified != nil {
		a.IsEmailVerified = *body.IsEmailVerified
	}
	a.UpdatedAt = d.clock.Now()
	d.log.Info(ctx, "Account updated", "user_id", id)
	return snapshot(a), nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Delete removes the account with id
func (d *Directory) Delete(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.getLocked(id); err != nil {
		return err
	}
	delete(d.accounts, id)
	d.order = slices.DeleteFunc(d.order, func(s string) bool { return s == id })
	d.log.Info(ctx, "Account deleted", "user_id", id)
	return nil
}

// DeleteWithPassword removes the account after confirming its password
func (d *Directory) DeleteWithPassword(ctx context.Context, id, password string) error {
	if err := d.verifyPassword(id, password); err != nil {
		return err
	}
	return d.Delete(ctx, id)
}

func (d *Directory) verifyPassword(id, password string) error {
	d.mu.RLock()
	a, err := d.getLocked(id)
	var hash string
	if err == nil {
		hash = a.PasswordHash
	}
	d.mu.RUnlock()
	if err != nil {
		return err
	}
	if !crypto.ComparePassword(hash, password) {
		return ecode.New(ecode.InvalidCredentials, "Current password is incorrect")
	}
	return nil
}

// List returns accounts matching filter in insertion order
func (d *Directory) List(_ context.Context, filter structs.UserFilter) []*structs.Identity {
	d.mu.RLock()
	defer d.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]*structs.Identity, 0, len(d.order))
	for _, id := range d.order {
		a := d.accounts[id]
		if search != "" &&
			!strings.Contains(strings.ToLower(a.FullName), search) &&
			!strings.Contains(strings.ToLower(a.Email), search) &&
			!strings.Contains(strings.ToLower(a.Username), search) {
			continue
		}
		if filter.Role != "" && a.Role != structs.NormalizeRole(string(filter.Role)) {
			continue
		}
		switch filter.Status {
		case structs.StatusActive:
			if !a.IsActive {
				continue
			}
		case structs.StatusInactive:
			if a.IsActive {
				continue
			}
		}
		out = append(out, snapshot(a))
	}
	return out
}

// ToggleStatus flips the active flag
func (d *Directory) ToggleStatus(ctx context.Context, id string) (*structs.Identity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	a, err := d.getLocked(id)
	if err != nil {
		return nil, err
	}
	a.IsActive = !a.IsActive
	a.UpdatedAt = d.clock.Now()
	d.log.Info(ctx, "Account status toggled", "user_id", id, "active", a.IsActive)
	return snapshot(a), nil
}

// ResetPassword replaces the password with a random temporary one
func (d *Directory) ResetPassword(ctx context.Context, id string) (string, error) {
	temp := nanoid.TempPassword()
	if err := d.setPassword(id, temp); err != nil {
		return "", err
	}
	d.log.Info(ctx, "Temporary password issued", "user_id", id)
	return temp, nil
}

// ChangePassword replaces the password after checking the current one
func (d *Directory) ChangePassword(ctx context.Context, id, current, next string) error {
	if err := d.verifyPassword(id, current); err != nil {
		return err
	}
	if current == next {
		return ecode.New(ecode.ParamErr, "New password must differ from the current password")
	}
	if err := d.setPassword(id, next); err != nil {
		return err
	}
	d.log.Info(ctx, "Password changed", "user_id", id)
	return nil
}

func (d *Directory) setPassword(id, password string) error {
	hash, err := d.hash(password)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	a, err := d.getLocked(id)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	a.UpdatedAt = d.clock.Now()
	return nil
}

// Stats summarizes the directory as of now
func (d *Directory) Stats(now time.Time) structs.UserStats {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var s structs.UserStats
	cutoff := now.Add(-NewRegistrationWindow)
	for _, a := range d.accounts {
		s.TotalUsers++
		if a.IsActive {
			s.ActiveUsers++
		} else {
			s.InactiveUsers++
		}
		if a.CreatedAt.After(cutoff) {
			s.NewRegistrations++
		}
		if a.Role == structs.RoleAdmin {
			s.AdminAccounts++
		}
	}
	return s
}

// IsNotFound reports whether err is a missing-account error
func IsNotFound(err error) bool {
	return errors.Is(err, ecode.ErrNotFound)
}
