package sheet

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/alvaro-reta/solari-market/internal/model"
	"github.com/alvaro-reta/solari-market/internal/repository"
	"github.com/alvaro-reta/solari-market/internal/tabular"
)

// compile-time check that *UserRepo implements repository.UserRepository
var _ repository.UserRepository = (*UserRepo)(nil)

type UserRepo struct {
	*base
}

// userColumns is the canonical column order of the Users table. Row codecs
// must write fields in exactly this order: the store only supports whole-row
// overwrites, so a misordered row silently corrupts the record.
var userColumns = []string{
	"id", "username", "email", "passwordHash", "avatar",
	"role", "balance", "server", "region", "createdAt",
}

func userRow(u *model.User) []string {
	return []string{
		u.ID,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.AvatarURL,
		u.Role,
		intCell(u.Balance),
		u.Server,
		u.Region,
		timeCell(u.CreatedAt),
	}
}

func userFromRecord(rec tabular.Record) model.User {
	return model.User{
		ID:           rec["id"],
		Username:     rec["username"],
		Email:        rec["email"],
		PasswordHash: rec["passwordHash"],
		AvatarURL:    rec["avatar"],
		Role:         rec["role"],
		Balance:      parseIntCell(rec["balance"]),
		Server:       rec["server"],
		Region:       rec["region"],
		CreatedAt:    parseTimeCell(rec["createdAt"]),
	}
}

// Create assigns a time-ordered ID and appends the user row.
//
// ID GENERATION:
// xid combines a timestamp prefix with machine/process/random components:
// IDs sort by creation time and are collision-resistant without any central
// sequence, which is all the spreadsheet store could ever give us anyway.
func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = xid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	if err := r.store.AppendRow(ctx, usersTable, userRow(user)); err != nil {
		return fmt.Errorf("sheet: creating user: %w", err)
	}
	return nil
}

// GetByID returns the user and the physical row number of their record.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, int, error) {
	rec, row, err := r.findByField(ctx, usersTable, "user", "id", id)
	if err != nil {
		return nil, 0, err
	}
	u := userFromRecord(rec)
	return &u, row, nil
}

// GetByEmail returns the user with the given email, used by login.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, int, error) {
	rec, row, err := r.findByField(ctx, usersTable, "user", "email", email)
	if err != nil {
		return nil, 0, err
	}
	u := userFromRecord(rec)
	return &u, row, nil
}

func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	records, err := r.store.ReadTable(ctx, usersTable)
	if err != nil {
		return nil, fmt.Errorf("sheet: listing users: %w", err)
	}
	users := make([]model.User, 0, len(records))
	for _, rec := range records {
		users = append(users, userFromRecord(rec))
	}
	return users, nil
}

// Update overwrites the user's full row at the given physical row number.
func (r *UserRepo) Update(ctx context.Context, row int, user *model.User) error {
	if err := r.store.UpdateRow(ctx, usersTable, row, userRow(user)); err != nil {
		return fmt.Errorf("sheet: updating user %s: %w", user.ID, err)
	}
	return nil
}
