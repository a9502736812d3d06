package devauth

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vitistack/authproxy/pkg/auth/jwt"
	"github.com/vitistack/authproxy/pkg/persistence"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	Name         string   `json:"name"`
	Role         jwt.Role `json:"role"`
	PasswordHash []byte   `json:"-"`
}

// UserRepo stores dev backend accounts keyed by name.
type UserRepo struct {
	store persistence.Store[User]
	cost  int
	decoy []byte // compared against when the user is unknown
}

func NewUserRepo(store persistence.Store[User], cost int) (*UserRepo, error) {
	decoy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), cost)
	if err != nil {
		return nil, fmt.Errorf("unable to prepare user repository: %w", err)
	}
	return &UserRepo{
		store: store,
		cost:  cost,
		decoy: decoy,
	}, nil
}

// Register hashes password and creates the account.
func (r *UserRepo) Register(name, password string, role jwt.Role) (User, error) {
	if name == "" || password == "" {
		return User{}, ErrInvalidUser
	}
	if role == "" {
		role = jwt.USER
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return User{}, fmt.Errorf("%w: password longer than 72 bytes", ErrInvalidUser)
	}
	if err != nil {
		return User{}, fmt.Errorf("unable to hash password: %w", err)
	}

	user := User{Name: name, Role: role, PasswordHash: hash}
	if err := r.Create(&user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Authenticate returns the account for name when password matches it.
func (r *UserRepo) Authenticate(name, password string) (User, error) {
	user, err := r.Read(name)
	if err != nil {
		bcrypt.CompareHashAndPassword(r.decoy, []byte(password))
		return User{}, ErrBadCredentials
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return User{}, ErrBadCredentials
	}
	return user, nil
}

func (r *UserRepo) Create(new *User) error {
	if _, err := r.store.Load(new.Name); err == nil {
		return fmt.Errorf("%w: %s", ErrUserExists, new.Name)
	}
	return r.store.Save(new.Name, *new)
}

func (r *UserRepo) Update(id string, new *User) error {
	if _, err := r.store.Load(id); err != nil {
		return fmt.Errorf("failed to read from storage: %w", err)
	}
	return r.store.Save(id, *new)
}

func (r *UserRepo) Delete(id string) error {
	return r.store.Delete(id)
}

func (r *UserRepo) Read(id string) (User, error) {
	user, err := r.store.Load(id)
	if err != nil {
		return User{}, fmt.Errorf("failed to read from storage: %w", err)
	}
	return user, nil
}

func (r *UserRepo) ReadAll() ([]User, error) {
	return r.store.LoadAll()
}

var _ persistence.Repository[User] = (*UserRepo)(nil)

func isNotFound(err error) bool {
	return errors.Is(err, persistence.ErrNotFound)
}
