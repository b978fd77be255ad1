//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"eyesup/errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"
)

const userPrefix = "user:"

const (
	userFieldID           protowire.Number = 1
	userFieldEmail        protowire.Number = 2
	userFieldPasswordHash protowire.Number = 3
	userFieldRoles        protowire.Number = 4
	userFieldCreatedAt    protowire.Number = 5
)

type IUserRepository interface {
	CreateUser(email, hashedPassword string) (string, error)
	GetUserByEmail(email string) (User, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

// User is the account allowed to drive the relay.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
}

// CreateUser persists an already hashed password and returns the new user ID.
func (u UserRepository) CreateUser(email, hashedPassword string) (string, error) {
	now := time.Now().UTC()
	user := User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hashedPassword,
		Roles:        []string{"driver"},
		CreatedAt:    now,
	}
	err := u.db.Update(func(txn *badger.Txn) error {
		key := []byte(userPrefix + email)
		if _, err := txn.Get(key); err == nil {
			return errors.ErrUserAlreadyExists
		}
		return txn.Set(key, encodeUser(user))
	})
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// GetUserByEmail returns errors.ErrNotFound for unknown accounts.
func (u UserRepository) GetUserByEmail(email string) (User, error) {
	var user User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userPrefix + email))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			user, err = decodeUser(val)
			return err
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return User{}, errors.ErrNotFound
	}
	if err != nil {
		return User{}, errors.Storage("get user", err)
	}
	return user, nil
}

func encodeUser(user User) []byte {
	var w recordWriter
	w.string(userFieldID, user.ID)
	w.string(userFieldEmail, user.Email)
	w.string(userFieldPasswordHash, user.PasswordHash)
	w.strings(userFieldRoles, user.Roles)
	w.time(userFieldCreatedAt, &user.CreatedAt)
	return w.bytes()
}

func decodeUser(b []byte) (User, error) {
	var user User
	err := readRecord(b, func(f field) {
		switch f.num {
		case userFieldID:
			user.ID = f.str()
		case userFieldEmail:
			user.Email = f.str()
		case userFieldPasswordHash:
			user.PasswordHash = f.str()
		case userFieldRoles:
			user.Roles = append(user.Roles, f.str())
		case userFieldCreatedAt:
			user.CreatedAt = f.timestamp()
		}
	})
	return user, err
}
