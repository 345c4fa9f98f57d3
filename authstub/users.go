package authstub

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	errUserExists   = errors.New("User already registered")
	errUserNotFound = errors.New("user not found")
)

// User is an account held by the stub service
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

type userRepo struct {
	users    map[string]*User
	emailIds map[string]string // email to user id
	lock     sync.RWMutex
}

func newUserRepo() *userRepo {
	return &userRepo{
		users:    make(map[string]*User),
		emailIds: make(map[string]string),
	}
}

func (ur *userRepo) Create(name, email, password string) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	email = strings.ToLower(email)

	ur.lock.Lock()
	defer ur.lock.Unlock()

	if _, ok := ur.emailIds[email]; ok {
		return nil, errUserExists
	}
	user := &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    NowTimeFunc(),
	}
	ur.users[user.ID] = user
	ur.emailIds[email] = user.ID
	return user, nil
}

func (ur *userRepo) GetByEmail(email string) (*User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	userID, ok := ur.emailIds[strings.ToLower(email)]
	if !ok {
		return nil, errUserNotFound
	}
	return ur.users[userID], nil
}
