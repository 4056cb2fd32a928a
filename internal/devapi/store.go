package devapi

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/useradmin/internal/client/models"
	"github.com/dmitrijs2005/useradmin/internal/common"
	"github.com/dmitrijs2005/useradmin/internal/devapi/auth"
)

type account struct {
	user         models.User
	passwordHash []byte
}

// Store is the in-memory user table of the development backend.
type Store struct {
	mu       sync.RWMutex
	accounts []*account
	nextID   int64
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{nextID: 1, now: time.Now}
}

// AddAccount creates a user that can log in with password.
func (s *Store) AddAccount(d models.Draft, password string) (models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	return s.create(d, hash)
}

func (s *Store) Create(d models.Draft) (models.User, error) {
	return s.create(d, nil)
}

func (s *Store) create(d models.Draft, hash []byte) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findEmail(d.Email) != nil {
		return models.User{}, fmt.Errorf("user %s: %w", d.Email, common.ErrorAlreadyExists)
	}

	u := models.User{
		ID:         s.nextID,
		Email:      d.Email,
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Role:       d.Role,
		Department: d.Department,
		CreatedAt:  models.NewTimestamp(s.now()),
		ProfileURL: models.DefaultProfileURL,
	}
	s.nextID++
	s.accounts = append(s.accounts, &account{user: u, passwordHash: hash})
	return u, nil
}

// Authenticate checks the credentials of an account.
func (s *Store) Authenticate(email, password string) (models.User, error) {
	s.mu.RLock()
	a := s.findEmail(email)
	s.mu.RUnlock()

	if a == nil || a.passwordHash == nil || !auth.CheckPassword(a.passwordHash, password) {
		return models.User{}, common.ErrorUnauthorized
	}
	return a.user, nil
}

func (s *Store) List() []models.User {
	return s.filter(func(models.User) bool { return true })
}

func (s *Store) Search(keyword string) []models.User {
	k := strings.ToLower(keyword)
	return s.filter(func(u models.User) bool {
		return strings.Contains(strings.ToLower(u.Email), k) ||
			strings.Contains(strings.ToLower(u.FirstName), k) ||
			strings.Contains(strings.ToLower(u.LastName), k)
	})
}

func (s *Store) ByDepartment(d models.Department) []models.User {
	return s.filter(func(u models.User) bool { return u.Department == d })
}

func (s *Store) Get(id int64) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.user.ID == id {
			return a.user, nil
		}
	}
	return models.User{}, fmt.Errorf("user %d: %w", id, common.ErrorNotFound)
}

// Update applies p to the user with email.
func (s *Store) Update(email string, p models.Patch) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.findEmail(email)
	if a == nil {
		return models.User{}, fmt.Errorf("user %s: %w", email, common.ErrorNotFound)
	}
	a.user.Apply(p, s.now())
	return a.user, nil
}

func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, a := range s.accounts {
		if a.user.ID == id {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("user %d: %w", id, common.ErrorNotFound)
}

func (s *Store) filter(keep func(models.User) bool) []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0, len(s.accounts))
	for _, a := range s.accounts {
		if keep(a.user) {
			out = append(out, a.user)
		}
	}
	return out
}

func (s *Store) findEmail(email string) *account {
	for _, a := range s.accounts {
		if strings.EqualFold(a.user.Email, email) {
			return a
		}
	}
	return nil
}

// Seed fills the store with the admin account from cfg, one employee account
// and a handful of directory entries.
func Seed(s *Store, cfg *Config) error {
	_, err := s.AddAccount(models.Draft{
		Email: cfg.AdminEmail, FirstName: "Ada", LastName: "Admin",
		Role: models.RoleAdmin, Department: models.DepartmentIT,
	}, cfg.AdminPassword)
	if err != nil {
		return err
	}

	_, err = s.AddAccount(models.Draft{
		Email: "employee@example.com", FirstName: "Eli", LastName: "Employee",
		Role: models.RoleEmployee, Department: models.DepartmentOperations,
	}, "employee")
	if err != nil {
		return err
	}

	people := []models.Draft{
		{Email: "hanna.ross@example.com", FirstName: "Hanna", LastName: "Ross", Role: models.RoleEmployee, Department: models.DepartmentHR},
		{Email: "felix.moor@example.com", FirstName: "Felix", LastName: "Moor", Role: models.RoleEmployee, Department: models.DepartmentFinance},
		{Email: "iris.tan@example.com", FirstName: "Iris", LastName: "Tan", Role: models.RoleAdmin, Department: models.DepartmentIT},
		{Email: "omar.diaz@example.com", FirstName: "Omar", LastName: "Diaz", Role: models.RoleEmployee, Department: models.DepartmentOperations},
		{Email: "nina.berg@example.com", FirstName: "Nina", LastName: "Berg", Role: models.RoleEmployee, Department: models.DepartmentFinance},
		{Email: "paul.kim@example.com", FirstName: "Paul", LastName: "Kim", Role: models.RoleEmployee, Department: models.DepartmentIT},
	}
	for _, d := range people {
		if _, err := s.Create(d); err != nil {
			return err
		}
	}
	return nil
}
