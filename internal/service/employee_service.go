package service

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/locvowork/shift_scheduler/internal/domain"
	"github.com/locvowork/shift_scheduler/internal/logger"
)

// EmployeeService handles business logic for the staff list
type EmployeeService struct {
	store domain.Store

	mu       sync.Mutex
	onDelete []func(ctx context.Context, id int64)
}

// NewEmployeeService creates a new EmployeeService instance
func NewEmployeeService(store domain.Store) *EmployeeService {
	return &EmployeeService{store: store}
}

// OnDelete registers fn to run after an employee has been deleted.
func (s *EmployeeService) OnDelete(fn func(ctx context.Context, id int64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDelete = append(s.onDelete, fn)
}

// Add stores a new employee. ageText comes straight from the entry form: blank
// means no age; anything that is not a non-negative whole number is dropped
// with a warning rather than refused.
func (s *EmployeeService) Add(ctx context.Context, name, ageText string) (*domain.Employee, error) {
	e := &domain.Employee{Name: name, Age: ParseAge(ctx, ageText)}
	if err := s.store.Employees().Create(ctx, e); err != nil {
		return nil, err
	}
	logger.InfoLog(ctx, "Added employee %d (%s)", e.ID, e.Name)
	return e, nil
}

func (s *EmployeeService) List(ctx context.Context) ([]domain.Employee, error) {
	return s.store.Employees().List(ctx)
}

func (s *EmployeeService) Get(ctx context.Context, id int64) (*domain.Employee, error) {
	return s.store.Employees().GetByID(ctx, id)
}

// Delete removes the employee; their schedule entries go with them.
func (s *EmployeeService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Employees().Delete(ctx, id); err != nil {
		return err
	}
	logger.InfoLog(ctx, "Deleted employee %d", id)

	s.mu.Lock()
	hooks := append([]func(context.Context, int64){}, s.onDelete...)
	s.mu.Unlock()
	for _, fn := range hooks {
		fn(ctx, id)
	}
	return nil
}

// Lookup resolves a display name to an id.
func (s *EmployeeService) Lookup(ctx context.Context, name string) (int64, error) {
	return s.store.Employees().FindIDByName(ctx, strings.TrimSpace(name))
}

// ParseAge converts the free-text age field. Blank, non-numeric and negative
// input all yield nil.
func ParseAge(ctx context.Context, text string) *int {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	age, err := strconv.Atoi(text)
	if err != nil || age < 0 {
		logger.WarnLog(ctx, "Ignoring invalid age %q", text)
		return nil
	}
	return &age
}
