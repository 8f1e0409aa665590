package mocks

import (
	"github.com/cradoe/memberreg/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockAdminRepo struct {
	mock.Mock
}

func (m *MockAdminRepo) Insert(admin *models.Admin) (int64, error) {
	args := m.Called(admin)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAdminRepo) GetOne(id int64) (*models.Admin, bool, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Admin), args.Bool(1), args.Error(2)
}

func (m *MockAdminRepo) GetByEmail(email string) (*models.Admin, bool, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Admin), args.Bool(1), args.Error(2)
}

func (m *MockAdminRepo) Lock(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}
