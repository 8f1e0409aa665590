package mocks

import (
	"github.com/cradoe/memberreg/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockMemberRepo struct {
	mock.Mock
}

func (m *MockMemberRepo) GetAll(filter models.MemberFilter) ([]models.Person, int, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Person), args.Int(1), args.Error(2)
}

func (m *MockMemberRepo) GetOne(id int64) (*models.Person, bool, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Person), args.Bool(1), args.Error(2)
}

func (m *MockMemberRepo) CheckIfNationalIDExist(nationalID string, excludeID int64) (bool, error) {
	args := m.Called(nationalID, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMemberRepo) Insert(person *models.Person) (*models.Person, error) {
	args := m.Called(person)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Person), args.Error(1)
}

func (m *MockMemberRepo) Update(id int64, person *models.Person) (*models.MemberUpdate, bool, error) {
	args := m.Called(id, person)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.MemberUpdate), args.Bool(1), args.Error(2)
}

func (m *MockMemberRepo) Delete(id int64) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}
