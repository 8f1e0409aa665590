package mocks

import (
	"github.com/cradoe/memberreg/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) ProduceMessage(topic, message string) error {
	args := m.Called(topic, message)
	return args.Error(0)
}

type MockMemberCache struct {
	mock.Mock
}

func (m *MockMemberCache) GetMember(id int64) (*models.Person, bool, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Person), args.Bool(1), args.Error(2)
}

func (m *MockMemberCache) SetMember(person *models.Person) error {
	args := m.Called(person)
	return args.Error(0)
}

func (m *MockMemberCache) DeleteMember(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) UploadFile(fileName string) (string, error) {
	args := m.Called(fileName)
	return args.String(0), args.Error(1)
}
