package stream

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cradoe/memberreg/internal/models"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) ProduceMessage(topic, message string) error {
	args := m.Called(topic, message)
	return args.Error(0)
}

func TestPublish(t *testing.T) {
	person := &models.Person{
		ID:         12,
		FirstName:  "Ama",
		MiddleName: "Serwaa",
		LastName:   "Mensah",
		Email:      "ama@example.com",
		Children:   []models.Child{{ID: 1}, {ID: 2}},
	}

	event := NewMemberEvent(person, "")
	event.OccurredAt = time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)

	publisher := new(mockPublisher)
	publisher.On("ProduceMessage", MemberRegisteredTopic, mock.AnythingOfType("string")).Return(nil)

	require.NoError(t, Publish(publisher, MemberRegisteredTopic, event))
	publisher.AssertExpectations(t)

	message := publisher.Calls[0].Arguments.String(1)

	var decoded MemberEvent
	require.NoError(t, json.Unmarshal([]byte(message), &decoded))

	assert.Equal(t, int64(12), decoded.MemberID)
	assert.Equal(t, "Ama Serwaa Mensah", decoded.Name)
	assert.Equal(t, 2, decoded.ChildrenCount)
	assert.Zero(t, decoded.ParentsCount)
	assert.Equal(t, "12", decoded.EntityID())
	assert.NotContains(t, message, "actor_id")
}
