package worker

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cradoe/memberreg/internal/helper"
	"github.com/cradoe/memberreg/internal/mocks"
	"github.com/cradoe/memberreg/internal/models"
	"github.com/cradoe/memberreg/internal/repository"
	"github.com/cradoe/memberreg/internal/stream"
)

func newTestWorker(activityRepo *mocks.MockActivityRepo, mailer *mocks.MockMailer) *Worker {
	return New(&Worker{
		ActivityRepo: activityRepo,
		Mailer:       mailer,
		Helper:       helper.New("http://localhost", &sync.WaitGroup{}, nil),
		Logger:       slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	})
}

func TestSendRegistrationEmail(t *testing.T) {
	mailer := new(mocks.MockMailer)
	wk := newTestWorker(new(mocks.MockActivityRepo), mailer)

	registeredAt := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)

	mailer.On("Send", "ama@example.com", mock.MatchedBy(func(data map[string]any) bool {
		return data["Name"] == "Ama Mensah" &&
			data["MemberID"] == int64(12) &&
			data["ChildrenCount"] == 2 &&
			data["RegisteredAt"] == registeredAt &&
			data["BaseURL"] == "http://localhost"
	}), []string{"member-registration.tmpl"}).Return(nil)

	err := wk.sendRegistrationEmail(&stream.MemberEvent{
		MemberID:      12,
		Name:          "Ama Mensah",
		Email:         "ama@example.com",
		ChildrenCount: 2,
		OccurredAt:    registeredAt,
	})

	require.NoError(t, err)
	mailer.AssertExpectations(t)
}

func TestSendRegistrationEmailSkipsMissingAddress(t *testing.T) {
	mailer := new(mocks.MockMailer)
	wk := newTestWorker(new(mocks.MockActivityRepo), mailer)

	require.NoError(t, wk.sendRegistrationEmail(&stream.MemberEvent{MemberID: 12}))
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogMemberActivity(t *testing.T) {
	tests := []struct {
		name        string
		topic       string
		event       *stream.MemberEvent
		description string
	}{
		{
			name:        "registered",
			topic:       stream.MemberRegisteredTopic,
			event:       &stream.MemberEvent{MemberID: 5},
			description: repository.ActivityLogMemberRegisteredDescription,
		},
		{
			name:  "updated with dependant changes",
			topic: stream.MemberUpdatedTopic,
			event: &stream.MemberEvent{
				MemberID: 5,
				ActorID:  "1",
				Children: models.DependantChanges{Created: 1, Deleted: 2},
				Parents:  models.DependantChanges{Updated: 1},
			},
			description: "Member updated: 1 child added, 2 children removed, 1 parent updated",
		},
		{
			name:        "updated scalars only",
			topic:       stream.MemberUpdatedTopic,
			event:       &stream.MemberEvent{MemberID: 5, ActorID: "1"},
			description: repository.ActivityLogMemberUpdatedDescription,
		},
		{
			name:        "deleted",
			topic:       stream.MemberDeletedTopic,
			event:       &stream.MemberEvent{MemberID: 5, ActorID: "1"},
			description: repository.ActivityLogMemberDeletedDescription,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			activityRepo := new(mocks.MockActivityRepo)
			wk := newTestWorker(activityRepo, new(mocks.MockMailer))

			activityRepo.On("Insert", &models.ActivityLog{
				ActorID:     tt.event.ActorID,
				Entity:      repository.ActivityLogMemberEntity,
				EntityId:    "5",
				Description: tt.description,
			}).Return(&models.ActivityLog{ID: 1}, nil)

			require.NoError(t, wk.logMemberActivity(tt.topic, tt.event))
			activityRepo.AssertExpectations(t)
		})
	}
}

func TestLogMemberActivityUnknownTopic(t *testing.T) {
	wk := newTestWorker(new(mocks.MockActivityRepo), new(mocks.MockMailer))

	err := wk.logMemberActivity("member.archived", &stream.MemberEvent{MemberID: 5})
	assert.ErrorContains(t, err, "member.archived")
}
