package stream

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/cradoe/memberreg/internal/models"
)

const (
	// MemberRegisteredTopic carries a MemberEvent after a member registers,
	// consumed to send the confirmation email and to write the audit trail.
	MemberRegisteredTopic = "member.registered"

	// MemberUpdatedTopic carries a MemberEvent after staff edit a member, with the dependant changes.
	MemberUpdatedTopic = "member.updated"

	// MemberDeletedTopic carries a MemberEvent after staff delete a member.
	MemberDeletedTopic = "member.deleted"
)

var MemberTopics = []string{MemberRegisteredTopic, MemberUpdatedTopic, MemberDeletedTopic}

type MemberEvent struct {
	MemberID      int64                   `json:"member_id"`
	ActorID       string                  `json:"actor_id,omitempty"`
	Name          string                  `json:"name"`
	Email         string                  `json:"email"`
	ChildrenCount int                     `json:"children_count"`
	ParentsCount  int                     `json:"parents_count"`
	Children      models.DependantChanges `json:"children"`
	Parents       models.DependantChanges `json:"parents"`
	OccurredAt    time.Time               `json:"occurred_at"`
}

// NewMemberEvent describes person at the time of the change. actorID is the
// admin behind the change, empty for self-registration.
func NewMemberEvent(person *models.Person, actorID string) *MemberEvent {
	return &MemberEvent{
		MemberID:      person.ID,
		ActorID:       actorID,
		Name:          person.FullName(),
		Email:         person.Email,
		ChildrenCount: len(person.Children),
		ParentsCount:  len(person.Parents),
		OccurredAt:    time.Now().UTC(),
	}
}

func (e *MemberEvent) EntityID() string {
	return strconv.FormatInt(e.MemberID, 10)
}

// Publish sends event as JSON on topic.
func Publish(p Publisher, topic string, event *MemberEvent) error {
	message, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.ProduceMessage(topic, string(message))
}
