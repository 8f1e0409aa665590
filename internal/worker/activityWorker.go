// The activity worker turns member events into activity_logs rows, so the
// audit trail is written even when the request that caused it has returned.
package worker

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cradoe/memberreg/internal/models"
	"github.com/cradoe/memberreg/internal/repository"
	"github.com/cradoe/memberreg/internal/stream"
)

func (wk *Worker) ActivityWorker() error {
	return wk.consume("activity", memberActivityGroupID, stream.MemberTopics,
		func(topic string, value []byte) error {
			var event stream.MemberEvent
			if err := json.Unmarshal(value, &event); err != nil {
				return err
			}

			return wk.logMemberActivity(topic, &event)
		})
}

func (wk *Worker) logMemberActivity(topic string, event *stream.MemberEvent) error {
	var description string

	switch topic {
	case stream.MemberRegisteredTopic:
		description = repository.ActivityLogMemberRegisteredDescription
	case stream.MemberUpdatedTopic:
		description = repository.ActivityLogMemberUpdatedDescription
		if changes := describeChanges(event); changes != "" {
			description += ": " + changes
		}
	case stream.MemberDeletedTopic:
		description = repository.ActivityLogMemberDeletedDescription
	default:
		return fmt.Errorf("unexpected topic %q", topic)
	}

	_, err := wk.ActivityRepo.Insert(&models.ActivityLog{
		ActorID:     event.ActorID,
		Entity:      repository.ActivityLogMemberEntity,
		EntityId:    event.EntityID(),
		Description: description,
	})
	return err
}

// describeChanges renders the dependant changes of an update, e.g.
// "1 child added, 2 children removed, 1 parent updated".
func describeChanges(event *stream.MemberEvent) string {
	var parts []string

	add := func(n int, singular, plural, verb string) {
		switch {
		case n == 1:
			parts = append(parts, fmt.Sprintf("1 %s %s", singular, verb))
		case n > 1:
			parts = append(parts, fmt.Sprintf("%d %s %s", n, plural, verb))
		}
	}

	add(event.Children.Created, "child", "children", "added")
	add(event.Children.Updated, "child", "children", "updated")
	add(event.Children.Deleted, "child", "children", "removed")
	add(event.Parents.Created, "parent", "parents", "added")
	add(event.Parents.Updated, "parent", "parents", "updated")
	add(event.Parents.Deleted, "parent", "parents", "removed")

	return strings.Join(parts, ", ")
}
