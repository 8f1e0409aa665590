package worker

import (
	"encoding/json"

	"github.com/cradoe/memberreg/internal/stream"
)

// RegistrationWorker emails every newly registered member a confirmation.
func (wk *Worker) RegistrationWorker() error {
	return wk.consume("registration", memberRegistrationGroupID, []string{stream.MemberRegisteredTopic},
		func(_ string, value []byte) error {
			var event stream.MemberEvent
			if err := json.Unmarshal(value, &event); err != nil {
				return err
			}

			return wk.sendRegistrationEmail(&event)
		})
}

func (wk *Worker) sendRegistrationEmail(event *stream.MemberEvent) error {
	if event.Email == "" {
		return nil
	}

	data := wk.Helper.NewEmailData()
	data["Name"] = event.Name
	data["MemberID"] = event.MemberID
	data["ChildrenCount"] = event.ChildrenCount
	data["ParentsCount"] = event.ParentsCount
	data["RegisteredAt"] = event.OccurredAt

	return wk.Mailer.Send(event.Email, data, "member-registration.tmpl")
}
