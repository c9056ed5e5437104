package appointment

import "github.com/BruksfildServices01/booking-api/internal/httperr"

// Party identifies which side of an appointment is acting.
type Party string

const (
	PartyClient   Party = "client"
	PartyEmployer Party = "employer"
)

var transitionParties = map[Status][]Party{
	StatusAccepted:   {PartyEmployer},
	StatusRejected:   {PartyEmployer},
	StatusInProgress: {PartyEmployer},
	StatusCancelled:  {PartyClient},
	StatusCompleted:  {PartyClient, PartyEmployer},
}

// CanRequest checks that party is allowed to move an appointment into next.
func CanRequest(party Party, next Status) error {
	for _, p := range transitionParties[next] {
		if p == party {
			return nil
		}
	}
	return httperr.ErrForbidden("transition_not_allowed_for_party")
}
