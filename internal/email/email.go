package email

import (
	"context"
	"fmt"

	"github.com/alfredjmgdev/darien-technology-test/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.ReservationEvent) error {
	fmt.Printf("send email to %s about %s for space %d on %s\n",
		event.UserEmail, event.Type, event.SpaceID, event.ReservationDate.Format("2006-01-02"))
	return nil
}
