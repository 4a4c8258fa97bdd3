// Package jobs holds the queued background work. Each job carries only the
// document ids it needs and re-reads state when it runs, so a stale payload
// can never overwrite fresher data.
package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petpalace/petpalace/app/repositories"
	"github.com/petpalace/petpalace/pkg/mail"
	"github.com/petpalace/petpalace/pkg/queue"
)

// Queue names jobs are registered and dispatched under.
const (
	OrderMailJobName = "order_mail"
)

// RegisterAll wires every job factory into the queue. Call once at boot,
// before StartWorkers.
func RegisterAll() {
	queue.Register(OrderMailJobName, func() queue.Job { return &OrderMailJob{} })
}

// OrderMailJob sends the order confirmation email.
type OrderMailJob struct {
	OrderID string `json:"order_id"`
}

func (j *OrderMailJob) Handle() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(j.OrderID)
	if err != nil {
		return fmt.Errorf("order mail: bad order id %q: %w", j.OrderID, err)
	}

	order, err := repositories.NewOrderRepository().FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("order mail: load order: %w", err)
	}
	user, err := repositories.NewUserRepository().FindByID(ctx, order.UserID)
	if err != nil {
		return fmt.Errorf("order mail: load user: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Thanks for your order, %s!</h2>", user.Name)
	fmt.Fprintf(&b, "<p>Order <strong>%s</strong> is confirmed.</p>", order.Number)
	b.WriteString("<ul>")
	for _, l := range order.Lines {
		fmt.Fprintf(&b, "<li>%d × %s — ₹%.0f</li>", l.Quantity, l.Name, l.LineTotal)
	}
	b.WriteString("</ul>")
	if order.Discount > 0 {
		fmt.Fprintf(&b, "<p>Discount: ₹%.0f</p>", order.Discount)
	}
	fmt.Fprintf(&b, "<p>Total: <strong>₹%.0f</strong></p>", order.Total)

	return mail.To(user.Email).
		Subject("Your PetPalace order " + order.Number).
		HTML(b.String()).
		Send()
}
