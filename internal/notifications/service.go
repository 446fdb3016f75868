package notifications

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/distributeaid/shipment-tracker/pkg/enums"
	"github.com/distributeaid/shipment-tracker/pkg/logger"
	"github.com/distributeaid/shipment-tracker/pkg/mailer"
	"github.com/distributeaid/shipment-tracker/pkg/outbox/payloads"
)

type recipients interface {
	CaptainOf(ctx context.Context, groupID uuid.UUID) (*Recipient, error)
	SendingGroupCaptains(ctx context.Context) ([]Recipient, error)
}

// Notifier turns domain events into captain email.
type Notifier struct {
	repo       recipients
	mail       mailer.Sender
	deliveries deduper
	baseURL    string
	logg       *logger.Logger
}

// NewNotifier wires the notifier. baseURL prefixes links in message bodies.
// deliveries records each (event, recipient) pair that was emailed so a
// redelivered event only reaches the recipients that were missed; nil
// disables that bookkeeping.
func NewNotifier(repo recipients, mail mailer.Sender, deliveries deduper, baseURL string, logg *logger.Logger) (*Notifier, error) {
	if repo == nil {
		return nil, fmt.Errorf("recipient repository required")
	}
	if mail == nil {
		return nil, fmt.Errorf("mailer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Notifier{
		repo:       repo,
		mail:       mail,
		deliveries: deliveries,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logg:       logg,
	}, nil
}

// deliveryID derives a stable id for one recipient of one event.
func deliveryID(eventID uuid.UUID, email string) uuid.UUID {
	return uuid.NewSHA1(eventID, []byte(strings.ToLower(email)))
}

// deliver sends msg unless it already went out for eventID. A failed send
// releases the claim so the next delivery of the event retries it.
func (n *Notifier) deliver(ctx context.Context, eventID uuid.UUID, msg mailer.Message) error {
	if n.deliveries == nil || eventID == uuid.Nil {
		return n.mail.Send(ctx, msg)
	}
	id := deliveryID(eventID, msg.To)
	claimed, err := n.deliveries.Claim(ctx, id)
	if err != nil {
		return fmt.Errorf("claim delivery: %w", err)
	}
	if !claimed {
		n.logg.Info(n.logg.WithField(ctx, "recipient", msg.To), "email already delivered for event")
		return nil
	}
	if err := n.mail.Send(ctx, msg); err != nil {
		if releaseErr := n.deliveries.Release(ctx, id); releaseErr != nil {
			err = multierr.Append(err, fmt.Errorf("release delivery: %w", releaseErr))
		}
		return err
	}
	return nil
}

// OfferStatusChanged emails the captain of the offer's sending group.
func (n *Notifier) OfferStatusChanged(ctx context.Context, eventID uuid.UUID, event *payloads.OfferStatusChangedEvent) error {
	captain, err := n.repo.CaptainOf(ctx, event.SendingGroupID)
	if err != nil {
		return fmt.Errorf("load captain: %w", err)
	}
	if captain == nil {
		n.logg.Warn(ctx, "sending group has no captain, skipping offer email")
		return nil
	}
	msg := mailer.Message{
		To:      captain.Email,
		Subject: fmt.Sprintf("Your offer is now %s", event.Status),
		Body: fmt.Sprintf(
			"Hello %s,\n\nThe offer from %s moved from %s to %s.\n\nView it at %s/shipment/%s/offer/%s\n",
			captain.Name, captain.GroupName, event.PreviousStatus, event.Status,
			n.baseURL, event.ShipmentID, event.OfferID,
		),
	}
	return n.deliver(ctx, eventID, msg)
}

// ShipmentStatusChanged announces newly opened shipments to every sending
// group captain. Other transitions are ignored. Failed sends are returned
// together; captains already emailed for eventID are skipped on retry.
func (n *Notifier) ShipmentStatusChanged(ctx context.Context, eventID uuid.UUID, event *payloads.ShipmentStatusChangedEvent) error {
	if event.Status != enums.ShipmentStatusOpen {
		return nil
	}
	captains, err := n.repo.SendingGroupCaptains(ctx)
	if err != nil {
		return fmt.Errorf("load captains: %w", err)
	}

	label := fmt.Sprintf("%s-%04d-%02d", event.ShippingRoute, event.LabelYear, event.LabelMonth)
	var errs error
	for _, captain := range captains {
		msg := mailer.Message{
			To:      captain.Email,
			Subject: fmt.Sprintf("Shipment %s is open for offers", label),
			Body: fmt.Sprintf(
				"Hello %s,\n\nShipment %s is now accepting offers from %s.\n\nMake an offer at %s/shipment/%s\n",
				captain.Name, label, captain.GroupName, n.baseURL, event.ShipmentID,
			),
		}
		if err := n.deliver(ctx, eventID, msg); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("email %s: %w", captain.Email, err))
		}
	}
	n.logg.Info(n.logg.WithFields(ctx, map[string]any{
		"shipment_id": event.ShipmentID.String(),
		"recipients":  len(captains),
	}), "shipment opening announced")
	return errs
}
