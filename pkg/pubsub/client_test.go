package pubsub

import (
	"context"
	"testing"
)

func TestResourceNames(t *testing.T) {
	c := &Client{projectID: "relief-project"}

	if got := c.resourceName("topics", "domain-events"); got != "projects/relief-project/topics/domain-events" {
		t.Fatalf("unexpected topic name %q", got)
	}
	full := "projects/other/topics/domain-events"
	if got := c.resourceName("topics", full); got != full {
		t.Fatalf("expected full topic name to pass through, got %q", got)
	}
	if got := c.resourceName("subscriptions", full); got != "projects/relief-project/subscriptions/"+full {
		t.Fatalf("topic path must not pass as a subscription, got %q", got)
	}
	if got := c.resourceName("subscriptions", " notifications "); got != "projects/relief-project/subscriptions/notifications" {
		t.Fatalf("unexpected subscription name %q", got)
	}
	if got := c.resourceName("subscriptions", ""); got != "" {
		t.Fatalf("expected empty name, got %q", got)
	}
}

func TestNilClientHandles(t *testing.T) {
	var c *Client
	if c.Publisher("topic") != nil {
		t.Fatal("expected nil publisher")
	}
	if c.Subscription("sub") != nil {
		t.Fatal("expected nil subscriber")
	}
	if c.NotificationSubscription() != nil {
		t.Fatal("expected nil notification subscriber")
	}
	if err := c.Ping(context.Background()); err == nil {
		t.Fatal("expected ping on nil client to fail")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
