package enums

import "testing"

func TestShipmentStatusVisibility(t *testing.T) {
	public := map[ShipmentStatus]bool{
		ShipmentStatusDraft:      false,
		ShipmentStatusAnnounced:  true,
		ShipmentStatusOpen:       true,
		ShipmentStatusStaging:    true,
		ShipmentStatusInProgress: true,
		ShipmentStatusComplete:   false,
		ShipmentStatusAbandoned:  false,
		ShipmentStatusArchived:   false,
	}
	for status, want := range public {
		if got := status.IsPublic(); got != want {
			t.Fatalf("status %s: expected public=%v got %v", status, want, got)
		}
	}

	statuses := PublicShipmentStatuses()
	statuses[0] = ShipmentStatusDraft
	if PublicShipmentStatuses()[0] != ShipmentStatusAnnounced {
		t.Fatal("PublicShipmentStatuses must return a copy")
	}
}

func TestParseRejectsUnknownValues(t *testing.T) {
	if _, err := ParseGroupType("DA_HUB"); err == nil {
		t.Fatal("expected group type parse to be case and format sensitive")
	}
	got, err := ParseGroupType("DaHub")
	if err != nil || got != GroupTypeDaHub {
		t.Fatalf("expected DaHub, got %q err=%v", got, err)
	}
	if _, err := ParseOfferStatus("Withdrawn"); err == nil {
		t.Fatal("expected unknown offer status to fail")
	}
	if !DangerousGoodsBattery.IsValid() || DangerousGoods("Radioactive").IsValid() {
		t.Fatal("dangerous goods validation mismatch")
	}
}
