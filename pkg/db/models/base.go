package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// assignID fills a missing primary key before insert. Postgres also has a
// gen_random_uuid() default; setting it here keeps sqlite test databases
// behaving the same way.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *UserAccount) BeforeCreate(*gorm.DB) error {
	assignID(&u.ID)
	return nil
}

func (v *VerificationToken) BeforeCreate(*gorm.DB) error {
	assignID(&v.ID)
	return nil
}

func (g *Group) BeforeCreate(*gorm.DB) error {
	assignID(&g.ID)
	return nil
}

func (s *Shipment) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}

func (o *Offer) BeforeCreate(*gorm.DB) error {
	assignID(&o.ID)
	return nil
}

func (p *Pallet) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	return nil
}

func (l *LineItem) BeforeCreate(*gorm.DB) error {
	assignID(&l.ID)
	return nil
}

func (e *ShipmentExport) BeforeCreate(*gorm.DB) error {
	assignID(&e.ID)
	return nil
}

func (e *OutboxEvent) BeforeCreate(*gorm.DB) error {
	assignID(&e.ID)
	return nil
}
