package types

import "database/sql/driver"

// Contact is a person reachable for a group or an offer. Name and email are
// required; the messenger handles are free text.
type Contact struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Email    *string `json:"email,omitempty" validate:"required,email"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=40"`
	Signal   *string `json:"signal,omitempty" validate:"omitempty,max=40"`
	WhatsApp *string `json:"whatsApp,omitempty" validate:"omitempty,max=40"`
}

func (c Contact) Value() (driver.Value, error) {
	return marshalJSONB(c)
}

func (c *Contact) Scan(value interface{}) error {
	if value == nil {
		*c = Contact{}
		return nil
	}
	var out Contact
	if err := scanJSONB("contact", value, &out); err != nil {
		return err
	}
	*c = out
	return nil
}

// NullableContact stores an optional contact; SQL NULL scans to nil.
type NullableContact struct {
	Contact *Contact
}

func (n NullableContact) Value() (driver.Value, error) {
	if n.Contact == nil {
		return nil, nil
	}
	return marshalJSONB(n.Contact)
}

func (n *NullableContact) Scan(value interface{}) error {
	if value == nil {
		n.Contact = nil
		return nil
	}
	var out Contact
	if err := scanJSONB("contact", value, &out); err != nil {
		return err
	}
	n.Contact = &out
	return nil
}
