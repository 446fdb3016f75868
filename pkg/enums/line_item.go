package enums

import "fmt"

// LineItemStatus records whether the receiving side accepted an item.
type LineItemStatus string

const (
	LineItemStatusProposed         LineItemStatus = "Proposed"
	LineItemStatusAwaitingApproval LineItemStatus = "AwaitingApproval"
	LineItemStatusAccepted         LineItemStatus = "Accepted"
	LineItemStatusNotAccepted      LineItemStatus = "NotAccepted"
)

var validLineItemStatuses = []LineItemStatus{
	LineItemStatusProposed,
	LineItemStatusAwaitingApproval,
	LineItemStatusAccepted,
	LineItemStatusNotAccepted,
}

// String implements fmt.Stringer.
func (s LineItemStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known LineItemStatus.
func (s LineItemStatus) IsValid() bool {
	for _, candidate := range validLineItemStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseLineItemStatus converts raw input into a LineItemStatus.
func ParseLineItemStatus(value string) (LineItemStatus, error) {
	for _, candidate := range validLineItemStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid line item status %q", value)
}

// LineItemContainerType describes how goods are packed on the pallet.
type LineItemContainerType string

const (
	ContainerTypeUnset      LineItemContainerType = "Unset"
	ContainerTypeBulkBag    LineItemContainerType = "BulkBag"
	ContainerTypeBox        LineItemContainerType = "Box"
	ContainerTypeFullPallet LineItemContainerType = "FullPallet"
)

var validContainerTypes = []LineItemContainerType{
	ContainerTypeUnset,
	ContainerTypeBulkBag,
	ContainerTypeBox,
	ContainerTypeFullPallet,
}

// String implements fmt.Stringer.
func (c LineItemContainerType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known LineItemContainerType.
func (c LineItemContainerType) IsValid() bool {
	for _, candidate := range validContainerTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseLineItemContainerType converts raw input into a LineItemContainerType.
func ParseLineItemContainerType(value string) (LineItemContainerType, error) {
	for _, candidate := range validContainerTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid container type %q", value)
}

// LineItemCategory groups goods for the receiving side.
type LineItemCategory string

const (
	CategoryUnset     LineItemCategory = "Unset"
	CategoryClothing  LineItemCategory = "Clothing"
	CategoryFood      LineItemCategory = "Food"
	CategoryHygiene   LineItemCategory = "Hygiene"
	CategoryPPE       LineItemCategory = "Ppe"
	CategoryEducation LineItemCategory = "Education"
	CategoryMedical   LineItemCategory = "Medical"
	CategoryShelter   LineItemCategory = "Shelter"
	CategoryEquipment LineItemCategory = "Equipment"
	CategoryOther     LineItemCategory = "Other"
)

var validLineItemCategories = []LineItemCategory{
	CategoryUnset,
	CategoryClothing,
	CategoryFood,
	CategoryHygiene,
	CategoryPPE,
	CategoryEducation,
	CategoryMedical,
	CategoryShelter,
	CategoryEquipment,
	CategoryOther,
}

// String implements fmt.Stringer.
func (c LineItemCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known LineItemCategory.
func (c LineItemCategory) IsValid() bool {
	for _, candidate := range validLineItemCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseLineItemCategory converts raw input into a LineItemCategory.
func ParseLineItemCategory(value string) (LineItemCategory, error) {
	for _, candidate := range validLineItemCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid line item category %q", value)
}

// DangerousGoods flags hazardous contents that need special handling.
type DangerousGoods string

const (
	DangerousGoodsFlammable DangerousGoods = "Flammable"
	DangerousGoodsExplosive DangerousGoods = "Explosive"
	DangerousGoodsMedicine  DangerousGoods = "Medicine"
	DangerousGoodsBattery   DangerousGoods = "Battery"
	DangerousGoodsOther     DangerousGoods = "Other"
)

var validDangerousGoods = []DangerousGoods{
	DangerousGoodsFlammable,
	DangerousGoodsExplosive,
	DangerousGoodsMedicine,
	DangerousGoodsBattery,
	DangerousGoodsOther,
}

// String implements fmt.Stringer.
func (d DangerousGoods) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DangerousGoods.
func (d DangerousGoods) IsValid() bool {
	for _, candidate := range validDangerousGoods {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDangerousGoods converts raw input into a DangerousGoods.
func ParseDangerousGoods(value string) (DangerousGoods, error) {
	for _, candidate := range validDangerousGoods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid dangerous goods value %q", value)
}
