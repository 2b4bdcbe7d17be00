package model

import "time"

// Resource is one inventory entry for a piece of laboratory equipment.
// (department, location, device_name) is NOT unique: several entries may
// share the triple and differ only by quantity or cost. SerialNo gives a
// deterministic ordering but is not an identity.
type Resource struct {
	BaseModel
	SerialNo        int64     `gorm:"uniqueIndex;not null" json:"sl_no"`
	DeviceName      string    `gorm:"type:varchar(200);not null;index" json:"device_name" validate:"required,min=2,max=200"`
	Quantity        int       `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Description     string    `gorm:"type:text" json:"description" validate:"max=1000"`
	ProcurementDate time.Time `json:"procurement_date"`
	Location        string    `gorm:"type:varchar(255);not null;index" json:"location" validate:"required,min=2"`
	Cost            float64   `gorm:"not null;default:0" json:"cost" validate:"gte=0"`
	Department      string    `gorm:"type:varchar(255);not null;index" json:"department" validate:"required,min=2"`
}

// TotalValue is the display value used by deletion previews.
func (r *Resource) TotalValue() float64 {
	return r.Cost * float64(r.Quantity)
}
