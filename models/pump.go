package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PumpOwner is the business account that registers pumps and receives
// settled fuel revenue through its pump wallet.
type PumpOwner struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`

	BusinessName string `gorm:"type:varchar(100);not null" json:"business_name"`
	Email        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Phone        string `gorm:"type:varchar(20)" json:"phone,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate ensures UUID is set
func (o *PumpOwner) BeforeCreate(tx *gorm.DB) error {
	if o.UUID == uuid.Nil {
		o.UUID = uuid.New()
	}
	return nil
}

// Pump is a fuel dispensing station belonging to a pump owner
type Pump struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`

	OwnerID   uint   `gorm:"not null;index" json:"owner_id"`
	Name      string `gorm:"type:varchar(100);not null" json:"name"`
	Location  string `gorm:"type:varchar(200)" json:"location,omitempty"`
	FuelTypes string `gorm:"type:varchar(100)" json:"fuel_types,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Owner PumpOwner `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

// BeforeCreate ensures UUID is set
func (p *Pump) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	return nil
}

// Driver is the account paying for fuel out of a driver wallet
type Driver struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`

	FullName string `gorm:"type:varchar(100);not null" json:"full_name"`
	Email    string `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Phone    string `gorm:"type:varchar(20)" json:"phone,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate ensures UUID is set
func (d *Driver) BeforeCreate(tx *gorm.DB) error {
	if d.UUID == uuid.Nil {
		d.UUID = uuid.New()
	}
	return nil
}

// Vehicle links a licence plate to the driver whose wallet pays for its
// fuel. Plate is stored normalized; see NormalizePlate.
type Vehicle struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`

	DriverID uint   `gorm:"not null;index" json:"driver_id"`
	Plate    string `gorm:"type:varchar(50);uniqueIndex;not null" json:"plate"`
	Model    string `gorm:"type:varchar(100)" json:"model,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Driver Driver `gorm:"foreignKey:DriverID;constraint:OnDelete:CASCADE" json:"driver,omitempty"`
}

// BeforeCreate ensures UUID is set and the plate is normalized
func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	if v.UUID == uuid.Nil {
		v.UUID = uuid.New()
	}
	v.Plate = NormalizePlate(v.Plate)
	return nil
}

// NormalizePlate upper-cases a licence plate and strips all whitespace so
// that "mh 12 ab 1234" and "MH12AB1234" compare equal.
func NormalizePlate(plate string) string {
	return strings.Join(strings.Fields(strings.ToUpper(plate)), "")
}
