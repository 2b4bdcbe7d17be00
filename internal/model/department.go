package model

// Department is a denormalized summary entity. It is auto-created the first
// time a resource references an unknown department name, and its cached
// stats are recomputed from the resource collection after every mutation
// rather than adjusted incrementally.
type Department struct {
	BaseModel
	Name                 string   `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required,min=2"`
	Locations            []string `gorm:"serializer:json" json:"locations"`
	ResourceCount        int64    `gorm:"default:0" json:"resource_count"`
	TotalCost            float64  `gorm:"default:0" json:"total_cost"`
	UniqueDevicesCount   int64    `gorm:"default:0" json:"unique_devices_count"`
	UniqueLocationsCount int64    `gorm:"default:0" json:"unique_locations_count"`
}

// HasLocation reports whether the cached location list already contains loc.
func (d *Department) HasLocation(loc string) bool {
	for _, l := range d.Locations {
		if l == loc {
			return true
		}
	}
	return false
}
