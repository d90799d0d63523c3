package domain

import "time"

// TimestampLayout is the format used for RecordedAt in JSON and exports
const TimestampLayout = "2006-01-02 15:04:05"

// Vehicle is one captured plate/odometer pair in an operator's session
type Vehicle struct {
	Plate      string    `json:"plate"`
	Odometer   string    `json:"odometer"`
	RecordedAt time.Time `json:"-"`
}

// RecordedAtString formats RecordedAt for display and export
func (v Vehicle) RecordedAtString() string {
	if v.RecordedAt.IsZero() {
		return ""
	}
	return v.RecordedAt.Format(TimestampLayout)
}

// VehicleView is the JSON representation of a Vehicle
type VehicleView struct {
	Plate      string `json:"plate"`
	Odometer   string `json:"odometer"`
	RecordedAt string `json:"recorded_at"`
}

// View converts a Vehicle into its JSON representation
func (v Vehicle) View() VehicleView {
	return VehicleView{
		Plate:      v.Plate,
		Odometer:   v.Odometer,
		RecordedAt: v.RecordedAtString(),
	}
}

// ViewAll converts a list of vehicles, never returning nil
func ViewAll(vehicles []Vehicle) []VehicleView {
	out := make([]VehicleView, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, v.View())
	}
	return out
}
