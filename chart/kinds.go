package chart

// Slot is one of the four fixed screen-relative regions used for floating
// annotation placement. The assignment is configuration per chart kind,
// not computed state.
type Slot int

const (
	SlotTopLeft Slot = iota
	SlotTopRight
	SlotBottomLeft
	SlotBottomRight
)

// Top reports whether the slot stacks from the top margin.
func (s Slot) Top() bool { return s == SlotTopLeft || s == SlotTopRight }

// RightAnchored reports whether labels in this slot anchor their right
// edge at the cursor (and are therefore drawn to the cursor's left).
func (s Slot) RightAnchored() bool { return s == SlotTopRight || s == SlotBottomRight }

// Kind names a chart panel type in the viewer.
type Kind string

const (
	KindSpeed       Kind = "speed"
	KindBattery     Kind = "battery"
	KindTemperature Kind = "temperature"
	KindTilt        Kind = "tilt"
)

// AllKinds lists the panel types in viewer order.
var AllKinds = []Kind{KindSpeed, KindBattery, KindTemperature, KindTilt}

// SeriesStyle is the static per-series configuration a kind applies when
// extracting its dataset from a parsed ride log.
type SeriesStyle struct {
	Color      string
	FillColor  string
	Unit       string
	Axis       AxisRole
	Fill       bool
	Slot       Slot
	HasSlot    bool // series without a slot are not annotated
	Percentage bool // forces the fixed 0-100 range on its axis
	DarkText   bool // annotation legibility exception (light backgrounds)
}

// KindSpec is the data-driven configuration table for one chart kind.
type KindSpec struct {
	Kind          Kind
	Title         string
	Order         []string // extraction and z-order
	Styles        map[string]SeriesStyle
	SymmetricZero bool // signed angular data, zero vertically centered
}

var kindSpecs = map[Kind]KindSpec{
	KindSpeed: {
		Kind:  KindSpeed,
		Title: "Speed",
		Order: []string{"Altitude (GPS)", "Speed (GPS)", "Speed (Wheel)"},
		Styles: map[string]SeriesStyle{
			"Speed (Wheel)": {Color: "#2f8fff", Unit: "km/h", Axis: AxisPrimary, Slot: SlotTopRight, HasSlot: true},
			"Speed (GPS)":   {Color: "#00c896", Unit: "km/h", Axis: AxisPrimary, Slot: SlotTopLeft, HasSlot: true},
			"Altitude (GPS)": {
				Color: "#d7d7a0", Unit: "m", Axis: AxisSecondary, Fill: true,
				Slot: SlotBottomRight, HasSlot: true, DarkText: true,
			},
		},
	},
	KindBattery: {
		Kind:  KindBattery,
		Title: "Battery / PWM",
		Order: []string{"Voltage", "Current", "PWM", "Battery"},
		Styles: map[string]SeriesStyle{
			"Battery": {Color: "#50c878", Unit: "%", Axis: AxisPrimary, Fill: true, Slot: SlotTopRight, HasSlot: true, Percentage: true},
			"PWM":     {Color: "#ff5050", Unit: "%", Axis: AxisPrimary, Slot: SlotTopLeft, HasSlot: true, Percentage: true},
			"Voltage": {Color: "#c8a000", Unit: "V", Axis: AxisSecondary, Slot: SlotBottomRight, HasSlot: true},
			"Current": {Color: "#ff8c00", Unit: "A", Axis: AxisSecondary, Slot: SlotBottomLeft, HasSlot: true},
		},
	},
	KindTemperature: {
		Kind:  KindTemperature,
		Title: "Temperature / Power",
		Order: []string{"Power", "Temperature"},
		Styles: map[string]SeriesStyle{
			"Temperature": {Color: "#ff6464", Unit: "°C", Axis: AxisPrimary, Fill: true, Slot: SlotTopRight, HasSlot: true},
			"Power":       {Color: "#9664ff", Unit: "W", Axis: AxisSecondary, Slot: SlotBottomLeft, HasSlot: true},
		},
	},
	KindTilt: {
		Kind:          KindTilt,
		Title:         "Tilt / Roll",
		Order:         []string{"Roll", "Tilt"},
		SymmetricZero: true,
		Styles: map[string]SeriesStyle{
			"Tilt": {Color: "#2f8fff", Unit: "°", Axis: AxisPrimary, Slot: SlotTopRight, HasSlot: true},
			"Roll": {Color: "#00c896", Unit: "°", Axis: AxisPrimary, Slot: SlotTopLeft, HasSlot: true},
		},
	},
}

// Spec returns the configuration table for a kind. Unknown kinds get an
// empty spec that plots nothing.
func Spec(k Kind) KindSpec {
	if s, ok := kindSpecs[k]; ok {
		return s
	}
	return KindSpec{Kind: k}
}

// Dataset extracts and styles this kind's series subset from a parsed ride
// log. Series missing from the master dataset are skipped; the master is
// never mutated.
func (k KindSpec) Dataset(master *Dataset) *Dataset {
	if master == nil {
		return nil
	}
	out := &Dataset{Timestamps: master.Timestamps}
	for _, name := range k.Order {
		src := master.SeriesByName(name)
		if src == nil {
			continue
		}
		style := k.Styles[name]
		out.Series = append(out.Series, Series{
			Name:      name,
			Values:    src.Values,
			Color:     style.Color,
			FillColor: style.FillColor,
			Unit:      style.Unit,
			Axis:      style.Axis,
			Fill:      style.Fill,
		})
	}
	return out
}

// AxisMode derives the range mode for one axis role: symmetric-zero kinds
// recenter, axes carrying any percentage-flagged series are pinned to
// 0-100, everything else is dynamic.
func (k KindSpec) AxisMode(role AxisRole) AxisMode {
	if k.SymmetricZero {
		return ModeSymmetricZero
	}
	for _, st := range k.Styles {
		if st.Axis == role && st.Percentage {
			return ModeFixedPercentage
		}
	}
	return ModeDynamic
}

// Annotation returns the slot configuration for a series name.
func (k KindSpec) Annotation(name string) (SeriesStyle, bool) {
	st, ok := k.Styles[name]
	if !ok || !st.HasSlot {
		return SeriesStyle{}, false
	}
	return st, true
}
