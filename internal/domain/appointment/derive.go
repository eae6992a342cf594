package appointment

// Appointment statuses per FHIR R4.
var validStatuses = map[string]bool{
	"proposed": true, "pending": true, "booked": true, "arrived": true,
	"fulfilled": true, "cancelled": true, "noshow": true,
	"entered-in-error": true, "checked-in": true, "waitlist": true,
}

// DeriveSlotStatus maps an appointment status to the slot status its slots
// should carry. The second return is false for unrecognized statuses, which
// still derive to busy so an unknown state never frees a slot.
func DeriveSlotStatus(appointmentStatus string) (string, bool) {
	switch appointmentStatus {
	case "pending", "booked", "arrived", "checked-in", "fulfilled":
		return "busy", true
	case "proposed":
		return "busy-tentative", true
	case "cancelled", "noshow", "waitlist":
		return "free", true
	case "entered-in-error":
		return "entered-in-error", true
	default:
		return "busy", false
	}
}
