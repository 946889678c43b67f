package notification

import (
	"fmt"
	"strings"
)

// Descriptor identifies the request a notification is about.
type Descriptor struct {
	Kind         string
	RequestID    string
	EmployeeName string
	Period       string
}

func (d Descriptor) title() string {
	if d.Kind == "" {
		return "Request"
	}
	return strings.ToUpper(d.Kind[:1]) + d.Kind[1:] + " Request"
}

func (d Descriptor) lowerTitle() string { return strings.ToLower(d.title()) }

func approvalNeeded(d Descriptor) (string, string) {
	subject := d.title() + " Approval Needed"
	msg := fmt.Sprintf("A %s from %s", d.lowerTitle(), d.EmployeeName)
	if d.Period != "" {
		msg += " for " + d.Period
	}
	msg += fmt.Sprintf(" is waiting for your approval (reference %s).", d.RequestID)
	return subject, msg
}

func approved(d Descriptor) (string, string) {
	return d.title() + " Approved",
		fmt.Sprintf("Your %s (reference %s) has been fully approved.", d.lowerTitle(), d.RequestID)
}

func rejected(d Descriptor, tier string) (string, string) {
	return d.title() + " Rejected",
		fmt.Sprintf("Your %s (reference %s) was rejected at the %s review.", d.lowerTitle(), d.RequestID, tierLabel(tier))
}

func completed(d Descriptor) (string, string) {
	return d.title() + " Completed",
		fmt.Sprintf("Your %s (reference %s) is ready. The document is attached.", d.lowerTitle(), d.RequestID)
}

func tierLabel(tier string) string {
	switch tier {
	case "Manager":
		return "manager"
	case "PlantManager":
		return "plant manager"
	case "CEO":
		return "CEO"
	}
	return strings.ToLower(tier)
}
