package service

import (
	"fmt"

	handlemodels "github.com/Malmz/TalesFromTheSprawl/internal/handle/models"
)

// Coin is the in-world currency symbol used in reports.
const Coin = "¥"

func loadingLine(handleID string) string {
	return fmt.Sprintf("Loading known data for %s...\n\n", handleID)
}

func balanceLine(handleID string, amount int) string {
	return fmt.Sprintf("Initial balance of %s: %s %d\n\n", handleID, Coin, amount)
}

func aliasLine(kind handlemodels.HandleKind, handleID string, amount int) string {
	ending := ""
	if amount != 0 {
		ending = fmt.Sprintf(" with %s %d", Coin, amount)
	}
	switch kind {
	case handlemodels.KindRegular:
		return fmt.Sprintf("- Connected alias: regular handle %s%s\n", handleID, ending)
	case handlemodels.KindBurner:
		return fmt.Sprintf("- Connected alias: burner handle %s%s\n", handleID, ending)
	case handlemodels.KindNPC:
		return fmt.Sprintf("  [OFF: added %s as an NPC handle%s.]\n", handleID, ending)
	}
	return ""
}

// aliasKindNote is the per-kind trailing summary appended when at least one
// alias of that kind was newly added.
func aliasKindNote(kind handlemodels.HandleKind) string {
	switch kind {
	case handlemodels.KindRegular:
		return "\n"
	case handlemodels.KindBurner:
		return "  (Use \".burn <burner_name>\" to destroy a burner and erase its tracks)\n\n"
	case handlemodels.KindNPC:
		return "  [OFF: NPC handles let you act as someone else, and cannot be traced to your other handles.]\n\n"
	}
	return ""
}

func groupLine(channelRef string) string {
	return fmt.Sprintf("- Confirmed group membership: %s\n", channelRef)
}

func groupsNote() string {
	return "  Keep in mind that you can access your groups using all your handles.\n\n"
}

func allLoadedLine(handleID string) string {
	return fmt.Sprintf("All data loaded. Welcome, %s.", handleID)
}

func welcomeLine(handleID string) string {
	return fmt.Sprintf("Handle %s is now yours. Welcome, %s.", handleID, handleID)
}

func rejectedReport(rawHandleID string) string {
	return fmt.Sprintf("Failed: invalid starting handle %q (or handle is already taken).", rawHandleID)
}

func busyReport() string {
	return "Failed: system is too busy. Wait a few minutes and try again."
}
