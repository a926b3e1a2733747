package i18n

// EnMessages English message catalog
var EnMessages = map[string]string{
	// Connection status
	"status.not_connected": "Not connected",
	"status.connecting":    "Connecting...",
	"status.connected":     "Connected: %s",
	"status.lapsed":        "Permission lapsed for %s; reconnect to continue",
	"status.store_error":   "Not connected (saved connection could not be read)",
	"status.error":         "Connection error: %s",

	// connect
	"connect.ok":        "Connected to %s",
	"connect.cancelled": "Connection cancelled",
	"connect.denied":    "Write permission denied for %s",
	"connect.error":     "Connection failed: %s",

	// add / append
	"append.updated":           "Record appended to %s at %s",
	"append.not_connected":     "Not connected. Run `sheetsync connect` first.",
	"append.permission_denied": "Write permission denied for %s",
	"append.format_error":      "%s is not a valid workbook; it was left unchanged",
	"append.cancelled":         "Connection cancelled; record not written",
	"append.error":             "Append failed: %s",
	"append.invalid":           "Invalid record: %s",

	// history
	"history.saved":   "Saved locally as %s",
	"history.removed": "Removed %s",
	"history.empty":   "No local records.",
	"history.error":   "Local history not saved: %s",

	// import / show
	"import.done": "Imported %d of %d records",
	"show.empty":  "The workbook has no records yet.",

	// disconnect / init
	"disconnect.ok": "Disconnected",
	"init.created":  "Project config at %s",

	// Prompts
	"prompt.pick_target": "Save workbook as [%s]: ",
	"prompt.elevate":     "%s is not writable. Grant write access? [y/N]: ",

	// Save dialog (TUI)
	"dialog.title": "Choose where to save the workbook",
	"dialog.hint":  "enter confirm · esc cancel",

	// Shell
	"shell.welcome":   "sheetsync shell. Type /help for commands.",
	"shell.help":      "/connect  /status  /add  /show  /history  /disconnect  /quit",
	"shell.unknown":   "Unknown command: %s",
	"shell.add_usage": "usage: /add <date> | <name> | <contact> | <address> | <volume>",
}
