package config

const (
	DefaultBaseDir      = "~/.sheetsync"
	DefaultDBName       = "state.db"
	DefaultLogFile      = "sheetsync.log"
	DefaultWorkbookName = "customer_data.xlsx"

	ElevationAllow = "allow"
	ElevationAsk   = "ask"
	ElevationDeny  = "deny"

	PickerModeLine = "line"
	PickerModeTUI  = "tui"
)
