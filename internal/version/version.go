// Package version holds build metadata, overridable with -ldflags.
package version

// Version is the application version.
var Version = "dev"

// Commit is the VCS revision the binary was built from.
var Commit = "unknown"

// Features lists optional capabilities exposed by this build.
var Features = map[string]bool{
	"lot_strategies":        true,
	"fixed_deposit_settle":  true,
	"mid_market_conversion": true,
}
