package cli

import (
	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("sanctrack version %s\n", displayVersion(version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// displayVersion normalises a semver build version ("v1.2.0" becomes
// "1.2.0"). Anything that does not parse, such as "dev", is shown as is.
func displayVersion(v string) string {
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return v
	}
	out := parsed.String()
	if parsed.Prerelease() != "" {
		out += " (pre-release)"
	}
	return out
}
