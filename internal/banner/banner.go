// Package banner renders the startup banner shown on stderr.
package banner

import "fmt"

const art = `
 _ _              _
(_) |__  _ __ ___/ |
| | '_ \| '_ ` + "`" + ` _ \ |
| | |_) | | | | | | |
|_|_.__/|_| |_| |_|_|
`

// Banner returns the banner text with the version appended.
func Banner(version string) string {
	return fmt.Sprintf("%s  word translation table trainer %s\n\n", art, version)
}
