// Package templates embeds the HTML page set so rendering does not depend
// on the working directory of the process.
package templates

import "embed"

//go:embed *.html
var FS embed.FS
