// Package appfs embeds the static assets shipped with the binary:
// database migrations, email templates and the common-passwords list.
package appfs

import "embed"

//go:embed assets migrations templates
var FS embed.FS
