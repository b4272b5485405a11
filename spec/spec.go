// Package spec embeds the OpenAPI description of the Vadtrans API. The HTTP
// server serves it at /openapi.yaml so clients always read the contract of
// the binary they are talking to.
package spec

import _ "embed"

//go:embed openapi.yaml
var OpenAPI []byte
