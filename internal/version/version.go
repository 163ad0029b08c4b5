package version

import "github.com/idpack-cloud/idc-go/pkg/idc"

// Version is the CLI version. It defaults to the client version sent on the
// wire and may be overridden at build time with
// -ldflags "-X github.com/idpack-cloud/idc-go/internal/version.Version=...".
var Version = idc.Version
