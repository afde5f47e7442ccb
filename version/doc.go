// Package version carries build metadata for accountdesk binaries.
//
// The variables are stamped at link time:
//
//	go build -ldflags "\
//	  -X github.com/ncobase/accountdesk/version.Version=1.2.3 \
//	  -X github.com/ncobase/accountdesk/version.Branch=main \
//	  -X github.com/ncobase/accountdesk/version.Revision=abc123 \
//	  -X 'github.com/ncobase/accountdesk/version.BuiltAt=$(date)'"
//
// Unstamped builds fall back to the VCS settings the Go toolchain embeds.
package version
