// # internal/shared/version/version.go
package version

// Version is stamped into generated reports.
const Version = "1.0.0"
