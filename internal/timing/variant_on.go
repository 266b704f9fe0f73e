//go:build time_orizon

package timing

// BuildVariant is true in binaries built with -tags time_orizon.
const BuildVariant = true
