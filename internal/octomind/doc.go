// Package octomind is a read-only client for the Octomind test-automation
// API: test targets, test reports (with nested results and steps), test
// cases, and keyset-paginated report listing.
package octomind
