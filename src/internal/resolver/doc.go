// Package resolver checks whether the host of a dashboard entry resolves in DNS.
package resolver
