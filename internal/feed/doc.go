// SPDX-License-Identifier: BSD-3-Clause

// Package feed defines the protocol record stream the synchronization
// engine consumes, and implements it over LDAP content synchronization
// (RFC 4533) in refreshAndPersist mode.
package feed
