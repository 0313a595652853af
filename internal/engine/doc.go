// SPDX-License-Identifier: BSD-3-Clause

// Package engine implements the synchronization core: the phase
// tracker, the session driver that applies protocol records to the
// local mirror, and the synchronous callback dispatcher.
package engine
