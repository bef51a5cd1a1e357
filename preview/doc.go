// SPDX-License-Identifier: EPL-2.0

// Package preview pushes freshly produced timelines to websocket clients,
// so a player or haptic test rig can follow a watch session live.
//
// Each message is a JSON Message envelope; clients only listen.
package preview
