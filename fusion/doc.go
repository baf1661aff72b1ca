// SPDX-License-Identifier: EPL-2.0

// Package fusion is the shared object registry of the sound core.
//
// Objects live in fixed capacity pools. Each carries an atomic reference
// count and moves through Init, Active, Zombie and Destroyed. The destructor
// registered with the pool runs exactly once, when the count drops to zero.
//
// An Owner stands for one client. Exiting an owner drops every reference it
// still holds; objects it created that other owners keep alive become
// zombies, and their destructor is told so.
//
// A Reactor delivers messages to attached listeners. Listeners may detach
// themselves by returning RSRemove, and a panicking listener is removed
// without disturbing the others.
package fusion
