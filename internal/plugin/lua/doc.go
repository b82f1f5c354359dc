// Package lua runs Lua scripts that contribute items to the palette.
//
// Each script runs in its own sandboxed state with only the base, table,
// string and math libraries. Scripts see a global "meos" module:
//
//	meos.register{ id = "gh", name = "GitHub", type = "app", keywords = { "code" } }
//	meos.register{ name = "Blog Archive", type = "document" }
//	for _, item in ipairs(meos.list()) do print(item.id) end
//
// register returns the item id; items without one get a stable id derived
// from their type and name. Items from a script named links.lua are
// registered under the source "plugin:links" so a reload replaces them.
//
// Every script run is bounded by a timeout. A script that does not finish
// in time is aborted and its items are discarded.
package lua
