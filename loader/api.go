package loader

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers the rule pack constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerRuleHelpers(L)
	registerSuffixHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Distribute("Target", "rule") or Distribute("Target", { "rule", ... })
	L.SetGlobal("Distribute", L.NewFunction(func(L *lua.LState) int {
		target := L.CheckString(1)
		rules := L.CheckAny(2)
		coll.add(target, rules, L.Where(1))
		return 0
	}))

	// Container "Target" { ... }: curried Distribute.
	L.SetGlobal("Container", L.NewFunction(func(L *lua.LState) int {
		target := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.add(target, tbl, L.Where(1))
			return 0
		}))
		return 1
	}))
}

// The helpers build rule strings in the INI grammar so a pack never has to
// spell out the punctuation.
func registerRuleHelpers(L *lua.LState) {
	// Add("item", count)
	L.SetGlobal("Add", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		count := L.CheckInt(2)
		L.Push(lua.LString(fmt.Sprintf("%s|%d", item, count)))
		return 1
	}))

	// Remove("item", count)
	L.SetGlobal("Remove", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		count := L.CheckInt(2)
		L.Push(lua.LString(fmt.Sprintf("-%s|%d", item, count)))
		return 1
	}))

	// RemoveAll("item")
	L.SetGlobal("RemoveAll", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		L.Push(lua.LString("-" + item))
		return 1
	}))

	// Replace("item", count, "with", withCount)
	L.SetGlobal("Replace", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		count := L.CheckInt(2)
		with := L.CheckString(3)
		withCount := L.CheckInt(4)
		L.Push(lua.LString(fmt.Sprintf("%s|%d^%s|%d", item, count, with, withCount)))
		return 1
	}))

	// ReplaceAll("item", "with"[, withCount])
	L.SetGlobal("ReplaceAll", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		with := L.CheckString(2)
		rule := item + "^" + with
		if n := L.OptInt(3, 0); n > 0 {
			rule = fmt.Sprintf("%s|%d", rule, n)
		}
		L.Push(lua.LString(rule))
		return 1
	}))
}

func registerSuffixHelpers(L *lua.LState) {
	// Chance(rule, percent)
	L.SetGlobal("Chance", L.NewFunction(func(L *lua.LState) int {
		rule := L.CheckString(1)
		percent := L.CheckInt(2)
		L.Push(lua.LString(fmt.Sprintf("%s?%d", rule, percent)))
		return 1
	}))

	// At(rule, "location"[, "keyword"]); pass "" as the location to scope by
	// keyword alone.
	L.SetGlobal("At", L.NewFunction(func(L *lua.LState) int {
		rule := L.CheckString(1)
		loc := L.CheckString(2)
		kw := L.OptString(3, "")
		scoped := rule + "@" + loc
		if kw != "" {
			scoped += "@" + kw
		}
		L.Push(lua.LString(scoped))
		return 1
	}))
}
