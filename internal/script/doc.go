// Package script runs Lua scripts that extend the editor.
//
// Scripts run in a gopher-lua state with the base, table, string and
// math libraries only. They reach the editor through the global docedit
// table:
//
//	docedit.action(name, fn)        register fn as an intent
//	docedit.bind(keys, intent)      bind a key combination to an intent
//	docedit.run(intent)             run an intent, returns handled
//	docedit.insert(text)            replace the selection with text
//	docedit.select(position, len)   move the selection
//	docedit.selection()             returns position, length
//	docedit.selected_text()         returns the selected text
//	docedit.text()                  returns the document text
//	docedit.log(message)            write to the editor log
//
// An action function returning false reports the key as unhandled; any
// other result, including none, reports it handled.
//
// A Host is not safe for concurrent use. Drive it from the goroutine that
// dispatches input.
package script
