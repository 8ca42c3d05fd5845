// Package tools defines tool descriptors, the catalog, the handler table,
// and the invoker.
//
// Includes:
//   - Descriptor: name, description, parameter schema, execution mode.
//   - Catalog: validated registry plus provider-shaped projections.
//   - HandlerTable: name -> handler map pre-loaded with built-ins.
//   - Invoker: argument validation and dispatch; always resolves to a Result.
//   - GenerateSchema[T](): derive a parameter Schema from Go structs.
//
// Invariant: Invoker.Execute never returns a Go error. Every failure mode,
// including handler panics, resolves to Result{Success: false}.
package tools
