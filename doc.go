// Package facadegen compiles versioned facade schemas into typed Go client
// bindings.
//
//   - Input is one or more schema bundles (package schema), one per server
//     release, each a list of {Name, Version, Schema} facade records.
//   - Generate resolves definitions (forward references, cycles, hoisted inline
//     objects, wildcard maps), compiles every facade method and renders three
//     kinds of Go files: client_v<N>.go per version, definitions.go and
//     client.go.
//   - Generated code imports the runtime support library in package rpc.
//
// Design policy:
//
//   - Keep only public APIs in the root package; put the compiler and emitter
//     under internal/.
//   - A run is a pure function of its input: no state outlives Generate.
//   - Build errors abort the run before anything is rendered.
//
// Typical usage:
//
//	bundles, err := schema.LoadGlob("schemas/schemas-juju-*.json")
//	arts, err := facadegen.Generate(bundles, facadegen.Options{Package: "client"})
//	err = arts.WriteDir(ctx, "client")
package facadegen
