// Command facadegen generates typed Go client bindings from versioned facade
// schema files.
package main

func main() {
	Execute()
}
